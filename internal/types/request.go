package types

import "github.com/go-playground/validator/v10"

// Minimum input lengths required before a generation request may be issued.
const (
	MinResumeTextLength     = 50
	MinJobDescriptionLength = 100
)

// UserConfig represents the tuning configuration a user submits with a
// generation request. It is mutable until the request is issued.
type UserConfig struct {
	Seniority    string `json:"seniority" validate:"required,oneof=Intern Junior Mid Senior"`
	Tone         string `json:"tone" validate:"required,oneof=Professional Confident Direct"`
	PrimaryNiche string `json:"primaryNiche" validate:"required"`
	SubNiche     string `json:"subNiche"`
}

// GenerationRequest represents the validated input for one coarse generation call
type GenerationRequest struct {
	ResumeText     string     `json:"resumeText" validate:"required,min=50"`
	JobDescription string     `json:"jobDescription" validate:"required,min=100"`
	Config         UserConfig `json:"config" validate:"required"`
}

// DefaultUserConfig returns the configuration preselected for a fresh workflow
func DefaultUserConfig() UserConfig {
	return UserConfig{
		Seniority:    "Junior",
		Tone:         "Professional",
		PrimaryNiche: "Software Engineering",
	}
}

// Validate validates the UserConfig using the validator.
func (c *UserConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Validate validates the GenerationRequest using the validator.
// The min tags encode the resume and job description length thresholds.
func (r *GenerationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
