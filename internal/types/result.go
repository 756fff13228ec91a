package types

// AnalysisReport represents the keyword-match analysis produced for one optimization run
type AnalysisReport struct {
	MatchScore      int      `json:"matchScore"`
	FoundKeywords   []string `json:"foundKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Recommendations []string `json:"recommendations"`
}

// OptimizationOutcome is the payload of one coarse generation call: the
// restructured resume plus the companion artifacts. It never exists partially
// populated; a generation failure yields no outcome at all.
type OptimizationOutcome struct {
	Resume          ResumeDocument `json:"resume"`
	CoverLetter     string         `json:"coverLetter"`
	LinkedInSummary string         `json:"linkedinSummary"`
	Analysis        AnalysisReport `json:"analysis"`
	TargetRole      string         `json:"targetRole"`
}

// OptimizationResult is the unit of persistence and history display.
// It snapshots both the original inputs and the generated outcome.
// CreatedAt is a unix timestamp in milliseconds.
type OptimizationResult struct {
	ID                 string         `json:"id"`
	CreatedAt          int64          `json:"createdAt"`
	OriginalResumeText string         `json:"originalResumeText"`
	JobDescription     string         `json:"jobDescription"`
	OptimizedResume    ResumeDocument `json:"optimizedResume"`
	CoverLetter        string         `json:"coverLetter"`
	LinkedInSummary    string         `json:"linkedinSummary"`
	Analysis           AnalysisReport `json:"analysis"`
	TargetRole         string         `json:"targetRole"`
}
