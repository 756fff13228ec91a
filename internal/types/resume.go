// Package types provides type definitions for structured data used throughout the ATS optimization core.
package types

// ContactInfo represents the contact block of an optimized resume
type ContactInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location,omitempty"`
}

// ExperienceEntry represents one work experience item with its rewritten bullets.
// ID is assigned once when the entry is created and never reassigned; it is the
// stable address for field-scoped regeneration.
type ExperienceEntry struct {
	ID      string   `json:"id"`
	Role    string   `json:"role"`
	Company string   `json:"company"`
	Dates   string   `json:"dates"`
	Bullets []string `json:"bullets"`
}

// EducationEntry represents one education item
type EducationEntry struct {
	ID     string `json:"id"`
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
}

// ResumeDocument is the canonical structured representation of a restructured resume
type ResumeDocument struct {
	Contact        ContactInfo       `json:"contact"`
	Summary        string            `json:"summary"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Skills         []string          `json:"skills"`
	Certifications []string          `json:"certifications,omitempty"`
}
