// Package document provides the editable model for one optimization result's
// resume. All operations are pure: they deep-copy the input document and
// return a new value, so edits never alias each other's nested collections.
package document

import (
	"fmt"
	"strings"

	"github.com/mohanadbarakat001/ATS/internal/types"
)

// ContactField names an editable scalar on the contact block
type ContactField string

// Contact fields addressable through SetContactField.
const (
	ContactFullName ContactField = "fullName"
	ContactEmail    ContactField = "email"
	ContactPhone    ContactField = "phone"
	ContactLinkedIn ContactField = "linkedin"
	ContactLocation ContactField = "location"
)

// ExperienceField names an editable scalar on an experience entry
type ExperienceField string

// Experience fields addressable through SetExperienceField.
const (
	ExperienceRole    ExperienceField = "role"
	ExperienceCompany ExperienceField = "company"
	ExperienceDates   ExperienceField = "dates"
)

// EntryRef addresses an experience entry by stable id, falling back to a
// positional index when ID is empty. Stable ids survive reordering; indexes
// are only trustworthy within a single edit session.
type EntryRef struct {
	ID    string
	Index int
}

// ByID returns a ref addressing an entry by its stable identifier
func ByID(id string) EntryRef {
	return EntryRef{ID: id}
}

// ByIndex returns a ref addressing an entry by position
func ByIndex(i int) EntryRef {
	return EntryRef{ID: "", Index: i}
}

// EntryNotFoundError reports a ref that matches no experience entry
type EntryNotFoundError struct {
	Ref EntryRef
}

func (e *EntryNotFoundError) Error() string {
	if e.Ref.ID != "" {
		return fmt.Sprintf("experience entry %q not found", e.Ref.ID)
	}
	return fmt.Sprintf("experience entry index %d out of range", e.Ref.Index)
}

// BulletRangeError reports a bullet index outside an entry's bullet list
type BulletRangeError struct {
	EntryID string
	Index   int
}

func (e *BulletRangeError) Error() string {
	return fmt.Sprintf("bullet index %d out of range for entry %q", e.Index, e.EntryID)
}

// Clone returns a deep copy of the document. Mutating the copy never affects
// the original, including its nested bullet and skill slices.
func Clone(doc types.ResumeDocument) types.ResumeDocument {
	out := doc

	out.Experience = make([]types.ExperienceEntry, len(doc.Experience))
	for i, exp := range doc.Experience {
		out.Experience[i] = exp
		out.Experience[i].Bullets = append([]string(nil), exp.Bullets...)
	}

	out.Education = append([]types.EducationEntry(nil), doc.Education...)
	out.Skills = append([]string(nil), doc.Skills...)
	if doc.Certifications != nil {
		out.Certifications = append([]string(nil), doc.Certifications...)
	}

	return out
}

// LocateExperience resolves a ref to a position in the experience list
func LocateExperience(doc types.ResumeDocument, ref EntryRef) (int, error) {
	if ref.ID != "" {
		for i, exp := range doc.Experience {
			if exp.ID == ref.ID {
				return i, nil
			}
		}
		return 0, &EntryNotFoundError{Ref: ref}
	}
	if ref.Index < 0 || ref.Index >= len(doc.Experience) {
		return 0, &EntryNotFoundError{Ref: ref}
	}
	return ref.Index, nil
}

// SetContactField returns a copy of doc with one contact scalar replaced
func SetContactField(doc types.ResumeDocument, field ContactField, value string) (types.ResumeDocument, error) {
	out := Clone(doc)
	switch field {
	case ContactFullName:
		out.Contact.FullName = value
	case ContactEmail:
		out.Contact.Email = value
	case ContactPhone:
		out.Contact.Phone = value
	case ContactLinkedIn:
		out.Contact.LinkedIn = value
	case ContactLocation:
		out.Contact.Location = value
	default:
		return doc, fmt.Errorf("unknown contact field %q", field)
	}
	return out, nil
}

// SetSummary returns a copy of doc with the professional summary replaced
func SetSummary(doc types.ResumeDocument, text string) types.ResumeDocument {
	out := Clone(doc)
	out.Summary = text
	return out
}

// SetExperienceField returns a copy of doc with one scalar of the referenced
// experience entry replaced. The entry id itself is not an editable field.
func SetExperienceField(doc types.ResumeDocument, ref EntryRef, field ExperienceField, value string) (types.ResumeDocument, error) {
	idx, err := LocateExperience(doc, ref)
	if err != nil {
		return doc, err
	}

	out := Clone(doc)
	switch field {
	case ExperienceRole:
		out.Experience[idx].Role = value
	case ExperienceCompany:
		out.Experience[idx].Company = value
	case ExperienceDates:
		out.Experience[idx].Dates = value
	default:
		return doc, fmt.Errorf("unknown experience field %q", field)
	}
	return out, nil
}

// SetBullet returns a copy of doc with exactly one bullet string replaced.
// Every other bullet, entry and collection is structurally unchanged.
func SetBullet(doc types.ResumeDocument, ref EntryRef, bulletIndex int, text string) (types.ResumeDocument, error) {
	idx, err := LocateExperience(doc, ref)
	if err != nil {
		return doc, err
	}
	if bulletIndex < 0 || bulletIndex >= len(doc.Experience[idx].Bullets) {
		return doc, &BulletRangeError{EntryID: doc.Experience[idx].ID, Index: bulletIndex}
	}

	out := Clone(doc)
	out.Experience[idx].Bullets[bulletIndex] = text
	return out, nil
}

// Bullet returns the current text of one bullet
func Bullet(doc types.ResumeDocument, ref EntryRef, bulletIndex int) (string, error) {
	idx, err := LocateExperience(doc, ref)
	if err != nil {
		return "", err
	}
	if bulletIndex < 0 || bulletIndex >= len(doc.Experience[idx].Bullets) {
		return "", &BulletRangeError{EntryID: doc.Experience[idx].ID, Index: bulletIndex}
	}
	return doc.Experience[idx].Bullets[bulletIndex], nil
}

// SetSkills returns a copy of doc with the skill list re-split from a
// comma-joined line. Segments are kept exactly as entered: no trimming and no
// deduplication, so the round trip matches what the user is typing.
func SetSkills(doc types.ResumeDocument, commaJoined string) types.ResumeDocument {
	out := Clone(doc)
	out.Skills = strings.Split(commaJoined, ", ")
	return out
}

// SetCertifications returns a copy of doc with the certification list replaced
func SetCertifications(doc types.ResumeDocument, certs []string) types.ResumeDocument {
	out := Clone(doc)
	out.Certifications = append([]string(nil), certs...)
	return out
}

// ValidateIDs checks that every experience and education id is unique within
// the document.
func ValidateIDs(doc types.ResumeDocument) error {
	seen := make(map[string]bool)
	for _, exp := range doc.Experience {
		if seen[exp.ID] {
			return fmt.Errorf("duplicate entry id %q", exp.ID)
		}
		seen[exp.ID] = true
	}
	for _, edu := range doc.Education {
		if seen[edu.ID] {
			return fmt.Errorf("duplicate entry id %q", edu.ID)
		}
		seen[edu.ID] = true
	}
	return nil
}
