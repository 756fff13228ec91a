package document

import (
	"strings"

	"github.com/mohanadbarakat001/ATS/internal/types"
)

// ToPortableText renders the document as plain markdown-like text. This is the
// canonical export format: the same document always renders to byte-identical
// output.
func ToPortableText(doc types.ResumeDocument) string {
	var sb strings.Builder

	sb.WriteString("# " + doc.Contact.FullName + "\n")
	sb.WriteString(contactLine(doc.Contact) + "\n\n")

	sb.WriteString("## Professional Summary\n")
	sb.WriteString(doc.Summary + "\n\n")

	sb.WriteString("## Experience\n")
	for _, exp := range doc.Experience {
		sb.WriteString("### " + exp.Role + " | " + exp.Company + "\n")
		sb.WriteString(exp.Dates + "\n")
		for _, bullet := range exp.Bullets {
			sb.WriteString("- " + bullet + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Education\n")
	for _, edu := range doc.Education {
		sb.WriteString("### " + edu.Degree + "\n")
		sb.WriteString(edu.School + ", " + edu.Year + "\n\n")
	}

	sb.WriteString("## Skills\n")
	sb.WriteString(strings.Join(doc.Skills, ", "))

	if len(doc.Certifications) > 0 {
		sb.WriteString("\n\n## Certifications\n")
		sb.WriteString(strings.Join(doc.Certifications, ", "))
	}

	return sb.String()
}

// contactLine joins the non-empty contact scalars with a pipe separator
func contactLine(c types.ContactInfo) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Email, c.Phone, c.Location} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}
