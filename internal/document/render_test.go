package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPortableText_FullDocument(t *testing.T) {
	text := ToPortableText(sampleDoc())

	expected := strings.Join([]string{
		"# Jane Doe",
		"jane@example.com | 555-0100 | Austin, TX",
		"",
		"## Professional Summary",
		"Backend engineer with five years of distributed systems work.",
		"",
		"## Experience",
		"### Software Engineer | Acme Corp",
		"2021 - Present",
		"- Built payment APIs",
		"- Reduced latency by 40%",
		"",
		"### Junior Developer | Widgets Inc",
		"2019 - 2021",
		"- Maintained billing jobs",
		"",
		"## Education",
		"### BS Computer Science",
		"UT Austin, 2019",
		"",
		"## Skills",
		"Go, PostgreSQL, Kubernetes",
	}, "\n")

	assert.Equal(t, expected, text)
}

func TestToPortableText_Deterministic(t *testing.T) {
	doc := sampleDoc()
	assert.Equal(t, ToPortableText(doc), ToPortableText(doc))
}

func TestToPortableText_SkipsEmptyContactParts(t *testing.T) {
	doc := sampleDoc()
	doc.Contact.Phone = ""
	doc.Contact.Location = ""

	text := ToPortableText(doc)
	assert.Contains(t, text, "# Jane Doe\njane@example.com\n")
	assert.NotContains(t, text, " | ")
}

func TestToPortableText_IncludesCertificationsWhenPresent(t *testing.T) {
	doc := sampleDoc()
	assert.NotContains(t, ToPortableText(doc), "## Certifications")

	doc.Certifications = []string{"CKA", "AWS SAA"}
	text := ToPortableText(doc)
	assert.Contains(t, text, "## Certifications\nCKA, AWS SAA")
}
