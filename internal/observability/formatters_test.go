package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/mohanadbarakat001/ATS/internal/types"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijk", 10))
}

func TestTruncate_NeverSplitsRunes(t *testing.T) {
	accented := strings.Repeat("é", 12)

	got := Truncate(accented, 10)

	assert.Equal(t, strings.Repeat("é", 7)+"...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestPrintAnalysisReport(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	analysis := &types.AnalysisReport{
		MatchScore:      82,
		FoundKeywords:   []string{"Go", "PostgreSQL"},
		MissingKeywords: []string{"Kafka"},
		Recommendations: []string{"Mention Kafka experience"},
	}
	printer.PrintAnalysisReport(analysis, "Backend Engineer")

	out := buf.String()
	assert.Contains(t, out, "MATCH ANALYSIS")
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "82%")
	assert.Contains(t, out, "Kafka")
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "└")
}

func TestPrintAnalysisReport_NilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysisReport(nil, "x")
	assert.Empty(t, buf.String())
}

func TestPrintResumeOverview(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)

	doc := &types.ResumeDocument{
		Contact: types.ContactInfo{FullName: "Jane Doe"},
		Summary: "Backend engineer.",
		Experience: []types.ExperienceEntry{
			{ID: "exp-1", Role: "Engineer", Company: "Acme", Bullets: []string{"a", "b"}},
		},
		Skills: []string{"Go"},
	}
	printer.PrintResumeOverview(doc)

	out := buf.String()
	assert.Contains(t, out, "OPTIMIZED RESUME")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Engineer @ Acme (2 bullets)")
}

func TestHumanTime(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "just now", HumanTime(now.UnixMilli()))
	assert.Equal(t, "5 minutes ago", HumanTime(now.Add(-5*time.Minute).UnixMilli()))
	assert.Equal(t, "3 hours ago", HumanTime(now.Add(-3*time.Hour).UnixMilli()))
	assert.Equal(t, "2 days ago", HumanTime(now.Add(-48*time.Hour).UnixMilli()))

	old := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 9, 2024", HumanTime(old.UnixMilli()))
}
