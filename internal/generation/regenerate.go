package generation

import (
	"context"
	"strings"

	"github.com/mohanadbarakat001/ATS/internal/llm"
	"github.com/mohanadbarakat001/ATS/internal/prompts"
)

// FragmentKind identifies which field of the result document a rewrite targets
type FragmentKind string

const (
	// FragmentSummary targets the resume's professional summary
	FragmentSummary FragmentKind = "summary"
	// FragmentBullet targets a single experience bullet
	FragmentBullet FragmentKind = "bullet"
	// FragmentCoverLetter targets the cover letter body
	FragmentCoverLetter FragmentKind = "coverLetter"
)

// BulletInstruction is the fixed directive used when regenerating one bullet.
func BulletInstruction() string {
	return prompts.MustGet(promptFile, "bullet-instruction")
}

// RegenerateFragment submits a rewrite scoped to a single fragment and returns
// plain replacement text. An empty-but-successful response degrades to the
// original text instead of surfacing an error; only transport failures are
// returned to the caller.
func (g *GeminiGenerator) RegenerateFragment(ctx context.Context, currentText, instruction string, kind FragmentKind) (string, error) {
	prompt := prompts.Format(prompts.MustGet(promptFile, "regenerate-fragment"), map[string]string{
		"CurrentText": currentText,
		"Instruction": instruction,
	})

	responseText, err := g.client.GenerateContent(ctx, prompt, llm.TierFragment)
	if err != nil {
		return "", &APICallError{
			Message: "failed to regenerate " + string(kind),
			Cause:   err,
		}
	}

	rewritten := strings.TrimSpace(responseText)
	if rewritten == "" {
		return currentText, nil
	}

	return rewritten, nil
}
