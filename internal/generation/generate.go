// Package generation provides the client for the external generative content
// engine. The coarse call produces a schema-validated OptimizationOutcome;
// fragment calls produce plain replacement text for a single field.
package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mohanadbarakat001/ATS/internal/llm"
	"github.com/mohanadbarakat001/ATS/internal/prompts"
	"github.com/mohanadbarakat001/ATS/internal/schemas"
	"github.com/mohanadbarakat001/ATS/internal/types"
)

const promptFile = "optimizer.json"

// Generator produces optimization outcomes and fragment rewrites.
// Implementations must never return a partially populated outcome.
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.OptimizationOutcome, error)
	RegenerateFragment(ctx context.Context, currentText, instruction string, kind FragmentKind) (string, error)
}

// GeminiGenerator implements Generator on top of the llm client abstraction
type GeminiGenerator struct {
	client llm.Client
}

// New creates a generator backed by the default Gemini configuration
func New(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, &APICallError{Message: "API key is required"}
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}

	return &GeminiGenerator{client: client}, nil
}

// NewWithClient creates a generator over an existing llm client.
// Used by tests and by callers that manage client lifecycle themselves.
func NewWithClient(client llm.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// rawOutcome mirrors the flat wire shape of the coarse response. Pointers on
// required fields distinguish absent from zero-valued.
type rawOutcome struct {
	MatchScore      *int                  `json:"matchScore"`
	TargetRole      *string               `json:"targetRole"`
	FoundKeywords   []string              `json:"foundKeywords"`
	MissingKeywords []string              `json:"missingKeywords"`
	Recommendations []string              `json:"recommendations"`
	CoverLetter     *string               `json:"coverLetter"`
	LinkedInSummary string                `json:"linkedinSummary"`
	Resume          *types.ResumeDocument `json:"resume"`
}

// Generate runs one coarse generation call: steering preamble from the user
// configuration, the declared output shape, and the raw inputs. The response
// must validate against the outcome schema; on any failure no partial state
// is returned.
func (g *GeminiGenerator) Generate(ctx context.Context, req types.GenerationRequest) (*types.OptimizationOutcome, error) {
	prompt := buildOptimizePrompt(req)

	responseText, err := g.client.GenerateJSON(ctx, prompt, llm.TierCoarse)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate optimized content",
			Cause:   err,
		}
	}

	if err := schemas.ValidateOutcome(responseText); err != nil {
		return nil, &IncompleteResponseError{
			Missing: missingFields(responseText),
			Cause:   err,
		}
	}

	var raw rawOutcome
	if err := json.Unmarshal([]byte(responseText), &raw); err != nil {
		return nil, &ParseError{
			Message: "failed to parse response JSON",
			Cause:   err,
		}
	}

	// Schema validation already guarantees these, but the outcome seeds the
	// entire document so absence is checked again before anything is built.
	if missing := raw.missing(); len(missing) > 0 {
		return nil, &IncompleteResponseError{Missing: missing}
	}

	outcome := &types.OptimizationOutcome{
		Resume:          *raw.Resume,
		CoverLetter:     *raw.CoverLetter,
		LinkedInSummary: raw.LinkedInSummary,
		TargetRole:      *raw.TargetRole,
		Analysis: types.AnalysisReport{
			MatchScore:      *raw.MatchScore,
			FoundKeywords:   raw.FoundKeywords,
			MissingKeywords: raw.MissingKeywords,
			Recommendations: raw.Recommendations,
		},
	}

	normalizeEntryIDs(&outcome.Resume)

	return outcome, nil
}

// missing lists absent required top-level fields
func (r *rawOutcome) missing() []string {
	var missing []string
	if r.MatchScore == nil {
		missing = append(missing, "matchScore")
	}
	if r.Resume == nil {
		missing = append(missing, "resume")
	}
	if r.CoverLetter == nil {
		missing = append(missing, "coverLetter")
	}
	if r.TargetRole == nil {
		missing = append(missing, "targetRole")
	}
	return missing
}

// missingFields inspects raw JSON for absent required fields so validation
// failures carry a useful summary even when the schema error is verbose.
func missingFields(jsonText string) []string {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &probe); err != nil {
		return nil
	}
	var missing []string
	for _, field := range []string{"matchScore", "resume", "coverLetter", "targetRole"} {
		if _, ok := probe[field]; !ok {
			missing = append(missing, field)
		}
	}
	return missing
}

// buildOptimizePrompt assembles the steering preamble, the output shape
// declaration, and the raw inputs into one prompt.
func buildOptimizePrompt(req types.GenerationRequest) string {
	cfg := req.Config

	nicheContext := prompts.MustGet(promptFile, "niche-context-general")
	if cfg.PrimaryNiche != "" && cfg.PrimaryNiche != types.NicheOther {
		nicheContext = prompts.Format(prompts.MustGet(promptFile, "niche-context-specialized"), map[string]string{
			"PrimaryNiche": cfg.PrimaryNiche,
		})
		if cfg.SubNiche != "" {
			nicheContext += prompts.Format(prompts.MustGet(promptFile, "niche-context-sub"), map[string]string{
				"SubNiche": cfg.SubNiche,
			})
		}
	}

	focusNiche := cfg.SubNiche
	if focusNiche == "" {
		focusNiche = cfg.PrimaryNiche
	}

	preamble := prompts.Format(prompts.MustGet(promptFile, "optimize-preamble"), map[string]string{
		"Seniority":    cfg.Seniority,
		"Tone":         cfg.Tone,
		"NicheContext": nicheContext,
		"FocusNiche":   focusNiche,
		"PrimaryNiche": cfg.PrimaryNiche,
	})

	shape := prompts.Format(prompts.MustGet(promptFile, "optimize-shape"), map[string]string{
		"Schema": schemas.OutcomeSchema(),
	})

	input := prompts.Format(prompts.MustGet(promptFile, "optimize-input"), map[string]string{
		"ResumeText":     req.ResumeText,
		"JobDescription": req.JobDescription,
	})

	return preamble + shape + input
}

// normalizeEntryIDs assigns exp-N/edu-N ids to any entries the engine left
// blank, keeping the unique-id invariant before the outcome is committed.
func normalizeEntryIDs(doc *types.ResumeDocument) {
	seen := make(map[string]bool)
	for i := range doc.Experience {
		id := doc.Experience[i].ID
		if id == "" || seen[id] {
			id = fmt.Sprintf("exp-%d", i+1)
		}
		doc.Experience[i].ID = id
		seen[id] = true
	}
	for i := range doc.Education {
		id := doc.Education[i].ID
		if id == "" || seen[id] {
			id = fmt.Sprintf("edu-%d", i+1)
		}
		doc.Education[i].ID = id
		seen[id] = true
	}
}
