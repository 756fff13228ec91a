// Package llm provides centralized LLM configuration and client abstractions
// for the generative content engine.
package llm

// ModelTier represents the class of generation call a model serves
type ModelTier string

const (
	// TierCoarse is for the schema-validated, multi-field optimization call
	TierCoarse ModelTier = "coarse"
	// TierFragment is for schema-free, single-field rewrite calls
	TierFragment ModelTier = "fragment"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierCoarse:   "gemini-2.5-flash",
			TierFragment: "gemini-2.5-flash-lite",
		},
	}
}

// GetModel returns the model name for a given tier.
// Fragment calls fall back to the coarse model when no dedicated model is set.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierCoarse]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
