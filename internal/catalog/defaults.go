package catalog

// Default returns the built-in catalog: the full model registry and the
// stock fallback groups. Group chains are ordered by priority; different
// preview revisions of the same model are chained to stretch rate limits.
func Default() *Catalog {
	return New(defaultModels, defaultGroups)
}

var defaultModels = []Model{
	// Google Gemini
	{Name: "gemini-3-pro-preview", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Gemini 3 Pro Preview."},
	{Name: "gemini-2.5-pro", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Gemini 2.5 Pro."},
	{Name: "gemini-2.5-pro-preview-06-05", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Gemini 2.5 Pro Preview (June)."},
	{Name: "gemini-2.5-pro-preview-05-06", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Gemini 2.5 Pro Preview (May)."},
	{Name: "gemini-pro-latest", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Alias for latest Pro."},
	{Name: "gemini-2.5-flash", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Gemini 2.5 Flash."},
	{Name: "gemini-flash-latest", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Alias for latest Flash."},
	{Name: "gemini-2.5-flash-lite", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Gemini 2.5 Flash Lite."},
	{Name: "gemini-flash-lite-latest", Provider: ProviderGoogle, Mode: ModeReasoning, Description: "Alias for latest Flash Lite."},
	{Name: "gemma-3-27b-it", Provider: ProviderGoogle, Description: "Gemma 3 27B Instruct."},
	{Name: "gemma-3-12b-it", Provider: ProviderGoogle, Description: "Gemma 3 12B Instruct."},

	// Mistral
	{Name: "codestral-2501", Provider: ProviderMistral, Description: "Mistral Codestral 2501."},
	{Name: "mistral-large-2411", Provider: ProviderMistral, Description: "Mistral Large 2."},
	{Name: "mistral-small-2501", Provider: ProviderMistral, Description: "Mistral Small 3."},
	{Name: "open-mistral-7b", Provider: ProviderMistral, Description: "Mistral 7B."},

	// Cerebras
	{Name: "gpt-oss-120b", Provider: ProviderCerebras, Description: "GPT-OSS 120B."},
	{Name: "llama-3.3-70b", Provider: ProviderCerebras, Description: "Llama 3.3 70B via Cerebras."},
	{Name: "llama-3.1-8b", Provider: ProviderCerebras, Description: "Llama 3.1 8B via Cerebras."},

	// Groq
	{Name: "llama-3.1-8b-instant", Provider: ProviderGroq, Description: "Llama 3.1 8B Instant via Groq."},
	{Name: "llama-3.3-70b-versatile", Provider: ProviderGroq, Description: "Llama 3.3 70B Versatile via Groq."},

	// Cohere
	{Name: "command-r-plus-08-2024", Provider: ProviderCohere, Description: "Command R+."},
	{Name: "command-r7b-12-2024", Provider: ProviderCohere, Description: "Command R7B."},
}

var defaultGroups = map[string][]string{
	// Enhanced mode: strong models first, cheaper fallbacks last.
	"enhanced_coding": {
		"gemini-2.5-pro",
		"gemini-3-pro-preview",
		"gemini-2.5-pro-preview-06-05",
		"gemini-2.5-pro-preview-05-06",
		"mistral-large-2411",
		"codestral-2501",
		"gemini-2.5-flash",
	},
	"enhanced_reasoning": {
		"gemini-2.5-pro",
		"mistral-large-2411",
		"gpt-oss-120b",
	},
	"librarian_group": {
		"gemini-2.5-flash",
		"gemini-pro-latest",
		"command-r-plus-08-2024",
	},

	// Classic mode: fast, smaller models.
	"classic_coding": {
		"gpt-oss-120b",
		"gemini-flash-latest",
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
	},
	"classic_reasoning": {
		"llama-3.3-70b",
		"gpt-oss-120b",
		"gemini-2.5-flash-lite",
		"mistral-small-2501",
	},
	"classic_secondary_reasoning": {
		"gpt-oss-120b",
		"llama-3.3-70b",
	},

	// Weak mode, used for stress testing.
	"weak_coding": {
		"llama-3.1-8b-instant",
		"open-mistral-7b",
	},
	"weak_reasoning": {
		"llama-3.1-8b-instant",
		"open-mistral-7b",
	},

	// Legacy aliases.
	"coding_model_group":    {"gemini-2.5-pro", "codestral-2501"},
	"reasoning_model_group": {"gemini-2.5-pro", "mistral-large-2411"},
}
