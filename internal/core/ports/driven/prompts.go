package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the
// binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts have been edited on disk.
	Reload()
}

// Well-known prompt names.
const (
	// PromptClassify is the fixed instructional prompt sent ahead of
	// the document text when asking the model for sensitive spans.
	// The template expects a %s placeholder for the text.
	PromptClassify = "classify"
)

// PromptStoreAware is an optional interface for adapters that can use
// custom prompts. If no store is set, the adapter uses its hardcoded
// default.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
