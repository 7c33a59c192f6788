package generation

import "context"

// ModelClient defines the boundary to the language model. Implementations
// construct no prompts and parse no output; they take a finished prompt and
// return the raw textual response.
type ModelClient interface {
	// Generate invokes the model once with the given prompt and returns
	// its textual response. The context bounds the call.
	Generate(ctx context.Context, prompt string) (string, error)
}
