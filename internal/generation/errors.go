package generation

import "errors"

// Common errors returned by the generation package. These never escape a
// generation pass — they drive the placeholder fallback — but tests and
// logging rely on distinguishing them.
var (
	// ErrInvalidResponse is returned when the model response cannot be
	// parsed or fails schema validation.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrNoJSONObject is returned when no JSON object can be located in
	// the model's textual response.
	ErrNoJSONObject = errors.New("no JSON object found in model response")

	// ErrNoChunks is returned when a generation pass is invoked with an
	// empty chunk sequence.
	ErrNoChunks = errors.New("no text chunks to generate from")

	// ErrModelInvocation wraps transport-level failures from the model
	// client.
	ErrModelInvocation = errors.New("language model invocation failed")
)
