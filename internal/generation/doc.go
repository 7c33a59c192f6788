// Package generation contains the content-generation pipeline: three
// independent passes (outline, quiz, flashcards) that each prompt a
// language model over the same chunk set, and an orchestrator that fans
// them out concurrently and assembles the resulting content bundle.
//
// Failure isolation is the central design decision here: each pass catches
// every failure mode (invocation error, missing JSON, schema mismatch) and
// substitutes a single placeholder item instead of propagating an error.
// The orchestrator therefore always produces a complete bundle, and a job
// finishes even when one or more sections degraded. Degradation is
// surfaced through the bundle metadata rather than through the job state.
package generation
