// Package domain contains the core entities of the service: the processing
// job with its status lifecycle, and the generated study content types
// (outline points, quiz items, flashcards) that make up a job's result.
// It is independent of any storage or delivery mechanism; all state
// transition rules live on the entities themselves.
package domain
