// Package task manages background job queuing, processing, and lifecycle.
// It provides mechanisms for asynchronous execution of long-running
// operations like the document processing pipeline, ensuring they don't
// block HTTP request handling. The runner exposes an explicit handle for
// awaiting in-flight work, which tests use to observe completion.
package task
