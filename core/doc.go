// Package dialog coordinates a bidirectional, asynchronous conversational
// exchange with a remote dialog service over a single logical session.
//
// The Connector is the entry point. It lazily owns one Session, issues
// operations against it as cancellable Operation handles, and fans the
// session's events out to registered listeners. The wire transport behind a
// session is pluggable through the service.Client contract; a websocket
// implementation lives in core/service/directline.
//
// Operations never block the caller. Each returns immediately with an
// Operation handle that resolves exactly once, and waiting on one handle
// never serializes unrelated work on the same session. Close resolves every
// still-pending handle with a cancellation failure before returning.
package dialog
