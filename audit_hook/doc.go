// Package audithook is an extension that turns dispatch lifecycle events
// into audit records.
//
// Every hook emits a structured [AuditEvent] through the [Recorder]
// interface with a severity (info for normal operation, critical for failed
// calls) and metadata (service, target, state, elapsed time, error).
//
// # Usage
//
//	fwd := forwarder.New(baseURL,
//	    forwarder.WithExtensions(audithook.New(audithook.SlogRecorder(logger))),
//	)
//
// # Selective filtering
//
//	audithook.New(recorder, audithook.WithActions(audithook.ActionDispatchFailed))
package audithook
