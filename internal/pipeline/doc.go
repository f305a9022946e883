// Package pipeline implements the generic service-execution pipeline: every
// top-level service call runs input validation and business logic inside a
// single database transaction and returns a normalized result envelope.
//
// Business failures are expressed as tagged Faults rather than errors
// carrying embedded HTTP codes; the pipeline maps each fault kind to a
// status code exactly once, at the envelope boundary. Services can invoke
// other services' logic through Sub, sharing the caller's transaction so a
// composed operation remains all-or-nothing.
package pipeline
