// Package api translates HTTP requests into pipeline service inputs and
// renders the resulting envelopes back as JSON. Handlers stay thin: they
// decode, delegate to an executor-run service, and respond via the shared
// helpers so every endpoint reports success and failure the same way.
package api
