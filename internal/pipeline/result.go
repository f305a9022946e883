package pipeline

import "net/http"

// Result is the uniform envelope returned by every top-level service
// invocation. A fresh instance is created per Execute call; Process
// implementations mutate Message and Data directly.
type Result struct {
	StatusCode int                 `json:"status_code"`
	Message    string              `json:"message,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Data       any                 `json:"data,omitempty"`

	// Err holds the failure that produced an error envelope. Never
	// serialized; used for logging and tests.
	Err error `json:"-"`
}

// NewResult returns a fresh success envelope.
func NewResult() *Result {
	return &Result{StatusCode: http.StatusOK}
}

// OK reports whether the envelope represents a success.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
