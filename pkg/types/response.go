// Package types holds the wire envelopes every HTTP response is wrapped in.
package types

// SuccessEnvelope wraps all 2xx payloads under a single data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error surface: a stable code to branch on,
// a human message, and optional field-level details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
