// Package types holds the JSON envelopes shared by every API response. The
// responses package writes them; the marketplace frontend and the idempotency
// replay cache both rely on the shapes staying stable.
package types

// SuccessEnvelope wraps listing, purchase, and health payloads.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Details is only populated for codes
// whose metadata allows exposing them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
