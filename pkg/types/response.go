package types

// SuccessEnvelope wraps every successful API response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape returned to clients. Details is only
// populated for client-fault codes where field level feedback is safe to show.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error API response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
