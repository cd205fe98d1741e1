package dto

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
	// RetryAfter is set on 429 responses, in seconds.
	RetryAfter int `json:"retry_after,omitempty"`
	// TwoFactorRequired tells the login form to prompt for a code.
	TwoFactorRequired bool `json:"two_factor_required,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}
