package domain

import "time"

// ValidationOutcome is the terminal result of checking one URL.
// IsValid=true with a non-empty Error means the check was inconclusive
// in a non-blocking way (cancelled, or hotlink-protected).
type ValidationOutcome struct {
	URL        string `json:"url"`
	IsValid    bool   `json:"isValid"`
	StatusCode int    `json:"statusCode,omitempty"`
	StatusText string `json:"statusText,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ValidateRequest is the payload for the API. URLs are validated as
// given; when Text is set, candidate URLs are extracted from it first
// (as HTML when HTML is true, resolving relative references against
// BaseURL).
type ValidateRequest struct {
	URLs    []string `json:"urls"`
	Text    string   `json:"text,omitempty"`
	HTML    bool     `json:"html,omitempty"`
	BaseURL string   `json:"base_url,omitempty"`
}

// ValidateResponse is the API response for a batch validation.
type ValidateResponse struct {
	Results []ValidationOutcome `json:"results"`
	Count   int                 `json:"count"`
}

// CheckStatus is the API response for a URL status query, backed by
// the persisted history of outcomes.
type CheckStatus struct {
	URL        string    `json:"url"`
	IsValid    bool      `json:"is_valid"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}
