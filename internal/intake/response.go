package intake

import "net/http"

// Client-facing messages.
const (
	MsgSpamDetected    = "Spam detected"
	MsgNoData          = "No data received"
	MsgConfigMissing   = "Form received! (Email configuration missing)"
	MsgPasswordMissing = "Form received! (Email password missing)"
	MsgSubmitted       = "Form submitted successfully! Check your email."
	MsgDeliveryFailed  = "Form received! (Email delivery failed)"
	MsgFileTooLarge    = "File too large"
	MsgInvalidBody     = "Invalid request body"
	MsgServerError     = "Server error occurred"
	MsgTooManyRequests = "Too many requests, please try again later."
)

// Outcome labels the terminal state of a request.
type Outcome string

const (
	OutcomeSpam              Outcome = "spam"
	OutcomeEmpty             Outcome = "empty"
	OutcomeConfigMissing     Outcome = "config_missing"
	OutcomeCredentialMissing Outcome = "credential_missing"
	OutcomeDelivered         Outcome = "delivered"
	OutcomeDeliveryFailed    Outcome = "delivery_failed"
	OutcomeFileRejected      Outcome = "file_rejected"
	OutcomeBadRequest        Outcome = "bad_request"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeInternalError     Outcome = "internal_error"
)

// Response is the JSON body returned for every submission.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Result is the pipeline's decision for one request.
type Result struct {
	Status  int
	Body    Response
	Outcome Outcome
	Stored  StoreOutcome
}

// Reject builds a failure result.
func Reject(status int, outcome Outcome, msg string) Result {
	return Result{
		Status:  status,
		Body:    Response{Success: false, Message: msg},
		Outcome: outcome,
	}
}

// InternalError is the generic 500 result.
func InternalError() Result {
	return Reject(http.StatusInternalServerError, OutcomeInternalError, MsgServerError)
}
