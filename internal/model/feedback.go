package model

// Feedback is a customer rating left from the storefront
type Feedback struct {
	ID       uint      `json:"id,omitempty"`
	Customer string    `json:"cliente"`
	Message  string    `json:"mensagem"`
	Rating   int       `json:"avaliacao"`
	PostedAt Timestamp `json:"dataHora"`
}

// FeedbackRequest is the body of POST /feedbacks
type FeedbackRequest struct {
	Customer string `json:"cliente"`
	Message  string `json:"mensagem"`
	Rating   int    `json:"avaliacao"`
}

// Validate checks the rating range and message
func (r FeedbackRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalid("avaliacao must be between 1 and 5")
	}
	if r.Message == "" {
		return ErrInvalid("mensagem is required")
	}
	return nil
}
