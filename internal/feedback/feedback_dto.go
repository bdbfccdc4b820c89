package feedback

type CreateFeedbackRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Body        string `json:"body" binding:"required"`
}

// FeedbackResponse selalu membawa teks hasil polish; body mentah tidak pernah
// keluar dari service.
type FeedbackResponse struct {
	ID          string `json:"id"`
	AuthorID    string `json:"author_id"`
	AuthorName  string `json:"author_name,omitempty"`
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
	CreatedAt   string `json:"created_at"`
}
