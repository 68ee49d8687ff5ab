package domain

// Response is a single outbound text reply.
type Response struct {
	ChatID           int64
	ReplyToMessageID int
	Text             string
}
