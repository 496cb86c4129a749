package notifier

import "time"

// Message сообщение, публикуемое в брокер
type Message struct {
	RecipientID int64     `json:"recipientId"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}
