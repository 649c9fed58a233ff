package domain

import "time"

// Sender identifies who authored a message.
type Sender string

const (
	// SenderUser is a question typed by the user.
	SenderUser Sender = "user"

	// SenderAI is an answer or notice produced on behalf of the service.
	SenderAI Sender = "ai"
)

// GreetingID is the id of the seed message.
const GreetingID = "1"

// GreetingText opens every conversation that has no history.
const GreetingText = "I've analyzed your annual report. What would you like to know about it?"

// Message is one entry of a conversation. It is never mutated after append.
type Message struct {
	ID         string     `json:"id"`
	Content    string     `json:"content"`
	Sender     Sender     `json:"sender"`
	Timestamp  time.Time  `json:"timestamp"`
	Metrics    []Metric   `json:"metrics,omitempty"`
	Citations  []Citation `json:"citations,omitempty"`
	Charts     []Chart    `json:"charts,omitempty"`
	Context    string     `json:"context,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
}

// GreetingMessage builds the seed message shown before the first question.
func GreetingMessage(now time.Time) Message {
	return Message{
		ID:        GreetingID,
		Content:   GreetingText,
		Sender:    SenderAI,
		Timestamp: now,
	}
}

// CloneMessages returns a copy of msgs backed by a new array.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
