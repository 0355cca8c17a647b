// Package ai sends articles to an LLM-backed service for integrity analysis
// and parses the structured verdict, degrading to a fixed neutral verdict
// whenever a real one cannot be obtained.
package ai

import "context"

// Message is a single chat message sent to the completion provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the interface a chat-completion backend must implement.
// Complete sends the messages and returns the first choice's content.
type Provider interface {
	Complete(ctx context.Context, model string, messages []Message) (string, error)
}
