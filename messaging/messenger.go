package messaging

import "context"

// Messenger delivers one outbound text to a channel identity.
type Messenger interface {
	Send(ctx context.Context, to, body string) error
}
