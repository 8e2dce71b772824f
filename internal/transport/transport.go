// Package transport is the outbound message boundary: replies correlated
// to an inbound event, and unsolicited pushes for reminders.
package transport

import "context"

type Transport interface {
	Reply(ctx context.Context, replyToken, text string) error
	Push(ctx context.Context, userID, text string) error
}
