package transport

import (
	"context"
	"sync"
)

// Recorder is an in-memory Transport for tests: it captures every send and
// can be told to fail.
type Recorder struct {
	mu      sync.Mutex
	Replies []RecordedMessage
	Pushes  []RecordedMessage
	Err     error
}

type RecordedMessage struct {
	Target string // reply token or user id
	Text   string
}

func (r *Recorder) Reply(_ context.Context, replyToken, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Replies = append(r.Replies, RecordedMessage{Target: replyToken, Text: text})
	return nil
}

func (r *Recorder) Push(_ context.Context, userID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Pushes = append(r.Pushes, RecordedMessage{Target: userID, Text: text})
	return nil
}
