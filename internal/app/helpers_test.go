package app

import (
	"io"
	"log/slog"
	"sync"

	"sketchguess/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedCodes hands out codes in order and repeats the last one
type fixedCodes struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (f *fixedCodes) NewCode() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.codes[f.next]
	if f.next < len(f.codes)-1 {
		f.next++
	}
	return c, nil
}

// sequenceWords returns its words in order and repeats the last one
type sequenceWords struct {
	mu    sync.Mutex
	words []string
	next  int
}

func (s *sequenceWords) RandomWord() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.words[s.next]
	if s.next < len(s.words)-1 {
		s.next++
	}
	return w
}

// recordingConn captures everything sent to it
type recordingConn struct {
	id     string
	mu     sync.Mutex
	msgs   []*OutboundMessage
	closed bool
}

func newRecordingConn(id string) *recordingConn {
	return &recordingConn{id: id}
}

func (c *recordingConn) ID() string { return c.id }

func (c *recordingConn) Send(msg *OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *recordingConn) messages() []*OutboundMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*OutboundMessage(nil), c.msgs...)
}

func (c *recordingConn) types() []domain.EventType {
	msgs := c.messages()
	out := make([]domain.EventType, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

// ofType returns the payloads of every message with the given tag
func (c *recordingConn) ofType(t domain.EventType) []interface{} {
	var out []interface{}
	for _, m := range c.messages() {
		if m.Type == t {
			out = append(out, m.Payload)
		}
	}
	return out
}

func (c *recordingConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = nil
}
