// Package events buffers transient dashboard notifications between polls.
//
// Delivery is at-least-once: a notification is handed to whichever /status
// poll drains the buffer first, and a poll that fails after draining loses
// nothing critical since every notification is also logged.
package events

import "go.uber.org/zap"

const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Notification is a transient message for the dashboard toast area.
type Notification struct {
	Kind    string
	Message string
}

// Center collects notifications produced by the job runner and the upload
// path, and hands them out to the status endpoint.
type Center struct {
	buffer *buffer
}

func NewCenter() *Center {
	return &Center{buffer: newBuffer()}
}

func (c *Center) Push(kind, message string) {
	c.buffer.PushBack(&notification{Kind: kind, Message: message})
	zap.S().Named("events").Debugw("notification queued", "kind", kind, "message", message)
}

func (c *Center) Success(message string) { c.Push(KindSuccess, message) }
func (c *Center) Error(message string)   { c.Push(KindError, message) }
func (c *Center) Info(message string)    { c.Push(KindInfo, message) }

// Drain returns all pending notifications in the order they were pushed and
// empties the buffer.
func (c *Center) Drain() []Notification {
	raw := c.buffer.PopAll()
	out := make([]Notification, 0, len(raw))
	for _, n := range raw {
		out = append(out, Notification{Kind: n.Kind, Message: n.Message})
	}
	return out
}

// Pending returns the number of buffered notifications.
func (c *Center) Pending() int {
	return c.buffer.Size()
}
