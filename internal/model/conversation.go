package model

import (
	"iter"
	"log/slog"
	"sync"
)

// Conversation is the append-only transcript of a session.
// Insertion order is chronological and display order.
type Conversation struct {
	messages []Message
	mutex    sync.RWMutex
}

func NewConversation() *Conversation {
	return &Conversation{
		messages: make([]Message, 0, 100),
	}
}

// Append adds the message to the transcript and returns its position.
func (c *Conversation) Append(msg Message) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.messages = append(c.messages, msg)

	slog.Info(msg.String())

	return len(c.messages) - 1
}

func (c *Conversation) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.messages)
}

// At returns the message at the given transcript position.
func (c *Conversation) At(i int) (Message, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if i < 0 || i >= len(c.messages) {
		return Message{}, false
	}

	return c.messages[i], true
}

// All returns the transcript as a sequence that can be iterated multiple times.
// Each iteration yields the messages that existed when it started.
func (c *Conversation) All() iter.Seq[Message] {
	return func(yield func(Message) bool) {
		c.mutex.RLock()
		msgs := c.messages[:len(c.messages):len(c.messages)]
		c.mutex.RUnlock()

		for _, msg := range msgs {
			if !yield(msg) {
				return
			}
		}
	}
}
