package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
	"github.com/mgoltzsche/ai-assistant-chat/internal/pubsub"
	"github.com/mgoltzsche/ai-assistant-chat/internal/request"
	"github.com/mgoltzsche/ai-assistant-chat/internal/response"
	"github.com/mgoltzsche/ai-assistant-chat/internal/transport"
)

var ErrSendInProgress = errors.New("a message is still being sent")

type Sender interface {
	Send(ctx context.Context, req request.OutboundRequest) (transport.RawResponse, error)
}

// Event is published for every message appended to the transcript.
type Event struct {
	Index   int
	Message model.Message
}

// Turn is the pair of messages a single send appended to the transcript.
type Turn struct {
	// Index is the transcript position of the user message.
	// The reply is located at Index+1.
	Index int
	User  model.Message
	Reply model.Message
}

// Messages returns the user message followed by the reply.
func (t Turn) Messages() []model.Message {
	return []model.Message{t.User, t.Reply}
}

// Controller mediates between a presentation layer and the remote assistant.
// It owns the session's transcript.
type Controller struct {
	sender       Sender
	conversation *model.Conversation
	events       pubsub.Publisher[Event]
	sending      sync.Mutex
}

func NewController(sender Sender) *Controller {
	return &Controller{
		sender:       sender,
		conversation: model.NewConversation(),
	}
}

// WithEvents makes the controller publish appended messages.
func (c *Controller) WithEvents(p pubsub.Publisher[Event]) *Controller {
	c.events = p
	return c
}

// History returns the transcript in display order.
func (c *Controller) History() iter.Seq[model.Message] {
	return c.conversation.All()
}

func (c *Controller) Conversation() *model.Conversation {
	return c.conversation
}

// Send sends a user message and appends it to the transcript along with the assistant's reply.
// Failures to obtain a reply are appended as assistant text messages.
// Invalid input is returned as an error wrapping request.ErrInvalidInput without touching the transcript.
func (c *Controller) Send(ctx context.Context, userID string, input request.Input) (Turn, error) {
	req, err := request.Build(userID, input)
	if err != nil {
		slog.Debug(fmt.Sprintf("rejecting user input: %s", err))
		return Turn{}, err
	}

	if !c.sending.TryLock() {
		return Turn{}, ErrSendInProgress
	}
	defer c.sending.Unlock()

	turn := Turn{User: req.Message()}
	turn.Index = c.append(turn.User)

	result := c.roundTrip(ctx, req)
	turn.Reply = result.Message()

	c.append(turn.Reply)

	return turn, nil
}

func (c *Controller) roundTrip(ctx context.Context, req request.OutboundRequest) response.Result {
	resp, err := c.sender.Send(ctx, req)
	if err != nil {
		var transportErr *transport.Error
		if !errors.As(err, &transportErr) {
			transportErr = &transport.Error{Cause: err}
		}

		slog.Warn(transportErr.Error())

		return response.ErrorResult{Msg: transportErr.Error()}
	}

	result := response.Classify(resp)
	if errResult, ok := result.(response.ErrorResult); ok {
		slog.Warn(errResult.Msg)
	}

	return result
}

func (c *Controller) append(msg model.Message) int {
	index := c.conversation.Append(msg)

	if c.events != nil {
		c.events.Publish(Event{
			Index:   index,
			Message: msg,
		})
	}

	return index
}
