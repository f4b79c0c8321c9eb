package play

import (
	"context"
	"errors"
	"time"
)

var ErrTimeout = errors.New("timed out waiting for interaction")

// Message is the handle of a rendered view
type Message struct {
	ID        string
	ChannelID string
}

// Action is a component interaction delivered to a session
type Action struct {
	CustomID string
	UserID   string
	Values   []string
	// Name is the control name inside the session, set by Session.Await
	Name string
}

// Filter decides whether an action belongs to the waiting session
type Filter func(Action) bool

// Responder is the transport a session renders through
type Responder interface {
	// Respond sends the first view of a session
	Respond(ctx context.Context, view View) (Message, error)
	// Edit replaces a previously sent view
	Edit(ctx context.Context, msg Message, view View) (Message, error)
	// AwaitComponent blocks until an action on msg passes filter. It returns
	// ErrTimeout once timeout elapses.
	AwaitComponent(ctx context.Context, msg Message, filter Filter, timeout time.Duration) (Action, error)
}

// Subscriber streams every action on a message for as long as a caller keeps
// listening, so actions arriving while the caller is busy are not lost
type Subscriber interface {
	// Subscribe delivers actions on msg that pass filter until cancel is
	// called. cancel closes the channel.
	Subscribe(msg Message, filter Filter) (<-chan Action, func())
}
