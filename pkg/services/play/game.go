package play

import "context"

// Game is one playable game. Play runs a single round against the session
// and must resolve it, either with an outcome or through Session.TimedOut.
type Game interface {
	ID() string
	Name() string
	// Emoji is shown next to the name in the game picker
	Emoji() string
	Play(ctx context.Context, s *Session) error
}
