package discord

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/coinpurse/internal/metrics"
	"github.com/fadedpez/coinpurse/pkg/services/play"
	"github.com/rs/zerolog"
)

// SubscriptionBuffer is how many actions a subscription holds while its
// reader is busy. Actions beyond it are dropped.
const SubscriptionBuffer = 256

type waiter struct {
	filter play.Filter
	ch     chan play.Action
}

type subscription struct {
	filter play.Filter
	ch     chan play.Action
}

// Collector routes component interactions to the sessions waiting on their message
type Collector struct {
	session SessionHandler
	log     zerolog.Logger

	mu      sync.Mutex
	waiters map[string][]*waiter       // message id -> waiters
	subs    map[string][]*subscription // message id -> subscriptions
}

// NewCollector creates a collector acknowledging interactions through session
func NewCollector(session SessionHandler, log zerolog.Logger) *Collector {
	return &Collector{
		session: session,
		log:     log.With().Str("component", "collector").Logger(),
		waiters: make(map[string][]*waiter),
		subs:    make(map[string][]*subscription),
	}
}

// Dispatch acknowledges a component interaction and hands it to the first
// waiter whose filter accepts it, or else to the first matching subscription.
// It reports whether anyone took it.
func (c *Collector) Dispatch(i *discordgo.Interaction) bool {
	if err := DeferUpdate(c.session, i); err != nil {
		c.log.Error().Err(err).Str("interaction", i.ID).Msg("Error acknowledging interaction")
	}

	if i.Message == nil {
		return false
	}
	action := toAction(i)

	c.mu.Lock()
	waiters := c.waiters[i.Message.ID]
	for idx, w := range waiters {
		if !w.filter(action) {
			continue
		}
		c.waiters[i.Message.ID] = append(waiters[:idx:idx], waiters[idx+1:]...)
		if len(c.waiters[i.Message.ID]) == 0 {
			delete(c.waiters, i.Message.ID)
		}
		// buffered, and only one dispatch can remove w
		w.ch <- action
		c.mu.Unlock()
		return true
	}
	for _, sub := range c.subs[i.Message.ID] {
		if !sub.filter(action) {
			continue
		}
		select {
		case sub.ch <- action:
			c.mu.Unlock()
			return true
		default:
			c.log.Warn().Str("message", i.Message.ID).Msg("Subscription buffer full")
		}
	}
	c.mu.Unlock()

	metrics.StaleComponentsTotal.Inc()
	c.log.Debug().Str("custom_id", action.CustomID).Str("user", action.UserID).Msg("Dropped stale component interaction")
	return false
}

// Await blocks until an interaction on msg passes filter
func (c *Collector) Await(ctx context.Context, msg play.Message, filter play.Filter, timeout time.Duration) (play.Action, error) {
	w := &waiter{filter: filter, ch: make(chan play.Action, 1)}

	c.mu.Lock()
	c.waiters[msg.ID] = append(c.waiters[msg.ID], w)
	c.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case action := <-w.ch:
		return action, nil
	case <-timer.C:
		if action, ok := c.cancel(msg.ID, w); ok {
			return action, nil
		}
		return play.Action{}, play.ErrTimeout
	case <-ctx.Done():
		if action, ok := c.cancel(msg.ID, w); ok {
			return action, nil
		}
		return play.Action{}, ctx.Err()
	}
}

// Subscribe delivers every interaction on msg that passes filter until the
// returned cancel is called
func (c *Collector) Subscribe(msg play.Message, filter play.Filter) (<-chan play.Action, func()) {
	sub := &subscription{filter: filter, ch: make(chan play.Action, SubscriptionBuffer)}

	c.mu.Lock()
	c.subs[msg.ID] = append(c.subs[msg.ID], sub)
	c.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() { c.unsubscribe(msg.ID, sub) })
	}
}

// Pending returns the number of waiters and subscriptions registered for a message
func (c *Collector) Pending(messageID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters[messageID]) + len(c.subs[messageID])
}

// unsubscribe removes sub and closes its channel. Dispatch only sends under
// c.mu, so nothing can send after the close.
func (c *Collector) unsubscribe(messageID string, sub *subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	subs := c.subs[messageID]
	for idx, candidate := range subs {
		if candidate == sub {
			c.subs[messageID] = append(subs[:idx:idx], subs[idx+1:]...)
			break
		}
	}
	if len(c.subs[messageID]) == 0 {
		delete(c.subs, messageID)
	}
	close(sub.ch)
}

// cancel removes w. If Dispatch already removed it the delivered action is returned.
func (c *Collector) cancel(messageID string, w *waiter) (play.Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	waiters := c.waiters[messageID]
	for idx, candidate := range waiters {
		if candidate == w {
			c.waiters[messageID] = append(waiters[:idx:idx], waiters[idx+1:]...)
			if len(c.waiters[messageID]) == 0 {
				delete(c.waiters, messageID)
			}
			return play.Action{}, false
		}
	}

	select {
	case action := <-w.ch:
		return action, true
	default:
		return play.Action{}, false
	}
}

func toAction(i *discordgo.Interaction) play.Action {
	data := i.MessageComponentData()
	return play.Action{
		CustomID: data.CustomID,
		UserID:   UserID(i),
		Values:   data.Values,
	}
}

// UserID returns the id of the user behind an interaction in a guild or a DM
func UserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
