package entities

import (
	"errors"
	"time"
)

var (
	ErrPartyMemberNotFound = errors.New("party member not found")
	ErrAlreadyInParty      = errors.New("already in party")
)

// PartyRef is a membership or pending invite to another player
type PartyRef struct {
	ID        string    `json:"id"`
	Accepted  bool      `json:"accepted"`
	InvitedAt time.Time `json:"invited_at"`
}

// Party is an ordered list of references looked up by id
type Party []PartyRef

func (p Party) index(id string) int {
	for i := range p {
		if p[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the reference for id
func (p Party) Find(id string) (PartyRef, bool) {
	if i := p.index(id); i >= 0 {
		return p[i], true
	}
	return PartyRef{}, false
}

// Invite adds a pending reference
func (p *Party) Invite(id string, at time.Time) error {
	if p.index(id) >= 0 {
		return ErrAlreadyInParty
	}
	*p = append(*p, PartyRef{ID: id, InvitedAt: at})
	return nil
}

// Accept marks a pending invite as accepted
func (p Party) Accept(id string) error {
	i := p.index(id)
	if i < 0 {
		return ErrPartyMemberNotFound
	}
	p[i].Accepted = true
	return nil
}

// Leave removes the reference for id
func (p *Party) Leave(id string) error {
	i := p.index(id)
	if i < 0 {
		return ErrPartyMemberNotFound
	}
	*p = append((*p)[:i], (*p)[i+1:]...)
	return nil
}

func (p Party) AcceptedCount() int {
	n := 0
	for _, ref := range p {
		if ref.Accepted {
			n++
		}
	}
	return n
}
