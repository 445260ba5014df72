// Package schedule manages the advertised sale window.
package schedule

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNotFound      = errors.New("sale schedule not set")
	ErrInvalidWindow = errors.New("sale must start before it ends")
)

// Schedule is the sale window shown to buyers. It does not gate the contract.
type Schedule struct {
	StartsAt  time.Time      `json:"startsAt"`
	EndsAt    time.Time      `json:"endsAt"`
	UpdatedBy common.Address `json:"updatedBy"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Phase of the window at a given time.
const (
	PhaseUpcoming = "upcoming"
	PhaseOpen     = "open"
	PhaseEnded    = "ended"
)

// PhaseAt reports where t falls relative to the window.
func (s *Schedule) PhaseAt(t time.Time) string {
	switch {
	case t.Before(s.StartsAt):
		return PhaseUpcoming
	case t.Before(s.EndsAt):
		return PhaseOpen
	default:
		return PhaseEnded
	}
}

// Validate checks the window ordering.
func (s *Schedule) Validate() error {
	if s.StartsAt.IsZero() || s.EndsAt.IsZero() || !s.StartsAt.Before(s.EndsAt) {
		return ErrInvalidWindow
	}
	return nil
}
