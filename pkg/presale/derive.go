package presale

import (
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// UserPosition aggregates one address's purchases.
type UserPosition struct {
	Address             common.Address  `json:"address"`
	TotalContributed    *big.Int        `json:"totalContributed"`
	TotalTokensReceived *big.Int        `json:"totalTokensReceived"`
	Purchases           []PurchaseEvent `json:"purchases"`
}

// DeriveUserPosition sums address's purchases. The result does not depend on
// the order of events.
func DeriveUserPosition(events []PurchaseEvent, address common.Address) UserPosition {
	pos := UserPosition{
		Address:             address,
		TotalContributed:    new(big.Int),
		TotalTokensReceived: new(big.Int),
		Purchases:           []PurchaseEvent{},
	}
	for _, ev := range events {
		if ev.Buyer != address {
			continue
		}
		pos.TotalContributed.Add(pos.TotalContributed, ev.USDCIn)
		pos.TotalTokensReceived.Add(pos.TotalTokensReceived, ev.TokensOut)
		pos.Purchases = append(pos.Purchases, ev)
	}
	sortNewestFirst(pos.Purchases)
	return pos
}

// Roster is the purchase list ordered newest first.
type Roster []PurchaseEvent

// DeriveGlobalRoster returns a sorted copy of events, newest block first.
func DeriveGlobalRoster(events []PurchaseEvent) Roster {
	out := make(Roster, len(events))
	copy(out, events)
	sortNewestFirst(out)
	return out
}

// Search keeps the purchases whose buyer address contains query, ignoring case.
// An empty query matches everything.
func (r Roster) Search(query string) Roster {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r
	}
	out := Roster{}
	for _, ev := range r {
		if strings.Contains(strings.ToLower(ev.Buyer.Hex()), q) {
			out = append(out, ev)
		}
	}
	return out
}

// Participants counts distinct buyers.
func (r Roster) Participants() int {
	seen := make(map[common.Address]struct{}, len(r))
	for _, ev := range r {
		seen[ev.Buyer] = struct{}{}
	}
	return len(seen)
}

// Page returns at most limit entries starting at offset.
func (r Roster) Page(offset, limit int) Roster {
	if offset >= len(r) || offset < 0 {
		return Roster{}
	}
	end := len(r)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return r[offset:end]
}

// Within a block the order is by log index, which keeps output deterministic.
func sortNewestFirst(events []PurchaseEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber > events[j].BlockNumber
		}
		return events[i].LogIndex > events[j].LogIndex
	})
}
