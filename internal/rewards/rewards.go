// Package rewards implements the cheat-token economy: earning tokens for
// qualifying daily actions, daily earn caps, and redeeming tokens for cheat
// days.
package rewards

import (
	"context"
	"errors"
	"time"

	"cravecare/internal/cycle"
)

// TokensPerCheatDay is the fixed redemption cost of one cheat day.
const TokensPerCheatDay = 5

// MaxHealthyMealTokensPerDay caps the healthy-meal reason; every other reason
// is limited to one token per calendar day.
const MaxHealthyMealTokensPerDay = 2

// Reason is an earn category. The values double as user-facing labels.
type Reason string

const (
	ReasonUnderBudget   Reason = "💰 Under budget!"
	ReasonHealthyMeal   Reason = "🥗 Healthy meal cooked"
	ReasonLoggingStreak Reason = "📊 Logged 3+ meals today"
)

var (
	ErrInsufficientTokens = errors.New("insufficient tokens")
	ErrDailyCapReached    = errors.New("daily cap reached")
	ErrUnknownReason      = errors.New("unknown earn reason")
)

// Token is one earned reward unit. Tokens are never mutated or individually
// flagged as spent; redemption is tracked by the aggregate count on CheatDay
// records.
type Token struct {
	ID       string    `json:"id"`
	Reason   Reason    `json:"reason"`
	EarnedAt time.Time `json:"earnedAt"`
}

// CheatDay is a redemption record.
type CheatDay struct {
	ID          string    `json:"id"`
	UnlockedAt  time.Time `json:"unlockedAt"`
	TokensSpent int       `json:"tokensSpent"`
}

// DailyCap returns how many tokens of a reason may be earned per calendar day.
func DailyCap(reason Reason) int {
	if reason == ReasonHealthyMeal {
		return MaxHealthyMealTokensPerDay
	}
	return 1
}

func knownReason(reason Reason) bool {
	switch reason {
	case ReasonUnderBudget, ReasonHealthyMeal, ReasonLoggingStreak:
		return true
	}
	return false
}

// Available returns earned minus spent. Callers clamp for display; a valid
// award/redeem history never drives it negative.
func Available(tokens []Token, cheatDays []CheatDay) int {
	spent := 0
	for _, d := range cheatDays {
		spent += d.TokensSpent
	}
	return len(tokens) - spent
}

// CountReasonToday counts tokens of a reason earned on the same local
// calendar day as now. The key is the calendar day of EarnedAt, not a rolling
// 24h window.
func CountReasonToday(tokens []Token, reason Reason, now time.Time) int {
	today := now.Format(cycle.DateLayout)
	n := 0
	for _, t := range tokens {
		if t.Reason == reason && t.EarnedAt.In(now.Location()).Format(cycle.DateLayout) == today {
			n++
		}
	}
	return n
}

// HasEarnedReasonToday reports whether at least one token of the reason was
// earned today.
func HasEarnedReasonToday(tokens []Token, reason Reason, now time.Time) bool {
	return CountReasonToday(tokens, reason, now) > 0
}

// CanEarn reports whether awarding a reason now would stay within its daily
// cap. Pure function of the token history and now.
func CanEarn(tokens []Token, reason Reason, now time.Time) bool {
	return CountReasonToday(tokens, reason, now) < DailyCap(reason)
}

// Store is the slice of the persistence adapter the ledger writes through.
type Store interface {
	AwardToken(ctx context.Context, t Token) (Token, error)
	RedeemCheatDay(ctx context.Context, d CheatDay) (CheatDay, error)
}

// Ledger applies the token economy rules on top of a persistence store. Caps
// are enforced here, before the write, so a caller cannot overshoot them by
// invoking the award path directly.
type Ledger struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewLedger wires a ledger over a store with injected clock and ID source.
func NewLedger(store Store, now func() time.Time, newID func() string) *Ledger {
	return &Ledger{store: store, now: now, newID: newID}
}

// Award appends a new token for the reason, refusing with ErrDailyCapReached
// when the day's cap is already met. The cap is computed from the existing
// token history, never from cached state.
func (l *Ledger) Award(ctx context.Context, existing []Token, reason Reason) (Token, error) {
	if !knownReason(reason) {
		return Token{}, ErrUnknownReason
	}
	now := l.now()
	if !CanEarn(existing, reason, now) {
		return Token{}, ErrDailyCapReached
	}
	t := Token{ID: l.newID(), Reason: reason, EarnedAt: now}
	return l.store.AwardToken(ctx, t)
}

// Redeem converts cost tokens into one cheat day. It is all-or-nothing: with
// fewer than cost tokens available nothing is written and
// ErrInsufficientTokens is returned.
func (l *Ledger) Redeem(ctx context.Context, tokens []Token, cheatDays []CheatDay, cost int) (CheatDay, error) {
	if Available(tokens, cheatDays) < cost {
		return CheatDay{}, ErrInsufficientTokens
	}
	d := CheatDay{ID: l.newID(), UnlockedAt: l.now(), TokensSpent: cost}
	return l.store.RedeemCheatDay(ctx, d)
}
