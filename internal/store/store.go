// Package store persists one identity's data. Two implementations exist:
// LocalStore keeps JSON files on disk for guest sessions, SQLStore keeps
// rows in SQLite for signed-in accounts. Both are scoped to a single
// identity at construction, so no method takes a user argument.
package store

import (
	"context"
	"errors"

	"cravecare/internal/grocery"
	"cravecare/internal/profile"
	"cravecare/internal/rewards"
	"cravecare/internal/snap"
	"cravecare/internal/spend"
)

// ErrNotFound is returned when an operation targets an id that is not in
// the store.
var ErrNotFound = errors.New("store: not found")

// Store is the capability set a session needs. Spends, tokens, cheat days
// and meal snaps list newest first; grocery items list oldest first.
type Store interface {
	// GetProfile returns (nil, nil) when no profile has been saved yet.
	GetProfile(ctx context.Context) (*profile.Profile, error)
	SaveProfile(ctx context.Context, p profile.Profile) error

	ListSpend(ctx context.Context) ([]spend.Entry, error)
	AddSpend(ctx context.Context, e spend.Entry) (spend.Entry, error)
	DeleteSpend(ctx context.Context, id string) error

	ListTokens(ctx context.Context) ([]rewards.Token, error)
	AwardToken(ctx context.Context, t rewards.Token) (rewards.Token, error)

	ListCheatDays(ctx context.Context) ([]rewards.CheatDay, error)
	RedeemCheatDay(ctx context.Context, c rewards.CheatDay) (rewards.CheatDay, error)

	ListGrocery(ctx context.Context) ([]grocery.Item, error)
	AddGroceryItems(ctx context.Context, items []grocery.NewItem) ([]grocery.Item, error)
	ToggleGroceryItem(ctx context.Context, id string) error
	DeleteGroceryItem(ctx context.Context, id string) error
	ClearCheckedItems(ctx context.Context) error

	SaveMealSnap(ctx context.Context, r snap.Record) (snap.Record, error)
	ListMealSnaps(ctx context.Context) ([]snap.Record, error)
}
