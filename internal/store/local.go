package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cravecare/internal/grocery"
	"cravecare/internal/profile"
	"cravecare/internal/rewards"
	"cravecare/internal/snap"
	"cravecare/internal/spend"
)

// Collection file names. The spends name carries a version suffix so a
// future format change can migrate by reading the old file once.
const (
	profileFile   = "profile.json"
	spendsFile    = "spends-v2.json"
	tokensFile    = "tokens.json"
	cheatDaysFile = "cheatdays.json"
	groceryFile   = "grocery.json"
	mealSnapsFile = "mealsnaps.json"
)

// LocalStore keeps one identity's collections as JSON files under a base
// directory. A missing or corrupt file reads as the empty collection, so a
// damaged disk never blocks the session.
type LocalStore struct {
	basePath string
	newID    func() string
	now      func() time.Time
}

// NewLocalStore creates the base directory and returns a store over it.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &LocalStore{basePath: basePath, newID: uuid.NewString, now: time.Now}, nil
}

// readCollection loads a JSON file into out. Missing files and parse
// failures leave out at its zero value.
func (s *LocalStore) readCollection(name string, out any) {
	data, err := os.ReadFile(filepath.Join(s.basePath, name))
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		return
	}
}

// writeCollection overwrites a JSON file with the full collection.
func (s *LocalStore) writeCollection(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.basePath, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) GetProfile(ctx context.Context) (*profile.Profile, error) {
	path := filepath.Join(s.basePath, profileFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	p = p.Normalized()
	return &p, nil
}

func (s *LocalStore) SaveProfile(ctx context.Context, p profile.Profile) error {
	return s.writeCollection(profileFile, p.Normalized())
}

func (s *LocalStore) ListSpend(ctx context.Context) ([]spend.Entry, error) {
	entries := []spend.Entry{}
	s.readCollection(spendsFile, &entries)
	return entries, nil
}

func (s *LocalStore) AddSpend(ctx context.Context, e spend.Entry) (spend.Entry, error) {
	if e.ID == "" {
		e.ID = s.newID()
	}
	entries, _ := s.ListSpend(ctx)
	entries = append([]spend.Entry{e}, entries...)
	if err := s.writeCollection(spendsFile, entries); err != nil {
		return spend.Entry{}, err
	}
	return e, nil
}

func (s *LocalStore) DeleteSpend(ctx context.Context, id string) error {
	entries, _ := s.ListSpend(ctx)
	kept := entries[:0]
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return ErrNotFound
	}
	return s.writeCollection(spendsFile, kept)
}

func (s *LocalStore) ListTokens(ctx context.Context) ([]rewards.Token, error) {
	tokens := []rewards.Token{}
	s.readCollection(tokensFile, &tokens)
	return tokens, nil
}

func (s *LocalStore) AwardToken(ctx context.Context, t rewards.Token) (rewards.Token, error) {
	if t.ID == "" {
		t.ID = s.newID()
	}
	tokens, _ := s.ListTokens(ctx)
	tokens = append([]rewards.Token{t}, tokens...)
	if err := s.writeCollection(tokensFile, tokens); err != nil {
		return rewards.Token{}, err
	}
	return t, nil
}

func (s *LocalStore) ListCheatDays(ctx context.Context) ([]rewards.CheatDay, error) {
	days := []rewards.CheatDay{}
	s.readCollection(cheatDaysFile, &days)
	return days, nil
}

func (s *LocalStore) RedeemCheatDay(ctx context.Context, c rewards.CheatDay) (rewards.CheatDay, error) {
	if c.ID == "" {
		c.ID = s.newID()
	}
	days, _ := s.ListCheatDays(ctx)
	days = append([]rewards.CheatDay{c}, days...)
	if err := s.writeCollection(cheatDaysFile, days); err != nil {
		return rewards.CheatDay{}, err
	}
	return c, nil
}

func (s *LocalStore) ListGrocery(ctx context.Context) ([]grocery.Item, error) {
	items := []grocery.Item{}
	s.readCollection(groceryFile, &items)
	return items, nil
}

func (s *LocalStore) AddGroceryItems(ctx context.Context, newItems []grocery.NewItem) ([]grocery.Item, error) {
	items, _ := s.ListGrocery(ctx)
	added := make([]grocery.Item, 0, len(newItems))
	for _, n := range newItems {
		it := grocery.Item{
			ID:                s.newID(),
			Name:              n.Name,
			SourceRecipeName:  n.SourceRecipeName,
			SourceRecipeEmoji: n.SourceRecipeEmoji,
			Quantity:          n.Quantity,
			CreatedAt:         s.now(),
		}
		added = append(added, it)
		items = append(items, it)
	}
	if err := s.writeCollection(groceryFile, items); err != nil {
		return nil, err
	}
	return added, nil
}

func (s *LocalStore) ToggleGroceryItem(ctx context.Context, id string) error {
	items, _ := s.ListGrocery(ctx)
	for i := range items {
		if items[i].ID == id {
			items[i].Checked = !items[i].Checked
			return s.writeCollection(groceryFile, items)
		}
	}
	return ErrNotFound
}

func (s *LocalStore) DeleteGroceryItem(ctx context.Context, id string) error {
	items, _ := s.ListGrocery(ctx)
	kept := items[:0]
	found := false
	for _, it := range items {
		if it.ID == id {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return ErrNotFound
	}
	return s.writeCollection(groceryFile, kept)
}

func (s *LocalStore) ClearCheckedItems(ctx context.Context) error {
	items, _ := s.ListGrocery(ctx)
	kept := items[:0]
	for _, it := range items {
		if !it.Checked {
			kept = append(kept, it)
		}
	}
	return s.writeCollection(groceryFile, kept)
}

func (s *LocalStore) SaveMealSnap(ctx context.Context, r snap.Record) (snap.Record, error) {
	if r.ID == "" {
		r.ID = s.newID()
	}
	records := []snap.Record{}
	s.readCollection(mealSnapsFile, &records)
	records = append([]snap.Record{r}, records...)
	if err := s.writeCollection(mealSnapsFile, records); err != nil {
		return snap.Record{}, err
	}
	return r, nil
}

func (s *LocalStore) ListMealSnaps(ctx context.Context) ([]snap.Record, error) {
	records := []snap.Record{}
	s.readCollection(mealSnapsFile, &records)
	return records, nil
}
