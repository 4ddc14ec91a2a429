package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cravecare/internal/grocery"
	"cravecare/internal/profile"
	"cravecare/internal/recipe"
	"cravecare/internal/rewards"
	"cravecare/internal/snap"
	"cravecare/internal/spend"
	"cravecare/internal/store"
)

var errStoreDown = errors.New("store down")

// fakeStore keeps everything in memory and can be told to fail writes.
type fakeStore struct {
	profile   *profile.Profile
	spends    []spend.Entry
	tokens    []rewards.Token
	cheatDays []rewards.CheatDay
	groceries []grocery.Item
	snaps     []snap.Record
	nextID    int

	failWrites bool
}

func (f *fakeStore) id() string {
	f.nextID++
	return string(rune('a' + f.nextID))
}

func (f *fakeStore) GetProfile(ctx context.Context) (*profile.Profile, error) {
	return f.profile, nil
}

func (f *fakeStore) SaveProfile(ctx context.Context, p profile.Profile) error {
	if f.failWrites {
		return errStoreDown
	}
	f.profile = &p
	return nil
}

func (f *fakeStore) ListSpend(ctx context.Context) ([]spend.Entry, error) { return f.spends, nil }

func (f *fakeStore) AddSpend(ctx context.Context, e spend.Entry) (spend.Entry, error) {
	if f.failWrites {
		return spend.Entry{}, errStoreDown
	}
	f.spends = append([]spend.Entry{e}, f.spends...)
	return e, nil
}

func (f *fakeStore) DeleteSpend(ctx context.Context, id string) error {
	if f.failWrites {
		return errStoreDown
	}
	for i, e := range f.spends {
		if e.ID == id {
			f.spends = append(f.spends[:i], f.spends[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) ListTokens(ctx context.Context) ([]rewards.Token, error) { return f.tokens, nil }

func (f *fakeStore) AwardToken(ctx context.Context, t rewards.Token) (rewards.Token, error) {
	if f.failWrites {
		return rewards.Token{}, errStoreDown
	}
	f.tokens = append([]rewards.Token{t}, f.tokens...)
	return t, nil
}

func (f *fakeStore) ListCheatDays(ctx context.Context) ([]rewards.CheatDay, error) {
	return f.cheatDays, nil
}

func (f *fakeStore) RedeemCheatDay(ctx context.Context, c rewards.CheatDay) (rewards.CheatDay, error) {
	if f.failWrites {
		return rewards.CheatDay{}, errStoreDown
	}
	f.cheatDays = append([]rewards.CheatDay{c}, f.cheatDays...)
	return c, nil
}

func (f *fakeStore) ListGrocery(ctx context.Context) ([]grocery.Item, error) {
	return f.groceries, nil
}

func (f *fakeStore) AddGroceryItems(ctx context.Context, items []grocery.NewItem) ([]grocery.Item, error) {
	if f.failWrites {
		return nil, errStoreDown
	}
	added := make([]grocery.Item, 0, len(items))
	for _, n := range items {
		it := grocery.Item{ID: f.id(), Name: n.Name, SourceRecipeName: n.SourceRecipeName, SourceRecipeEmoji: n.SourceRecipeEmoji}
		f.groceries = append(f.groceries, it)
		added = append(added, it)
	}
	return added, nil
}

func (f *fakeStore) ToggleGroceryItem(ctx context.Context, id string) error {
	if f.failWrites {
		return errStoreDown
	}
	for i := range f.groceries {
		if f.groceries[i].ID == id {
			f.groceries[i].Checked = !f.groceries[i].Checked
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) DeleteGroceryItem(ctx context.Context, id string) error {
	if f.failWrites {
		return errStoreDown
	}
	for i, it := range f.groceries {
		if it.ID == id {
			f.groceries = append(f.groceries[:i], f.groceries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) ClearCheckedItems(ctx context.Context) error {
	if f.failWrites {
		return errStoreDown
	}
	kept := f.groceries[:0]
	for _, it := range f.groceries {
		if !it.Checked {
			kept = append(kept, it)
		}
	}
	f.groceries = kept
	return nil
}

func (f *fakeStore) SaveMealSnap(ctx context.Context, r snap.Record) (snap.Record, error) {
	if f.failWrites {
		return snap.Record{}, errStoreDown
	}
	f.snaps = append([]snap.Record{r}, f.snaps...)
	return r, nil
}

func (f *fakeStore) ListMealSnaps(ctx context.Context) ([]snap.Record, error) { return f.snaps, nil }

func fixedNow() time.Time {
	return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
}

func newAppSession(t *testing.T, f *fakeStore) *Session {
	t.Helper()
	s := NewSession(f, fixedNow)
	if err := s.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return s
}

func TestResolve(t *testing.T) {
	t.Run("NoProfileGoesToOnboarding", func(t *testing.T) {
		s := NewSession(&fakeStore{}, fixedNow)
		if err := s.Resolve(context.Background()); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if s.State() != StateOnboarding {
			t.Errorf("Expected onboarding, got %s", s.State())
		}
	})

	t.Run("ProfileGoesToApp", func(t *testing.T) {
		f := &fakeStore{profile: &profile.Profile{Name: "Priya", DailyBudget: 200}}
		s := newAppSession(t, f)
		if s.State() != StateApp {
			t.Errorf("Expected app, got %s", s.State())
		}
		if s.ActiveTab() != DefaultTab {
			t.Errorf("Expected default tab, got %s", s.ActiveTab())
		}
	})
}

func TestCompleteOnboarding(t *testing.T) {
	t.Run("PersistsAndEntersApp", func(t *testing.T) {
		f := &fakeStore{}
		s := NewSession(f, fixedNow)
		s.Resolve(context.Background())

		s.CompleteOnboarding(context.Background(), profile.Profile{Name: "Priya"})
		if s.State() != StateApp {
			t.Errorf("Expected app, got %s", s.State())
		}
		if f.profile == nil || f.profile.Name != "Priya" {
			t.Errorf("Expected profile persisted, got %+v", f.profile)
		}
		if s.Profile().DailyBudget != profile.DefaultDailyBudget {
			t.Errorf("Expected normalized budget, got %v", s.Profile().DailyBudget)
		}
	})

	t.Run("PersistFailureStillEntersApp", func(t *testing.T) {
		f := &fakeStore{failWrites: true}
		s := NewSession(f, fixedNow)
		s.Resolve(context.Background())

		s.CompleteOnboarding(context.Background(), profile.Profile{Name: "Priya"})
		if s.State() != StateApp {
			t.Errorf("Expected app despite failed save, got %s", s.State())
		}
		if s.Profile() == nil || s.Profile().Name != "Priya" {
			t.Error("Expected draft profile kept in memory")
		}
	})
}

func TestAddSpendOptimism(t *testing.T) {
	t.Run("RollsBackOnFailure", func(t *testing.T) {
		f := &fakeStore{profile: &profile.Profile{DailyBudget: 200}}
		s := newAppSession(t, f)

		f.failWrites = true
		_, err := s.AddSpend(context.Background(), "Lunch", 80)
		if err != errStoreDown {
			t.Fatalf("Expected store error, got %v", err)
		}
		if len(s.Spends()) != 0 {
			t.Errorf("Expected rollback to empty list, got %d entries", len(s.Spends()))
		}
	})

	t.Run("ThirdEntryAwardsStreakToken", func(t *testing.T) {
		f := &fakeStore{profile: &profile.Profile{DailyBudget: 200}}
		s := newAppSession(t, f)

		for i, label := range []string{"Breakfast", "Lunch", "Dinner"} {
			if _, err := s.AddSpend(context.Background(), label, 50); err != nil {
				t.Fatalf("AddSpend %d failed: %v", i, err)
			}
		}
		if len(s.Tokens()) != 1 {
			t.Fatalf("Expected 1 streak token, got %d", len(s.Tokens()))
		}
		if s.Tokens()[0].Reason != rewards.ReasonLoggingStreak {
			t.Errorf("Unexpected reason %q", s.Tokens()[0].Reason)
		}

		// A fourth entry does not earn a second streak token.
		if _, err := s.AddSpend(context.Background(), "Chai", 10); err != nil {
			t.Fatalf("AddSpend failed: %v", err)
		}
		if len(s.Tokens()) != 1 {
			t.Errorf("Expected still 1 token, got %d", len(s.Tokens()))
		}
	})
}

func TestAddSpendConcurrent(t *testing.T) {
	// Webhook updates for one chat arrive on separate goroutines; the session
	// has to serialize them so no entry is lost and the streak token is
	// awarded exactly once.
	f := &fakeStore{profile: &profile.Profile{DailyBudget: 200}}
	s := newAppSession(t, f)

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.AddSpend(context.Background(), "Snack", 10); err != nil {
				t.Errorf("AddSpend failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(s.Spends()) != writers {
		t.Errorf("Expected %d entries, got %d", writers, len(s.Spends()))
	}
	streaks := 0
	for _, tok := range s.Tokens() {
		if tok.Reason == rewards.ReasonLoggingStreak {
			streaks++
		}
	}
	if streaks != 1 {
		t.Errorf("Expected exactly 1 streak token, got %d", streaks)
	}
}

func TestClaimUnderBudget(t *testing.T) {
	f := &fakeStore{profile: &profile.Profile{DailyBudget: 200}}
	s := newAppSession(t, f)

	if s.CanClaimUnderBudget() {
		t.Error("Expected no claim with nothing logged")
	}
	if _, err := s.ClaimUnderBudget(context.Background()); err != ErrNotEligible {
		t.Errorf("Expected ErrNotEligible, got %v", err)
	}

	if _, err := s.AddSpend(context.Background(), "Lunch", 80); err != nil {
		t.Fatalf("AddSpend failed: %v", err)
	}
	if !s.CanClaimUnderBudget() {
		t.Error("Expected claim available under budget")
	}
	if _, err := s.ClaimUnderBudget(context.Background()); err != nil {
		t.Fatalf("ClaimUnderBudget failed: %v", err)
	}

	// Once per day.
	if s.CanClaimUnderBudget() {
		t.Error("Expected claim unavailable after claiming")
	}
	if _, err := s.ClaimUnderBudget(context.Background()); err != rewards.ErrDailyCapReached {
		t.Errorf("Expected ErrDailyCapReached, got %v", err)
	}
}

func TestRedeemCheatDay(t *testing.T) {
	f := &fakeStore{profile: &profile.Profile{DailyBudget: 200}}
	for i := 0; i < rewards.TokensPerCheatDay; i++ {
		f.tokens = append(f.tokens, rewards.Token{ID: string(rune('0' + i)), Reason: rewards.ReasonHealthyMeal, EarnedAt: fixedNow().AddDate(0, 0, -i)})
	}
	s := newAppSession(t, f)

	if s.AvailableTokens() != 5 {
		t.Fatalf("Expected 5 tokens available, got %d", s.AvailableTokens())
	}
	d, err := s.RedeemCheatDay(context.Background())
	if err != nil {
		t.Fatalf("RedeemCheatDay failed: %v", err)
	}
	if d.TokensSpent != rewards.TokensPerCheatDay {
		t.Errorf("Expected 5 tokens spent, got %d", d.TokensSpent)
	}
	if s.AvailableTokens() != 0 {
		t.Errorf("Expected 0 tokens after redeem, got %d", s.AvailableTokens())
	}

	if _, err := s.RedeemCheatDay(context.Background()); err != rewards.ErrInsufficientTokens {
		t.Errorf("Expected ErrInsufficientTokens, got %v", err)
	}
}

func TestGroceryOptimism(t *testing.T) {
	f := &fakeStore{profile: &profile.Profile{DailyBudget: 200}}
	s := newAppSession(t, f)
	ctx := context.Background()

	r := recipe.Recipe{Name: "Oats", Emoji: "🥣", Ingredients: []string{"Oats", "Milk"}}
	if err := s.AddRecipeToGrocery(ctx, r); err != nil {
		t.Fatalf("AddRecipeToGrocery failed: %v", err)
	}
	if len(s.Groceries()) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(s.Groceries()))
	}
	// Optimistic placeholders are replaced by store-assigned ids.
	if s.Groceries()[0].ID == "" {
		t.Error("Expected stored item ids after success")
	}

	id := s.Groceries()[0].ID
	f.failWrites = true
	if err := s.ToggleGroceryItem(ctx, id); err != errStoreDown {
		t.Fatalf("Expected store error, got %v", err)
	}
	if s.Groceries()[0].Checked {
		t.Error("Expected toggle rolled back")
	}

	if err := s.AddRecipeToGrocery(ctx, r); err != errStoreDown {
		t.Fatalf("Expected store error, got %v", err)
	}
	if len(s.Groceries()) != 2 {
		t.Errorf("Expected rollback to 2 items, got %d", len(s.Groceries()))
	}

	f.failWrites = false
	if err := s.ToggleGroceryItem(ctx, id); err != nil {
		t.Fatalf("ToggleGroceryItem failed: %v", err)
	}
	if err := s.ClearCheckedItems(ctx); err != nil {
		t.Fatalf("ClearCheckedItems failed: %v", err)
	}
	if len(s.Groceries()) != 1 {
		t.Errorf("Expected 1 item after clear, got %d", len(s.Groceries()))
	}
}

func TestSessionLostAndLogout(t *testing.T) {
	f := &fakeStore{profile: &profile.Profile{Name: "Priya", DailyBudget: 200}}
	s := newAppSession(t, f)
	s.SetTab(TabGrocery)

	s.SessionLost()
	if s.State() != StateAuth {
		t.Errorf("Expected auth after session loss, got %s", s.State())
	}
	if s.Profile() != nil || len(s.Spends()) != 0 {
		t.Error("Expected in-memory state cleared")
	}
	if s.ActiveTab() != DefaultTab {
		t.Errorf("Expected default tab, got %s", s.ActiveTab())
	}
}

func TestGenerationGuard(t *testing.T) {
	f := &fakeStore{profile: &profile.Profile{DailyBudget: 200}}
	s := newAppSession(t, f)

	gen := s.BeginGeneration()
	if !s.GenerationCurrent(gen) {
		t.Fatal("Expected fresh generation to be current")
	}
	// Navigating away invalidates the in-flight call.
	s.SetTab(TabTrack)
	if s.GenerationCurrent(gen) {
		t.Error("Expected stale generation after tab change")
	}
}
