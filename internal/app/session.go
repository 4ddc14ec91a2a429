package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"cravecare/internal/grocery"
	"cravecare/internal/profile"
	"cravecare/internal/recipe"
	"cravecare/internal/rewards"
	"cravecare/internal/snap"
	"cravecare/internal/spend"
	"cravecare/internal/store"
)

// State is the top-level navigation state.
type State string

const (
	StateLoading    State = "loading"
	StateAuth       State = "auth"
	StateOnboarding State = "onboarding"
	StateApp        State = "app"
)

// Tab is the bottom-navigation tab shown inside StateApp.
type Tab string

const (
	TabHome    Tab = "home"
	TabTrack   Tab = "track"
	TabGrocery Tab = "grocery"
	TabProfile Tab = "profile"
)

// DefaultTab is where navigation lands after resolve and after logout.
const DefaultTab = TabHome

var (
	ErrNotInApp    = errors.New("not in app state")
	ErrNotEligible = errors.New("not eligible today")
)

// Session is the per-identity state machine. All ledger operations work on
// in-memory snapshots loaded through the store; mutations are optimistic and
// roll back to the pre-mutation snapshot when the persistence call fails.
// A mutex serializes callers, so updates arriving concurrently for the same
// identity are applied one at a time.
type Session struct {
	store    store.Store
	ledger   *rewards.Ledger
	now      func() time.Time
	identity string

	mu    sync.Mutex
	state State
	tab   Tab

	profile   *profile.Profile
	spends    []spend.Entry
	tokens    []rewards.Token
	cheatDays []rewards.CheatDay
	groceries []grocery.Item

	// generation invalidates in-flight AI calls; a result is applied only if
	// its generation is still current.
	generation uint64
}

// NewSession builds a session in StateLoading over a store.
func NewSession(st store.Store, now func() time.Time) *Session {
	return &Session{
		store:  st,
		ledger: rewards.NewLedger(st, now, uuid.NewString),
		now:    now,
		state:  StateLoading,
		tab:    DefaultTab,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) ActiveTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tab
}

// SetTab switches the bottom navigation and invalidates any in-flight AI
// call, so a result for a screen the user left is dropped.
func (s *Session) SetTab(tab Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
	s.generation++
}

func (s *Session) Profile() *profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Session) Spends() []spend.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spends
}

func (s *Session) Tokens() []rewards.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *Session) CheatDays() []rewards.CheatDay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cheatDays
}

func (s *Session) Groceries() []grocery.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groceries
}

// AvailableTokens is earned minus spent, clamped at zero for display.
func (s *Session) AvailableTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := rewards.Available(s.tokens, s.cheatDays)
	if n < 0 {
		return 0
	}
	return n
}

// Resolve performs the launch transition: no profile sends the user to
// onboarding, an existing profile loads the snapshots and lands in the app.
func (s *Session) Resolve(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	if p == nil {
		s.state = StateOnboarding
		return nil
	}
	s.profile = p
	if err := s.reload(ctx); err != nil {
		return err
	}
	s.state = StateApp
	s.tab = DefaultTab
	return nil
}

// reload replaces every in-memory snapshot with authoritative store state.
// Callers hold the lock.
func (s *Session) reload(ctx context.Context) error {
	spends, err := s.store.ListSpend(ctx)
	if err != nil {
		return fmt.Errorf("failed to load spends: %w", err)
	}
	tokens, err := s.store.ListTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}
	cheatDays, err := s.store.ListCheatDays(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cheat days: %w", err)
	}
	groceries, err := s.store.ListGrocery(ctx)
	if err != nil {
		return fmt.Errorf("failed to load grocery list: %w", err)
	}
	s.spends, s.tokens, s.cheatDays, s.groceries = spends, tokens, cheatDays, groceries
	return nil
}

// CompleteOnboarding persists the profile and enters the app. A failed write
// still enters the app with the draft profile; availability wins over
// consistency here, the profile is retried on the next save.
func (s *Session) CompleteOnboarding(ctx context.Context, p profile.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalized()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		log.Printf("Profile save failed, continuing with draft: %v", err)
	}
	s.profile = &p
	s.state = StateApp
	s.tab = DefaultTab
}

// SaveProfile updates the profile from the profile tab.
func (s *Session) SaveProfile(ctx context.Context, p profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p = p.Normalized()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return err
	}
	s.profile = &p
	return nil
}

// SessionLost clears all in-memory state and drops to auth. Valid from any
// state.
func (s *Session) SessionLost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.state = StateAuth
}

// Logout clears session state, resets the tab and drops to auth.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
	s.state = StateAuth
}

func (s *Session) clear() {
	s.profile = nil
	s.spends = nil
	s.tokens = nil
	s.cheatDays = nil
	s.groceries = nil
	s.tab = DefaultTab
	s.generation++
}

// DailyBudget returns the profile budget, or the default when onboarding has
// not produced a profile yet.
func (s *Session) DailyBudget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyBudget()
}

func (s *Session) dailyBudget() float64 {
	if s.profile == nil {
		return profile.DefaultDailyBudget
	}
	return s.profile.DailyBudget
}

// TodayTotal sums today's logged spend.
func (s *Session) TodayTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spend.DailyTotal(spend.Today(s.spends, s.now()))
}

// AddSpend logs an expense optimistically. On persistence failure the entry
// is removed again and the error returned. A successful third entry of the
// day triggers the logging-streak token as a side effect; a failed streak
// award never fails the spend.
func (s *Session) AddSpend(ctx context.Context, label string, amount float64) (spend.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return spend.Entry{}, ErrNotInApp
	}
	entry, err := spend.NewEntry(uuid.NewString(), s.now(), label, amount)
	if err != nil {
		return spend.Entry{}, err
	}

	snapshot := s.spends
	s.spends = append([]spend.Entry{entry}, s.spends...)
	saved, err := s.store.AddSpend(ctx, entry)
	if err != nil {
		s.spends = snapshot
		return spend.Entry{}, err
	}
	s.spends[0] = saved

	if len(spend.Today(s.spends, s.now())) == spend.StreakEntryCount {
		if _, err := s.award(ctx, rewards.ReasonLoggingStreak); err != nil && err != rewards.ErrDailyCapReached {
			log.Printf("Logging-streak award failed: %v", err)
		}
	}
	return saved, nil
}

// DeleteSpend removes an expense optimistically.
func (s *Session) DeleteSpend(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return ErrNotInApp
	}
	snapshot := s.spends
	kept := make([]spend.Entry, 0, len(s.spends))
	for _, e := range s.spends {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.spends = kept
	if err := s.store.DeleteSpend(ctx, id); err != nil {
		s.spends = snapshot
		return err
	}
	return nil
}

// award writes a token through the ledger and applies it to the snapshot.
// Callers hold the lock.
func (s *Session) award(ctx context.Context, reason rewards.Reason) (rewards.Token, error) {
	t, err := s.ledger.Award(ctx, s.tokens, reason)
	if err != nil {
		return rewards.Token{}, err
	}
	s.tokens = append([]rewards.Token{t}, s.tokens...)
	return t, nil
}

// CanClaimUnderBudget reports whether today qualifies for the under-budget
// token and it has not been claimed yet.
func (s *Session) CanClaimUnderBudget() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := spend.Today(s.spends, s.now())
	return spend.UnderBudget(s.dailyBudget(), spend.DailyTotal(today)) &&
		rewards.CanEarn(s.tokens, rewards.ReasonUnderBudget, s.now())
}

// ClaimUnderBudget awards the under-budget token for today.
func (s *Session) ClaimUnderBudget(ctx context.Context) (rewards.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return rewards.Token{}, ErrNotInApp
	}
	today := spend.Today(s.spends, s.now())
	if !spend.UnderBudget(s.dailyBudget(), spend.DailyTotal(today)) {
		return rewards.Token{}, ErrNotEligible
	}
	return s.award(ctx, rewards.ReasonUnderBudget)
}

// AwardHealthyMeal gives a healthy-meal token, capped at two per day.
func (s *Session) AwardHealthyMeal(ctx context.Context) (rewards.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return rewards.Token{}, ErrNotInApp
	}
	return s.award(ctx, rewards.ReasonHealthyMeal)
}

// RedeemCheatDay converts five tokens into a cheat day.
func (s *Session) RedeemCheatDay(ctx context.Context) (rewards.CheatDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return rewards.CheatDay{}, ErrNotInApp
	}
	d, err := s.ledger.Redeem(ctx, s.tokens, s.cheatDays, rewards.TokensPerCheatDay)
	if err != nil {
		return rewards.CheatDay{}, err
	}
	s.cheatDays = append([]rewards.CheatDay{d}, s.cheatDays...)
	return d, nil
}

// AddRecipeToGrocery appends a recipe's ingredients to the list. The
// optimistic items carry placeholder ids that are replaced by the stored ones
// on success.
func (s *Session) AddRecipeToGrocery(ctx context.Context, r recipe.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return ErrNotInApp
	}
	newItems := grocery.FromRecipe(r)
	if len(newItems) == 0 {
		return nil
	}
	snapshot := s.groceries
	for _, n := range newItems {
		s.groceries = append(s.groceries, grocery.Item{Name: n.Name, SourceRecipeName: n.SourceRecipeName, SourceRecipeEmoji: n.SourceRecipeEmoji, CreatedAt: s.now()})
	}
	added, err := s.store.AddGroceryItems(ctx, newItems)
	if err != nil {
		s.groceries = snapshot
		return err
	}
	s.groceries = append(snapshot, added...)
	return nil
}

// ToggleGroceryItem flips the checked flag optimistically.
func (s *Session) ToggleGroceryItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return ErrNotInApp
	}
	idx := -1
	for i := range s.groceries {
		if s.groceries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	s.groceries[idx].Checked = !s.groceries[idx].Checked
	if err := s.store.ToggleGroceryItem(ctx, id); err != nil {
		s.groceries[idx].Checked = !s.groceries[idx].Checked
		return err
	}
	return nil
}

// DeleteGroceryItem removes one item optimistically.
func (s *Session) DeleteGroceryItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return ErrNotInApp
	}
	snapshot := s.groceries
	kept := make([]grocery.Item, 0, len(s.groceries))
	for _, it := range s.groceries {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.groceries = kept
	if err := s.store.DeleteGroceryItem(ctx, id); err != nil {
		s.groceries = snapshot
		return err
	}
	return nil
}

// ClearCheckedItems bulk-removes ticked items. Precise rollback is not worth
// reconstructing for a bulk delete; on failure the list is reloaded from the
// store instead.
func (s *Session) ClearCheckedItems(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return ErrNotInApp
	}
	kept := make([]grocery.Item, 0, len(s.groceries))
	for _, it := range s.groceries {
		if !it.Checked {
			kept = append(kept, it)
		}
	}
	s.groceries = kept
	if err := s.store.ClearCheckedItems(ctx); err != nil {
		if items, lerr := s.store.ListGrocery(ctx); lerr == nil {
			s.groceries = items
		}
		return err
	}
	return nil
}

// RecordMealSnap persists a graded meal photo.
func (s *Session) RecordMealSnap(ctx context.Context, g snap.GradeResult) (snap.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return snap.Record{}, ErrNotInApp
	}
	now := s.now()
	rec := snap.NewRecord(uuid.NewString(), now, snap.MealTypeAt(now), g)
	return s.store.SaveMealSnap(ctx, rec)
}

// MealSnaps lists the graded snap history, newest first.
func (s *Session) MealSnaps(ctx context.Context) ([]snap.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateApp {
		return nil, ErrNotInApp
	}
	return s.store.ListMealSnaps(ctx)
}

// BeginGeneration marks the start of an AI call and returns its generation.
func (s *Session) BeginGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation
}

// GenerationCurrent reports whether a result from the given generation may
// still be applied.
func (s *Session) GenerationCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}
