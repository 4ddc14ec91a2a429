package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cravecare/internal/grocery"
	"cravecare/internal/profile"
	"cravecare/internal/rewards"
	"cravecare/internal/snap"
	"cravecare/internal/spend"
)

// SQLStore persists one user's collections in SQLite. The user id is fixed
// at construction; every query filters on it.
type SQLStore struct {
	db     *sql.DB
	userID string
	newID  func() string
	now    func() time.Time
}

// NewSQLStore returns a store scoped to the given user.
func NewSQLStore(db *sql.DB, userID string) *SQLStore {
	return &SQLStore{db: db, userID: userID, newID: uuid.NewString, now: time.Now}
}

func (s *SQLStore) GetProfile(ctx context.Context) (*profile.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, appliances, last_period_date, has_pcos, primary_goal, daily_budget
		FROM profiles WHERE user_id = ?`, s.userID)

	var p profile.Profile
	var appliances string
	err := row.Scan(&p.Name, &appliances, &p.LastPeriodDate, &p.HasPCOS, &p.PrimaryGoal, &p.DailyBudget)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if err := json.Unmarshal([]byte(appliances), &p.Appliances); err != nil {
		p.Appliances = []string{}
	}
	p = p.Normalized()
	return &p, nil
}

func (s *SQLStore) SaveProfile(ctx context.Context, p profile.Profile) error {
	p = p.Normalized()
	appliances, err := json.Marshal(p.Appliances)
	if err != nil {
		return fmt.Errorf("failed to marshal appliances: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, appliances, last_period_date, has_pcos, primary_goal, daily_budget, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			appliances = excluded.appliances,
			last_period_date = excluded.last_period_date,
			has_pcos = excluded.has_pcos,
			primary_goal = excluded.primary_goal,
			daily_budget = excluded.daily_budget,
			updated_at = excluded.updated_at`,
		s.userID, p.Name, string(appliances), p.LastPeriodDate, p.HasPCOS, p.PrimaryGoal, p.DailyBudget, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *SQLStore) ListSpend(ctx context.Context) ([]spend.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, amount, ts, date FROM spend_entries
		WHERE user_id = ? ORDER BY ts DESC`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spend entries: %w", err)
	}
	defer rows.Close()

	entries := []spend.Entry{}
	for rows.Next() {
		var e spend.Entry
		if err := rows.Scan(&e.ID, &e.Label, &e.Amount, &e.Timestamp, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan spend entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLStore) AddSpend(ctx context.Context, e spend.Entry) (spend.Entry, error) {
	if e.ID == "" {
		e.ID = s.newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spend_entries (id, user_id, label, amount, ts, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, s.userID, e.Label, e.Amount, e.Timestamp.UTC(), e.Date)
	if err != nil {
		return spend.Entry{}, fmt.Errorf("failed to add spend entry: %w", err)
	}
	return e, nil
}

func (s *SQLStore) DeleteSpend(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM spend_entries WHERE id = ? AND user_id = ?`, id, s.userID)
	if err != nil {
		return fmt.Errorf("failed to delete spend entry: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLStore) ListTokens(ctx context.Context) ([]rewards.Token, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reason, earned_at FROM tokens
		WHERE user_id = ? ORDER BY earned_at DESC`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer rows.Close()

	tokens := []rewards.Token{}
	for rows.Next() {
		var t rewards.Token
		if err := rows.Scan(&t.ID, &t.Reason, &t.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (s *SQLStore) AwardToken(ctx context.Context, t rewards.Token) (rewards.Token, error) {
	if t.ID == "" {
		t.ID = s.newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (id, user_id, reason, earned_at)
		VALUES (?, ?, ?, ?)`,
		t.ID, s.userID, t.Reason, t.EarnedAt.UTC())
	if err != nil {
		return rewards.Token{}, fmt.Errorf("failed to award token: %w", err)
	}
	return t, nil
}

func (s *SQLStore) ListCheatDays(ctx context.Context) ([]rewards.CheatDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, unlocked_at, tokens_spent FROM cheat_days
		WHERE user_id = ? ORDER BY unlocked_at DESC`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cheat days: %w", err)
	}
	defer rows.Close()

	days := []rewards.CheatDay{}
	for rows.Next() {
		var c rewards.CheatDay
		if err := rows.Scan(&c.ID, &c.UnlockedAt, &c.TokensSpent); err != nil {
			return nil, fmt.Errorf("failed to scan cheat day: %w", err)
		}
		days = append(days, c)
	}
	return days, rows.Err()
}

func (s *SQLStore) RedeemCheatDay(ctx context.Context, c rewards.CheatDay) (rewards.CheatDay, error) {
	if c.ID == "" {
		c.ID = s.newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cheat_days (id, user_id, unlocked_at, tokens_spent)
		VALUES (?, ?, ?, ?)`,
		c.ID, s.userID, c.UnlockedAt.UTC(), c.TokensSpent)
	if err != nil {
		return rewards.CheatDay{}, fmt.Errorf("failed to redeem cheat day: %w", err)
	}
	return c, nil
}

func (s *SQLStore) ListGrocery(ctx context.Context) ([]grocery.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, checked, source_recipe_name, source_recipe_emoji, quantity, created_at
		FROM grocery_items WHERE user_id = ? ORDER BY created_at ASC`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery items: %w", err)
	}
	defer rows.Close()

	items := []grocery.Item{}
	for rows.Next() {
		var it grocery.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Checked, &it.SourceRecipeName, &it.SourceRecipeEmoji, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grocery item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLStore) AddGroceryItems(ctx context.Context, newItems []grocery.NewItem) ([]grocery.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	added := make([]grocery.Item, 0, len(newItems))
	for _, n := range newItems {
		it := grocery.Item{
			ID:                s.newID(),
			Name:              n.Name,
			SourceRecipeName:  n.SourceRecipeName,
			SourceRecipeEmoji: n.SourceRecipeEmoji,
			Quantity:          n.Quantity,
			CreatedAt:         s.now().UTC(),
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO grocery_items (id, user_id, name, checked, source_recipe_name, source_recipe_emoji, quantity, created_at)
			VALUES (?, ?, ?, 0, ?, ?, ?, ?)`,
			it.ID, s.userID, it.Name, it.SourceRecipeName, it.SourceRecipeEmoji, it.Quantity, it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to add grocery item: %w", err)
		}
		added = append(added, it)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit grocery items: %w", err)
	}
	return added, nil
}

func (s *SQLStore) ToggleGroceryItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE grocery_items SET checked = NOT checked
		WHERE id = ? AND user_id = ?`, id, s.userID)
	if err != nil {
		return fmt.Errorf("failed to toggle grocery item: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLStore) DeleteGroceryItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM grocery_items WHERE id = ? AND user_id = ?`, id, s.userID)
	if err != nil {
		return fmt.Errorf("failed to delete grocery item: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLStore) ClearCheckedItems(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM grocery_items WHERE user_id = ? AND checked = 1`, s.userID)
	if err != nil {
		return fmt.Errorf("failed to clear checked items: %w", err)
	}
	return nil
}

func (s *SQLStore) SaveMealSnap(ctx context.Context, r snap.Record) (snap.Record, error) {
	if r.ID == "" {
		r.ID = s.newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meal_snaps (id, user_id, meal_type, grade, protein, carbs, fat, fiber, calories, verdict, upgrade_tip, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, s.userID, string(r.MealType), r.Grade, r.Protein, r.Carbs, r.Fat, r.Fiber, r.Calories, r.Verdict, r.UpgradeTip, r.ImageURL, r.CreatedAt.UTC())
	if err != nil {
		return snap.Record{}, fmt.Errorf("failed to save meal snap: %w", err)
	}
	return r, nil
}

func (s *SQLStore) ListMealSnaps(ctx context.Context) ([]snap.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, meal_type, grade, protein, carbs, fat, fiber, calories, verdict, upgrade_tip, image_url, created_at
		FROM meal_snaps WHERE user_id = ? ORDER BY created_at DESC`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal snaps: %w", err)
	}
	defer rows.Close()

	records := []snap.Record{}
	for rows.Next() {
		var r snap.Record
		var mealType string
		if err := rows.Scan(&r.ID, &mealType, &r.Grade, &r.Protein, &r.Carbs, &r.Fat, &r.Fiber, &r.Calories, &r.Verdict, &r.UpgradeTip, &r.ImageURL, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal snap: %w", err)
		}
		r.MealType = snap.MealType(mealType)
		records = append(records, r)
	}
	return records, rows.Err()
}

// requireAffected maps a zero-row write to ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
