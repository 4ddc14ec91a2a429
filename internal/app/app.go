// Package app wires the application together and drives the per-identity
// session state machine.
package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"cravecare/internal/auth"
	"cravecare/internal/config"
	"cravecare/internal/database"
	"cravecare/internal/llm"
	"cravecare/internal/metrics"
	"cravecare/internal/recipe"
	"cravecare/internal/snap"
	"cravecare/internal/store"
)

// App holds the application's dependencies.
type App struct {
	cfg          *config.Config
	db           *database.DB
	auth         *auth.Service
	metricsStore *metrics.Store

	caller    *llm.GeminiCaller
	generator *recipe.Generator
	grader    *snap.Grader
}

// NewApp opens the database and builds every service. A missing Gemini key
// is not fatal: the app runs with the static catalog and fallback table and
// photo grading returns the generic result.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &App{
		cfg:          cfg,
		db:           db,
		auth:         auth.NewService(db.SQL, []byte(cfg.JWTSecret)),
		metricsStore: metrics.NewStore(db.SQL),
	}

	if cfg.GeminiAPIKey != "" {
		caller, err := llm.NewGeminiCaller(ctx, cfg.GeminiAPIKey)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		chain := llm.NewChain(caller, llm.DefaultModelChain...)
		a.caller = caller
		a.generator = recipe.NewGenerator(chain, nil)
		a.grader = snap.NewGrader(chain)
	} else {
		log.Println("GEMINI_API_KEY not set; running with static recipes only")
	}

	return a, nil
}

// Close releases the database and model client.
func (a *App) Close() error {
	if a.caller != nil {
		a.caller.Close()
	}
	return a.db.Close()
}

// Auth exposes the account service for the transport layer.
func (a *App) Auth() *auth.Service { return a.auth }

// Metrics exposes the generation metrics store.
func (a *App) Metrics() *metrics.Store { return a.metricsStore }

// DataDir is the base directory for guest-mode storage.
func (a *App) DataDir() string { return a.cfg.DataDir }

// UserSession returns a session over the SQLite store for a signed-in user.
func (a *App) UserSession(userID string) *Session {
	s := NewSession(store.NewSQLStore(a.db.SQL, userID), time.Now)
	s.identity = userID
	return s
}

// GuestSession returns a session over JSON files for an identity that never
// signed in. Each guest key gets its own directory.
func (a *App) GuestSession(key string) (*Session, error) {
	st, err := store.NewLocalStore(filepath.Join(a.cfg.DataDir, key))
	if err != nil {
		return nil, err
	}
	s := NewSession(st, time.Now)
	s.identity = key
	return s, nil
}

// GenerateRecipe runs one guarded AI generation for the session. When the
// chain is unavailable or exhausted the static fallback for the appliance and
// phase is returned instead; a result arriving after the session moved on is
// discarded in favor of the fallback.
func (a *App) GenerateRecipe(ctx context.Context, sess *Session, params recipe.GenerateParams) recipe.Recipe {
	if a.generator == nil {
		return recipe.Fallback(params.Appliance, params.Phase)
	}

	gen := sess.BeginGeneration()
	r, meta, ok := a.generator.Generate(ctx, params)
	a.recordMetric(ctx, sess.identity, metrics.KindRecipe, meta.Model, meta.Attempts, meta.Latency.Milliseconds(), ok)
	if !ok || !sess.GenerationCurrent(gen) {
		return recipe.Fallback(params.Appliance, params.Phase)
	}
	return r
}

// GradeMealSnap grades a photo, persists the snap and returns the stored
// record. Grading failures degrade to the generic result; the snap is logged
// either way.
func (a *App) GradeMealSnap(ctx context.Context, sess *Session, image []byte, mimeType string) (snap.Record, error) {
	result := snap.FallbackResult()
	if a.grader != nil {
		gen := sess.BeginGeneration()
		graded, meta, ok := a.grader.Grade(ctx, image, mimeType)
		a.recordMetric(ctx, sess.identity, metrics.KindGrade, meta.Model, meta.Attempts, meta.Latency.Milliseconds(), ok)
		if ok && sess.GenerationCurrent(gen) {
			result = graded
		}
	}
	return sess.RecordMealSnap(ctx, result)
}

func (a *App) recordMetric(ctx context.Context, identity, kind, model string, attempts int, latencyMS int64, ok bool) {
	err := a.metricsStore.Record(ctx, metrics.GenerationMetric{
		UserID:    identity,
		Kind:      kind,
		Model:     model,
		Attempts:  attempts,
		LatencyMS: latencyMS,
		Succeeded: ok,
	})
	if err != nil {
		log.Printf("Failed to record generation metric: %v", err)
	}
}
