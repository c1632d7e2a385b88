package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/dailyenglish/internal/config"
	"github.com/abhisek/dailyenglish/internal/store"
)

// Fixed storage keys.
const (
	StateKey = "daily_english_state_v2"
	PrefsKey = "daily_english_ui_prefs_v1"
)

// Repo loads and saves the state and preference blobs.
type Repo struct {
	kv     store.KV
	logger *zap.Logger
}

// NewRepo returns a Repo over kv. A nil logger discards output.
func NewRepo(kv store.KV, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{kv: kv, logger: logger}
}

// Load returns the stored state, or nil when none exists or the stored
// blob cannot be trusted. Only storage failures are returned as errors.
func (r *Repo) Load(ctx context.Context) (*State, error) {
	raw, err := r.kv.Get(ctx, StateKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	st, err := Decode(raw)
	if err != nil {
		r.logger.Warn("discarding unreadable state", zap.Error(err))
		return nil, nil
	}
	return &st, nil
}

// Save overwrites the stored state.
func (r *Repo) Save(ctx context.Context, st State) error {
	raw, err := Encode(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.kv.Put(ctx, StateKey, raw); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Clear removes the stored state.
func (r *Repo) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, StateKey); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// LoadPrefs returns the stored preferences normalized against dailyGoal.
// Missing or unreadable preferences yield the defaults.
func (r *Repo) LoadPrefs(ctx context.Context, dailyGoal int) (config.Prefs, error) {
	raw, err := r.kv.Get(ctx, PrefsKey)
	if errors.Is(err, store.ErrNotFound) {
		return config.DefaultPrefs(dailyGoal), nil
	}
	if err != nil {
		return config.Prefs{}, fmt.Errorf("load prefs: %w", err)
	}

	var p config.Prefs
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Warn("discarding unreadable prefs", zap.Error(err))
		return config.DefaultPrefs(dailyGoal), nil
	}
	return p.Normalize(dailyGoal), nil
}

// SavePrefs overwrites the stored preferences.
func (r *Repo) SavePrefs(ctx context.Context, p config.Prefs) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := r.kv.Put(ctx, PrefsKey, raw); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// ClearPrefs removes the stored preferences.
func (r *Repo) ClearPrefs(ctx context.Context) error {
	if err := r.kv.Delete(ctx, PrefsKey); err != nil {
		return fmt.Errorf("clear prefs: %w", err)
	}
	return nil
}
