package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/plsleave/internal/model"
	"github.com/sakif/plsleave/internal/repository"
)

// SettingsService reads and writes per-user preferences.
//
// The default-on-absence rule lives here, not in the stores: a store reports
// "no record", and this layer decides that means motion detection is enabled.
type SettingsService struct {
	store  repository.SettingsStore
	logger *slog.Logger
}

// NewSettingsService creates a SettingsService backed by the given store.
func NewSettingsService(store repository.SettingsStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger}
}

// Get returns the settings for the given email, applying the default
// (motion enabled) when no record exists yet — a brand-new user or a store
// that was cleared both land here.
func (s *SettingsService) Get(ctx context.Context, email string) (model.Settings, error) {
	settings, ok, err := s.store.Get(ctx, email)
	if err != nil {
		return model.Settings{}, fmt.Errorf("service/settings: getting settings for %s: %w", email, err)
	}
	if !ok {
		return model.DefaultSettings(), nil
	}
	return settings, nil
}

// SetMotion overwrites the motion preference unconditionally.
// Last write wins — concurrent toggles for the same email resolve to
// whichever write lands last at the store.
func (s *SettingsService) SetMotion(ctx context.Context, email string, enabled bool) error {
	if err := s.store.Put(ctx, email, model.Settings{MotionEnabled: enabled}); err != nil {
		return fmt.Errorf("service/settings: putting settings for %s: %w", email, err)
	}

	s.logger.Info("motion preference updated",
		slog.String("email", email),
		slog.Bool("enabled", enabled),
	)
	return nil
}
