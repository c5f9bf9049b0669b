package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fakhrymubarak/skycast/internal/repository"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type PreferenceService struct {
	repo repository.PreferenceRepository
}

func NewPreferenceService(repo repository.PreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// Theme returns the stored theme, or "light" when none was stored.
func (s *PreferenceService) Theme(ctx context.Context) (string, error) {
	theme, err := s.repo.GetTheme(ctx)
	if err != nil {
		return "", err
	}
	if theme == "" {
		return ThemeLight, nil
	}
	return theme, nil
}

func (s *PreferenceService) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("%w: theme must be dark or light", ErrInvalidInput)
	}
	return s.repo.SetTheme(ctx, theme)
}

func (s *PreferenceService) SetPendingQuery(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("%w: empty query", ErrInvalidInput)
	}
	return s.repo.SetPendingQuery(ctx, query)
}

// TakePendingQuery consumes the stored query. A non-empty override wins over the
// stored value, which is cleared either way.
func (s *PreferenceService) TakePendingQuery(ctx context.Context, override string) (string, bool, error) {
	stored, ok, err := s.repo.TakePendingQuery(ctx)
	if err != nil {
		return "", false, err
	}
	if override = strings.TrimSpace(override); override != "" {
		return override, true, nil
	}
	return stored, ok, nil
}
