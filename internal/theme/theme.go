// Package theme implements display-preference state (dark mode, language,
// neon accent color) on top of a reactive state store.
package theme

import (
	"log/slog"
	"time"

	"github.com/ozodbek-r/neoneats/internal/models"
	"github.com/ozodbek-r/neoneats/internal/snapshot"
	"github.com/ozodbek-r/neoneats/internal/store"
)

// StorageKey is the snapshot key the theme persists under.
const StorageKey = "theme-storage"

// Options configures a Theme.
type Options struct {
	Snapshot snapshot.Store
	Debounce time.Duration
	Logger   *slog.Logger
}

// Theme provides the preference operations over a Store[models.ThemeState].
type Theme struct {
	store *store.Store[models.ThemeState]
}

// New creates a Theme, restoring persisted preferences. A restored state
// with an unknown neon color falls back to the default accent.
func New(opts Options) *Theme {
	var storeOpts []store.Option[models.ThemeState]
	if opts.Snapshot != nil {
		storeOpts = append(storeOpts, store.WithSnapshot[models.ThemeState](opts.Snapshot, StorageKey))
	}
	if opts.Debounce > 0 {
		storeOpts = append(storeOpts, store.WithDebounce[models.ThemeState](opts.Debounce))
	}
	if opts.Logger != nil {
		storeOpts = append(storeOpts, store.WithLogger[models.ThemeState](opts.Logger))
	}

	t := &Theme{store: store.New("theme", models.DefaultTheme(), storeOpts...)}

	t.store.Update(func(st models.ThemeState) models.ThemeState {
		if _, err := models.ParseNeonColor(string(st.NeonColor)); err != nil {
			st.NeonColor = models.DefaultTheme().NeonColor
		}
		if st.Language == "" {
			st.Language = models.DefaultTheme().Language
		}
		return st
	})

	return t
}

// Current returns the preferences as of now.
func (t *Theme) Current() models.ThemeState {
	return t.store.Get()
}

// ToggleDarkMode flips the dark-mode flag.
func (t *Theme) ToggleDarkMode() error {
	return t.store.Update(func(st models.ThemeState) models.ThemeState {
		st.IsDarkMode = !st.IsDarkMode
		return st
	})
}

// SetLanguage sets the UI language code (e.g. "en", "uz", "ru").
func (t *Theme) SetLanguage(lang string) error {
	return t.store.Update(func(st models.ThemeState) models.ThemeState {
		st.Language = lang
		return st
	})
}

// SetNeonColor sets the accent color. Unknown colors are rejected.
func (t *Theme) SetNeonColor(color models.NeonColor) error {
	if _, err := models.ParseNeonColor(string(color)); err != nil {
		return err
	}
	return t.store.Update(func(st models.ThemeState) models.ThemeState {
		st.NeonColor = color
		return st
	})
}

// Subscribe registers a listener for preference changes.
func (t *Theme) Subscribe(listener func(models.ThemeState)) (unsubscribe func()) {
	return t.store.Subscribe(listener)
}

// Close disposes the underlying store.
func (t *Theme) Close() {
	t.store.Close()
}
