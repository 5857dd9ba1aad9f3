// Package preferences хранит пользовательские настройки клиента.
package preferences

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rajivgeraev/estatepro/internal/storage"
)

// ThemeKey ключ хранилища для темы
const ThemeKey = "theme"

// Theme тема оформления
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme разбирает название темы
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (expected light or dark)", s)
}

// Themes единственный писатель ключа theme
type Themes struct {
	store  storage.Store
	logger *zap.Logger

	mu      sync.Mutex
	current Theme
	loaded  bool
}

// NewThemes создаёт хранилище темы
func NewThemes(store storage.Store, logger *zap.Logger) *Themes {
	return &Themes{store: store, logger: logger}
}

// Get возвращает сохранённую тему. Отсутствующее или неизвестное значение даёт светлую тему.
func (t *Themes) Get() Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getLocked()
}

// Set сохраняет тему
func (t *Themes) Set(theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Set(ThemeKey, string(theme)); err != nil {
		return fmt.Errorf("ошибка сохранения темы: %w", err)
	}
	t.current = theme
	t.loaded = true
	return nil
}

// Toggle переключает тему и возвращает новую
func (t *Themes) Toggle() (Theme, error) {
	t.mu.Lock()
	next := ThemeDark
	if t.getLocked() == ThemeDark {
		next = ThemeLight
	}
	t.mu.Unlock()

	if err := t.Set(next); err != nil {
		return "", err
	}
	return next, nil
}

func (t *Themes) getLocked() Theme {
	if t.loaded {
		return t.current
	}

	t.current = ThemeLight
	t.loaded = true

	raw, err := t.store.Get(ThemeKey)
	if err != nil {
		return t.current
	}
	theme, err := ParseTheme(raw)
	if err != nil {
		t.logger.Warn("stored theme is invalid, using light", zap.String("value", raw))
		return t.current
	}
	t.current = theme
	return t.current
}
