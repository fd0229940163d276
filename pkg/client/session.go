package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	keyToken = "token"
	keyTheme = "theme"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Session is a small persistent key/value store holding the bearer token
// and the theme preference. An empty path keeps everything in memory.
type Session struct {
	path string

	mu     sync.RWMutex
	values map[string]string

	// PrefersDark reports the OS colour scheme when no theme was stored.
	PrefersDark func() bool
}

func NewMemorySession() *Session {
	return &Session{values: map[string]string{}, PrefersDark: osPrefersDark}
}

func OpenSession(path string) (*Session, error) {
	s := &Session{path: path, values: map[string]string{}, PrefersDark: osPrefersDark}
	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(buf) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(buf, &s.values); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (s *Session) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *Session) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.saveLocked()
}

func (s *Session) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.saveLocked()
}

func (s *Session) saveLocked() error {
	if s.path == "" {
		return nil
	}
	buf, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Session) Token() string { return s.Get(keyToken) }

func (s *Session) SetToken(tok string) error { return s.Set(keyToken, tok) }

func (s *Session) ClearToken() error { return s.Delete(keyToken) }

// Theme returns the stored theme, falling back to the OS preference.
func (s *Session) Theme() string {
	switch t := s.Get(keyTheme); t {
	case ThemeDark, ThemeLight:
		return t
	}
	if s.PrefersDark != nil && s.PrefersDark() {
		return ThemeDark
	}
	return ThemeLight
}

func (s *Session) IsDark() bool { return s.Theme() == ThemeDark }

func (s *Session) SetDark(dark bool) error {
	if dark {
		return s.Set(keyTheme, ThemeDark)
	}
	return s.Set(keyTheme, ThemeLight)
}

// ToggleTheme flips the current theme and stores the result.
func (s *Session) ToggleTheme() (string, error) {
	dark := !s.IsDark()
	if err := s.SetDark(dark); err != nil {
		return "", err
	}
	return s.Theme(), nil
}

func osPrefersDark() bool {
	if v := os.Getenv("GTK_THEME"); strings.HasSuffix(strings.ToLower(v), ":dark") {
		return true
	}
	// COLORFGBG is "fg;bg"; backgrounds 0-6 and 8 are dark terminal colours.
	if v := os.Getenv("COLORFGBG"); v != "" {
		parts := strings.Split(v, ";")
		switch parts[len(parts)-1] {
		case "0", "1", "2", "3", "4", "5", "6", "8":
			return true
		}
	}
	return false
}
