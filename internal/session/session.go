// Package session persists the current-user pointer in a slot of its own,
// separate from the ledger data file. The stored id is a hint, not a fact:
// callers must resolve it against the roster before trusting it.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/nospelin-a11y/guerreros2026-2/internal/domain"
)

// record mirrors the cached profile fields. Only the id is read back; the
// rest exists so a reload reflects the latest profile without a lookup race.
type record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	Avatar   string `json:"avatar,omitempty"`
}

// Cache is a file-backed session slot.
type Cache struct {
	path   string
	logger *zap.Logger
}

// New constructs a Cache writing to path.
func New(path string, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{path: path, logger: logger}
}

// Save writes the session slot. Fire-and-forget: errors are logged only.
func (c *Cache) Save(u domain.User) {
	raw, err := json.Marshal(record{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
		Avatar:   u.Avatar,
	})
	if err != nil {
		c.logger.Error("serialize session", zap.Error(err))
		return
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.logger.Error("create session directory", zap.String("dir", dir), zap.Error(err))
			return
		}
	}
	if err := os.WriteFile(c.path, raw, 0o600); err != nil {
		c.logger.Error("write session", zap.String("path", c.path), zap.Error(err))
	}
}

// Load returns the stored user id, if any. The id must be resolved against
// the roster before use.
func (c *Cache) Load() (string, bool) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.logger.Warn("read session", zap.String("path", c.path), zap.Error(err))
		}
		return "", false
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil || rec.ID == "" {
		c.Clear()
		return "", false
	}
	return rec.ID, true
}

// Clear discards the session slot.
func (c *Cache) Clear() {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("clear session", zap.String("path", c.path), zap.Error(err))
	}
}
