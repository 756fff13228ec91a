// Package history persists completed optimization results in a single JSON
// document on disk, newest first. The file is the source of truth; every
// mutation rewrites it atomically.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	applog "github.com/mohanadbarakat001/ATS/internal/logger"
	"github.com/mohanadbarakat001/ATS/internal/types"
)

// DefaultFileName is the history file created under the user's data directory
const DefaultFileName = "history.json"

// DuplicateIDError reports an append whose result id is already stored
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("result %q already exists in history", e.ID)
}

// NotFoundError reports a lookup for an id that is not in the store
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("result %q not found in history", e.ID)
}

// Store is a file-backed append-mostly result store. All methods are safe for
// concurrent use within one process.
type Store struct {
	mu      sync.Mutex
	path    string
	results []types.OptimizationResult
	logger  *zap.Logger
}

// DefaultPath returns the conventional history location under the home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ats", DefaultFileName), nil
}

// Open loads the store at path, creating parent directories as needed. A
// missing file yields an empty store; an unreadable or corrupt file is logged
// and treated as empty rather than blocking the workflow.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		logger.Warn("history file unreadable, starting empty",
			zap.String("path", path), zap.Error(err))
		return s, nil
	}

	var results []types.OptimizationResult
	if err := json.Unmarshal(data, &results); err != nil {
		logger.Warn("history file corrupt, starting empty",
			zap.String("path", path), zap.Error(err))
		return s, nil
	}

	s.results = results
	return s, nil
}

// Path returns the backing file location
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of stored results
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Append stores a new result at the head of the history. Results are
// immutable once stored; an id collision is rejected.
func (s *Store) Append(result types.OptimizationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.results {
		if r.ID == result.ID {
			return &DuplicateIDError{ID: result.ID}
		}
	}

	updated := make([]types.OptimizationResult, 0, len(s.results)+1)
	updated = append(updated, result)
	updated = append(updated, s.results...)

	if err := s.write(updated); err != nil {
		return err
	}

	s.results = updated
	s.logger.Info("stored optimization result",
		zap.String("id", result.ID),
		zap.String("target_role", applog.TruncateForLog(result.TargetRole, 64)),
		zap.Int("total", len(updated)))
	return nil
}

// All returns every stored result, newest first. The returned slice is a
// copy; callers may not mutate store state through it.
func (s *Store) All() []types.OptimizationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.OptimizationResult(nil), s.results...)
}

// Get returns the stored result with the given id
func (s *Store) Get(id string) (types.OptimizationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, nil
		}
	}
	return types.OptimizationResult{}, &NotFoundError{ID: id}
}

// Remove deletes one result from the history
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.results {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{ID: id}
	}

	updated := append([]types.OptimizationResult(nil), s.results[:idx]...)
	updated = append(updated, s.results[idx+1:]...)

	if err := s.write(updated); err != nil {
		return err
	}

	s.results = updated
	s.logger.Info("removed optimization result", zap.String("id", id))
	return nil
}

// Clear deletes every stored result
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write([]types.OptimizationResult{}); err != nil {
		return err
	}

	s.results = nil
	s.logger.Info("cleared history", zap.String("path", s.path))
	return nil
}

// write persists the full result list atomically: the document is written to
// a temp file in the same directory and renamed over the target, so readers
// never observe a partial history.
func (s *Store) write(results []types.OptimizationResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp history file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
