// Package ml serves the recommendation stub and owns the model metadata it
// reports.
package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ModelFile is the metadata file written by the training job.
const ModelFile = "model-metadata.json"

// Model is the metadata of a trained recommender.
type Model struct {
	Version   string         `json:"version"`
	Algo      string         `json:"algo"`
	TrainedAt *time.Time     `json:"trained_at,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
}

// fallbackModel describes the static recommender used when nothing is loaded.
var fallbackModel = Model{Version: "0.0.0", Algo: "mock-content-based"}

// Registry holds the currently loaded model. It is safe for concurrent use.
type Registry struct {
	dir    string
	logger *slog.Logger

	mu       sync.RWMutex
	model    *Model
	loadedAt time.Time
}

func NewRegistry(dir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{dir: dir, logger: logger}
}

// Reload reads the metadata file again. A missing file clears the model.
// A file that cannot be parsed leaves the previous model in place.
func (r *Registry) Reload() (*Model, error) {
	path := filepath.Join(r.dir, ModelFile)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.set(nil)
		r.logger.Warn("ml_model_missing", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}

	var m Model
	if err := json.Unmarshal(raw, &m); err != nil {
		r.logger.Error("ml_model_invalid", "path", path, "error", err)
		return nil, fmt.Errorf("parse model metadata: %w", err)
	}
	r.set(&m)
	r.logger.Info("ml_model_loaded", "version", m.Version, "algo", m.Algo)
	return &m, nil
}

func (r *Registry) set(m *Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model = m
	r.loadedAt = time.Now()
}

// Current returns a copy of the loaded model.
func (r *Registry) Current() (Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.model == nil {
		return Model{}, false
	}
	return *r.model, true
}

// Effective returns the loaded model or the fallback metadata.
func (r *Registry) Effective() Model {
	if m, ok := r.Current(); ok {
		return m
	}
	return fallbackModel
}

func (r *Registry) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}
