package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// JSONFileRepository stores subscriptions as a JSON array in a single file.
// Example:
//
//	[
//	  {"id": "…", "name": "Netflix", "category": "Streaming", "cost": 15.99,
//	   "billingCycle": "monthly", "startDate": "2024-01-15", "status": "active"},
//	  {"id": "…", "name": "Gym", "category": "Wellness", "cost": 150,
//	   "billingCycle": "custom", "customMonths": 3, "startDate": "2024-12-01",
//	   "endDate": "2025-12-01", "status": "active"}
//	]
type JSONFileRepository struct {
	path string
}

func NewJSONFileRepository(path string) *JSONFileRepository {
	return &JSONFileRepository{path: path}
}

func (r *JSONFileRepository) Read(_ context.Context) ([]Subscription, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	return decodeSubscriptionsJSON(data)
}

// Write replaces the file atomically so a failed write never leaves a truncated document
func (r *JSONFileRepository) Write(_ context.Context, subs []Subscription) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encodeSubscriptionsJSON(tmp, subs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing %s: %w", r.path, err)
	}
	return nil
}

func decodeSubscriptionsJSON(data []byte) ([]Subscription, error) {
	var records []subscriptionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return fromRecords(records)
}

func encodeSubscriptionsJSON(w io.Writer, subs []Subscription) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecords(subs)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
