// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

// Package modelstore provides versioned persistence for trained model
// artifacts and the model registry document.
//
// Artifact payloads are serialized with gob, gzip-compressed, and written as
// one file per (name, version) pair. A single JSON registry document maps
// each artifact name to its latest version and training metadata, and a
// separate small JSON document holds the predictor's feature schema for
// reload-time alignment.
//
// # Storage Format
//
//	<dir>/model_registry.json        name -> {version, metadata}
//	<dir>/<name>_v<version>.gob.gz   gob(storedFile{checksum, gzip(gob(payload))})
//	<dir>/predictor_features.json    {"feature_names": [...]}
//
// # Durability Contract
//
// The registry is the single source of truth for "is a model available". A
// registry entry whose binary file is missing or corrupt is treated as
// absent: Load reports not-found, it never returns an error to callers.
// Write failures are returned so training can report
// success-but-persist-failed.
//
// # Thread Safety
//
// All operations are safe for concurrent use; a single RWMutex serializes
// writers against the registry document.
package modelstore

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	registryFilename = "model_registry.json"
	featuresFilename = "predictor_features.json"
)

// Metadata is the training metadata blob shared by every artifact saved in
// one training call.
type Metadata struct {
	TrainedOn      time.Time `json:"trained_on"`
	SamplesTrained int       `json:"samples_trained"`

	// Predictor-only fields.
	FeaturesUsed  int                `json:"features_used,omitempty"`
	R2Likes       float64            `json:"r2_score_likes,omitempty"`
	R2Comments    float64            `json:"r2_score_comments,omitempty"`
	ValR2Likes    float64            `json:"val_r2_likes,omitempty"`
	ValR2Comments float64            `json:"val_r2_comments,omitempty"`
	Quantiles     map[string]float64 `json:"quantiles,omitempty"`

	// Detector-only fields.
	BaselineAvgLikes    int `json:"baseline_avg_likes,omitempty"`
	BaselineAvgComments int `json:"baseline_avg_comments,omitempty"`
}

// Entry is one registry record: the latest version of a named artifact plus
// its training metadata.
type Entry struct {
	Version  string   `json:"version"`
	Metadata Metadata `json:"metadata"`
}

// storedFile is the on-disk format for artifact binaries.
type storedFile struct {
	Name           string
	Version        string
	Checksum       string
	CompressedData []byte
}

// Store manages artifact persistence under a single directory.
type Store struct {
	dir string

	mu       sync.RWMutex
	registry map[string]Entry
}

// NewStore opens (creating if needed) a model store at dir and loads the
// registry document. A missing or unreadable registry document yields an
// empty registry, not an error.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create model store directory: %w", err)
	}

	s := &Store{
		dir:      dir,
		registry: make(map[string]Entry),
	}

	data, err := os.ReadFile(filepath.Join(dir, registryFilename))
	if err == nil {
		var reg map[string]Entry
		if err := json.Unmarshal(data, &reg); err == nil {
			s.registry = reg
		}
	}
	return s, nil
}

// Save persists an artifact payload and updates the registry entry for
// name. The registry document is rewritten atomically via rename.
func (s *Store) Save(name, version string, payload interface{}, meta Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode artifact %s: %w", name, err)
	}
	raw := buf.Bytes()

	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress artifact %s: %w", name, err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression for %s: %w", name, err)
	}

	sf := storedFile{
		Name:           name,
		Version:        version,
		Checksum:       hex.EncodeToString(hash[:]),
		CompressedData: compressed.Bytes(),
	}

	f, err := os.Create(s.artifactPath(name, version))
	if err != nil {
		return fmt.Errorf("create artifact file for %s: %w", name, err)
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		_ = f.Close()
		return fmt.Errorf("write artifact file for %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close artifact file for %s: %w", name, err)
	}

	s.registry[name] = Entry{Version: version, Metadata: meta}
	return s.writeRegistryLocked()
}

// Load reads the latest version of a named artifact into target.
//
// It returns (entry, true) on success. Any failure mode short of success -
// no registry entry, missing binary, checksum mismatch, decode failure -
// returns (nil, false); persistence reads never escalate errors.
func (s *Store) Load(name string, target interface{}) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.registry[name]
	if !ok {
		return nil, false
	}

	f, err := os.Open(s.artifactPath(name, entry.Version))
	if err != nil {
		return nil, false
	}
	defer func() { _ = f.Close() }()

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, false
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, false
	}
	raw, err := io.ReadAll(gzr)
	_ = gzr.Close()
	if err != nil {
		return nil, false
	}

	hash := sha256.Sum256(raw)
	if hex.EncodeToString(hash[:]) != sf.Checksum {
		return nil, false
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(target); err != nil {
		return nil, false
	}

	out := entry
	return &out, true
}

// Entry returns the registry record for name without touching the binary.
// Model status introspection uses this so it reflects durable truth rather
// than live in-memory state.
func (s *Store) Entry(name string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.registry[name]
	if !ok {
		return nil, false
	}
	out := entry
	return &out, true
}

// Names returns the artifact names currently present in the registry.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.registry))
	for name := range s.registry {
		out = append(out, name)
	}
	return out
}

// SaveFeatureSchema persists the predictor's ordered feature column names.
func (s *Store) SaveFeatureSchema(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := struct {
		FeatureNames []string `json:"feature_names"`
	}{FeatureNames: names}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feature schema: %w", err)
	}
	return s.writeFileAtomic(featuresFilename, data)
}

// LoadFeatureSchema returns the persisted feature column names, or nil when
// no schema document exists or it cannot be read.
func (s *Store) LoadFeatureSchema() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.dir, featuresFilename))
	if err != nil {
		return nil
	}
	var doc struct {
		FeatureNames []string `json:"feature_names"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.FeatureNames
}

func (s *Store) artifactPath(name, version string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_v%s.gob.gz", name, version))
}

// writeRegistryLocked rewrites the registry document. Caller holds mu.
func (s *Store) writeRegistryLocked() error {
	data, err := json.MarshalIndent(s.registry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	return s.writeFileAtomic(registryFilename, data)
}

func (s *Store) writeFileAtomic(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
