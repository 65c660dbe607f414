package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/logging"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrAmbiguousRun = errors.New("storage: run id prefix is ambiguous")
)

type Store struct {
	baseDir string
	log     *logrus.Entry
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, log: logging.WithComponent("storage")}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Particles int                `json:"particles"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	G         float64            `json:"g"`
	Softening float64            `json:"softening"`
	Density   float64            `json:"density"`
	DomainMin [3]float64         `json:"domain_min"`
	DomainMax [3]float64         `json:"domain_max"`
	MaxDepth  int                `json:"max_depth"`
	Metrics   map[string]float64 `json:"metrics"`
}

// NewRunID returns a sortable id: a UTC timestamp plus a short random
// suffix.
func NewRunID(now time.Time) string {
	return now.UTC().Format("20060102-150405") + "-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Save writes metadata.json and frames.csv under a new run directory.
// meta.ID and meta.Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		meta.ID = NewRunID(meta.Timestamp)
	}
	meta.Metrics = result.Metrics

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFrames(csvFile, result.Frames); err != nil {
		return "", fmt.Errorf("write frames: %w", err)
	}

	s.log.WithFields(logrus.Fields{"run": meta.ID, "frames": len(result.Frames)}).Info("run saved")
	return meta.ID, nil
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			s.log.WithError(err).WithField("dir", entry.Name()).Debug("skipping run directory")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve expands a unique prefix of a run id.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err == nil {
		return prefix, nil
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			matches = append(matches, entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d runs", ErrAmbiguousRun, prefix, len(matches))
	}
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	return s.readMetadata(id)
}

func (s *Store) readMetadata(id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata of %s: %w", id, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, id, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadFrames(file)
}
