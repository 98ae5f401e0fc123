package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/AkhilKumar-Git/super-hire-ai/internal/candidate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	candidatesFile = "candidates.json"
	listsFile      = "lists.json"
	templatesFile  = "email_templates.json"
	emailLogsFile  = "email_logs.json"
)

var (
	// ErrNotFound is returned when a record with the given id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNoEmail is returned when a candidate cannot be persisted because it
	// lacks the email used as the dedupe key.
	ErrNoEmail = errors.New("candidate has no email")
)

// Store is a JSON-file-backed record store. Each record kind lives in its own
// file under the data directory; files are created lazily on first write.
// Store is scoped to an application instance, not a package singleton.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// New creates a store rooted at dir.
func New(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// CandidateRecord is a persisted candidate with storage metadata.
type CandidateRecord struct {
	candidate.Candidate
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Candidates returns all persisted candidates.
func (s *Store) Candidates() ([]CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCandidates()
}

// CandidateByID returns the candidate with the given id.
func (s *Store) CandidateByID(id string) (*CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readCandidates()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}

	return nil, ErrNotFound
}

// SaveCandidate persists a validated candidate, assigning a generated id and
// timestamps. Deduplication happens here, by case-insensitive email: when a
// record with the same email exists the existing record is returned and
// created is false. Candidates without an email are not persisted.
func (s *Store) SaveCandidate(c *candidate.Candidate) (*CandidateRecord, bool, error) {
	if c == nil || strings.TrimSpace(c.Email) == "" {
		return nil, false, ErrNoEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readCandidates()
	if err != nil {
		return nil, false, err
	}

	email := strings.ToLower(c.Email)
	for i := range records {
		if strings.ToLower(records[i].Email) == email {
			return &records[i], false, nil
		}
	}

	now := time.Now().UTC()
	record := CandidateRecord{
		Candidate: *c,
		CreatedAt: now,
		UpdatedAt: now,
	}
	record.ID = uuid.NewString()
	if record.Skills == nil {
		record.Skills = []string{}
	}

	records = append(records, record)
	if err := s.writeFile(candidatesFile, records); err != nil {
		return nil, false, err
	}

	s.logger.Debug("candidate persisted",
		zap.String("id", record.ID),
		zap.String("source", record.Source),
	)

	return &record, true, nil
}

func (s *Store) readCandidates() ([]CandidateRecord, error) {
	records := []CandidateRecord{}
	if err := s.readFile(candidatesFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// readFile decodes the named file into target. A missing file leaves the
// target untouched so callers start from their default value.
func (s *Store) readFile(name string, target any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}

	return nil
}

func (s *Store) writeFile(name string, data any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), encoded, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
