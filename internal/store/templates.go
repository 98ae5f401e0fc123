package store

import (
	"time"

	"github.com/google/uuid"
)

// EmailTemplate is a reusable outreach template. At most one template is
// marked as the default.
type EmailTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmailStatus tracks the lifecycle of a sent email.
type EmailStatus string

const (
	EmailStatusSent      EmailStatus = "SENT"
	EmailStatusFailed    EmailStatus = "FAILED"
	EmailStatusDelivered EmailStatus = "DELIVERED"
	EmailStatusOpened    EmailStatus = "OPENED"
	EmailStatusClicked   EmailStatus = "CLICKED"
	EmailStatusBounced   EmailStatus = "BOUNCED"
)

// EmailLogEntry is one append-only record of an outreach attempt.
type EmailLogEntry struct {
	ID          string      `json:"id"`
	To          string      `json:"to"`
	Subject     string      `json:"subject"`
	Content     string      `json:"content"`
	Status      EmailStatus `json:"status"`
	CandidateID string      `json:"candidateId"`
	SentAt      time.Time   `json:"sentAt"`
}

// Templates returns all email templates.
func (s *Store) Templates() ([]EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readTemplates()
}

// TemplateByID returns the template with the given id.
func (s *Store) TemplateByID(id string) (*EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.readTemplates()
	if err != nil {
		return nil, err
	}

	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}

	return nil, ErrNotFound
}

// SaveTemplate creates the template when id is empty, otherwise updates the
// existing one. Marking a template as default unsets any previous default.
func (s *Store) SaveTemplate(template EmailTemplate, id string) (*EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.readTemplates()
	if err != nil {
		return nil, err
	}

	if template.IsDefault {
		for i := range templates {
			templates[i].IsDefault = false
		}
	}

	now := time.Now().UTC()

	if id != "" {
		for i := range templates {
			if templates[i].ID != id {
				continue
			}

			templates[i].Name = template.Name
			templates[i].Subject = template.Subject
			templates[i].Body = template.Body
			templates[i].IsDefault = template.IsDefault
			templates[i].UpdatedAt = now

			if err := s.writeFile(templatesFile, templates); err != nil {
				return nil, err
			}
			return &templates[i], nil
		}
		return nil, ErrNotFound
	}

	template.ID = uuid.NewString()
	template.CreatedAt = now
	template.UpdatedAt = now

	templates = append(templates, template)
	if err := s.writeFile(templatesFile, templates); err != nil {
		return nil, err
	}

	return &template, nil
}

// DeleteTemplate removes the template with the given id.
func (s *Store) DeleteTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.readTemplates()
	if err != nil {
		return err
	}

	filtered := templates[:0]
	for _, t := range templates {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}

	if len(filtered) == len(templates) {
		return ErrNotFound
	}

	return s.writeFile(templatesFile, filtered)
}

// LogEmail appends an outreach record, assigning an id and timestamp.
func (s *Store) LogEmail(entry EmailLogEntry) (*EmailLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := []EmailLogEntry{}
	if err := s.readFile(emailLogsFile, &logs); err != nil {
		return nil, err
	}

	entry.ID = uuid.NewString()
	entry.SentAt = time.Now().UTC()

	logs = append(logs, entry)
	if err := s.writeFile(emailLogsFile, logs); err != nil {
		return nil, err
	}

	return &entry, nil
}

// EmailLogs returns outreach records, optionally filtered by candidate id.
func (s *Store) EmailLogs(candidateID string) ([]EmailLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := []EmailLogEntry{}
	if err := s.readFile(emailLogsFile, &logs); err != nil {
		return nil, err
	}

	if candidateID == "" {
		return logs, nil
	}

	filtered := []EmailLogEntry{}
	for _, entry := range logs {
		if entry.CandidateID == candidateID {
			filtered = append(filtered, entry)
		}
	}

	return filtered, nil
}

func (s *Store) readTemplates() ([]EmailTemplate, error) {
	templates := []EmailTemplate{}
	if err := s.readFile(templatesFile, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
