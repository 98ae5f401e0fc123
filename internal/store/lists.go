package store

import (
	"time"

	"github.com/google/uuid"
)

// List is a named collection of candidate ids.
type List struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	CandidateIDs []string  `json:"candidateIds"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Lists returns all candidate lists.
func (s *Store) Lists() ([]List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLists()
}

// ListByID returns the list with the given id.
func (s *Store) ListByID(id string) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.readLists()
	if err != nil {
		return nil, err
	}

	for i := range lists {
		if lists[i].ID == id {
			return &lists[i], nil
		}
	}

	return nil, ErrNotFound
}

// CreateList creates an empty list.
func (s *Store) CreateList(name, description string) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.readLists()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	list := List{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		CandidateIDs: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	lists = append(lists, list)
	if err := s.writeFile(listsFile, lists); err != nil {
		return nil, err
	}

	return &list, nil
}

// RenameList updates the list's name and description.
func (s *Store) RenameList(id, name, description string) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.readLists()
	if err != nil {
		return nil, err
	}

	for i := range lists {
		if lists[i].ID != id {
			continue
		}

		lists[i].Name = name
		lists[i].Description = description
		lists[i].UpdatedAt = time.Now().UTC()

		if err := s.writeFile(listsFile, lists); err != nil {
			return nil, err
		}
		return &lists[i], nil
	}

	return nil, ErrNotFound
}

// DeleteList removes the list with the given id.
func (s *Store) DeleteList(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.readLists()
	if err != nil {
		return err
	}

	filtered := lists[:0]
	for _, list := range lists {
		if list.ID != id {
			filtered = append(filtered, list)
		}
	}

	if len(filtered) == len(lists) {
		return ErrNotFound
	}

	return s.writeFile(listsFile, filtered)
}

// AddToList appends candidate ids to the list, skipping ids already present
// and duplicates within the input.
func (s *Store) AddToList(listID string, candidateIDs []string) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.readLists()
	if err != nil {
		return nil, err
	}

	for i := range lists {
		if lists[i].ID != listID {
			continue
		}

		existing := make(map[string]bool, len(lists[i].CandidateIDs))
		for _, id := range lists[i].CandidateIDs {
			existing[id] = true
		}

		for _, id := range candidateIDs {
			if existing[id] {
				continue
			}
			existing[id] = true
			lists[i].CandidateIDs = append(lists[i].CandidateIDs, id)
		}
		lists[i].UpdatedAt = time.Now().UTC()

		if err := s.writeFile(listsFile, lists); err != nil {
			return nil, err
		}
		return &lists[i], nil
	}

	return nil, ErrNotFound
}

// RemoveFromList deletes candidate ids from the list.
func (s *Store) RemoveFromList(listID string, candidateIDs []string) (*List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.readLists()
	if err != nil {
		return nil, err
	}

	drop := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		drop[id] = true
	}

	for i := range lists {
		if lists[i].ID != listID {
			continue
		}

		kept := lists[i].CandidateIDs[:0]
		for _, id := range lists[i].CandidateIDs {
			if !drop[id] {
				kept = append(kept, id)
			}
		}
		lists[i].CandidateIDs = kept
		lists[i].UpdatedAt = time.Now().UTC()

		if err := s.writeFile(listsFile, lists); err != nil {
			return nil, err
		}
		return &lists[i], nil
	}

	return nil, ErrNotFound
}

func (s *Store) readLists() ([]List, error) {
	lists := []List{}
	if err := s.readFile(listsFile, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}
