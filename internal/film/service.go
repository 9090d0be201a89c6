package film

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"filmgate.io/internal/ids"
)

// Service defines film catalog operations. The auth core treats this as an
// external collaborator; handlers pass requests straight through.
type Service interface {
	Create(ctx context.Context, title, director string, year int) (Film, error)
	List(ctx context.Context) ([]Film, error)
	Get(ctx context.Context, id string) (Film, error)
	Update(ctx context.Context, id string, upd Update) (Film, error)
	Delete(ctx context.Context, id string) error
}

// Validate rejects blank titles and directors and implausible years. Both
// catalog backends apply it before writing.
func Validate(title, director string, year int) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(director) == "" {
		return ErrInvalidInput
	}
	if year < 1888 || year > time.Now().Year()+1 {
		return ErrInvalidInput
	}
	return nil
}

// Validate checks only the fields an update supplies.
func (u Update) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ErrInvalidInput
	}
	if u.Director != nil && strings.TrimSpace(*u.Director) == "" {
		return ErrInvalidInput
	}
	if u.Year != nil && (*u.Year < 1888 || *u.Year > time.Now().Year()+1) {
		return ErrInvalidInput
	}
	return nil
}

// InMemory implements Service with in-process concurrency safety.
type InMemory struct {
	mu    sync.RWMutex
	films map[string]*Film
}

// NewInMemory creates an empty catalog.
func NewInMemory() *InMemory {
	return &InMemory{films: make(map[string]*Film)}
}

func (s *InMemory) Create(ctx context.Context, title, director string, year int) (Film, error) {
	if err := Validate(title, director, year); err != nil {
		return Film{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	f := &Film{
		ID:        ids.New(),
		Title:     strings.TrimSpace(title),
		Director:  strings.TrimSpace(director),
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.films[f.ID] = f
	return *f, nil
}

func (s *InMemory) List(ctx context.Context) ([]Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Film, 0, len(s.films))
	for _, f := range s.films {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, id string) (Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.films[id]
	if !ok {
		return Film{}, ErrNotFound
	}
	return *f, nil
}

func (s *InMemory) Update(ctx context.Context, id string, upd Update) (Film, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.films[id]
	if !ok {
		return Film{}, ErrNotFound
	}
	next := *f
	if upd.Title != nil {
		next.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Director != nil {
		next.Director = strings.TrimSpace(*upd.Director)
	}
	if upd.Year != nil {
		next.Year = *upd.Year
	}
	if err := Validate(next.Title, next.Director, next.Year); err != nil {
		return Film{}, err
	}
	next.UpdatedAt = time.Now().UTC()
	s.films[id] = &next
	return next, nil
}

func (s *InMemory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.films[id]; !ok {
		return ErrNotFound
	}
	delete(s.films, id)
	return nil
}
