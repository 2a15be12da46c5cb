package basket

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=basket
type Repository interface {
	Load(ctx context.Context) ([]Model, error)
	Save(ctx context.Context, models []Model) error
}

// Service is the basket model registry. Models are immutable once added.
type Service struct {
	mu   sync.Mutex
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name  string
	Lines []Line
}

func (s *Service) List(ctx context.Context) ([]Model, error) {
	models, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading basket models: %w", err)
	}

	return models, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Model, error) {
	models, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range models {
		if m.ID == id {
			return &m, nil
		}
	}

	return nil, ErrNotFound
}

// Add saves a new model. Lines referencing the same item are merged first.
func (s *Service) Add(ctx context.Context, params CreateParams) (*Model, error) {
	var lines []Line
	for _, l := range params.Lines {
		lines = MergeLine(lines, l)
	}

	m := Model{
		ID:    uuid.Must(uuid.NewV7()).String(),
		Name:  strings.TrimSpace(params.Name),
		Lines: lines,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	models, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading basket models: %w", err)
	}

	next := append(append([]Model(nil), models...), m)
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("saving basket models: %w", err)
	}

	return &m, nil
}
