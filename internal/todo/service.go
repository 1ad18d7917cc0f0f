package todo

import (
	"context"
	"strings"
)

// Service 负责输入校验，存储细节交给 Repository
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, title string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, invalid("Title is required")
	}
	return s.repo.Create(ctx, title)
}

func (s *Service) List(ctx context.Context) ([]Todo, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Todo, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Todo, error) {
	if patch.Empty() {
		return Todo{}, invalid("No fields to update")
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return Todo{}, invalid("Title cannot be empty")
		}
		patch.Title = &trimmed
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
