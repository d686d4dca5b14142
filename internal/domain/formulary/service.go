package formulary

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("drug not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]DrugProfile, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id DrugID) (DrugProfile, error) {
	if strings.TrimSpace(string(id)) == "" {
		return DrugProfile{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
