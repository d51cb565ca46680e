package contributor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contributor
type Repository interface {
	ListContributors(ctx context.Context) ([]*Contributor, error)
	GetContributor(ctx context.Context, id uuid.UUID) (*Contributor, error)
	GetContributors(ctx context.Context, ids []uuid.UUID) ([]*Contributor, error)
	ListWithContributions(ctx context.Context) ([]*WithContribution, error)
	DeleteContributor(ctx context.Context, id uuid.UUID) error

	// BeginPercentageChange opens a transaction holding the lock that
	// serializes all percentage-affecting mutations, so the sum check and the
	// write cannot interleave with a concurrent create or update.
	BeginPercentageChange(ctx context.Context) (PercentageTx, error)
}

type PercentageTx interface {
	// TotalPercentage sums the stored percentages, excluding excludeID when
	// non-nil (for updates, where the old share is being replaced).
	TotalPercentage(ctx context.Context, excludeID *uuid.UUID) (float64, error)
	CreateContributor(ctx context.Context, c *Contributor) error
	UpdateContributor(ctx context.Context, c *Contributor) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name       string
	Email      string
	Percentage float64
}

type UpdateParams struct {
	Name       *string
	Email      *string
	Percentage *float64
}

func (s *Service) List(ctx context.Context) ([]*Contributor, error) {
	return s.repo.ListContributors(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Contributor, error) {
	return s.repo.GetContributor(ctx, id)
}

func (s *Service) GetMany(ctx context.Context, ids []uuid.UUID) ([]*Contributor, error) {
	return s.repo.GetContributors(ctx, ids)
}

func (s *Service) WithContributions(ctx context.Context) ([]*WithContribution, error) {
	return s.repo.ListWithContributions(ctx)
}

// Create adds a contributor after validating that the stored percentages,
// including the new one, stay within 100. The check and the insert run in one
// transaction under the percentage lock.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Contributor, error) {
	if params.Percentage <= 0 || params.Percentage > 100 {
		return nil, fmt.Errorf("%w: got %.2f", ErrInvalidPercentage, params.Percentage)
	}

	tx, err := s.repo.BeginPercentageChange(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin percentage change: %w", err)
	}
	defer tx.Rollback()

	current, err := tx.TotalPercentage(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("summing percentages: %w", err)
	}

	if current+params.Percentage > 100 {
		return nil, fmt.Errorf("%w: current %.2f, requested %.2f",
			ErrPercentageExceeded, current, params.Percentage)
	}

	c := &Contributor{
		Name:       params.Name,
		Email:      params.Email,
		Percentage: params.Percentage,
	}
	if err := tx.CreateContributor(ctx, c); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit contributor create: %w", err)
	}

	return c, nil
}

// Update patches a contributor. Percentage changes revalidate the sum under
// the same lock as Create.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Contributor, error) {
	if params.Percentage != nil && (*params.Percentage <= 0 || *params.Percentage > 100) {
		return nil, fmt.Errorf("%w: got %.2f", ErrInvalidPercentage, *params.Percentage)
	}

	c, err := s.repo.GetContributor(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = *params.Name
	}

	if params.Email != nil {
		c.Email = *params.Email
	}

	tx, err := s.repo.BeginPercentageChange(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin percentage change: %w", err)
	}
	defer tx.Rollback()

	if params.Percentage != nil {
		others, err := tx.TotalPercentage(ctx, &id)
		if err != nil {
			return nil, fmt.Errorf("summing percentages: %w", err)
		}

		if others+*params.Percentage > 100 {
			return nil, fmt.Errorf("%w: other contributors hold %.2f, requested %.2f",
				ErrPercentageExceeded, others, *params.Percentage)
		}

		c.Percentage = *params.Percentage
	}

	if err := tx.UpdateContributor(ctx, c); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit contributor update: %w", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetContributor(ctx, id); err != nil {
		return err
	}

	return s.repo.DeleteContributor(ctx, id)
}
