// Package service implements the design bank catalog.
package service

import (
	"context"
	"errors"

	"crm_backend/internal/designs/repository"
	"crm_backend/internal/designs/transport"
	"crm_backend/platform/apperr"
)

// Repository is the data access surface the service needs.
type Repository interface {
	Create(ctx context.Context, params repository.CreateDesignParams) (repository.Design, error)
	GetByID(ctx context.Context, id int64) (repository.Design, error)
	List(ctx context.Context, params repository.ListDesignsParams) ([]repository.Design, error)
	Deactivate(ctx context.Context, id int64) (repository.Design, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a design to the catalog.
func (s *Service) Create(ctx context.Context, req transport.CreateDesignRequest) (transport.DesignResponse, error) {
	if req.PriceRangeMin != nil && req.PriceRangeMax != nil && *req.PriceRangeMin > *req.PriceRangeMax {
		return transport.DesignResponse{}, apperr.Validation("price range minimum exceeds maximum")
	}

	tags, err := transport.EncodeTags(req.Tags)
	if err != nil {
		return transport.DesignResponse{}, err
	}

	design, err := s.repo.Create(ctx, repository.CreateDesignParams{
		Name:          req.Name,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		ImageURL:      req.ImageURL,
		Description:   req.Description,
		PriceRangeMin: req.PriceRangeMin,
		PriceRangeMax: req.PriceRangeMax,
		Tags:          tags,
	})
	if err != nil {
		return transport.DesignResponse{}, err
	}
	return transport.ToDesignResponse(design), nil
}

// GetByID retrieves one design.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.DesignResponse, error) {
	design, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.DesignResponse{}, apperr.NotFound("design not found")
		}
		return transport.DesignResponse{}, err
	}
	return transport.ToDesignResponse(design), nil
}

// List returns catalog entries matching the filters.
func (s *Service) List(ctx context.Context, req transport.ListDesignsRequest) ([]transport.DesignResponse, error) {
	designs, err := s.repo.List(ctx, repository.ListDesignsParams{
		Category:        req.Category,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		return nil, err
	}

	out := make([]transport.DesignResponse, 0, len(designs))
	for _, design := range designs {
		out = append(out, transport.ToDesignResponse(design))
	}
	return out, nil
}

// Deactivate retires a design from the catalog.
func (s *Service) Deactivate(ctx context.Context, id int64) (transport.DesignResponse, error) {
	design, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.DesignResponse{}, apperr.NotFound("design not found")
		}
		return transport.DesignResponse{}, err
	}
	return transport.ToDesignResponse(design), nil
}
