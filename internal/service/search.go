package service

import (
	"context"

	"github.com/sellergrid/marketplace/internal/models"
	"github.com/sellergrid/marketplace/internal/repo"
	"github.com/sellergrid/marketplace/internal/transport"
)

const defaultSearchLimit = 50

// SearchService is a stateless filter-and-sort builder over the product
// catalog. All filters are optional and AND-combined; omitted filters
// impose no constraint.
type SearchService struct {
	Repo *repo.GormRepo
}

func (s *SearchService) Search(ctx context.Context, f transport.SearchFilters) (*transport.SearchResult, error) {
	if f.Limit <= 0 {
		f.Limit = defaultSearchLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}

	total, prods, err := s.Repo.SearchProducts(ctx, f)
	if err != nil {
		return nil, err
	}
	if prods == nil {
		prods = []models.Product{}
	}

	totalPages := int((total + int64(f.Limit) - 1) / int64(f.Limit))

	return &transport.SearchResult{
		Products:   prods,
		Total:      total,
		Page:       f.Skip/f.Limit + 1,
		TotalPages: totalPages,
		HasNext:    int64(f.Skip+f.Limit) < total,
		HasPrev:    f.Skip > 0,
	}, nil
}
