package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
)

type CountryService struct {
	repo repository.CountryRepository
}

func NewCountryService(repo repository.CountryRepository) *CountryService {
	return &CountryService{repo: repo}
}

// Lookup returns the name and flag of a two-letter country code.
func (s *CountryService) Lookup(ctx context.Context, code string) (*model.CountryInfo, error) {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return nil, fmt.Errorf("%w: country code must have two letters", ErrInvalidInput)
	}
	info, err := s.repo.GetCountry(ctx, code)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return info, nil
}
