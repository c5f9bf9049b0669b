package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakhrymubarak/skycast/internal/repository"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrModelCall           = errors.New("model call failed")
	ErrCancelled           = errors.New("cancelled")
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("geolocation timeout")
	ErrInvalidInput        = errors.New("invalid input")
)

// NotFoundMessage is shown when a city or coordinate lookup fails.
const NotFoundMessage = "Could not find weather data for the specified city. Please check the city name and try again."

// mapLookupError converts repository errors into service error kinds.
func mapLookupError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	case errors.Is(err, repository.ErrLocationNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
}
