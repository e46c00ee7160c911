package service

import (
	"errors"
	"fmt"

	"enchanted-shop/store"
)

// Error kinds returned by the services. Callers test with errors.Is.
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnexpected        = errors.New("unexpected error")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%s %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func insufficientStock(requested, available int) error {
	return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, requested, available)
}

// classify passes service errors through and wraps anything else as
// ErrUnexpected, tagged with the operation name.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrInsufficientStock, ErrUnexpected} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrUnexpected, op, err)
}

// lookup translates store.ErrNotFound into a NotFound error for the named entity.
func lookup(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(format, args...)
	}
	return err
}
