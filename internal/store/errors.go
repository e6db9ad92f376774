package store

import (
	"errors"
	"fmt"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/persistence"
)

// translate maps persistence sentinels onto their application equivalents
// while keeping the original error in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound), errors.Is(err, persistence.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %w", application.ErrNotFound, err)
	case errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: %w", application.ErrAlreadyExists, err)
	}
	return err
}
