package dialect

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when a unique or primary key constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKey is returned when a foreign key constraint is violated.
	ErrForeignKey = errors.New("foreign key constraint")
)

// constraint wraps a driver error so that both errors.Is(err, kind) and
// errors.As(err, &driverErr) keep working.
func constraint(kind, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
