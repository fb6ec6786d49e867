// internal/repository/repository.go
package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"gorm.io/gorm"
)

// DefaultLimit caps list queries that do not ask for a limit.
const DefaultLimit = 100

// QueryParams holds parameters for querying translations
type QueryParams struct {
	Status       string
	ErrorStage   string
	SourceName   string
	SourceDigest string
	StartTime    time.Time
	EndTime      time.Time
	Limit        int
	Offset       int
}

// limit returns the effective page size.
func (p QueryParams) limit() int {
	if p.Limit > 0 {
		return p.Limit
	}
	return DefaultLimit
}

// wrapError maps a missing record to domain.ErrNotFound.
func wrapError(action string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to %s: %w", action, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
