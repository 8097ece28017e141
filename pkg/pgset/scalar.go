package pgset

import (
	"time"

	"github.com/google/uuid"
)

// Scalar lists the element types a collection may hold. Composite and
// array element types are not accepted.
type Scalar interface {
	~int | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64 |
		~string | ~bool |
		uuid.UUID | time.Time
}
