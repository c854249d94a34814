package classifier

import (
	"context"

	"github.com/pkg/errors"

	"github.com/biirving/focus/internal/models"
)

// Sentinel errors for the adapter contract. Either one degrades a single
// tick: state is held over, the failure is logged, the loop continues.
var (
	// ErrTimeout means the classifier did not answer within the caller's
	// deadline.
	ErrTimeout = errors.New("classifier timed out")

	// ErrBadResponse means the classifier answered with something that could
	// not be parsed into a classification.
	ErrBadResponse = errors.New("malformed classifier response")
)

// Request carries everything the external vision classifier needs for one
// analysis tick.
type Request struct {
	// Images is the most recent capture set, one entry per display.
	Images [][]byte

	// PolicyText is the user's rule document, passed through unchanged.
	PolicyText string

	// BudgetContext names subjects currently over budget.
	BudgetContext []string

	// History is a short formatted tail of recent activity for context.
	History string
}

// Classifier is the external classification service adapter. Implementations
// must honor ctx cancellation and return within the deadline the monitor
// attaches.
type Classifier interface {
	Classify(ctx context.Context, req Request) (*models.ClassificationEvent, error)
}
