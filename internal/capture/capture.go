package capture

import (
	"context"
)

// Source produces screen captures. Capturing pixels is a platform concern
// external to the engine; the monitor only polls this interface on the
// capture cadence and keeps the latest result for the next analysis tick.
type Source interface {
	// Capture returns the current capture set, one image per display.
	Capture(ctx context.Context) ([][]byte, error)
}
