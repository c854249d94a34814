package notify

import (
	"github.com/biirving/focus/internal/logging"
	"github.com/biirving/focus/internal/models"
)

// Dispatcher renders a notification to the user. Rendering is external to
// the engine; the monitor calls Dispatch fire-and-forget, so a failing
// dispatcher can never block or corrupt the control loop.
type Dispatcher interface {
	Dispatch(n models.Notification) error
}

// LogDispatcher writes notifications to the structured log. It is the
// default when no platform dispatcher is wired in.
type LogDispatcher struct {
	log *logging.Logger
}

func NewLogDispatcher(log *logging.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(n models.Notification) error {
	d.log.Info("notification",
		"severity", string(n.Severity),
		"channel", string(n.Channel),
		"message", n.Message,
	)
	return nil
}
