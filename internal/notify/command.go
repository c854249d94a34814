package notify

import (
	"context"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/biirving/focus/internal/models"
)

const dispatchTimeout = 5 * time.Second

// CommandDispatcher invokes an external renderer with the severity, channel
// hint, and message as arguments. The monitor already calls Dispatch
// fire-and-forget, so a slow or failing renderer cannot stall a tick.
type CommandDispatcher struct {
	command string
}

func NewCommandDispatcher(command string) *CommandDispatcher {
	return &CommandDispatcher{command: command}
}

func (d *CommandDispatcher) Dispatch(n models.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", d.command+" \"$@\"", "--",
		string(n.Severity), string(n.Channel), n.Message)
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "notification command failed")
	}
	return nil
}
