package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/biirving/focus/internal/models"
)

// CommandClassifier bridges to an external classification service through a
// helper command. The request is written to stdin as JSON; the helper must
// answer with one JSON object {"status","reason","active_app"} on stdout.
// The deadline on ctx bounds the whole invocation.
type CommandClassifier struct {
	command string
}

func NewCommandClassifier(command string) *CommandClassifier {
	return &CommandClassifier{command: command}
}

type commandResponse struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	ActiveApp string `json:"active_app"`
}

func (c *CommandClassifier) Classify(ctx context.Context, req Request) (*models.ClassificationEvent, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode classifier request")
	}

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", c.command)
	cmd.Stdin = bytes.NewReader(payload)

	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, ErrTimeout
	}
	if err != nil {
		return nil, errors.Wrap(err, "classifier command failed")
	}

	var resp commandResponse
	if err := json.Unmarshal(bytes.TrimSpace(out), &resp); err != nil {
		return nil, errors.Wrap(ErrBadResponse, err.Error())
	}

	status := models.FocusStatus(resp.Status)
	if !status.Valid() {
		return nil, errors.Wrapf(ErrBadResponse, "unknown status %q", resp.Status)
	}

	return &models.ClassificationEvent{
		Timestamp: time.Now(),
		Status:    status,
		Reason:    resp.Reason,
		ActiveApp: resp.ActiveApp,
	}, nil
}
