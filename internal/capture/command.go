package capture

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// CommandSource shells out to a platform capture helper that writes one
// image file path per line to stdout.
type CommandSource struct {
	command string
}

func NewCommandSource(command string) *CommandSource {
	return &CommandSource{command: command}
}

func (s *CommandSource) Capture(ctx context.Context) ([][]byte, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", s.command)
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(err, "capture command failed")
	}

	var images [][]byte
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		path := strings.TrimSpace(line)
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read capture %s", path)
		}
		images = append(images, data)
	}
	return images, nil
}
