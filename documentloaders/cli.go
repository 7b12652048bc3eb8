package documentloaders

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/sevigo/splitframe/schema"
)

// CLICommandLoader runs a command and uses its stdout as the document content.
type CLICommandLoader struct {
	Command string
	Args    []string
	// Headers are copied into the document metadata, so a tokenizer can
	// split one of them instead of the output.
	Headers map[string]any
}

func NewCLICommandLoader(command string, args ...string) *CLICommandLoader {
	return &CLICommandLoader{Command: command, Args: args}
}

func (l *CLICommandLoader) Load(ctx context.Context) ([]schema.Document, error) {
	if l.Command == "" {
		return nil, errors.New("command cannot be empty")
	}

	command := filepath.Base(l.Command)
	cmd := exec.CommandContext(ctx, command, l.Args...)
	output, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return nil, fmt.Errorf("command '%s' failed: %w\nstderr: %s", l.Command, err, string(ee.Stderr))
		}
		return nil, err
	}

	metadata := make(map[string]any, len(l.Headers)+2)
	for k, v := range l.Headers {
		metadata[k] = v
	}
	metadata["source"] = fmt.Sprintf("output of command '%s'", l.Command)
	metadata["command"] = command
	return []schema.Document{schema.NewDocument(string(output), metadata)}, nil
}
