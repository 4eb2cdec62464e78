package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// execCommandRunner implements CommandRunner using os/exec.
type execCommandRunner struct{}

func (execCommandRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// ExecRuntime runs conversions through a locally installed pandoc-compatible
// binary instead of a wasm module. The module payload is ignored: the
// engine here is the native binary. Pandoc infers formats from file
// extensions, so the temp source file is named with the request's source
// format.
type ExecRuntime struct {
	Command string
	Runner  CommandRunner
}

var _ Runtime = (*ExecRuntime)(nil)

// NewExecRuntime creates an ExecRuntime invoking the given command.
func NewExecRuntime(command string) *ExecRuntime {
	return &ExecRuntime{Command: command, Runner: execCommandRunner{}}
}

func (r *ExecRuntime) Instantiate(ctx context.Context, module []byte) (Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &execInstance{command: r.Command, runner: r.Runner}, nil
}

func (r *ExecRuntime) Close(context.Context) error {
	return nil
}

// execInstance runs one conversion per subprocess invocation. Temp files
// are removed on every exit path.
type execInstance struct {
	command string
	runner  CommandRunner
}

func (i *execInstance) Convert(ctx context.Context, req Convert) (Result, error) {
	srcPath, cleanup, err := writeTempSource(req.Source, req.From)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	outPath := srcPath + strings.ToLower(req.Target)
	defer func() { _ = os.Remove(outPath) }()

	_, stderr, err := i.runner.Run(ctx, i.command, srcPath, "-o", outPath)
	if err != nil {
		return Result{}, &Error{Message: strings.TrimSpace(stderr)}
	}

	data, err := os.ReadFile(outPath) // #nosec G304 -- path derived from our own temp file
	if err != nil {
		return Result{}, fmt.Errorf("reading converter output: %w", err)
	}
	return Result{Data: data}, nil
}

func (i *execInstance) Close(context.Context) error {
	return nil
}

// writeTempSource creates a temporary file with the source payload, named
// with the source format's extension so the binary can identify the input.
// Returns the file path and a cleanup function to remove the file.
func writeTempSource(source []byte, format string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "anydoc-src-*"+strings.ToLower(format))
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.Write(source); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}
