package core

import (
	"context"
	"errors"
	"os/exec"
)

// Commander runs an external program and reports its combined output and
// exit code. A non-zero exit is not an error; failing to start is.
type Commander interface {
	Run(ctx context.Context, name string, args ...string) (string, int, error)
}

type ExecCommander struct{}

func (ExecCommander) Run(ctx context.Context, name string, args ...string) (string, int, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), nil
		}
		return string(out), -1, err
	}
	return string(out), 0, nil
}

// runShell 通过 sh -c 执行配置中的命令行
func runShell(ctx context.Context, c Commander, cmdline string) (string, int, error) {
	return c.Run(ctx, "sh", "-c", cmdline)
}
