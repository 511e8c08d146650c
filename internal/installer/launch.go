package installer

import (
	"context"
	"fmt"
	"strings"
)

// ExecLauncher starts the installer in a separate console and releases it.
// Terminal, when set, is prepended to the command on non-Windows systems
// (for example ["x-terminal-emulator", "-e"]).
type ExecLauncher struct {
	Terminal []string
}

// Launch implements Launcher.
// The child is not tied to ctx; cancellation is only checked before starting.
func (l ExecLauncher) Launch(ctx context.Context, name string, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cmd := l.command(name, args)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("cannot start %s: %w", cmd.Path, err)
	}
	return cmd.Process.Release()
}

// consoleCmdLine is the raw command line for cmd.exe. With /s the outer pair
// of quotes is always stripped, so quoted arguments inside survive.
func consoleCmdLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(name))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return `cmd /s /k "` + strings.Join(parts, " ") + `"`
}

// quoteArg quotes a for cmd.exe when it contains spaces.
func quoteArg(a string) string {
	for _, r := range a {
		if r == ' ' || r == '\t' {
			return `"` + a + `"`
		}
	}
	return a
}

var _ Launcher = ExecLauncher{}
