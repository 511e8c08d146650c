//go:build !windows

package installer

import (
	"os/exec"
	"syscall"
)

func (l ExecLauncher) command(name string, args []string) *exec.Cmd {
	argv := make([]string, 0, len(l.Terminal)+len(args)+1)
	argv = append(argv, l.Terminal...)
	argv = append(argv, name)
	argv = append(argv, args...)
	return exec.Command(argv[0], argv[1:]...)
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
