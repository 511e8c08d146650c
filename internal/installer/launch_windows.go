//go:build windows

package installer

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// command runs the installer through "cmd /s /k" so the console stays open
// after winget exits. The command line is passed verbatim; Go's argument
// escaping produces \" sequences that cmd.exe does not understand.
func (l ExecLauncher) command(name string, args []string) *exec.Cmd {
	cmd := exec.Command("cmd")
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: consoleCmdLine(name, args)}
	return cmd
}

func detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NEW_CONSOLE
}
