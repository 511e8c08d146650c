// Package installer hands a selected package to the external package manager.
package installer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JanikMartens/WiG/internal/config"
	"github.com/JanikMartens/WiG/internal/log"
)

// PortableMarker is stripped from identifiers before they are passed to winget.
const PortableMarker = ".Portable"

// Launcher starts a command without waiting for it to finish.
type Launcher interface {
	Launch(ctx context.Context, name string, args []string) error
}

// Dispatcher builds install commands from the configured template.
type Dispatcher struct {
	cfg      config.Installer
	launcher Launcher
}

// New returns a Dispatcher. A nil launcher defaults to ExecLauncher.
func New(cfg config.Installer, l Launcher) *Dispatcher {
	if l == nil {
		l = ExecLauncher{Terminal: cfg.Terminal}
	}
	if cfg.StripMarker == "" {
		cfg.StripMarker = PortableMarker
	}
	return &Dispatcher{cfg: cfg, launcher: l}
}

// CanonicalID removes every occurrence of the configured marker
// (".Portable" by default) from id.
func (d *Dispatcher) CanonicalID(id string) string {
	return strings.ReplaceAll(id, d.cfg.StripMarker, "")
}

// Command returns the program and arguments used to install id.
func (d *Dispatcher) Command(id string) (string, []string) {
	canonical := d.CanonicalID(id)
	args := make([]string, len(d.cfg.Args))
	for i, a := range d.cfg.Args {
		args[i] = strings.ReplaceAll(a, "{id}", canonical)
	}
	return d.cfg.Command, args
}

// Install launches the package manager for id and returns the identifier
// that was handed to it. Only the launch is observed; the installation
// itself runs in its own console.
func (d *Dispatcher) Install(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", errors.New("package identifier is required")
	}
	if d.cfg.Command == "" {
		return "", errors.New("no installer command configured")
	}
	name, args := d.Command(id)
	canonical := d.CanonicalID(id)
	log.Debug("launching installer", "command", name, "args", args)
	if err := d.launcher.Launch(ctx, name, args); err != nil {
		return canonical, fmt.Errorf("cannot launch %s for %s: %w", name, canonical, err)
	}
	return canonical, nil
}
