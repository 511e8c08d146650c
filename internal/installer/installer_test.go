package installer

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/JanikMartens/WiG/internal/config"
)

type fakeLauncher struct {
	name string
	args []string
	err  error
}

func (f *fakeLauncher) Launch(_ context.Context, name string, args []string) error {
	f.name, f.args = name, args
	return f.err
}

func wingetConfig(t *testing.T) config.Installer {
	t.Helper()
	t.Setenv("WIG_DATA_DIR", t.TempDir())
	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Installer
}

func TestCanonicalID(t *testing.T) {
	d := New(wingetConfig(t), &fakeLauncher{})
	cases := map[string]string{
		"Foo.Bar.Portable":      "Foo.Bar",
		"Foo.Bar":               "Foo.Bar",
		"Foo.Portable.Portable": "Foo",
		"Foo.Portable.Bar":      "Foo.Bar",
	}
	for in, want := range cases {
		if got := d.CanonicalID(in); got != want {
			t.Fatalf("CanonicalID(%q)=%q want %q", in, got, want)
		}
	}
}

func TestInstall_BuildsWingetCommand(t *testing.T) {
	fake := &fakeLauncher{}
	d := New(wingetConfig(t), fake)

	id, err := d.Install(context.Background(), "Foo.Bar.Portable")
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if id != "Foo.Bar" {
		t.Fatalf("expected canonical id, got %q", id)
	}
	want := []string{"install", "--id", "Foo.Bar", "--accept-source-agreements", "--accept-package-agreements"}
	if fake.name != "winget" || !reflect.DeepEqual(fake.args, want) {
		t.Fatalf("unexpected command: %s %v", fake.name, fake.args)
	}
}

func TestInstall_LaunchFailureReported(t *testing.T) {
	boom := errors.New("boom")
	d := New(wingetConfig(t), &fakeLauncher{err: boom})

	id, err := d.Install(context.Background(), "Foo.Bar")
	if !errors.Is(err, boom) {
		t.Fatalf("expected launch error, got %v", err)
	}
	if id != "Foo.Bar" {
		t.Fatalf("expected id alongside error, got %q", id)
	}
}

func TestCanonicalID_ConfiguredMarker(t *testing.T) {
	d := New(config.Installer{Command: "winget", StripMarker: ".Zip"}, &fakeLauncher{})
	if got := d.CanonicalID("Foo.Bar.Zip"); got != "Foo.Bar" {
		t.Fatalf("unexpected id %q", got)
	}
	if got := d.CanonicalID("Foo.Bar.Portable"); got != "Foo.Bar.Portable" {
		t.Fatalf("default marker applied despite configured one: %q", got)
	}
}

func TestInstall_RequiresCommand(t *testing.T) {
	d := New(config.Installer{}, &fakeLauncher{})
	if _, err := d.Install(context.Background(), "Foo.Bar"); err == nil {
		t.Fatalf("expected error without installer command")
	}
}

func TestExecLauncher_StartsAndReleases(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("opens a console window on windows")
	}
	if err := (ExecLauncher{}).Launch(context.Background(), "true", nil); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if err := (ExecLauncher{}).Launch(context.Background(), "wig-no-such-binary", nil); err == nil {
		t.Fatalf("expected error for missing binary")
	}
}

func TestExecLauncher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (ExecLauncher{}).Launch(ctx, "true", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConsoleCmdLine(t *testing.T) {
	got := consoleCmdLine("winget", []string{"install", "--id", "Foo.Bar", "--location", `C:\Program Files\Foo`})
	want := `cmd /s /k "winget install --id Foo.Bar --location "C:\Program Files\Foo""`
	if got != want {
		t.Fatalf("consoleCmdLine:\n got %s\nwant %s", got, want)
	}
	if strings.Contains(got, `\"`) {
		t.Fatalf("command line contains escaped quotes: %s", got)
	}
}

func TestQuoteArg(t *testing.T) {
	if quoteArg("plain") != "plain" || quoteArg("two words") != `"two words"` {
		t.Fatalf("unexpected quoting")
	}
}
