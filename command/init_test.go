package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/cli"
)

func TestInitCommand_WritesExampleDocument(t *testing.T) {
	dir, err := os.MkdirTemp("", "capshare-init-test")
	if err != nil {
		t.Fatalf("unexpected error creating temp dir: %s", err)
	}
	defer os.RemoveAll(dir)

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error getting cwd: %s", err)
	}
	defer os.Chdir(cwd)

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("unexpected error changing to temp dir: %s", err)
	}

	ui := new(cli.MockUi)
	cmd := &InitCommand{Meta: Meta{UI: ui}}

	if code := cmd.Run(nil); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, ui.ErrorWriter.String())
	}

	if _, err := os.Stat(filepath.Join(dir, DefaultInitName)); err != nil {
		t.Fatalf("expected %s to be written: %s", DefaultInitName, err)
	}
}

func TestInitCommand_RefusesToOverwrite(t *testing.T) {
	dir, err := os.MkdirTemp("", "capshare-init-test")
	if err != nil {
		t.Fatalf("unexpected error creating temp dir: %s", err)
	}
	defer os.RemoveAll(dir)

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error getting cwd: %s", err)
	}
	defer os.Chdir(cwd)

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("unexpected error changing to temp dir: %s", err)
	}

	if err := os.WriteFile(DefaultInitName, []byte("existing"), 0644); err != nil {
		t.Fatalf("unexpected error seeding existing file: %s", err)
	}

	ui := new(cli.MockUi)
	cmd := &InitCommand{Meta: Meta{UI: ui}}

	if code := cmd.Run(nil); code != 1 {
		t.Fatalf("expected exit code 1 when the file already exists, got %d", code)
	}
}

func TestInitCommand_RejectsArguments(t *testing.T) {
	ui := new(cli.MockUi)
	cmd := &InitCommand{Meta: Meta{UI: ui}}

	if code := cmd.Run([]string{"unexpected"}); code != 1 {
		t.Fatalf("expected exit code 1 for unexpected arguments, got %d", code)
	}
}
