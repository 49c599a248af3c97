package main

import (
	"errors"
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "ucma" {
			t.Errorf("expected use 'ucma', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose and log-format flags", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil || flag.Shorthand != "v" || flag.DefValue != "false" {
			t.Fatalf("unexpected verbose flag: %+v", flag)
		}
		if f := cmd.PersistentFlags().Lookup("log-format"); f == nil || f.DefValue != "text" {
			t.Errorf("unexpected log-format flag: %+v", f)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"run": false, "plugins": false, "history": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors to be true")
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("unknown format is an error", func(t *testing.T) {
		t.Parallel()

		_, err := executeCmd(t, "run", "--log-format", "xml", "--dry-run", "--no-history", "-e", "stub", "HEAD")
		if err == nil {
			t.Error("expected error for unknown log format")
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	inner := errors.New("interrupted")
	err := &exitError{code: 130, err: inner}
	if err.Error() != "interrupted" || !errors.Is(err, inner) {
		t.Errorf("unexpected exit error: %v", err)
	}
}
