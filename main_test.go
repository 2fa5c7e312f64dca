package main

import (
	"errors"
	"os"
	"testing"

	"github.com/google/subcommands"
)

func mustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("Failed to write test file: %s", err)
	}
}

func mustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %s", err)
	}
	return content
}

func TestExitStatus(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc string
		err  error
		want subcommands.ExitStatus
	}{{
		desc: "Success",
		err:  nil,
		want: subcommands.ExitSuccess,
	}, {
		desc: "Usage",
		err:  usageErr("missing file"),
		want: subcommands.ExitUsageError,
	}, {
		desc: "Failure",
		err:  errors.New("test error"),
		want: subcommands.ExitFailure,
	}} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			if got := exitStatus(tc.err); got != tc.want {
				t.Errorf("exitStatus(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
