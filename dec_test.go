package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"roseh.moe/cmd/tcdec/internal/truecrypt"
	"roseh.moe/cmd/tcdec/internal/truecrypt/tctest"
)

const testPassword = "karp cache tidal mars fed rajah uses graze pobox flew"

func testContainer(t *testing.T, length int) (string, []byte) {
	t.Helper()
	plaintext := tctest.Plaintext(length)
	return tctest.Build(t, testPassword, tctest.Header(512, uint64(length)), plaintext), plaintext
}

func TestDecCmd_Run(t *testing.T) {
	t.Parallel()

	in, want := testContainer(t, 64*512)
	out := filepath.Join(t.TempDir(), "volume.img")
	cmd := &decCmd{password: testPassword}
	if err := cmd.run(in, out); err != nil {
		t.Fatalf("dec failed: %s", err)
	}
	if got := mustReadFile(t, out); !bytes.Equal(got, want) {
		t.Errorf("dec wrote %d bytes that differ from the volume contents (%d bytes)", len(got), len(want))
	}
}

func TestDecCmd_Run_ReadPassword(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc     string
		password string
		err      error
		wantErr  error
	}{{
		desc:     "Ok",
		password: testPassword,
	}, {
		desc:     "WrongPassword",
		password: "asdf",
		wantErr:  truecrypt.ErrWrongPassword,
	}, {
		desc:    "ReadPasswordErr",
		err:     errors.New("test error"),
		wantErr: errors.New("test error"),
	}} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			in, _ := testContainer(t, 4*512)
			out := filepath.Join(t.TempDir(), "volume.img")
			cmd := &decCmd{
				passwordIn: func() (string, error) {
					return tc.password, tc.err
				},
			}
			err := cmd.run(in, out)
			switch {
			case tc.wantErr == nil && err != nil:
				t.Fatalf("dec failed: %s", err)
			case tc.wantErr != nil && err == nil:
				t.Fatalf("dec succeeded, want error %v", tc.wantErr)
			case tc.wantErr != nil && !errors.Is(err, tc.wantErr) && err.Error() != tc.wantErr.Error():
				t.Errorf("dec returned error %v, want %v", err, tc.wantErr)
			}
			if _, statErr := os.Stat(out); (statErr == nil) != (tc.wantErr == nil) {
				t.Errorf("output file exists = %t, want %t", statErr == nil, tc.wantErr == nil)
			}
		})
	}
}

func TestDecCmd_Run_Force(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc    string
		force   bool
		wantErr bool
	}{{
		desc:    "OutputExists",
		force:   false,
		wantErr: true,
	}, {
		desc:    "Force",
		force:   true,
		wantErr: false,
	}} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			in, want := testContainer(t, 2*512)
			out := filepath.Join(t.TempDir(), "volume.img")
			mustWriteFile(t, out, []byte("file already exists and is longer than nothing"))
			cmd := &decCmd{password: testPassword, force: tc.force}
			err := cmd.run(in, out)
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Fatalf("dec(force=%t) returned error %v when output file exists, want error? %t", tc.force, err, tc.wantErr)
			}
			if tc.wantErr {
				if got := mustReadFile(t, out); bytes.Equal(got, want) {
					t.Errorf("dec overwrote an existing file without -f")
				}
				return
			}
			if got := mustReadFile(t, out); !bytes.Equal(got, want) {
				t.Errorf("dec -f wrote incorrect contents")
			}
		})
	}
}

func TestDecCmd_Run_UsageError(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc string
		args []string
	}{{
		desc: "NoArgs",
	}, {
		desc: "OneArg",
		args: []string{"volume.tc"},
	}, {
		desc: "ThreeArgs",
		args: []string{"a", "b", "c"},
	}} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			err := (&decCmd{password: testPassword}).run(tc.args...)
			if !errors.Is(err, errUsage) {
				t.Errorf("dec %q returned error %v, want usage error", tc.args, err)
			}
		})
	}
}

func TestDecCmd_Run_NotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "volume.img")
	err := (&decCmd{password: testPassword}).run(filepath.Join(dir, "my-nonexistent-file.tc"), out)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dec returned error %v for nonexistent input, want %v", err, os.ErrNotExist)
	}
	if _, err := os.Stat(out); err == nil {
		t.Errorf("dec created %q for nonexistent input", out)
	}
}

func TestDecCmd_SetFlags(t *testing.T) {
	t.Parallel()

	var c decCmd
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.SetFlags(fs)
	const cmd = "-p asdf -f -crc -v in.tc out.img"
	if err := fs.Parse(strings.Split(cmd, " ")); err != nil {
		t.Fatalf("Parse(%q) failed: %s", cmd, err)
	}
	if !c.force || !c.checksums || !c.verbose || c.password != "asdf" {
		t.Errorf("Command line %q parsed incorrect flags, got %+v", cmd, c)
	}
	if got, want := fs.Args(), []string{"in.tc", "out.img"}; !slices.Equal(got, want) {
		t.Errorf("Command line %q left args %q, want %q", cmd, got, want)
	}
}
