package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/grailbio/base/log"

	"roseh.moe/cmd/tcdec/internal/truecrypt"
)

type decCmd struct {
	password  string
	force     bool
	checksums bool
	verbose   bool

	passwordIn func() (string, error)
}

func (*decCmd) Name() string     { return "dec" }
func (*decCmd) Synopsis() string { return "decrypt a TrueCrypt volume" }
func (*decCmd) Usage() string {
	return `usage: tcdec dec [OPTION]... INPUT OUTPUT
Decrypt the TrueCrypt container INPUT and write the decrypted volume to
OUTPUT. Only AES volumes with a RIPEMD-160 header key are supported;
hidden volumes are not.

For example,
  tcdec dec backup.tc backup.img
prompts for the password and writes the raw filesystem image to
backup.img.

`
}

func (c *decCmd) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "p", "", "use the specified password; if not provided, dec will prompt for a password")
	fs.BoolVar(&c.force, "f", false, "overwrite the output file if it already exists")
	fs.BoolVar(&c.checksums, "crc", false, "verify the header checksums")
	fs.BoolVar(&c.verbose, "v", false, "log volume details")
}

func (c *decCmd) decryptFile(inName, outName, password string) (err error) {
	log.Printf("opening %s", inName)
	vol, err := truecrypt.Open(inName, password, truecrypt.WithChecksumVerification(c.checksums))
	if err != nil {
		return fmt.Errorf("open %q: %w", inName, err)
	}
	defer vol.Close()
	h := vol.Header()
	log.Debug.Printf("header version %d, sector size %d, encrypted area %d bytes at offset %d",
		h.Version, h.SectorSize, h.EncryptedAreaLength, h.EncryptedAreaStart)

	fileOpts := os.O_CREATE | os.O_WRONLY
	if c.force {
		fileOpts |= os.O_TRUNC
	} else {
		fileOpts |= os.O_EXCL
	}
	fOut, err := os.OpenFile(outName, fileOpts, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file %q exists (use -f to overwrite)", outName)
		}
		return err
	}
	defer func() {
		fOut.Close()
		if err != nil {
			os.Remove(fOut.Name())
		}
	}()
	log.Printf("decrypting to %s", outName)
	n, err := vol.Decrypt(fOut)
	if err != nil {
		return fmt.Errorf("decrypt %q: %w", inName, err)
	}
	log.Debug.Printf("wrote %d bytes", n)
	return fOut.Close()
}

func (c *decCmd) run(args ...string) error {
	if len(args) != 2 {
		return usageErr("dec takes an input and an output file")
	}
	password, err := promptPassword(c.password, c.passwordIn)
	if err != nil {
		return err
	}
	return c.decryptFile(args[0], args[1], password)
}

func (c *decCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.verbose {
		log.SetLevel(log.Debug)
	}
	return exitStatus(c.run(f.Args()...))
}
