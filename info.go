package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/subcommands"

	"roseh.moe/cmd/tcdec/internal/truecrypt"
)

type infoCmd struct {
	password  string
	checksums bool

	passwordIn func() (string, error)
	stdout     io.Writer
}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "print the volume header" }
func (*infoCmd) Usage() string {
	return `usage: tcdec info [OPTION]... INPUT
Decrypt the volume header of the TrueCrypt container INPUT and print its
fields. Key material is never printed.

`
}

func (c *infoCmd) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "p", "", "use the specified password; if not provided, info will prompt for a password")
	fs.BoolVar(&c.checksums, "crc", false, "verify the header checksums")
}

func printHeader(w io.Writer, h *truecrypt.Header) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "version:\t%d\n", h.Version)
	fmt.Fprintf(tw, "required program version:\t%#04x\n", h.RequiredProgramVersion)
	fmt.Fprintf(tw, "creation time:\t%d\n", h.CreationTime)
	fmt.Fprintf(tw, "modification time:\t%d\n", h.ModificationTime)
	fmt.Fprintf(tw, "volume size:\t%d\n", h.VolumeSize)
	fmt.Fprintf(tw, "hidden volume size:\t%d\n", h.HiddenVolumeSize)
	fmt.Fprintf(tw, "encrypted area start:\t%d\n", h.EncryptedAreaStart)
	fmt.Fprintf(tw, "encrypted area length:\t%d\n", h.EncryptedAreaLength)
	fmt.Fprintf(tw, "sector size:\t%d\n", h.SectorSize)
	fmt.Fprintf(tw, "flags:\t%#08x\n", h.Flags)
	fmt.Fprintf(tw, "header crc:\t%08x\n", h.HeaderCRC)
	fmt.Fprintf(tw, "key area crc:\t%08x\n", h.KeyAreaCRC)
	return tw.Flush()
}

func (c *infoCmd) run(args ...string) error {
	if len(args) != 1 {
		return usageErr("info takes one input file")
	}
	password, err := promptPassword(c.password, c.passwordIn)
	if err != nil {
		return err
	}
	h, err := truecrypt.ReadHeader(args[0], password, truecrypt.WithChecksumVerification(c.checksums))
	if err != nil {
		return fmt.Errorf("open %q: %w", args[0], err)
	}
	return printHeader(c.stdout, h)
}

func (c *infoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return exitStatus(c.run(f.Args()...))
}
