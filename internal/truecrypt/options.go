package truecrypt

type openOptions struct {
	verifyChecksums bool
}

// Option configures Open.
type Option interface {
	openOpt(*openOptions)
}

type checksumOption bool

func (verify checksumOption) openOpt(opts *openOptions) {
	opts.verifyChecksums = bool(verify)
}

// WithChecksumVerification makes Open check the CRC-32s stored in the
// header. Without it the magic marker is the only check.
func WithChecksumVerification(verify bool) Option {
	return checksumOption(verify)
}
