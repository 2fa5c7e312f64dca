// Package truecrypt decrypts TrueCrypt volumes that use AES-256-XTS with
// a PBKDF2-HMAC-RIPEMD-160 header key. Hidden volumes and cipher
// cascades are not supported.
package truecrypt

import (
	"crypto/aes"
	"io"
	"os"

	"golang.org/x/crypto/xts"
)

// Container is an open TrueCrypt volume. It is not safe for concurrent
// use.
type Container struct {
	f      *os.File
	header Header
	volume sectorCipher
}

// Open reads and decrypts the volume header of the container at path.
// The returned Container is positioned at the start of the encrypted
// area.
func Open(path, password string, opts ...Option) (_ *Container, err error) {
	var o openOptions
	for _, opt := range opts {
		opt.openOpt(&o)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()
	h, err := readHeader(f, password, &o)
	if err != nil {
		return nil, err
	}
	volume, err := xts.NewCipher(aes.NewCipher, h.volumeKey())
	clear(h.KeyArea[:])
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(int64(h.EncryptedAreaStart), io.SeekStart); err != nil {
		return nil, err
	}
	return &Container{
		f:      f,
		header: *h,
		volume: volume,
	}, nil
}

func readHeader(r io.Reader, password string, o *openOptions) (*Header, error) {
	block := make([]byte, volumeHeaderSize)
	if _, err := io.ReadFull(r, block); err != nil {
		return nil, err
	}
	key, err := deriveHeaderKey(password, block[:saltSize])
	if err != nil {
		return nil, err
	}
	raw, err := decryptHeader(block[saltSize:], key)
	clear(key)
	if err != nil {
		return nil, err
	}
	defer clear(raw)
	h, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	if o.verifyChecksums {
		if err := VerifyChecksums(raw); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// ReadHeader returns the decrypted volume header of the container at
// path, with the key area cleared.
func ReadHeader(path, password string, opts ...Option) (*Header, error) {
	c, err := Open(path, password, opts...)
	if err != nil {
		return nil, err
	}
	h := c.Header()
	return &h, c.Close()
}

// Header returns the volume header. Its key area is always zero.
func (c *Container) Header() Header {
	return c.header
}

// Decrypt writes the decrypted encrypted area to w and returns the
// number of bytes written. A trailing partial sector is decrypted and
// written as is, without padding.
func (c *Container) Decrypt(w io.Writer) (int64, error) {
	h := &c.header
	if _, err := c.f.Seek(int64(h.EncryptedAreaStart), io.SeekStart); err != nil {
		return 0, err
	}
	return io.Copy(w, newSectorReader(c.f, c.volume, h.firstDataUnit(), h.EncryptedAreaLength, int(h.SectorSize)))
}

func (c *Container) Close() error {
	return c.f.Close()
}
