package truecrypt

import "io"

const blockSize = 16

// sectorCipher decrypts one sector in XTS mode. *xts.Cipher implements
// it; sectorNum is encoded as the low 64 bits of a little-endian
// 128-bit tweak.
type sectorCipher interface {
	Decrypt(plaintext, ciphertext []byte, sectorNum uint64)
}

// sectorReader decrypts the encrypted area one sector at a time. The
// tweak starts at the absolute data unit index of the first sector and
// advances by one per sector read, whatever the sector size.
type sectorReader struct {
	r         io.Reader
	cipher    sectorCipher
	tweak     uint64
	remaining uint64

	buf     []byte
	pending []byte
}

func newSectorReader(r io.Reader, c sectorCipher, firstTweak, length uint64, sectorSize int) *sectorReader {
	return &sectorReader{
		r:         r,
		cipher:    c,
		tweak:     firstTweak,
		remaining: length,
		buf:       make([]byte, sectorSize),
	}
}

func (r *sectorReader) fillBuf() error {
	if r.remaining == 0 {
		return io.EOF
	}
	// Always read a whole sector so that an area length ending inside an
	// AES block still decrypts that block from its full ciphertext.
	n, err := io.ReadFull(r.r, r.buf)
	// ErrUnexpectedEOF: the file ends inside this sector.
	last := err == io.ErrUnexpectedEOF
	if err != nil && !last {
		return err
	}
	// A file that ends mid-block leaves a partial AES block, which is
	// padded with zeros and cut off again below.
	end := (n + blockSize - 1) / blockSize * blockSize
	clear(r.buf[n:end])
	r.cipher.Decrypt(r.buf[:end], r.buf[:end], r.tweak)
	r.tweak++
	emit := min(uint64(n), r.remaining)
	r.remaining -= emit
	if last {
		r.remaining = 0
	}
	r.pending = r.buf[:emit]
	return nil
}

func (r *sectorReader) Read(buf []byte) (int, error) {
	if len(r.pending) == 0 {
		if err := r.fillBuf(); err != nil {
			return 0, err
		}
	}
	n := copy(buf, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *sectorReader) WriteTo(w io.Writer) (int64, error) {
	var nn int64
	for {
		if len(r.pending) > 0 {
			n, err := w.Write(r.pending)
			nn += int64(n)
			r.pending = r.pending[n:]
			if err != nil {
				return nn, err
			}
		}
		if err := r.fillBuf(); err != nil {
			if err == io.EOF {
				return nn, nil
			}
			return nn, err
		}
	}
}
