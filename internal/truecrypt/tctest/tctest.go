// Package tctest builds TrueCrypt containers for tests.
package tctest

import (
	"crypto/aes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/xts"

	"roseh.moe/cmd/tcdec/internal/truecrypt"
)

// AreaStart is where TrueCrypt places the encrypted area of a normal
// volume: data unit 256.
const AreaStart = 131072

// Header returns a version 5 header for an encrypted area of length
// bytes at AreaStart, with a fixed volume key.
func Header(sectorSize uint32, length uint64) *truecrypt.Header {
	h := &truecrypt.Header{
		Version:                5,
		RequiredProgramVersion: 0x0700,
		CreationTime:           0x01d0_0000_0000_0000,
		ModificationTime:       0x01d0_0000_0000_0001,
		VolumeSize:             length,
		EncryptedAreaStart:     AreaStart,
		EncryptedAreaLength:    length,
		SectorSize:             sectorSize,
	}
	for i := range h.KeyArea {
		h.KeyArea[i] = byte(i*7 + 3)
	}
	return h
}

// Plaintext returns n bytes of patterned data.
func Plaintext(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i*31 + i/512)
	}
	return buf
}

// EncodeHeader lays out h as a decrypted 448-byte header, with the magic
// marker and both checksums filled in. The checksum fields of h are
// ignored.
func EncodeHeader(h *truecrypt.Header) []byte {
	raw := make([]byte, 448)
	be := binary.BigEndian
	copy(raw, "TRUE")
	be.PutUint16(raw[4:], h.Version)
	be.PutUint16(raw[6:], h.RequiredProgramVersion)
	be.PutUint64(raw[12:], h.CreationTime)
	be.PutUint64(raw[20:], h.ModificationTime)
	be.PutUint64(raw[28:], h.HiddenVolumeSize)
	be.PutUint64(raw[36:], h.VolumeSize)
	be.PutUint64(raw[44:], h.EncryptedAreaStart)
	be.PutUint64(raw[52:], h.EncryptedAreaLength)
	be.PutUint32(raw[60:], h.Flags)
	be.PutUint32(raw[64:], h.SectorSize)
	copy(raw[68:188], h.Reserved[:])
	copy(raw[192:], h.KeyArea[:])
	be.PutUint32(raw[8:], crc32.ChecksumIEEE(raw[192:]))
	be.PutUint32(raw[188:], crc32.ChecksumIEEE(raw[:188]))
	return raw
}

// Build writes a container holding h and data to a temporary file and
// returns its path. See BuildRaw.
func Build(tb testing.TB, password string, h *truecrypt.Header, data []byte) string {
	tb.Helper()
	return BuildRaw(tb, password, EncodeHeader(h), h, data)
}

// BuildRaw writes a container whose decrypted header is rawHeader. data
// is encrypted from h.EncryptedAreaStart on, in sectors of h.SectorSize
// (512 below version 5), and may be shorter or longer than the
// encrypted area recorded in the header. A trailing partial AES block
// is encrypted zero padded and then truncated.
func BuildRaw(tb testing.TB, password string, rawHeader []byte, h *truecrypt.Header, data []byte) string {
	tb.Helper()
	salt := make([]byte, 64)
	for i := range salt {
		salt[i] = byte(0xa5 ^ i)
	}
	headerKey := pbkdf2.Key([]byte(password), salt, 2000, 64, ripemd160.New)
	encHeader := make([]byte, len(rawHeader))
	newXTS(tb, headerKey).Encrypt(encHeader, rawHeader, 0)

	file := make([]byte, max(h.EncryptedAreaStart, 512))
	copy(file, salt)
	copy(file[64:], encHeader)

	sectorSize := int(h.SectorSize)
	if h.Version < 5 {
		sectorSize = 512
	}
	volume := newXTS(tb, h.KeyArea[:64])
	tweak := h.EncryptedAreaStart / 512
	for off := 0; off < len(data); off += sectorSize {
		chunk := data[off:min(off+sectorSize, len(data))]
		padded := make([]byte, (len(chunk)+aes.BlockSize-1)/aes.BlockSize*aes.BlockSize)
		copy(padded, chunk)
		volume.Encrypt(padded, padded, tweak)
		file = append(file, padded[:len(chunk)]...)
		tweak++
	}

	path := filepath.Join(tb.TempDir(), "volume.tc")
	if err := os.WriteFile(path, file, 0600); err != nil {
		tb.Fatalf("Failed to write container: %s", err)
	}
	return path
}

func newXTS(tb testing.TB, key []byte) *xts.Cipher {
	tb.Helper()
	c, err := xts.NewCipher(aes.NewCipher, key)
	if err != nil {
		tb.Fatalf("Failed to create XTS cipher: %s", err)
	}
	return c
}
