package truecrypt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const (
	saltSize            = 64
	encryptedHeaderSize = 448
	volumeHeaderSize    = saltSize + encryptedHeaderSize

	keyAreaSize   = 256
	volumeKeySize = 64

	defaultSectorSize = 512
	minSectorSize     = 512
	maxSectorSize     = 4096
	dataUnitSize      = 512

	// Byte offsets into the decrypted header.
	offVersion         = 4
	offRequiredVersion = 6
	offKeyAreaCRC      = 8
	offCreationTime    = 12
	offModTime         = 20
	offHiddenSize      = 28
	offVolumeSize      = 36
	offEncAreaStart    = 44
	offEncAreaLength   = 52
	offFlags           = 60
	offSectorSize      = 64
	offReserved        = 68
	offHeaderCRC       = 188
	offKeyArea         = 192
)

const magic = "TRUE"

// Header is the decrypted TrueCrypt volume header.
type Header struct {
	Version                uint16
	RequiredProgramVersion uint16
	KeyAreaCRC             uint32
	CreationTime           uint64
	ModificationTime       uint64
	HiddenVolumeSize       uint64
	VolumeSize             uint64
	// EncryptedAreaStart is an absolute byte offset into the container.
	EncryptedAreaStart  uint64
	EncryptedAreaLength uint64
	Flags               uint32
	// SectorSize is the effective sector size: always 512 for headers
	// older than version 5, which did not store it.
	SectorSize uint32
	Reserved   [120]byte
	HeaderCRC  uint32
	// KeyArea holds the AES-256-XTS volume key in its first 64 bytes.
	// The rest is key material for cipher cascades, which are not
	// supported.
	KeyArea [keyAreaSize]byte
}

// ParseHeader decodes and validates a decrypted 448-byte volume header.
// A magic mismatch means the header key was wrong and is reported as
// ErrWrongPassword.
func ParseHeader(raw []byte) (*Header, error) {
	if len(raw) < encryptedHeaderSize {
		return nil, &Error{Kind: KindMalformedHeader, Err: fmt.Errorf("header is %d bytes, want %d", len(raw), encryptedHeaderSize)}
	}
	if !bytes.Equal(raw[:len(magic)], []byte(magic)) {
		return nil, ErrWrongPassword
	}
	be := binary.BigEndian
	h := &Header{
		Version:                be.Uint16(raw[offVersion:]),
		RequiredProgramVersion: be.Uint16(raw[offRequiredVersion:]),
		KeyAreaCRC:             be.Uint32(raw[offKeyAreaCRC:]),
		CreationTime:           be.Uint64(raw[offCreationTime:]),
		ModificationTime:       be.Uint64(raw[offModTime:]),
		HiddenVolumeSize:       be.Uint64(raw[offHiddenSize:]),
		VolumeSize:             be.Uint64(raw[offVolumeSize:]),
		EncryptedAreaStart:     be.Uint64(raw[offEncAreaStart:]),
		EncryptedAreaLength:    be.Uint64(raw[offEncAreaLength:]),
		Flags:                  be.Uint32(raw[offFlags:]),
		SectorSize:             be.Uint32(raw[offSectorSize:]),
		HeaderCRC:              be.Uint32(raw[offHeaderCRC:]),
	}
	copy(h.Reserved[:], raw[offReserved:offHeaderCRC])
	copy(h.KeyArea[:], raw[offKeyArea:encryptedHeaderSize])
	if h.Version < 5 {
		h.SectorSize = defaultSectorSize
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Header) validate() error {
	if h.SectorSize < minSectorSize || h.SectorSize > maxSectorSize || h.SectorSize%dataUnitSize != 0 {
		return &Error{Kind: KindInvalidHeader, Err: fmt.Errorf("bad sector size %d", h.SectorSize)}
	}
	return nil
}

// VerifyChecksums checks the header and key area CRC-32s stored in a
// decrypted header.
func VerifyChecksums(raw []byte) error {
	if len(raw) < encryptedHeaderSize {
		return &Error{Kind: KindMalformedHeader, Err: fmt.Errorf("header is %d bytes, want %d", len(raw), encryptedHeaderSize)}
	}
	if got, want := crc32.ChecksumIEEE(raw[:offHeaderCRC]), binary.BigEndian.Uint32(raw[offHeaderCRC:]); got != want {
		return &Error{Kind: KindInvalidHeader, Err: fmt.Errorf("header checksum %08x, want %08x", got, want)}
	}
	if got, want := crc32.ChecksumIEEE(raw[offKeyArea:encryptedHeaderSize]), binary.BigEndian.Uint32(raw[offKeyAreaCRC:]); got != want {
		return &Error{Kind: KindInvalidHeader, Err: fmt.Errorf("key area checksum %08x, want %08x", got, want)}
	}
	return nil
}

func (h *Header) volumeKey() []byte {
	return h.KeyArea[:volumeKeySize]
}

// firstDataUnit is the absolute index of the 512-byte data unit where
// the encrypted area begins. It is the XTS tweak of the first sector.
func (h *Header) firstDataUnit() uint64 {
	return h.EncryptedAreaStart / dataUnitSize
}
