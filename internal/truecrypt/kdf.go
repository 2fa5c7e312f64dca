package truecrypt

import (
	"crypto/aes"
	"crypto/pbkdf2"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/xts"
)

const (
	pbkdf2Iterations = 2000
	headerKeySize    = 64
)

func deriveHeaderKey(password string, salt []byte) ([]byte, error) {
	return pbkdf2.Key(ripemd160.New, password, salt, pbkdf2Iterations, headerKeySize)
}

// decryptHeader decrypts the encrypted part of the volume header. The
// header is always encrypted as XTS data unit 0.
func decryptHeader(encrypted, key []byte) ([]byte, error) {
	c, err := xts.NewCipher(aes.NewCipher, key)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, len(encrypted))
	c.Decrypt(raw, encrypted, 0)
	return raw, nil
}
