package filestore

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/jrsteele09/securecrop-client/internal/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var sealedHeader = []byte("securecrop-sealed:v1\n")

func isSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealedHeader)
}

func deriveKey(passphrase string, salt []byte) *[keyLength]byte {
	var key [keyLength]byte
	copy(key[:], argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLength))
	return &key
}

// seal encrypts plaintext as header + base64(salt | nonce | secretbox).
func seal(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	payload := append(append([]byte{}, salt...), nonce[:]...)
	payload = secretbox.Seal(payload, plaintext, &nonce, deriveKey(passphrase, salt))

	out := make([]byte, 0, len(sealedHeader)+base64.StdEncoding.EncodedLen(len(payload)))
	out = append(out, sealedHeader...)
	return base64.StdEncoding.AppendEncode(out, payload), nil
}

func open(data []byte, passphrase string) ([]byte, error) {
	payload, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(data[len(sealedHeader):])))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrSessionCorrupt, "[FileStore] sealed payload: %v", err)
	}
	if len(payload) < saltLength+nonceLength+secretbox.Overhead {
		return nil, errors.Wrapf(errors.ErrSessionCorrupt, "[FileStore] sealed payload too short")
	}

	salt := payload[:saltLength]
	var nonce [nonceLength]byte
	copy(nonce[:], payload[saltLength:saltLength+nonceLength])

	plaintext, ok := secretbox.Open(nil, payload[saltLength+nonceLength:], &nonce, deriveKey(passphrase, salt))
	if !ok {
		return nil, errors.ErrSessionKeyWrong
	}
	return plaintext, nil
}
