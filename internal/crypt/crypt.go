// Package crypt provides password-based encryption for note text.
package crypt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	formatVersion byte = 1
	saltSize           = 16
	keySize            = chacha20poly1305.KeySize

	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
)

var (
	ErrWrongPassword = errors.New("wrong password or corrupted data")
	ErrMalformed     = errors.New("malformed encrypted text")
)

// Encrypt seals plain with a key derived from password. The result is
// base64 text safe to store inside a document.
func Encrypt(plain, password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(deriveKey(password, salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	header := make([]byte, 0, 1+saltSize+len(nonce))
	header = append(header, formatVersion)
	header = append(header, salt...)
	header = append(header, nonce...)

	sealed := aead.Seal(header, nonce, []byte(plain), header[:1+saltSize])
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func Decrypt(encoded, password string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	nonceSize := chacha20poly1305.NonceSizeX
	if len(data) < 1+saltSize+nonceSize || data[0] != formatVersion {
		return "", ErrMalformed
	}

	salt := data[1 : 1+saltSize]
	nonce := data[1+saltSize : 1+saltSize+nonceSize]
	sealed := data[1+saltSize+nonceSize:]

	aead, err := chacha20poly1305.NewX(deriveKey(password, salt))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	plain, err := aead.Open(nil, nonce, sealed, data[:1+saltSize])
	if err != nil {
		return "", ErrWrongPassword
	}
	return string(plain), nil
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keySize)
}
