// Package secrets encrypts the credentials kept in the configuration store.
//
// A sealed value is "E:" followed by base64(salt | nonce | ciphertext). The key is
// derived per value from the passphrase with Argon2id and the value is sealed with
// XChaCha20-Poly1305.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Prefix marks a value as already encrypted
const Prefix = "E:"

// Argon2id parameters
const (
	saltSize      = 16
	argonTime     = 1
	argonMemory   = 64 * 1024
	argonThreads  = 4
	minPassphrase = 8
)

var (
	ErrNotEncrypted    = errors.New("value is not encrypted")
	ErrDecrypt         = errors.New("failed to decrypt value")
	ErrWeakPassphrase  = fmt.Errorf("passphrase must be at least %d characters", minPassphrase)
	errMalformedSealed = errors.New("malformed encrypted value")
)

// IsEncrypted reports whether value carries the encryption prefix
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Cipher seals and opens values with a passphrase
type Cipher struct {
	passphrase []byte
}

// NewCipher creates a cipher for passphrase
func NewCipher(passphrase string) (*Cipher, error) {
	if len(passphrase) < minPassphrase {
		return nil, ErrWeakPassphrase
	}
	return &Cipher{passphrase: []byte(passphrase)}, nil
}

func (c *Cipher) key(salt []byte) []byte {
	return argon2.IDKey(c.passphrase, salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
}

// Encrypt seals plaintext and returns it with the encryption prefix
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	buf := make([]byte, saltSize+chacha20poly1305.NonceSizeX, saltSize+chacha20poly1305.NonceSizeX+len(plaintext)+chacha20poly1305.Overhead)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt and nonce: %w", err)
	}
	salt, nonce := buf[:saltSize], buf[saltSize:]

	aead, err := chacha20poly1305.NewX(c.key(salt))
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	sealed := aead.Seal(buf, nonce, []byte(plaintext), nil)
	return Prefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// EncryptIfNeeded encrypts value unless it is empty or already carries the prefix
func (c *Cipher) EncryptIfNeeded(value string) (string, error) {
	if value == "" || IsEncrypted(value) {
		return value, nil
	}
	return c.Encrypt(value)
}

// Decrypt opens a value produced by Encrypt
func (c *Cipher) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return "", ErrNotEncrypted
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return "", fmt.Errorf("%w: %w", errMalformedSealed, err)
	}
	if len(raw) < saltSize+chacha20poly1305.NonceSizeX+chacha20poly1305.Overhead {
		return "", errMalformedSealed
	}
	salt := raw[:saltSize]
	nonce := raw[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	ciphertext := raw[saltSize+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(c.key(salt))
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
