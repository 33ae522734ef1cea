// Package cryptox provides at-rest encryption for stored media. Files are
// sealed with AES-256-GCM, the nonce prefixed to the ciphertext, using a key
// derived from the configured secret with argon2id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const keySize = 32

// DeriveKey stretches a secret into an AES-256 key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, keySize)
}

// Encrypt seals plaintext and returns the nonce-prefixed ciphertext.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a nonce-prefixed ciphertext produced by Encrypt.
func Decrypt(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aesgcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short: %d bytes", len(sealed))
	}

	nonce, ciphertext := sealed[:aesgcm.NonceSize()], sealed[aesgcm.NonceSize():]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}

	return plaintext, nil
}

// EncryptFile replaces the file at path with its sealed form.
func EncryptFile(path string, key []byte) error {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	sealed, err := Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("encrypt file: %w", err)
	}

	if err := os.WriteFile(path, sealed, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// DecryptFile reads the sealed file at path and returns its plaintext.
func DecryptFile(path string, key []byte) ([]byte, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	plaintext, err := Decrypt(sealed, key)
	if err != nil {
		return nil, fmt.Errorf("decrypt file: %w", err)
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	return aesgcm, nil
}
