package middleware

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/eio/pkg/adapters/bufstream"
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/ports"
)

// envelopeHeader starts every encrypted artifact. The rest is the base64
// encoded nonce and ciphertext.
const envelopeHeader = "eio-aes-gcm 1\n"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new artifacts.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt.
	// This enables key rotation without rewriting every model first.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.Repository
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts every artifact at rest using AES-GCM.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.Repository) ports.Repository {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Manager(ctx context.Context, model string) (ports.ModelManager, error) {
	mgr, err := m.next.Manager(ctx, model)
	if err != nil {
		return nil, err
	}
	return &encryptingManager{next: mgr, config: m.config}, nil
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *encryptionMiddleware) Delete(ctx context.Context, model string) error {
	return m.next.Delete(ctx, model)
}

type encryptingManager struct {
	next   ports.ModelManager
	config EncryptionConfig
}

func (m *encryptingManager) Model() string {
	return m.next.Model()
}

// OpenStream decrypts read artifacts up front and serves the plaintext from
// memory. Write streams are buffered, then encrypted and written through on Close.
func (m *encryptingManager) OpenStream(ctx context.Context, kind domain.StreamKind, mode domain.Mode) (ports.Stream, error) {
	switch mode {
	case domain.ModeRead:
		plain, err := m.load(ctx, kind)
		if err != nil {
			return nil, err
		}
		return bufstream.NewReader(kind, plain), nil
	case domain.ModeWrite:
		return bufstream.NewWriter(kind, func(plain []byte) error {
			return m.store(ctx, kind, plain)
		}), nil
	default:
		return nil, fmt.Errorf("open %s: %w", kind, domain.ErrWrongMode)
	}
}

func (m *encryptingManager) load(ctx context.Context, kind domain.StreamKind) ([]byte, error) {
	s, err := m.next.OpenStream(ctx, kind, domain.ModeRead)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(s)
	_ = s.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	encoded, ok := bytes.CutPrefix(data, []byte(envelopeHeader))
	if !ok {
		// Fail secure: a plaintext artifact is never passed through.
		return nil, fmt.Errorf("%s is missing encrypted data envelope", kind)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(encoded)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt %s: %w", kind, err)
	}
	return plain, nil
}

func (m *encryptingManager) store(ctx context.Context, kind domain.StreamKind, plain []byte) error {
	ciphertext, err := encrypt(plain, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt %s: %w", kind, err)
	}

	s, err := m.next.OpenStream(ctx, kind, domain.ModeWrite)
	if err != nil {
		return err
	}
	envelope := envelopeHeader + base64.StdEncoding.EncodeToString(ciphertext) + "\n"
	if _, err := io.WriteString(s, envelope); err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to write %s: %w", kind, err)
	}
	return s.Close()
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
