// Package securestore protects JSON documents at rest with AES-256-GCM. The
// symmetric key is generated lazily on first use and persisted alongside the
// data it protects; the threat model is accidental plaintext exposure, not a
// local attacker with storage access.
package securestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"health-portal-server/internal/storage"
)

// KeyStorageKey is the storage key under which the master key is persisted.
const KeyStorageKey = "portal_master_key"

// jwk is the portable key-interchange document for a symmetric key.
type jwk struct {
	Kty string `json:"kty"`
	K   string `json:"k"`
}

// SecureStore seals and unseals JSON-serializable values with a persisted
// per-installation key.
type SecureStore struct {
	backing storage.Store

	mu   sync.Mutex
	aead cipher.AEAD
}

func New(backing storage.Store) *SecureStore {
	return &SecureStore{backing: backing}
}

// cipher returns the AEAD for the installation key, generating and persisting
// the key on first use.
func (s *SecureStore) cipher() (cipher.AEAD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.aead != nil {
		return s.aead, nil
	}

	stored, err := s.backing.Load(KeyStorageKey, "")
	if err != nil {
		return nil, fmt.Errorf("while loading master key: %w", err)
	}

	var key []byte
	if stored != "" {
		var doc jwk
		if err := json.Unmarshal([]byte(stored), &doc); err != nil {
			return nil, fmt.Errorf("while parsing master key: %w", err)
		}
		key, err = base64.RawURLEncoding.DecodeString(doc.K)
		if err != nil {
			return nil, fmt.Errorf("while decoding master key: %w", err)
		}
	} else {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("while generating master key: %w", err)
		}
		doc, err := json.Marshal(jwk{Kty: "oct", K: base64.RawURLEncoding.EncodeToString(key)})
		if err != nil {
			return nil, err
		}
		if err := s.backing.Save(KeyStorageKey, string(doc)); err != nil {
			return nil, fmt.Errorf("while persisting master key: %w", err)
		}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("while initializing cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("while initializing gcm: %w", err)
	}
	s.aead = aead
	return aead, nil
}

// Seal serializes value to JSON, encrypts it under a fresh 96-bit random
// nonce and returns base64(nonce || ciphertext). A broken cryptographic
// subsystem degrades to the plain JSON string; that branch is a last-resort
// availability safeguard, not a security feature.
func (s *SecureStore) Seal(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("while serializing value: %w", err)
	}

	aead, err := s.cipher()
	if err != nil {
		log.Printf("securestore: cipher unavailable, storing plaintext: %v", err)
		return string(raw), nil
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("while drawing nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, raw, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Unseal decodes and decrypts a value produced by Seal. A stored value that
// starts with '{' or '[' is legacy unencrypted JSON and is parsed directly.
// Corrupted or foreign ciphertext falls through to a last-resort plain JSON
// parse and finally to fallback; Unseal never returns an error to the caller.
func Unseal[T any](s *SecureStore, sealed string, fallback T) T {
	if strings.HasPrefix(sealed, "{") || strings.HasPrefix(sealed, "[") {
		return legacyParse(sealed, fallback)
	}

	plain, err := s.open(sealed)
	if err != nil {
		return legacyParse(sealed, fallback)
	}

	var out T
	if err := json.Unmarshal(plain, &out); err != nil {
		return legacyParse(sealed, fallback)
	}
	return out
}

func (s *SecureStore) open(sealed string) ([]byte, error) {
	aead, err := s.cipher()
	if err != nil {
		return nil, err
	}

	combined, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, err
	}
	if len(combined) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed value shorter than nonce")
	}

	nonce, ciphertext := combined[:aead.NonceSize()], combined[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}

func legacyParse[T any](sealed string, fallback T) T {
	var out T
	if err := json.Unmarshal([]byte(sealed), &out); err != nil {
		return fallback
	}
	return out
}
