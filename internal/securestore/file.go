package securestore

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

const (
	keyLen     = 32
	saltLen    = 16
	secretSuff = ".secret"
)

// fileFormat is the on-disk JSON layout of the keystore.
type fileFormat struct {
	Salt  string               `json:"salt"`
	Items map[string]fileEntry `json:"items"`
}

type fileEntry struct {
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// FileStore is a Store backed by a single encrypted file. Values are sealed
// individually with AES-GCM under a key derived via scrypt from a per-install
// secret generated on first open. It stands in for the platform keychain on
// targets that do not have one.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  []byte
	salt []byte
	// items holds the sealed values as read from or written to disk.
	items map[string]fileEntry
}

// OpenFile opens (or creates) the keystore at path. The install secret is
// kept next to the keystore in a 0600 file.
func OpenFile(path string) (*FileStore, error) {
	secret, err := loadOrCreateSecret(path + secretSuff)
	if err != nil {
		return nil, fmt.Errorf("securestore: install secret: %w", err)
	}

	s := &FileStore{path: path, items: map[string]fileEntry{}}
	created := false

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		created = true
		s.salt = make([]byte, saltLen)
		if _, err := rand.Read(s.salt); err != nil {
			return nil, fmt.Errorf("securestore: salt: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("securestore: read keystore: %w", err)
	default:
		var ff fileFormat
		if err := json.Unmarshal(raw, &ff); err != nil {
			return nil, fmt.Errorf("securestore: corrupt keystore: %w", err)
		}
		s.salt, err = base64.StdEncoding.DecodeString(ff.Salt)
		if err != nil || len(s.salt) != saltLen {
			return nil, fmt.Errorf("securestore: corrupt keystore salt")
		}
		if ff.Items != nil {
			s.items = ff.Items
		}
	}

	s.key, err = scrypt.Key([]byte(secret), s.salt, 1<<15, 8, 1, keyLen)
	if err != nil {
		return nil, fmt.Errorf("securestore: key derivation: %w", err)
	}

	if created {
		s.mu.Lock()
		err = s.persist()
		s.mu.Unlock()
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Set persists value under key, overwriting any prior value.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sealed, err := s.seal([]byte(value))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, hadPrev := s.items[key]
	s.items[key] = sealed
	if err := s.persist(); err != nil {
		if hadPrev {
			s.items[key] = prev
		} else {
			delete(s.items, key)
		}
		return err
	}
	return nil
}

// Get returns the value stored under key. Missing keys and values that no
// longer decrypt both read as ErrNotFound.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	entry, ok := s.items[key]
	s.mu.Unlock()
	if !ok {
		return "", ErrNotFound
	}

	plain, err := s.open(entry)
	if err != nil {
		return "", ErrNotFound
	}
	return string(plain), nil
}

// Delete removes key. Deleting an absent key succeeds.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.items[key]
	if !ok {
		return nil
	}
	delete(s.items, key)
	if err := s.persist(); err != nil {
		s.items[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) seal(plaintext []byte) (fileEntry, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return fileEntry{}, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return fileEntry{}, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fileEntry{}, err
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)
	return fileEntry{
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

func (s *FileStore) open(entry fileEntry) ([]byte, error) {
	nonce, err := base64.StdEncoding.DecodeString(entry.Nonce)
	if err != nil {
		return nil, err
	}
	ciphertext, err := base64.StdEncoding.DecodeString(entry.Ciphertext)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

// persist writes the keystore atomically. Callers hold s.mu.
func (s *FileStore) persist() error {
	ff := fileFormat{
		Salt:  base64.StdEncoding.EncodeToString(s.salt),
		Items: s.items,
	}
	raw, err := json.Marshal(ff)
	if err != nil {
		return fmt.Errorf("securestore: encode keystore: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("securestore: write keystore: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("securestore: replace keystore: %w", err)
	}
	return nil
}

func loadOrCreateSecret(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err == nil && len(raw) > 0 {
		return string(raw), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}

	secret := uuid.NewString()
	if err := os.WriteFile(path, []byte(secret), 0o600); err != nil {
		return "", err
	}
	return secret, nil
}
