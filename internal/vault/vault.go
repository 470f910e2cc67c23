// Package vault stores small encrypted files (credentials, secrets) sealed
// with AES-256-GCM under a hex key kept in a separate key file.
package vault

import (
	"bufio"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// MasterKeyEnv overrides the key file when set.
const MasterKeyEnv = "CMDR_MASTER_KEY"

var (
	// ErrInvalidMessage means the ciphertext is corrupt or the key is wrong.
	ErrInvalidMessage = errors.New("vault: invalid message")
	// ErrMissingKey means neither the key file nor the key variable exist.
	ErrMissingKey = errors.New("vault: missing key")
	// ErrInvalidKey means the key is not KeySize hex-encoded bytes.
	ErrInvalidKey = errors.New("vault: invalid key")
)

// Vault is one encrypted file and the key that opens it.
type Vault struct {
	Path    string
	KeyPath string

	// EnvKey is consulted before KeyPath when non-empty.
	EnvKey string
}

// Open describes the vault at path. Nothing is read until needed.
func Open(path, keyPath string) *Vault {
	return &Vault{Path: path, KeyPath: keyPath}
}

// Key returns the decoded key, or nil when none is configured.
func (v *Vault) Key() ([]byte, error) {
	raw := strings.TrimSpace(v.EnvKey)
	if raw == "" {
		data, err := os.ReadFile(v.KeyPath)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read key %s: %w", v.KeyPath, err)
		}
		raw = strings.TrimSpace(string(data))
	}
	return decodeKey(raw)
}

// HasKey reports whether a usable key is configured.
func (v *Vault) HasKey() bool {
	key, err := v.Key()
	return err == nil && key != nil
}

// Exists reports whether the encrypted file is on disk.
func (v *Vault) Exists() bool {
	_, err := os.Stat(v.Path)
	return err == nil
}

// Read returns the decrypted content. A missing file reads as empty.
func (v *Vault) Read() ([]byte, error) {
	key, err := v.requireKey()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(v.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", v.Path, err)
	}
	return decrypt(key, data)
}

// Write encrypts plain and replaces the file atomically.
func (v *Vault) Write(plain []byte) error {
	key, err := v.requireKey()
	if err != nil {
		return err
	}
	sealed, err := encrypt(key, plain)
	if err != nil {
		return err
	}
	return writeAtomic(v.Path, sealed, 0600)
}

// Change decrypts into a temp file, hands its path to edit and encrypts the
// result back. The temp file is removed even when edit fails.
func (v *Vault) Change(edit func(tmpPath string) error) error {
	plain, err := v.Read()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", strings.TrimSuffix(filepath.Base(v.Path), ".enc")+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(plain); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := edit(tmpPath); err != nil {
		return err
	}

	updated, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("read temp file: %w", err)
	}
	return v.Write(updated)
}

func (v *Vault) requireKey() ([]byte, error) {
	key, err := v.Key()
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrMissingKey
	}
	return key, nil
}

// GenerateKey returns a new random hex key.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// AddKeyFile writes a fresh key to path unless one is already there.
// It reports whether a key was created.
func AddKeyFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	key, err := GenerateKey()
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return false, fmt.Errorf("create key dir: %w", err)
	}
	if err := writeAtomic(path, []byte(key+"\n"), 0600); err != nil {
		return false, err
	}
	return true, nil
}

// IgnoreKeyFile appends keyPath to the .gitignore in dir if it is not listed.
func IgnoreKeyFile(dir, keyPath string) error {
	entry := "/" + filepath.ToSlash(strings.TrimPrefix(keyPath, "./"))
	ignore := filepath.Join(dir, ".gitignore")

	f, err := os.Open(ignore)
	if err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == entry {
				_ = f.Close()
				return nil
			}
		}
		_ = f.Close()
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	out, err := os.OpenFile(ignore, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "\n# Ignore master key for decrypting credentials and more.\n%s\n", entry); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func decodeKey(raw string) ([]byte, error) {
	key, err := hex.DecodeString(raw)
	if err != nil || len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// encrypt returns base64(nonce || ciphertext) followed by a newline.
func encrypt(key, plain []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	sealed := gcm.Seal(nonce, nonce, plain, nil)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)), base64.StdEncoding.EncodedLen(len(sealed))+1)
	base64.StdEncoding.Encode(out, sealed)
	return append(out, '\n'), nil
}

func decrypt(key, data []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil || len(raw) < gcm.NonceSize() {
		return nil, ErrInvalidMessage
	}
	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrInvalidMessage
	}
	return plain, nil
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
