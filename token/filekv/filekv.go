// Package filekv persists client token storage as a single JSON document on disk,
// optionally sealed with a passphrase.
package filekv

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-storefront-session/token"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// DefaultFileName is the file created inside the data folder
const DefaultFileName = "tokens.json"

const (
	saltLength  = 16
	nonceLength = 24
	keyLength   = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var ErrDecrypt = errors.New("token file could not be decrypted")

var _ token.KV = (*FileKV)(nil)

// sealedFile is the on-disk layout when a passphrase is configured
type sealedFile struct {
	Salt []byte `json:"salt"`
	Data []byte `json:"data"` // nonce || secretbox
}

// FileKV stores keys in a JSON file. Writes replace the file atomically.
type FileKV struct {
	path       string
	passphrase []byte

	mu   sync.Mutex
	salt []byte
	key  *[keyLength]byte
}

// Option configures a FileKV
type Option func(*FileKV)

// WithPassphrase seals the file with a key derived from passphrase
func WithPassphrase(passphrase string) Option {
	return func(f *FileKV) {
		if passphrase != "" {
			f.passphrase = []byte(passphrase)
		}
	}
}

// New creates a FileKV writing to path. The parent directory is created on first write.
func New(path string, options ...Option) *FileKV {
	f := &FileKV{path: path}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// NewInFolder creates a FileKV at folder/DefaultFileName
func NewInFolder(folder string, options ...Option) *FileKV {
	return New(filepath.Join(folder, DefaultFileName), options...)
}

func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", token.ErrNotFound
	}
	return value, nil
}

func (f *FileKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *FileKV) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	changed := false
	for _, key := range keys {
		if _, ok := values[key]; ok {
			delete(values, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.write(values)
}

func (f *FileKV) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("[FileKV read] %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return make(map[string]string), nil
	}

	if f.passphrase != nil {
		raw, err = f.open(raw)
		if err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("[FileKV read] decode %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileKV) write(values map[string]string) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("[FileKV write] encode: %w", err)
	}
	if f.passphrase != nil {
		raw, err = f.seal(raw)
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[FileKV write] mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("[FileKV write] temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileKV write] %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[FileKV write] chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[FileKV write] close: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("[FileKV write] rename: %w", err)
	}
	return nil
}

func (f *FileKV) seal(plain []byte) ([]byte, error) {
	if f.key == nil {
		salt := make([]byte, saltLength)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("[FileKV seal] salt: %w", err)
		}
		f.useSalt(salt)
	}

	var nonce [nonceLength]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("[FileKV seal] nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, f.key)
	return json.Marshal(sealedFile{Salt: f.salt, Data: sealed})
}

func (f *FileKV) open(raw []byte) ([]byte, error) {
	var sealed sealedFile
	if err := json.Unmarshal(raw, &sealed); err != nil {
		return nil, fmt.Errorf("[FileKV open] %w: %v", ErrDecrypt, err)
	}
	if len(sealed.Salt) != saltLength || len(sealed.Data) < nonceLength+secretbox.Overhead {
		return nil, ErrDecrypt
	}
	if f.key == nil || !bytes.Equal(f.salt, sealed.Salt) {
		f.useSalt(sealed.Salt)
	}

	var nonce [nonceLength]byte
	copy(nonce[:], sealed.Data[:nonceLength])
	plain, ok := secretbox.Open(nil, sealed.Data[nonceLength:], &nonce, f.key)
	if !ok {
		return nil, ErrDecrypt
	}
	return plain, nil
}

func (f *FileKV) useSalt(salt []byte) {
	derived := argon2.IDKey(f.passphrase, salt, argonTime, argonMemory, argonThreads, keyLength)
	var key [keyLength]byte
	copy(key[:], derived)
	f.salt = append([]byte(nil), salt...)
	f.key = &key
}
