// internal/tokenstore/file.go
package tokenstore

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// File keeps values in a JSON file on disk. Every value is sealed with NaCl
// secretbox under a key derived from the configured secret, so the file never
// holds a usable bearer token in the clear.
type File struct {
	mu     sync.Mutex
	path   string
	key    [32]byte
	values map[string]string
}

// NewFile opens or creates the store at path.
func NewFile(path, secret string) (*File, error) {
	if secret == "" {
		return nil, errors.New("token file store needs a secret")
	}
	f := &File{
		path:   path,
		key:    sha256.Sum256([]byte(secret)),
		values: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read token file: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &f.values); err != nil {
			return nil, fmt.Errorf("parse token file: %w", err)
		}
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	sealed, ok := f.values[key]
	f.mu.Unlock()
	if !ok {
		return "", false, nil
	}
	v, err := f.open(sealed)
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	sealed, err := f.seal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = sealed
	return f.flush()
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}

func (f *File) Close() error { return nil }

func (f *File) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plain), &nonce, &f.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (f *File) open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	if len(raw) < nonceSize+secretbox.Overhead {
		return "", errors.New("sealed value too short")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &f.key)
	if !ok {
		return "", errors.New("sealed value failed authentication")
	}
	return string(plain), nil
}

// flush writes the map through a temp file and rename. Caller holds mu.
func (f *File) flush() error {
	raw, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token file: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
