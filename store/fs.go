package store

import (
	"context"
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
)

const (
	entryDir     = "entries"
	entrySuffix  = ".entry"
	entryDirPerm = 0o700
)

/*
Filesystem is a Store that keeps one file per key on a billy filesystem.

File names are the sha256 of the key, so any valid key fits in a file name.
Each file starts with a header line holding the hex-encoded key, which lets Keys
list keys back without an index. Writes go to a temp file that is renamed into
place; a reader never sees half a value.
*/
type Filesystem struct {
	fs billy.Filesystem
	mu sync.RWMutex
}

// NewFilesystem stores entries under the "entries" directory of fs.
func NewFilesystem(fs billy.Filesystem) (*Filesystem, error) {
	if err := fs.MkdirAll(entryDir, entryDirPerm); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Filesystem{fs: fs}, nil
}

func (s *Filesystem) fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return s.fs.Join(entryDir, hex.EncodeToString(sum[:])+entrySuffix)
}

func header(key string) string {
	return hex.EncodeToString([]byte(key)) + "\n"
}

// Get reads the file for key.
func (s *Filesystem) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.fs.Open(s.fileName(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("open %s: %w", key, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	value, ok := strings.CutPrefix(string(b), header(key))
	if !ok {
		return "", false, fmt.Errorf("read %s: header does not match key", key)
	}
	return value, true, nil
}

// Set replaces the file for key atomically.
func (s *Filesystem) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := s.fs.TempFile(entryDir, "tmp-")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	if _, err := io.WriteString(tmp, header(key)+value); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp.Name(), s.fileName(key)); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Remove deletes the file for key; an absent file is not an error.
func (s *Filesystem) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(key)
}

// MultiRemove deletes every key in keys, stopping at the first failure.
func (s *Filesystem) MultiRemove(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		if err := s.remove(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Filesystem) remove(key string) error {
	if err := s.fs.Remove(s.fileName(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys starting with prefix, sorted.
func (s *Filesystem) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos, err := s.fs.ReadDir(entryDir)
	if err != nil {
		return nil, fmt.Errorf("list store dir: %w", err)
	}

	var out []string
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), entrySuffix) {
			continue
		}
		k, err := s.readKey(s.fs.Join(entryDir, info.Name()))
		if err != nil {
			continue
		}
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out, nil
}

// readKey decodes the header line of an entry file.
func (s *Filesystem) readKey(name string) (string, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(strings.TrimSuffix(line, "\n"))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Close is a no-op; the filesystem is owned by the caller.
func (s *Filesystem) Close() error { return nil }
