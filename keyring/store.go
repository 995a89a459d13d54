// Package keyring stores named cipher keys on the local filesystem so a key
// agreed with a correspondent can be reused by name instead of retyping its
// settings. Key files are canonical keyfile bytes under ~/.nesw/keys,
// written 0600 inside 0700 directories.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/louisbranch/nesw/cipher"
	"github.com/louisbranch/nesw/keyfile"
)

type Store struct {
	Directory string
}

// DefaultDirectory returns the per-user key directory, ~/.nesw/keys.
func DefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".nesw", "keys"), nil
}

// Open returns a store rooted at directory, or at DefaultDirectory when
// directory is empty. The directory is created lazily on first Save.
func Open(directory string) (*Store, error) {
	if directory == "" {
		var err error
		directory, err = DefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &Store{Directory: directory}, nil
}

// CheckName validates a key name: letters, digits, hyphen, underscore.
func CheckName(name string) error {
	if name == "" {
		return errors.New("key name cannot be empty")
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in key name", char)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Directory, name+".key")
}

// Save writes the canonical key file for cfg under name and returns the
// file path. Existing files are refused unless overwrite is set.
func (s *Store) Save(name string, cfg cipher.Config, overwrite bool) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	b, err := keyfile.Render(cfg)
	if err != nil {
		return "", err
	}
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return "", err
	}
	defer file.Close()
	if _, err := file.Write(b); err != nil {
		return "", err
	}
	return path, file.Close()
}

// Load reads the named key. Byte-level drift from hand editing (CRLF, BOM,
// trailing newlines) is tolerated; anything else is rejected.
func (s *Store) Load(name string) (cipher.Config, error) {
	if err := CheckName(name); err != nil {
		return cipher.Config{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return cipher.Config{}, err
	}
	canonical, err := keyfile.Normalize(data)
	if err != nil {
		return cipher.Config{}, fmt.Errorf("key %q: %w", name, err)
	}
	return keyfile.Parse(canonical)
}

// List returns the stored key names in sorted order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".key") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".key"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the named key.
func (s *Store) Remove(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	return os.Remove(s.path(name))
}
