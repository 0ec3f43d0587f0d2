package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// filesystemStore кладёт файлы в один каталог; ref — имя файла
// вида <uuid>_<имя>. Content-Type здесь не хранится, он живёт
// в метаданных MediaRecord.
type filesystemStore struct {
	root string
}

func NewFilesystem(root string) (Store, error) {
	if root == "" {
		root = "blobs"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &filesystemStore{root: root}, nil
}

func (s *filesystemStore) Put(_ context.Context, data []byte, _ string, name string) (string, error) {
	ref := uuid.NewString() + "_" + sanitizeName(name)
	if err := os.WriteFile(filepath.Join(s.root, ref), data, 0o644); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *filesystemStore) Open(_ context.Context, ref string) ([]byte, string, error) {
	if !validRef(ref) {
		return nil, "", ErrNotFound
	}
	b, err := os.ReadFile(filepath.Join(s.root, ref))
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return b, "", nil
}

func (s *filesystemStore) Delete(_ context.Context, ref string) error {
	if !validRef(ref) {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.root, ref))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// validRef отсекает попытки выйти из каталога через ref.
func validRef(ref string) bool {
	return ref != "" && !strings.ContainsAny(ref, "/\\") && ref != "." && ref != ".."
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
