package blob

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	ref, err := s.Put(ctx, []byte("payload"), "image/jpeg", "photo.jpg")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	data, ct, err := s.Open(ctx, ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(data) != "payload" || ct != "image/jpeg" {
		t.Fatalf("got %q %q", data, ct)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.Open(ctx, ref); !errors.Is(err, ErrNotFound) {
		t.Fatalf("open after delete: %v", err)
	}
	if err := s.Delete(ctx, ref); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestFilesystemRoundTrip(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	ref, err := s.Put(ctx, []byte("bytes"), "", "lot 42 (photo).jpg")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	data, _, err := s.Open(ctx, ref)
	if err != nil || string(data) != "bytes" {
		t.Fatalf("open: %v %q", err, data)
	}
	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := s.Open(ctx, ref); !errors.Is(err, ErrNotFound) {
		t.Fatalf("open after delete: %v", err)
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	s, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, ref := range []string{"../etc/passwd", "a/b", "", ".."} {
		if _, _, err := s.Open(context.Background(), ref); !errors.Is(err, ErrNotFound) {
			t.Errorf("Open(%q) = %v, want ErrNotFound", ref, err)
		}
	}
}
