package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/spotkit/internal/shared"
)

type deletingStore interface {
	Store
	Deleter
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) deletingStore{
		"FileStore": func(t *testing.T) deletingStore {
			return NewFileStore(t.TempDir())
		},
		"SQLiteStore": func(t *testing.T) deletingStore {
			store, err := OpenSQLiteStore(":memory:")
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			t.Cleanup(func() { store.Close() })
			return store
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("missing key is a cache miss", func(t *testing.T) {
				store := newStore(t)
				if _, err := store.Read(ctx, "missing.json"); !errors.Is(err, shared.ErrCacheMiss) {
					t.Errorf("expected ErrCacheMiss, got %v", err)
				}
			})

			t.Run("write then read", func(t *testing.T) {
				store := newStore(t)
				if err := store.Write(ctx, "token.json", []byte(`{"a":1}`)); err != nil {
					t.Fatalf("write failed: %v", err)
				}
				data, err := store.Read(ctx, "token.json")
				if err != nil {
					t.Fatalf("read failed: %v", err)
				}
				if string(data) != `{"a":1}` {
					t.Errorf("unexpected data %s", data)
				}
			})

			t.Run("second write replaces first", func(t *testing.T) {
				store := newStore(t)
				store.Write(ctx, "token.json", []byte("first"))
				if err := store.Write(ctx, "token.json", []byte("second")); err != nil {
					t.Fatalf("write failed: %v", err)
				}
				data, _ := store.Read(ctx, "token.json")
				if string(data) != "second" {
					t.Errorf("expected second, got %s", data)
				}
			})

			t.Run("delete forgets entry", func(t *testing.T) {
				store := newStore(t)
				store.Write(ctx, "token.json", []byte("x"))
				if err := store.Delete(ctx, "token.json"); err != nil {
					t.Fatalf("delete failed: %v", err)
				}
				if _, err := store.Read(ctx, "token.json"); !errors.Is(err, shared.ErrCacheMiss) {
					t.Errorf("expected ErrCacheMiss after delete, got %v", err)
				}
				if err := store.Delete(ctx, "token.json"); err != nil {
					t.Errorf("expected deleting a missing entry to succeed, got %v", err)
				}
			})
		})
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("creates parent directories with private permissions", func(t *testing.T) {
		root := t.TempDir()
		store := NewFileStore(root)

		if err := store.Write(ctx, filepath.Join("nested", "dir", "token.json"), []byte("x")); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		info, err := os.Stat(filepath.Join(root, "nested", "dir", "token.json"))
		if err != nil {
			t.Fatalf("expected file to exist: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("absolute keys ignore root", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "abs.json")
		store := NewFileStore("/nonexistent-root")

		if err := store.Write(ctx, dest, []byte("abs")); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		data, err := os.ReadFile(dest)
		if err != nil || string(data) != "abs" {
			t.Errorf("expected abs at %s, got %q (%v)", dest, data, err)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		root := t.TempDir()
		store := NewFileStore(root)
		store.Write(ctx, "token.json", []byte("x"))

		entries, _ := os.ReadDir(root)
		if len(entries) != 1 {
			t.Errorf("expected only token.json, got %d entries", len(entries))
		}
	})

	t.Run("unreadable entry is not a miss", func(t *testing.T) {
		root := t.TempDir()
		os.Mkdir(filepath.Join(root, "token.json"), 0700)

		_, err := NewFileStore(root).Read(ctx, "token.json")
		if err == nil || errors.Is(err, shared.ErrCacheMiss) {
			t.Errorf("expected read error other than a miss, got %v", err)
		}
	})
}
