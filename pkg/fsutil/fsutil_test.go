package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/mdstream/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes new file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.html")
		content := []byte("<p>hello</p>\n")

		if err := fsutil.WriteAtomic(context.Background(), path, content, 0644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(content) {
			t.Errorf("content = %q, want %q", got, content)
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.html")
		if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0644); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "new" {
			t.Errorf("content = %q, want %q", got, "new")
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "out.html")
		if err := fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected 1 entry, got %d", len(entries))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := filepath.Join(t.TempDir(), "out.html")
		if err := fsutil.WriteAtomic(ctx, path, []byte("x"), 0644); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")

	ctx := context.Background()

	written, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0644)
	if err != nil {
		t.Fatalf("WriteAtomicIfChanged() error = %v", err)
	}
	if !written {
		t.Error("expected write for new file")
	}

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("a"), 0644)
	if err != nil {
		t.Fatalf("WriteAtomicIfChanged() error = %v", err)
	}
	if written {
		t.Error("expected no write for identical content")
	}

	written, err = fsutil.WriteAtomicIfChanged(ctx, path, []byte("b"), 0644)
	if err != nil {
		t.Fatalf("WriteAtomicIfChanged() error = %v", err)
	}
	if !written {
		t.Error("expected write for changed content")
	}
}

func TestDiscoverMarkdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWrite := func(rel string) string {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("# x\n"), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	readme := mustWrite("readme.md")
	guide := mustWrite("docs/guide.markdown")
	mustWrite("docs/notes.txt")
	mustWrite(".hidden/secret.md")
	mustWrite("docs/.draft.md")

	files, err := fsutil.DiscoverMarkdown(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("DiscoverMarkdown() error = %v", err)
	}

	want := []string{guide, readme}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestDiscoverMarkdown_ExplicitFileAnyExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := fsutil.DiscoverMarkdown(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("DiscoverMarkdown() error = %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("files = %v, want [%s]", files, path)
	}
}

func TestDiscoverMarkdown_Dedup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	if err := os.WriteFile(path, []byte("# a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := fsutil.DiscoverMarkdown(context.Background(), []string{path, dir})
	if err != nil {
		t.Fatalf("DiscoverMarkdown() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected deduplicated single file, got %v", files)
	}
}

func TestDiscoverMarkdown_MissingInput(t *testing.T) {
	t.Parallel()

	_, err := fsutil.DiscoverMarkdown(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
