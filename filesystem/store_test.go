package filesystem_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sagarc03/stash"
	"github.com/sagarc03/stash/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*filesystem.Store, string) {
	t.Helper()
	tempDir := t.TempDir()
	root, err := os.OpenRoot(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	return filesystem.NewFileStorage(root), tempDir
}

// listNames returns every entry directly under dir except the staging directory.
func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name() == stash.StagingDir {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

// stagedNames returns the temp files left in the staging directory.
func stagedNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(dir, stash.StagingDir))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStore_Read_Success(t *testing.T) {
	store, tempDir := newStore(t)

	content := []byte("test content")
	err := os.WriteFile(filepath.Join(tempDir, "test.txt"), content, 0o644)
	require.NoError(t, err)

	data, err := store.Read(context.Background(), "test.txt")

	assert.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestStore_Read_ContextCanceled(t *testing.T) {
	store, _ := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data, err := store.Read(ctx, "test.txt")

	assert.Nil(t, data)
	assert.Equal(t, context.Canceled, err)
}

func TestStore_Read_NotFound(t *testing.T) {
	store, _ := newStore(t)

	data, err := store.Read(context.Background(), "nonexistent.txt")

	assert.Nil(t, data)
	assert.ErrorIs(t, err, stash.ErrNotFound)
}

func TestStore_Read_Directory(t *testing.T) {
	store, tempDir := newStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "docs"), 0o755))

	_, err := store.Read(context.Background(), "docs")

	assert.ErrorIs(t, err, stash.ErrNotFound)
}

func TestStore_Read_EscapingSymlink(t *testing.T) {
	store, tempDir := newStore(t)

	outside := filepath.Join(t.TempDir(), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(tempDir, "link.txt")))

	data, err := store.Read(context.Background(), "link.txt")

	assert.Error(t, err)
	assert.Nil(t, data)
}

func TestStore_Write_Success(t *testing.T) {
	store, tempDir := newStore(t)

	result, err := store.Write(context.Background(), "test.txt", []byte("test content"), stash.WriteOptions{})

	require.NoError(t, err)
	assert.Equal(t, int64(12), result.BytesWritten)
	assert.Len(t, result.Etag, 64) // SHA256 hex length

	data, err := os.ReadFile(filepath.Join(tempDir, "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("test content"), data)
	assert.Equal(t, []string{"test.txt"}, listNames(t, tempDir))
	assert.Empty(t, stagedNames(t, tempDir), "temp file must be gone")
}

func TestStore_Write_StagesOutsideKeySpace(t *testing.T) {
	store, tempDir := newStore(t)

	_, err := store.Write(context.Background(), "a.txt", []byte("x"), stash.WriteOptions{})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(tempDir, stash.StagingDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.False(t, stash.IsValidPath(stash.StagingDir+"/.tleftover"))
}

func TestStore_Write_EmptyContent(t *testing.T) {
	store, tempDir := newStore(t)

	result, err := store.Write(context.Background(), "empty.txt", nil, stash.WriteOptions{})

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.BytesWritten)

	info, err := os.Stat(filepath.Join(tempDir, "empty.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestStore_Write_WithSubdirectory(t *testing.T) {
	store, tempDir := newStore(t)

	result, err := store.Write(context.Background(), "subdir/nested/test.txt", []byte("nested content"), stash.WriteOptions{})

	require.NoError(t, err)
	assert.Equal(t, int64(14), result.BytesWritten)

	data, err := os.ReadFile(filepath.Join(tempDir, "subdir", "nested", "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("nested content"), data)
}

func TestStore_Write_Overwrites(t *testing.T) {
	store, tempDir := newStore(t)
	ctx := context.Background()

	_, err := store.Write(ctx, "a.txt", []byte("first"), stash.WriteOptions{})
	require.NoError(t, err)
	_, err = store.Write(ctx, "a.txt", []byte("second"), stash.WriteOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tempDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_Write_ExclusiveConflict(t *testing.T) {
	store, tempDir := newStore(t)
	ctx := context.Background()

	_, err := store.Write(ctx, "a.txt", []byte("first"), stash.WriteOptions{Exclusive: true})
	require.NoError(t, err)

	_, err = store.Write(ctx, "a.txt", []byte("second"), stash.WriteOptions{Exclusive: true})
	assert.ErrorIs(t, err, stash.ErrConflict)

	data, err := os.ReadFile(filepath.Join(tempDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
	assert.Equal(t, []string{"a.txt"}, listNames(t, tempDir))
	assert.Empty(t, stagedNames(t, tempDir), "temp files must be gone")
}

func TestStore_Write_ExclusiveRace(t *testing.T) {
	store, tempDir := newStore(t)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Write(ctx, "race.txt", []byte(fmt.Sprintf("writer-%d", i)), stash.WriteOptions{Exclusive: true})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, stash.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	data, err := os.ReadFile(filepath.Join(tempDir, "race.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "writer-"))
}

func TestStore_Write_ContextCanceledBefore(t *testing.T) {
	store, tempDir := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := store.Write(ctx, "test.txt", []byte("test"), stash.WriteOptions{})

	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, int64(0), result.BytesWritten)
	assert.Empty(t, result.Etag)
	assert.Empty(t, listNames(t, tempDir))
	assert.Empty(t, stagedNames(t, tempDir))
}

func TestStore_Write_ParentIsFile(t *testing.T) {
	store, tempDir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "docs"), []byte("x"), 0o644))

	_, err := store.Write(context.Background(), "docs/a.txt", []byte("content"), stash.WriteOptions{})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, stash.ErrConflict)
	assert.Equal(t, []string{"docs"}, listNames(t, tempDir))
	assert.Empty(t, stagedNames(t, tempDir), "temp file must be gone")
}

func TestStore_Delete_Success(t *testing.T) {
	store, tempDir := newStore(t)

	err := os.WriteFile(filepath.Join(tempDir, "test.txt"), []byte("content"), 0o644)
	require.NoError(t, err)

	err = store.Delete(context.Background(), "test.txt")
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(tempDir, "test.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Delete_Twice(t *testing.T) {
	store, tempDir := newStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "test.txt"), []byte("content"), 0o644))

	assert.NoError(t, store.Delete(ctx, "test.txt"))
	assert.ErrorIs(t, store.Delete(ctx, "test.txt"), stash.ErrNotFound)
}

func TestStore_Delete_ContextCanceled(t *testing.T) {
	store, _ := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Delete(ctx, "test.txt")
	assert.Equal(t, context.Canceled, err)
}

func TestStore_Delete_Directory(t *testing.T) {
	store, tempDir := newStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, "docs"), 0o755))

	err := store.Delete(context.Background(), "docs")

	assert.ErrorIs(t, err, stash.ErrNotFound)
	_, statErr := os.Stat(filepath.Join(tempDir, "docs"))
	assert.NoError(t, statErr)
}

func TestStore_Exists(t *testing.T) {
	store, tempDir := newStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "present.txt"), []byte("x"), 0o644))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "present file", path: "present.txt", want: true},
		{name: "missing file", path: "missing.txt", want: false},
		{name: "missing parent", path: "nope/missing.txt", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Exists(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_Exists_ContextCanceled(t *testing.T) {
	store, _ := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := store.Exists(ctx, "a.txt")
	assert.False(t, got)
	assert.Equal(t, context.Canceled, err)
}
