package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("Alice,90\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, path, func() error {
			calls.Add(1)
			return errors.New("keep going")
		})
	}()

	// The watcher starts asynchronously, so keep writing until a change lands.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("Alice,91\n"), 0o644)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestFile_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("Alice,90\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var calls atomic.Int32
	go func() {
		for ctx.Err() == nil {
			_ = os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x,1\n"), 0o644)
			time.Sleep(20 * time.Millisecond)
		}
	}()

	require.NoError(t, File(ctx, path, func() error {
		calls.Add(1)
		return nil
	}))
	assert.Zero(t, calls.Load())
}

func TestFile_MissingDirectory(t *testing.T) {
	err := File(context.Background(), filepath.Join(t.TempDir(), "nope", "scores.csv"), func() error { return nil })
	assert.ErrorContains(t, err, "watching")
}
