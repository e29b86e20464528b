package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mattsolo1/grove-materials/pkg/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logrus.NewEntry(logger)
}

func startWatcher(t *testing.T, w *Watcher) (cancel func()) {
	t.Helper()
	ctx, cancelCtx := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register its watches
	time.Sleep(100 * time.Millisecond)

	return func() {
		cancelCtx()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func waitForRuns(t *testing.T, runs *atomic.Int32, want int32) {
	t.Helper()
	require.Eventually(t, func() bool { return runs.Load() >= want }, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherRunsAfterChange(t *testing.T) {
	root := t.TempDir()
	var runs atomic.Int32
	w := New(root, 50*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, quietLogger())

	stop := startWatcher(t, w)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.pdf"), []byte("x"), 0644))
	waitForRuns(t, &runs, 1)

	// files in directories created after start are picked up too
	sub := filepath.Join(root, "Semestr_1")
	require.NoError(t, os.Mkdir(sub, 0755))
	waitForRuns(t, &runs, 2)
	time.Sleep(100 * time.Millisecond)
	before := runs.Load()

	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.pdf"), []byte("x"), 0644))
	waitForRuns(t, &runs, before+1)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	var runs atomic.Int32
	w := New(root, 200*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, quietLogger())

	stop := startWatcher(t, w)
	defer stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.pdf"), []byte{byte(i)}, 0644))
	}
	waitForRuns(t, &runs, 1)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestWatcherIgnoresPaths(t *testing.T) {
	root := t.TempDir()
	ignored := filepath.Join(root, "materials.json")
	var runs atomic.Int32
	w := New(root, 50*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, quietLogger(), ignored)

	stop := startWatcher(t, w)
	defer stop()

	require.NoError(t, os.WriteFile(ignored, []byte("{}"), 0644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}

func TestWatcherMissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), 0, func(ctx context.Context) error { return nil }, nil)
	assert.Error(t, w.Run(context.Background()))
}

func TestFingerprint(t *testing.T) {
	a := []models.MaterialItem{{ID: "a", Title: "A", Tags: []string{"x"}}}
	b := []models.MaterialItem{{ID: "a", Title: "A", Tags: []string{"x"}}}
	c := []models.MaterialItem{{ID: "a", Title: "B", Tags: []string{"x"}}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.NotEqual(t, Fingerprint(nil), Fingerprint(a))
}
