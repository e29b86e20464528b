package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRun(t *testing.T) {
	m := New()
	m.RecordSkip("hidden")
	m.RecordSkip("hidden")
	m.RecordSkip("extension")
	m.RecordRun(ResultSuccess, 7, 1500*time.Millisecond, time.Unix(1700000000, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FilesSkipped.WithLabelValues("hidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FilesSkipped.WithLabelValues("extension")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ItemsIndexed))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.IndexDuration))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(m.LastRun))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(ResultSuccess)))
}

func TestNewInstancesAreIndependent(t *testing.T) {
	a := New()
	b := New()
	a.RecordSkip("hidden")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.FilesSkipped.WithLabelValues("hidden")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordRun(ResultEmpty, 0, time.Second, time.Unix(10, 0))

	path := filepath.Join(t.TempDir(), "materials.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `materials_index_runs_total{result="empty"} 1`), text)
	assert.Contains(t, text, "materials_items_indexed 0")
}
