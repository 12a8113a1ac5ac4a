package crawler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfpv/propwash/internal/config"
	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/pkg/logger"
)

type fakeAnalyzer struct {
	analyzed []string
}

func (f *fakeAnalyzer) AnalyzeVideo(_ context.Context, videoPath string, _ bool) (*metadata.VideoMetadata, error) {
	f.analyzed = append(f.analyzed, videoPath)
	return &metadata.VideoMetadata{}, nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindCandidatesSkipsAnalyzedAndNonVideos(t *testing.T) {
	root := t.TempDir()

	touch(t, filepath.Join(root, "flight1.mp4"))
	touch(t, filepath.Join(root, "nested", "flight2.MOV"))
	touch(t, filepath.Join(root, "notes.txt"))

	// flight3 already has a sidecar and must be skipped.
	analyzed := filepath.Join(root, "flight3.mkv")
	touch(t, analyzed)
	touch(t, metadata.SidecarPath(analyzed))

	candidates, err := findCandidates(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "flight1.mp4"),
		filepath.Join(root, "nested", "flight2.MOV"),
	}, candidates)
}

func TestTriggerAnalyzesCandidates(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp4"))
	touch(t, filepath.Join(root, "b.mp4"))

	analyzer := &fakeAnalyzer{}
	c := New(context.Background(), config.CrawlerConfig{
		Enabled: true,
		Root:    root,
	}, analyzer, logger.Nop())
	defer c.Stop()

	queued := c.Trigger()
	assert.Equal(t, 2, queued)
	assert.Len(t, analyzer.analyzed, 2)

	status := c.Status()
	assert.True(t, status.Enabled)
	assert.NotNil(t, status.LastRun)
	assert.Equal(t, 2, status.VideosFound)
	assert.Equal(t, 0, status.VideosPending)
}

func TestTriggerMissingRoot(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	c := New(context.Background(), config.CrawlerConfig{
		Enabled: true,
		Root:    filepath.Join(t.TempDir(), "does-not-exist"),
	}, analyzer, logger.Nop())
	defer c.Stop()

	assert.Equal(t, 0, c.Trigger())
	assert.Empty(t, analyzer.analyzed)
}
