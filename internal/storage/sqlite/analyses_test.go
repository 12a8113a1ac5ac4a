package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfpv/propwash/pkg/logger"
)

func testStorage(t *testing.T) *AnalysisStorage {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAnalysisStorage(db, logger.Nop())
}

func TestRecordAndRecent(t *testing.T) {
	s := testStorage(t)

	for i, path := range []string{"/videos/a.mp4", "/videos/b.mp4", "/videos/c.mp4"} {
		_, err := s.Record(&AnalysisRecord{
			VideoPath:      path,
			SidecarPath:    path + ".meta.json",
			Status:         StatusComplete,
			FramesAnalyzed: 10 + i,
			QualityScore:   8,
			CreatedAt:      time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	recent, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "/videos/c.mp4", recent[0].VideoPath)
	assert.Equal(t, "/videos/b.mp4", recent[1].VideoPath)
	assert.Equal(t, 12, recent[0].FramesAnalyzed)
}

func TestLatestForVideo(t *testing.T) {
	s := testStorage(t)

	_, err := s.Record(&AnalysisRecord{
		VideoPath: "/videos/a.mp4", SidecarPath: "/videos/a.mp4.meta.json",
		Status: StatusFailed, Error: "ffmpeg exploded", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	_, err = s.Record(&AnalysisRecord{
		VideoPath: "/videos/a.mp4", SidecarPath: "/videos/a.mp4.meta.json",
		Status: StatusComplete, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	latest, err := s.LatestForVideo("/videos/a.mp4")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, StatusComplete, latest.Status)

	missing, err := s.LatestForVideo("/videos/never-seen.mp4")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCountByStatus(t *testing.T) {
	s := testStorage(t)

	for _, status := range []string{StatusComplete, StatusComplete, StatusFailed} {
		_, err := s.Record(&AnalysisRecord{
			VideoPath: "/videos/x.mp4", SidecarPath: "/videos/x.mp4.meta.json",
			Status: status, CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	complete, err := s.CountByStatus(StatusComplete)
	require.NoError(t, err)
	assert.Equal(t, 2, complete)

	failed, err := s.CountByStatus(StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
}
