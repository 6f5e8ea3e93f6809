package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/export"
	"github.com/pdfscrubber/pdf-scrubber/internal/notify"
	"github.com/pdfscrubber/pdf-scrubber/internal/review"
	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
)

type rawTextReader struct{}

func (rawTextReader) ReadText(data []byte) (string, error) {
	return string(data), nil
}

func newTestService(t *testing.T) (*ScrubService, *notify.Center) {
	t.Helper()

	logger := zap.NewNop()
	store := review.NewStore(logger)
	processor := scrubber.NewProcessor(rawTextReader{}, scrubber.StubExtractor{}, store, 0, logger)
	committer := review.NewCommitter(logger)
	center := notify.NewCenter(time.Minute, logger)
	t.Cleanup(center.Close)
	reporter := export.NewReporter(logger)

	svc := NewScrubService(store, processor, committer, center, nil, nil, reporter, logger)
	t.Cleanup(svc.Shutdown)
	return svc, center
}

func writePDF(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("body of "+name), 0o644))
}

func waitForBatch(t *testing.T, svc *ScrubService, want int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		status := svc.Status()
		return !status.Processing && len(status.Items) == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestScrubService_FullBatchLifecycle(t *testing.T) {
	svc, center := newTestService(t)

	dir := t.TempDir()
	writePDF(t, dir, "alpha.pdf")
	writePDF(t, dir, "beta.pdf")

	selection, err := svc.SelectFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, selection.PDFCount)

	notifications := center.Active()
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Message, "Found 2 PDF files")

	require.NoError(t, svc.StartProcessing())
	waitForBatch(t, svc, 2)

	status := svc.Status()
	assert.Equal(t, float64(100), status.Progress.PercentComplete)
	for _, item := range status.Items {
		require.True(t, item.Result.Succeeded)
		assert.Equal(t, "Unknown", item.Result.Extracted.Company)
		assert.True(t, item.Result.Extracted.Assumed)
	}
}

func TestScrubService_StartProcessingRequiresSelection(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.StartProcessing()
	assert.ErrorIs(t, err, ErrNoFolderSelected)
}

func TestScrubService_ApproveRenamesOnDisk(t *testing.T) {
	svc, _ := newTestService(t)

	dir := t.TempDir()
	writePDF(t, dir, "alpha.pdf")

	_, err := svc.SelectFolder(dir)
	require.NoError(t, err)
	require.NoError(t, svc.StartProcessing())
	waitForBatch(t, svc, 1)

	item := svc.Status().Items[0]
	outcome, err := svc.Approve(context.Background(), item.Index)
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	assert.NoFileExists(t, filepath.Join(dir, "alpha.pdf"))
	assert.FileExists(t, filepath.Join(dir, item.Result.DerivedName))

	// Committed items leave the review queue.
	assert.Empty(t, svc.Status().Items)
}

func TestScrubService_FailedRenameStaysRetryable(t *testing.T) {
	svc, _ := newTestService(t)

	dir := t.TempDir()
	writePDF(t, dir, "alpha.pdf")

	_, err := svc.SelectFolder(dir)
	require.NoError(t, err)
	require.NoError(t, svc.StartProcessing())
	waitForBatch(t, svc, 1)

	item := svc.Status().Items[0]
	// Occupy the target name so the rename is refused.
	writePDF(t, dir, item.Result.DerivedName)

	outcome, err := svc.Approve(context.Background(), item.Index)
	require.NoError(t, err)
	assert.False(t, outcome.Success)

	status := svc.Status()
	require.Len(t, status.Items, 1)
	assert.NotEmpty(t, status.Items[0].RenameError)

	// Clear the collision and retry.
	require.NoError(t, os.Remove(filepath.Join(dir, item.Result.DerivedName)))
	outcome, err = svc.Approve(context.Background(), item.Index)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Empty(t, svc.Status().Items)
}

func TestScrubService_RejectRemovesWithoutRenaming(t *testing.T) {
	svc, _ := newTestService(t)

	dir := t.TempDir()
	writePDF(t, dir, "alpha.pdf")

	_, err := svc.SelectFolder(dir)
	require.NoError(t, err)
	require.NoError(t, svc.StartProcessing())
	waitForBatch(t, svc, 1)

	require.NoError(t, svc.Reject(context.Background(), 0))
	assert.Empty(t, svc.Status().Items)
	assert.FileExists(t, filepath.Join(dir, "alpha.pdf"))
}

func TestScrubService_ReselectSupersedesBatch(t *testing.T) {
	svc, _ := newTestService(t)

	first := t.TempDir()
	writePDF(t, first, "alpha.pdf")
	second := t.TempDir()
	writePDF(t, second, "gamma.pdf")
	writePDF(t, second, "delta.pdf")

	_, err := svc.SelectFolder(first)
	require.NoError(t, err)
	require.NoError(t, svc.StartProcessing())
	waitForBatch(t, svc, 1)

	_, err = svc.SelectFolder(second)
	require.NoError(t, err)
	assert.Empty(t, svc.Status().Items)

	require.NoError(t, svc.StartProcessing())
	waitForBatch(t, svc, 2)
}

func TestScrubService_ReportRendersWorkbook(t *testing.T) {
	svc, _ := newTestService(t)

	dir := t.TempDir()
	writePDF(t, dir, "alpha.pdf")

	_, err := svc.SelectFolder(dir)
	require.NoError(t, err)
	require.NoError(t, svc.StartProcessing())
	waitForBatch(t, svc, 1)

	data, err := svc.Report()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
