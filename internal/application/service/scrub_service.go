package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/audit"
	"github.com/pdfscrubber/pdf-scrubber/internal/export"
	"github.com/pdfscrubber/pdf-scrubber/internal/notify"
	"github.com/pdfscrubber/pdf-scrubber/internal/review"
	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
	"github.com/pdfscrubber/pdf-scrubber/internal/watch"
)

// ErrNoFolderSelected is returned when processing is requested before a
// folder has been picked.
var ErrNoFolderSelected = errors.New("no folder selected")

// ErrProcessingInProgress is returned when a second processing request
// arrives for the batch that is already running.
var ErrProcessingInProgress = errors.New("processing already in progress")

// BatchStatus is the read model the UI polls: the current selection,
// live progress and the items still awaiting a decision.
type BatchStatus struct {
	Selected   *scrubber.FolderSelection `json:"selected,omitempty"`
	Processing bool                      `json:"processing"`
	Progress   scrubber.Progress         `json:"progress"`
	Items      []review.Item             `json:"items"`
	Total      int                       `json:"total"`
}

// ScrubService ties the workflow together: folder selection, batch
// processing, per-item decisions and the rename commit. It owns the
// mutable UI-facing state (selection, processing flag, progress).
type ScrubService struct {
	store     *review.Store
	processor *scrubber.Processor
	committer *review.Committer
	center    *notify.Center
	watcher   *watch.Watcher
	journal   *audit.Journal
	reporter  *export.Reporter
	logger    *zap.Logger

	mu         sync.Mutex
	selected   *scrubber.FolderSelection
	processing bool
	progress   scrubber.Progress
	cancel     context.CancelFunc
}

// NewScrubService creates the service. watcher and journal may be nil
// when the corresponding features are disabled.
func NewScrubService(
	store *review.Store,
	processor *scrubber.Processor,
	committer *review.Committer,
	center *notify.Center,
	watcher *watch.Watcher,
	journal *audit.Journal,
	reporter *export.Reporter,
	logger *zap.Logger,
) *ScrubService {
	return &ScrubService{
		store:     store,
		processor: processor,
		committer: committer,
		center:    center,
		watcher:   watcher,
		journal:   journal,
		reporter:  reporter,
		logger:    logger,
	}
}

// SelectFolder scans path, makes it the current selection and clears the
// previous batch. Any batch still streaming in is superseded.
func (s *ScrubService) SelectFolder(path string) (*scrubber.FolderSelection, error) {
	selection, err := scrubber.SelectFolder(path)
	if err != nil {
		s.logger.Warn("Folder selection failed", zap.String("path", path), zap.Error(err))
		s.center.Error("Failed to read folder: %s", path)
		return nil, err
	}

	s.mu.Lock()
	s.selected = selection
	s.processing = false
	s.progress = scrubber.Progress{}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	// Supersedes any in-flight batch: its late emissions are dropped.
	s.store.StartBatch()

	if s.watcher != nil {
		if err := s.watcher.Watch(selection.Path); err != nil {
			s.logger.Warn("Failed to watch folder", zap.String("path", path), zap.Error(err))
		}
	}

	s.center.Success("Found %d PDF files", selection.PDFCount)
	return selection, nil
}

// StartProcessing launches the batch for the selected folder. It returns
// immediately; results stream into the store and progress is readable
// via Status. The batch outlives the caller and is stopped by a new
// selection or by Shutdown.
func (s *ScrubService) StartProcessing() error {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return ErrNoFolderSelected
	}
	if s.processing {
		s.mu.Unlock()
		return ErrProcessingInProgress
	}

	folder := s.selected.Path
	generation := s.store.StartBatch()

	pctx, cancel := context.WithCancel(context.Background())
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.processing = true
	s.progress = scrubber.Progress{}
	s.mu.Unlock()

	go s.run(pctx, folder, generation)
	return nil
}

func (s *ScrubService) run(ctx context.Context, folder string, generation uint64) {
	err := s.processor.Process(ctx, folder, generation, func(p scrubber.Progress) {
		s.mu.Lock()
		if s.store.Generation() == generation {
			s.progress = p
		}
		s.mu.Unlock()
	})

	s.mu.Lock()
	current := s.store.Generation() == generation
	if current {
		s.processing = false
	}
	s.mu.Unlock()

	if !current || errors.Is(err, context.Canceled) {
		// A newer selection or batch owns the UI; say nothing.
		return
	}
	if err != nil {
		s.center.Error("Failed to process folder: %s", folder)
		return
	}
	s.center.Success("Processing complete")
}

// Approve accepts the derived name for the item at index and attempts
// the rename. The outcome is recorded in the store, the journal and the
// notification center. A failed rename leaves the item retryable.
func (s *ScrubService) Approve(ctx context.Context, index int) (review.RenameOutcome, error) {
	if err := s.store.Approve(ctx, index); err != nil {
		return review.RenameOutcome{}, err
	}

	item, err := s.store.Item(index)
	if err != nil {
		return review.RenameOutcome{}, err
	}

	folder := s.selectedPath()
	oldName := item.Result.OriginalName
	newName := item.Result.DerivedName

	if s.watcher != nil {
		s.watcher.SuppressBriefly()
	}
	outcome := s.committer.Commit(ctx, folder, oldName, newName)

	if err := s.store.RecordRenameOutcome(ctx, index, outcome); err != nil {
		s.logger.Error("Failed to record rename outcome", zap.Int("index", index), zap.Error(err))
	}
	if s.journal != nil {
		if err := s.journal.RecordRename(ctx, folder, oldName, newName, outcome); err != nil {
			s.logger.Warn("Audit journal write failed", zap.Error(err))
		}
	}

	if outcome.Success {
		s.center.Success("Renamed %s to %s", oldName, newName)
	} else {
		s.center.Error("Failed to rename %s: %s", oldName, outcome.ErrorMessage)
	}
	return outcome, nil
}

// Reject drops the item at index from the visible set. The rename
// collaborator is never invoked.
func (s *ScrubService) Reject(ctx context.Context, index int) error {
	if err := s.store.Reject(ctx, index); err != nil {
		return err
	}

	if s.journal != nil {
		item, err := s.store.Item(index)
		if err == nil {
			if jerr := s.journal.RecordRejection(ctx, s.selectedPath(), item.Result.OriginalName); jerr != nil {
				s.logger.Warn("Audit journal write failed", zap.Error(jerr))
			}
		}
	}
	return nil
}

// Status returns the current read model for the UI.
func (s *ScrubService) Status() BatchStatus {
	s.mu.Lock()
	selected := s.selected
	processing := s.processing
	progress := s.progress
	s.mu.Unlock()

	total := 0
	if selected != nil {
		total = selected.PDFCount
	}

	return BatchStatus{
		Selected:   selected,
		Processing: processing,
		Progress:   progress,
		Items:      s.store.VisibleResults(),
		Total:      total,
	}
}

// Report renders the full batch, resolved items included, as an XLSX
// workbook.
func (s *ScrubService) Report() ([]byte, error) {
	return s.reporter.WriteReport(s.store.Items())
}

// Shutdown cancels any in-flight batch and stops the folder watch.
func (s *ScrubService) Shutdown() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	if s.watcher != nil {
		s.watcher.Stop()
	}
}

func (s *ScrubService) selectedPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return ""
	}
	return s.selected.Path
}
