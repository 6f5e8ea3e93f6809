package review

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/domain/workflow"
	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
)

// ErrUnknownIndex is returned for operations on an index the store has
// never seen.
var ErrUnknownIndex = errors.New("unknown item index")

// RenameOutcome reports one rename attempt. Failures are data, not
// errors: they never cross the component boundary as a panic or error.
type RenameOutcome struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Item is one batch entry together with its review state. RenameError
// carries the annotation of the most recent failed rename attempt.
type Item struct {
	Index       int                       `json:"index"`
	Result      scrubber.ProcessingResult `json:"result"`
	State       workflow.State            `json:"state"`
	RenameError string                    `json:"rename_error,omitempty"`
}

// Store owns the current batch: the ordered processing results plus one
// decision state machine per item. The processor is the only appender;
// the UI reads items and requests decision transitions. A generation
// token distinguishes the active batch from superseded ones.
type Store struct {
	mu         sync.RWMutex
	generation uint64
	results    []scrubber.ProcessingResult
	machines   []workflow.StateMachine
	renameErrs []string
	builder    workflow.StateMachineBuilder
	logger     *zap.Logger
}

// NewStore creates an empty store with the decision lifecycle configured.
func NewStore(logger *zap.Logger) *Store {
	builder := workflow.NewBuilder()
	builder.Configure(workflow.StatePending).
		Permit(workflow.TriggerApprove, workflow.StateApproved).
		Permit(workflow.TriggerReject, workflow.StateRejected)
	builder.Configure(workflow.StateApproved).
		Permit(workflow.TriggerCommit, workflow.StateCommitted).
		Permit(workflow.TriggerFail, workflow.StateRenameFailed)
	builder.Configure(workflow.StateRenameFailed).
		Permit(workflow.TriggerApprove, workflow.StateApproved).
		Permit(workflow.TriggerReject, workflow.StateRejected)

	return &Store{
		builder: builder,
		logger:  logger,
	}
}

// StartBatch discards all prior results and decisions and returns the
// generation token identifying the new batch. Emissions carrying an
// older token are dropped by Append.
func (s *Store) StartBatch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.results = nil
	s.machines = nil
	s.renameErrs = nil

	s.logger.Debug("Started new batch", zap.Uint64("generation", s.generation))
	return s.generation
}

// Generation returns the token of the currently active batch.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Append adds one result at the next index with a Pending decision.
// It implements scrubber.ResultSink: a result from a superseded batch is
// silently dropped and false is returned.
func (s *Store) Append(generation uint64, result scrubber.ProcessingResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		s.logger.Debug("Dropping result from superseded batch",
			zap.Uint64("generation", generation),
			zap.Uint64("active_generation", s.generation),
			zap.String("file", result.OriginalName))
		return false
	}

	s.results = append(s.results, result)
	s.machines = append(s.machines, s.builder.Build(workflow.StatePending))
	s.renameErrs = append(s.renameErrs, "")
	return true
}

// Approve moves the item at index to Approved, clearing any previous
// rename annotation. Legal from Pending and from RenameFailed (retry);
// anything else is ErrInvalidTransition.
func (s *Store) Approve(ctx context.Context, index int) error {
	return s.fire(ctx, index, workflow.TriggerApprove)
}

// Reject drops the item at index from the visible set without any I/O.
// Terminal: a second Reject on the same index is ErrInvalidTransition.
func (s *Store) Reject(ctx context.Context, index int) error {
	return s.fire(ctx, index, workflow.TriggerReject)
}

// RecordRenameOutcome resolves an Approved item: Committed on success,
// RenameFailed (visible, retryable, annotated) on failure.
func (s *Store) RecordRenameOutcome(ctx context.Context, index int, outcome RenameOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.results) {
		return fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}

	trigger := workflow.TriggerCommit
	if !outcome.Success {
		trigger = workflow.TriggerFail
	}
	if err := s.machines[index].Fire(ctx, trigger); err != nil {
		return err
	}

	if outcome.Success {
		s.renameErrs[index] = ""
	} else {
		s.renameErrs[index] = outcome.ErrorMessage
	}
	return nil
}

func (s *Store) fire(ctx context.Context, index int, trigger workflow.Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.results) {
		return fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}

	if err := s.machines[index].Fire(ctx, trigger); err != nil {
		s.logger.Debug("Decision transition rejected",
			zap.Int("index", index),
			zap.String("trigger", trigger.String()),
			zap.Error(err))
		return err
	}

	if trigger == workflow.TriggerApprove {
		s.renameErrs[index] = ""
	}
	return nil
}

// Item returns the entry at index.
func (s *Store) Item(index int) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.results) {
		return Item{}, fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}
	return s.itemLocked(index), nil
}

// VisibleResults returns the items still awaiting resolution, in arrival
// order: everything that is neither Committed nor Rejected.
func (s *Store) VisibleResults() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.results))
	for i := range s.results {
		if s.machines[i].State().IsTerminal() {
			continue
		}
		items = append(items, s.itemLocked(i))
	}
	return items
}

// Items returns every entry of the batch, resolved ones included. The
// full list backs audit counts and the batch report.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.results))
	for i := range s.results {
		items = append(items, s.itemLocked(i))
	}
	return items
}

// Len returns the number of results appended to the active batch so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func (s *Store) itemLocked(index int) Item {
	return Item{
		Index:       index,
		Result:      s.results[index],
		State:       s.machines[index].State(),
		RenameError: s.renameErrs[index],
	}
}
