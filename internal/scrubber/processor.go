package scrubber

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ResultSink receives results as they are produced. Append returns false
// when the generation token no longer identifies the active batch, which
// tells the processor to stop emitting.
type ResultSink interface {
	Append(generation uint64, result ProcessingResult) bool
}

// ProgressFunc observes per-item progress during a batch.
type ProgressFunc func(Progress)

// DefaultPacingDelay is the default pause between items. It paces the
// incremental reveal of results in the UI and may be set to zero.
const DefaultPacingDelay = 100 * time.Millisecond

// Processor runs one folder's batch: it enumerates PDF entries, processes
// them strictly one at a time in directory order, and streams each result
// into the sink as soon as it is ready. A failing file is recorded and
// skipped; only a failed enumeration aborts the batch.
type Processor struct {
	reader    TextReader
	extractor Extractor
	sink      ResultSink
	pacing    time.Duration
	logger    *zap.Logger
}

// NewProcessor creates a new Processor. A negative pacing delay falls
// back to the default; zero disables pacing.
func NewProcessor(reader TextReader, extractor Extractor, sink ResultSink, pacing time.Duration, logger *zap.Logger) *Processor {
	if pacing < 0 {
		pacing = DefaultPacingDelay
	}
	return &Processor{
		reader:    reader,
		extractor: extractor,
		sink:      sink,
		pacing:    pacing,
		logger:    logger,
	}
}

// Process runs the batch identified by generation over folderPath.
// Results land in the sink in enumeration order; onProgress, if set, is
// called after each emission. Returns ErrDirectoryUnreadable (wrapped)
// if the folder cannot be enumerated, in which case zero results were
// emitted.
func (p *Processor) Process(ctx context.Context, folderPath string, generation uint64, onProgress ProgressFunc) error {
	names, err := listPDFs(folderPath)
	if err != nil {
		p.logger.Error("Failed to enumerate folder",
			zap.String("folder", folderPath),
			zap.Error(err))
		return err
	}

	p.logger.Info("Processing folder",
		zap.String("folder", folderPath),
		zap.Int("pdf_count", len(names)),
		zap.Uint64("generation", generation))

	total := len(names)
	for i, name := range names {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result := p.processOne(ctx, folderPath, name)

		if !p.sink.Append(generation, result) {
			// A newer batch owns the store; drop the rest silently.
			p.logger.Debug("Batch superseded, stopping emission",
				zap.Uint64("generation", generation),
				zap.String("file", name))
			return nil
		}

		if onProgress != nil {
			onProgress(Progress{
				CurrentFile:     name,
				PercentComplete: float64(i+1) / float64(total) * 100,
			})
		}

		if p.pacing > 0 && i < total-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pacing):
			}
		}
	}

	return nil
}

// processOne never returns an error: any failure becomes a failed result
// so the batch can continue with the next file.
func (p *Processor) processOne(ctx context.Context, folderPath, name string) ProcessingResult {
	path := filepath.Join(folderPath, name)

	data, err := os.ReadFile(path)
	if err != nil {
		p.logger.Warn("Failed to read file",
			zap.String("file", name),
			zap.Error(err))
		return ProcessingResult{OriginalName: name, ErrorMessage: err.Error()}
	}

	text, err := p.reader.ReadText(data)
	if err != nil {
		p.logger.Warn("Failed to parse PDF",
			zap.String("file", name),
			zap.Error(err))
		return ProcessingResult{OriginalName: name, ErrorMessage: err.Error()}
	}

	metadata, err := p.extractor.Extract(ctx, text, path)
	if err != nil {
		p.logger.Warn("Metadata extraction failed",
			zap.String("file", name),
			zap.Error(err))
		return ProcessingResult{OriginalName: name, ErrorMessage: err.Error()}
	}

	return ProcessingResult{
		OriginalName: name,
		Extracted:    metadata,
		DerivedName:  DeriveFilename(*metadata),
		Succeeded:    true,
	}
}
