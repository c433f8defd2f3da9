package converter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"transcribe-all/internal/app/api"
	apperrors "transcribe-all/internal/app/errors"
	"transcribe-all/internal/app/metrics"
	"transcribe-all/internal/app/model"
	"transcribe-all/internal/app/util/files"
	"transcribe-all/internal/config"
)

// BatchResult describes one finished (or aborted) run.
type BatchResult struct {
	RunID      string
	ScanRoot   string
	OutputDir  string
	Discovered []string
	// Written lists transcript paths in the order they were written.
	Written []string
}

// TranscriberFactory builds the transcriber on first use.
type TranscriberFactory func() (api.Transcriber, error)

// BatchConverter discovers media files under the scan root and transcribes
// them one after another.
type BatchConverter struct {
	newTranscriber TranscriberFactory
	settings    *config.Settings
	logger      *zap.Logger
	metrics     *metrics.Recorder
	console     io.Writer
}

// NewBatchConverter returns a converter using an already built transcriber.
// A nil logger or recorder is replaced by a no-op logger and a fresh recorder.
func NewBatchConverter(transcriber api.Transcriber, settings *config.Settings, logger *zap.Logger, recorder *metrics.Recorder) *BatchConverter {
	return NewLazyBatchConverter(func() (api.Transcriber, error) {
		return transcriber, nil
	}, settings, logger, recorder)
}

// NewLazyBatchConverter defers building the transcriber until discovery has
// found at least one file, so an empty run never touches the provider.
func NewLazyBatchConverter(factory TranscriberFactory, settings *config.Settings, logger *zap.Logger, recorder *metrics.Recorder) *BatchConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	return &BatchConverter{
		newTranscriber: factory,
		settings:       settings,
		logger:         logger,
		metrics:        recorder,
		console:        os.Stdout,
	}
}

// SetConsole redirects the user-facing report, which defaults to stdout.
func (c *BatchConverter) SetConsole(w io.Writer) {
	c.console = w
}

// Metrics returns the recorder the run reports to.
func (c *BatchConverter) Metrics() *metrics.Recorder {
	return c.metrics
}

// Do runs the batch. The first failing file stops the run; transcripts
// written before it are kept and listed in the returned result.
func (c *BatchConverter) Do(ctx context.Context) (*BatchResult, error) {
	result := &BatchResult{
		RunID:     uuid.NewString(),
		ScanRoot:  c.settings.ScanRoot,
		OutputDir: c.settings.OutputDir(),
	}
	log := c.logger.With(zap.String("run_id", result.RunID))

	err := c.run(ctx, log, result)
	c.metrics.Finish(err == nil)
	if err != nil {
		log.Error("batch aborted", zap.Error(err), zap.Int("written", len(result.Written)))
		return result, err
	}
	log.Info("batch finished", zap.Int("discovered", len(result.Discovered)), zap.Int("written", len(result.Written)))
	return result, nil
}

func (c *BatchConverter) run(ctx context.Context, log *zap.Logger, result *BatchResult) error {
	if err := files.EnsureDir(result.OutputDir); err != nil {
		c.metrics.IncFailure(metrics.StageWrite)
		return err
	}

	found, err := files.FindMediaFiles(result.ScanRoot, c.settings.Extensions)
	if err != nil {
		c.metrics.IncFailure(metrics.StageDiscover)
		return err
	}
	result.Discovered = lo.Map(found, func(f model.FileInfo, _ int) string { return f.FullPath })
	c.metrics.SetDiscovered(len(found))
	log.Info("discovered media files", zap.String("root", result.ScanRoot), zap.Int("count", len(found)))

	if len(found) == 0 {
		fmt.Fprintf(c.console, "No %s files found.\n", describeExtensions(c.settings.Extensions))
		return nil
	}

	transcriber, err := c.newTranscriber()
	if err != nil {
		c.metrics.IncFailure(metrics.StageTranscribe)
		return err
	}

	for i, path := range result.Discovered {
		if err := ctx.Err(); err != nil {
			return err
		}
		fileLog := log.With(zap.String("file", path), zap.Int("index", i+1), zap.Int("total", len(found)))
		fileLog.Info("transcribing")

		start := time.Now()
		text, err := transcriber.Transcript(ctx, path)
		c.metrics.ObserveTranscription(time.Since(start))
		if err != nil {
			c.metrics.IncFailure(metrics.StageTranscribe)
			return apperrors.Mark(apperrors.ErrTranscriptionFailed, apperrors.Wrap(err, path))
		}

		target := files.TranscriptPath(result.OutputDir, path)
		if err := files.WriteToFile(text, target); err != nil {
			c.metrics.IncFailure(metrics.StageWrite)
			return apperrors.Wrapf(err, "transcript for %s", path)
		}
		c.metrics.IncWritten()
		result.Written = append(result.Written, target)
		fileLog.Info("transcript written", zap.String("output", target), zap.Duration("took", time.Since(start)))
	}
	return nil
}

// describeExtensions renders [".mp3", ".mp4", ".wav"] as "mp3, mp4 or wav".
func describeExtensions(extensions []string) string {
	names := lo.Map(extensions, func(ext string, _ int) string { return strings.TrimPrefix(ext, ".") })
	switch len(names) {
	case 0:
		return "media"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
