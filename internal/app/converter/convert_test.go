package converter

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"transcribe-all/internal/app/api"
	apperrors "transcribe-all/internal/app/errors"
	"transcribe-all/internal/app/metrics"
	"transcribe-all/internal/app/testutil"
	"transcribe-all/internal/app/util/files"
	"transcribe-all/internal/config"
)

func newSettings(t *testing.T, root string) *config.Settings {
	t.Helper()
	s := &config.Settings{
		ScanRoot:      root,
		OutputDirName: config.DefaultOutputDirName,
		Extensions:    files.DefaultExtensions,
		LogLevel:      "info",
	}
	require.NoError(t, s.Validate())
	return s
}

func touch(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("media"), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func newConverter(transcriber *testutil.MockTranscriber, settings *config.Settings) (*BatchConverter, *bytes.Buffer) {
	c := NewBatchConverter(transcriber, settings, zap.NewNop(), metrics.NewRecorder())
	var console bytes.Buffer
	c.SetConsole(&console)
	return c, &console
}

func TestBatchConverter_EmptyRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "notes.txt"))
	mock := testutil.NewMockTranscriber()
	c, console := newConverter(mock, newSettings(t, root))

	result, err := c.Do(context.Background())
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(root, "transcripts"))
	entries, err := os.ReadDir(filepath.Join(root, "transcripts"))
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, "No mp3 or mp4 files found.\n", console.String())
	assert.Empty(t, result.Discovered)
	assert.Empty(t, result.Written)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 0, mock.GetCallCount())
}

func TestBatchConverter_TranscribesRecursively(t *testing.T) {
	root := t.TempDir()
	clip := touch(t, filepath.Join(root, "videos", "2024", "clip.MP4"))
	talk := touch(t, filepath.Join(root, "talk.mp3"))
	touch(t, filepath.Join(root, "cover.jpg"))

	mock := testutil.NewMockTranscriber().
		SetResponseForFile(clip, "hello from the clip").
		SetResponseForFile(talk, "a talk")
	c, console := newConverter(mock, newSettings(t, root))

	result, err := c.Do(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "hello from the clip", readFile(t, filepath.Join(root, "transcripts", "clip_transcript.txt")))
	assert.Equal(t, "a talk", readFile(t, filepath.Join(root, "transcripts", "talk_transcript.txt")))
	assert.ElementsMatch(t, []string{clip, talk}, result.Discovered)
	assert.Len(t, result.Written, 2)
	assert.Equal(t, result.Discovered, mock.CalledPaths())
	assert.Empty(t, console.String())
}

func TestBatchConverter_SameBaseNameLastWins(t *testing.T) {
	root := t.TempDir()
	mp3 := touch(t, filepath.Join(root, "a.mp3"))
	mp4 := touch(t, filepath.Join(root, "a.mp4"))

	mock := testutil.NewMockTranscriber().
		SetResponseForFile(mp3, "from mp3").
		SetResponseForFile(mp4, "from mp4")
	c, _ := newConverter(mock, newSettings(t, root))

	result, err := c.Do(context.Background())
	require.NoError(t, err)

	calls := mock.CalledPaths()
	require.Len(t, calls, 2)
	last := mock.GetCallHistory()[1].Response
	assert.Equal(t, last, readFile(t, filepath.Join(root, "transcripts", "a_transcript.txt")))
	assert.Equal(t, result.Written[0], result.Written[1])
}

func TestBatchConverter_AbortsOnFirstFailure(t *testing.T) {
	root := t.TempDir()
	first := touch(t, filepath.Join(root, "a.mp3"))
	second := touch(t, filepath.Join(root, "b.mp3"))
	third := touch(t, filepath.Join(root, "c.mp3"))

	boom := errors.New("quota exceeded")
	mock := testutil.NewMockTranscriber().SetErrorForFile(second, boom)
	recorder := metrics.NewRecorder()
	c := NewBatchConverter(mock, newSettings(t, root), zap.NewNop(), recorder)

	result, err := c.Do(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTranscriptionFailed))
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), second)

	assert.FileExists(t, filepath.Join(root, "transcripts", "a_transcript.txt"))
	assert.NoFileExists(t, filepath.Join(root, "transcripts", "b_transcript.txt"))
	assert.NoFileExists(t, filepath.Join(root, "transcripts", "c_transcript.txt"))
	assert.Equal(t, []string{first, second}, mock.CalledPaths())
	assert.False(t, mock.WasCalledWith(third))
	assert.Len(t, result.Written, 1)

	expected := `
# HELP transcribe_files_discovered Media files found under the scan root in the last run.
# TYPE transcribe_files_discovered gauge
transcribe_files_discovered 3
# HELP transcribe_transcripts_written_total Transcript files written.
# TYPE transcribe_transcripts_written_total counter
transcribe_transcripts_written_total 1
# HELP transcribe_failures_total Batch failures by stage.
# TYPE transcribe_failures_total counter
transcribe_failures_total{stage="transcribe"} 1
# HELP transcribe_last_run_success 1 if the last run finished without error.
# TYPE transcribe_last_run_success gauge
transcribe_last_run_success 0
`
	assert.NoError(t, promtestutil.GatherAndCompare(recorder.Registry(), strings.NewReader(expected),
		"transcribe_files_discovered", "transcribe_transcripts_written_total",
		"transcribe_failures_total", "transcribe_last_run_success"))
}

func TestBatchConverter_WriteFailureStopsBatch(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"))
	touch(t, filepath.Join(root, "b.mp3"))
	// A directory in place of the transcript makes the write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "transcripts", "a_transcript.txt"), 0o755))

	mock := testutil.NewMockTranscriber()
	c, _ := newConverter(mock, newSettings(t, root))

	_, err := c.Do(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFileWriteFailed))
	assert.Equal(t, 1, mock.GetCallCount())
}

func TestBatchConverter_RerunOverwrites(t *testing.T) {
	root := t.TempDir()
	clip := touch(t, filepath.Join(root, "clip.mp4"))
	out := filepath.Join(root, "transcripts", "clip_transcript.txt")

	c, _ := newConverter(testutil.NewMockTranscriber().SetResponseForFile(clip, "first run, quite long"), newSettings(t, root))
	_, err := c.Do(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first run, quite long", readFile(t, out))

	c, _ = newConverter(testutil.NewMockTranscriber().SetResponseForFile(clip, "second"), newSettings(t, root))
	_, err = c.Do(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", readFile(t, out))
}

func TestBatchConverter_SequentialOrder(t *testing.T) {
	root := t.TempDir()
	a := touch(t, filepath.Join(root, "a.mp3"))
	touch(t, filepath.Join(root, "b.mp3"))

	mock := testutil.NewMockTranscriber()
	mock.OnCall = func(call int, path string) {
		if call == 2 {
			// The previous transcript must already be on disk.
			assert.FileExists(t, files.TranscriptPath(filepath.Join(root, "transcripts"), a))
		}
	}
	c, _ := newConverter(mock, newSettings(t, root))

	_, err := c.Do(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, mock.GetCallCount())
}

func TestBatchConverter_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	settings := newSettings(t, root)
	settings.OutputDirName = filepath.Join(t.TempDir(), "out")

	c, _ := newConverter(testutil.NewMockTranscriber(), settings)
	_, err := c.Do(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDiscoveryFailed))
}

func TestBatchConverter_CanceledContext(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := testutil.NewMockTranscriber()
	c, _ := newConverter(mock, newSettings(t, root))
	_, err := c.Do(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, mock.GetCallCount())
}

func TestBatchConverter_CustomExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"))
	wav := touch(t, filepath.Join(root, "b.WAV"))

	settings := newSettings(t, root)
	settings.Extensions = []string{".wav"}
	mock := testutil.NewMockTranscriber()
	c, _ := newConverter(mock, settings)

	result, err := c.Do(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{wav}, result.Discovered)
}

func TestDescribeExtensions(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{".mp3", ".mp4"}, "mp3 or mp4"},
		{[]string{".wav"}, "wav"},
		{[]string{".mp3", ".mp4", ".wav"}, "mp3, mp4 or wav"},
		{nil, "media"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeExtensions(tt.in))
	}
}

func TestLazyBatchConverter_EmptyRootSkipsFactory(t *testing.T) {
	root := t.TempDir()
	called := false
	factory := func() (api.Transcriber, error) {
		called = true
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "no key")
	}
	c := NewLazyBatchConverter(factory, newSettings(t, root), zap.NewNop(), metrics.NewRecorder())
	var console bytes.Buffer
	c.SetConsole(&console)

	_, err := c.Do(context.Background())
	require.NoError(t, err)
	assert.False(t, called)
	assert.DirExists(t, filepath.Join(root, "transcripts"))
	assert.Equal(t, "No mp3 or mp4 files found.\n", console.String())
}

func TestLazyBatchConverter_FactoryError(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mp3"))
	factory := func() (api.Transcriber, error) {
		return nil, apperrors.Wrap(apperrors.ErrMissingAPIKey, "no key")
	}
	c := NewLazyBatchConverter(factory, newSettings(t, root), zap.NewNop(), metrics.NewRecorder())

	result, err := c.Do(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMissingAPIKey))
	assert.Len(t, result.Discovered, 1)
	assert.Empty(t, result.Written)
}
