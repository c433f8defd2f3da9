// Package testutil provides test doubles shared by the batch and CLI tests.
//
// MockTranscriber implements api.Transcriber with per-file responses and
// errors, an ordered call history and optional testify expectations:
//
//	m := testutil.NewMockTranscriber().
//		SetResponseForFile("/media/a.mp3", "hello").
//		SetErrorForFile("/media/b.mp3", errors.New("quota exceeded"))
//
//	c := converter.NewBatchConverter(m, settings, zap.NewNop(), metrics.NewRecorder())
//	_, err := c.Do(ctx)
//	assert.Equal(t, []string{"/media/a.mp3", "/media/b.mp3"}, m.CalledPaths())
package testutil
