package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
// Implementations may block on network or subprocess work; ctx bounds that wait.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string) (string, error)
}
