package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// Requests above this size go through the Files API instead of inline data.
	defaultInlineLimitBytes = 20 << 20

	defaultPrompt = "Generate a verbatim transcript of the speech in this recording. " +
		"Return only the transcript as plain text, without timestamps, speaker labels or commentary."
)

var extensionMIMETypes = map[string]string{
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".webm": "video/webm",
	".aac":  "audio/aac",
}

// Transcriber asks a Gemini model for a transcript of an audio or video file.
type Transcriber struct {
	client           *genai.Client
	model            string
	prompt           string
	inlineLimitBytes int64
}

// NewTranscriber wraps an existing genai client.
func NewTranscriber(client *genai.Client, model string, prompt string, inlineLimitBytes int64) *Transcriber {
	if model == "" {
		model = DefaultModel
	}
	if prompt == "" {
		prompt = defaultPrompt
	}
	if inlineLimitBytes <= 0 {
		inlineLimitBytes = defaultInlineLimitBytes
	}
	return &Transcriber{
		client:           client,
		model:            model,
		prompt:           prompt,
		inlineLimitBytes: inlineLimitBytes,
	}
}

// Transcript implements api.Transcriber.
func (t *Transcriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	stat, err := os.Stat(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", inputFilePath, err)
	}
	mimeType := detectMIMEType(inputFilePath)

	var media *genai.Part
	if stat.Size() <= t.inlineLimitBytes {
		data, err := os.ReadFile(inputFilePath)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", inputFilePath, err)
		}
		media = genai.NewPartFromBytes(data, mimeType)
	} else {
		file, err := t.client.Files.UploadFromPath(ctx, inputFilePath, &genai.UploadFileConfig{MIMEType: mimeType})
		if err != nil {
			return "", t.requestError("upload_failed", "file upload failed", err)
		}
		defer func() {
			if _, err := t.client.Files.Delete(context.WithoutCancel(ctx), file.Name, nil); err != nil {
				zap.L().Warn("failed to delete uploaded file", zap.String("provider", "gemini"), zap.String("file", file.Name), zap.Error(err))
			}
		}()
		media = genai.NewPartFromURI(file.URI, file.MIMEType)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(t.prompt), media}, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", t.requestError(errorCode(err), "generate content failed", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", apperrors.Mark(apperrors.ErrResponseInvalid, &provider.TranscriptionError{
			Code:     "empty_response",
			Message:  "empty response from Gemini",
			Provider: "gemini",
		})
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

func (t *Transcriber) requestError(code string, message string, err error) error {
	return apperrors.Mark(apperrors.ErrRequestFailed, &provider.TranscriptionError{
		Code:     code,
		Message:  message,
		Provider: "gemini",
		Cause:    err,
	})
}

func errorCode(err error) string {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return "request_error"
	}
	switch apiErr.Code {
	case 401, 403:
		return "unauthorized"
	case 413:
		return "file_too_large"
	case 429:
		return "rate_limited"
	}
	if apiErr.Code >= 500 {
		return "server_error"
	}
	return "api_error"
}

// detectMIMEType prefers the extension and falls back to content sniffing.
func detectMIMEType(path string) string {
	if mt, ok := extensionMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		return mt.String()
	}
	return "application/octet-stream"
}
