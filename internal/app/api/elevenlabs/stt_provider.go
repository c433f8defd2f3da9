package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io/v1"
	DefaultModel   = "scribe_v1"
	// MaxFileSize is the upload limit of the speech-to-text endpoint.
	MaxFileSize = 1 << 30
)

// STTConfig represents configuration for the ElevenLabs speech-to-text provider
type STTConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	LanguageCode string
	Timeout      time.Duration
}

type sttResponse struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code,omitempty"`
}

// STTProvider transcribes files with the ElevenLabs Speech-to-Text API
type STTProvider struct {
	config STTConfig
	client *http.Client
}

// NewSTTProvider applies defaults to config.
func NewSTTProvider(config STTConfig) *STTProvider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Minute
	}

	return &STTProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Transcript implements api.Transcriber.
func (el *STTProvider) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	fileInfo, err := os.Stat(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", inputFilePath, err)
	}
	if fileInfo.Size() > MaxFileSize {
		return "", apperrors.Mark(apperrors.ErrRequestFailed, &provider.TranscriptionError{
			Code:     "file_too_large",
			Message:  fmt.Sprintf("%s is %d bytes, limit is %d", inputFilePath, fileInfo.Size(), MaxFileSize),
			Provider: "elevenlabs",
		})
	}

	req, err := el.createHTTPRequest(ctx, inputFilePath)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := el.client.Do(req)
	if err != nil {
		return "", apperrors.Mark(apperrors.ErrRequestFailed, &provider.TranscriptionError{
			Code:     "network_error",
			Message:  "call ElevenLabs API",
			Provider: "elevenlabs",
			Cause:    err,
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Mark(apperrors.ErrRequestFailed, handleHTTPError(resp))
	}

	var result sttResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.Mark(apperrors.ErrResponseInvalid, fmt.Errorf("parse ElevenLabs response: %w", err))
	}

	zap.L().Debug("elevenlabs transcription finished",
		zap.String("file", inputFilePath),
		zap.String("language", result.LanguageCode),
		zap.Duration("took", time.Since(start)))
	return result.Text, nil
}

func (el *STTProvider) createHTTPRequest(ctx context.Context, inputFilePath string) (*http.Request, error) {
	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", inputFilePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read %s: %w", inputFilePath, err)
	}
	if err := writer.WriteField("model_id", el.config.Model); err != nil {
		return nil, err
	}
	if el.config.LanguageCode != "" {
		if err := writer.WriteField("language_code", el.config.LanguageCode); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, el.config.BaseURL+"/speech-to-text", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("xi-api-key", el.config.APIKey)
	req.Header.Set("User-Agent", "transcribe-all/1.0")
	return req, nil
}

// handleHTTPError maps a non-200 response to a TranscriptionError.
func handleHTTPError(resp *http.Response) *provider.TranscriptionError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))

	terr := &provider.TranscriptionError{Provider: "elevenlabs"}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		terr.Code = "authentication_failed"
		terr.Message = "ElevenLabs API key is invalid or missing"
	case resp.StatusCode == http.StatusTooManyRequests:
		terr.Code = "rate_limit_exceeded"
		terr.Message = "ElevenLabs API rate limit exceeded"
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		terr.Code = "file_too_large"
		terr.Message = "audio file is too large"
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		terr.Code = "invalid_request"
		terr.Message = "invalid request: " + detail
	case resp.StatusCode >= 500:
		terr.Code = "server_error"
		terr.Message = fmt.Sprintf("ElevenLabs server error %d", resp.StatusCode)
	default:
		terr.Code = "unknown_error"
		terr.Message = fmt.Sprintf("unexpected HTTP status %d: %s", resp.StatusCode, detail)
	}
	return terr
}
