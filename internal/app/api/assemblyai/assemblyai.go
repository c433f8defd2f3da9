package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"transcribe-all/internal/app/api/provider"
	apperrors "transcribe-all/internal/app/errors"
)

const (
	DefaultBaseURL      = "https://api.assemblyai.com"
	DefaultPollInterval = 2 * time.Second
	DefaultMaxPolls     = 60
)

// Config holds AssemblyAI connection and polling settings.
type Config struct {
	APIKey       string
	BaseURL      string
	PollInterval time.Duration
	MaxPolls     int
	// LanguageCode is optional; empty lets the service decide.
	LanguageCode string
}

// Transcriber uploads a file to AssemblyAI, starts a transcript job and polls
// until the job completes, fails or the poll budget runs out.
type Transcriber struct {
	config Config
	client *http.Client
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL     string `json:"audio_url"`
	LanguageCode string `json:"language_code,omitempty"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewTranscriber applies defaults to config. A nil client uses http.DefaultClient.
func NewTranscriber(config Config, client *http.Client) *Transcriber {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.MaxPolls <= 0 {
		config.MaxPolls = DefaultMaxPolls
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Transcriber{config: config, client: client}
}

// Transcript implements api.Transcriber.
func (t *Transcriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	log := zap.L().With(zap.String("provider", "assemblyai"), zap.String("file", inputFilePath))

	uploadURL, err := t.upload(ctx, inputFilePath)
	if err != nil {
		return "", err
	}

	job, err := t.createTranscript(ctx, uploadURL)
	if err != nil {
		return "", err
	}
	log.Debug("transcript job created", zap.String("id", job.ID))

	for i := 0; i < t.config.MaxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(t.config.PollInterval):
		}

		status, err := t.getTranscript(ctx, job.ID)
		if err != nil {
			return "", err
		}

		switch status.Status {
		case "completed":
			return status.Text, nil
		case "error":
			return "", apperrors.Mark(apperrors.ErrRequestFailed, &provider.TranscriptionError{
				Code:     "transcription_error",
				Message:  "AssemblyAI transcription error: " + status.Error,
				Provider: "assemblyai",
			})
		}
		log.Debug("transcript pending", zap.String("status", status.Status), zap.Int("poll", i+1))
	}

	return "", apperrors.Wrapf(
		apperrors.Timeout("assemblyai transcript "+job.ID, (t.config.PollInterval * time.Duration(t.config.MaxPolls)).String()),
		"transcription of %s", inputFilePath)
}

func (t *Transcriber) upload(ctx context.Context, inputFilePath string) (string, error) {
	file, err := os.Open(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", inputFilePath, err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.BaseURL+"/v2/upload", file)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var resp uploadResponse
	if err := t.do(req, &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", apperrors.Mark(apperrors.ErrResponseInvalid, fmt.Errorf("assemblyai: upload returned no upload_url"))
	}
	return resp.UploadURL, nil
}

func (t *Transcriber) createTranscript(ctx context.Context, audioURL string) (*transcriptResponse, error) {
	body, err := json.Marshal(transcriptRequest{AudioURL: audioURL, LanguageCode: t.config.LanguageCode})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.config.BaseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp transcriptResponse
	if err := t.do(req, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, apperrors.Mark(apperrors.ErrResponseInvalid, fmt.Errorf("assemblyai: transcript response has no id"))
	}
	return &resp, nil
}

func (t *Transcriber) getTranscript(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.config.BaseURL+"/v2/transcript/"+id, nil)
	if err != nil {
		return nil, err
	}

	var resp transcriptResponse
	if err := t.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends req with the API key and decodes a JSON body into out.
func (t *Transcriber) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", t.config.APIKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return apperrors.Mark(apperrors.ErrRequestFailed, &provider.TranscriptionError{
			Code:     "request_error",
			Message:  req.Method + " " + req.URL.Path,
			Provider: "assemblyai",
			Cause:    err,
		})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Mark(apperrors.ErrResponseInvalid, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(data))
		var errResp errorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return apperrors.Mark(apperrors.ErrRequestFailed, &provider.TranscriptionError{
			Code:     fmt.Sprintf("http_%d", resp.StatusCode),
			Message:  fmt.Sprintf("%s %s: %s", req.Method, req.URL.Path, message),
			Provider: "assemblyai",
		})
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Mark(apperrors.ErrResponseInvalid, fmt.Errorf("decode %s response: %w", req.URL.Path, err))
	}
	return nil
}
