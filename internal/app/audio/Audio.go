package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"transcribe-all/internal/app/model"
)

// Tool paths; overridable for tests.
var (
	FFmpegPath  = "ffmpeg"
	FFprobePath = "ffprobe"
)

// Is16kHzWavFile reports whether the file already is 16 kHz PCM WAV, the only
// input whisper.cpp accepts.
func Is16kHzWavFile(ctx context.Context, filePath string) (bool, error) {
	cmd := exec.CommandContext(ctx, FFprobePath, "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("ffprobe %s: %w", filePath, err)
	}

	return parseProbe(output)
}

func parseProbe(output []byte) (bool, error) {
	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, fmt.Errorf("parse ffprobe output: %w", err)
	}

	for _, stream := range probeOutput.Streams {
		if stream.IsPCM16kAudio() {
			return true, nil
		}
	}

	return false, nil
}

// ConvertTo16kHzWav extracts the audio track of inputFilePath into a 16 kHz
// mono WAV inside outputDir and returns its path. Video inputs are fine.
func ConvertTo16kHzWav(ctx context.Context, inputFilePath string, outputDir string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputFilePath), filepath.Ext(inputFilePath))
	outputWavPath := filepath.Join(outputDir, base+"_16khz.wav")

	cmd := exec.CommandContext(ctx, FFmpegPath, "-y", "-i", inputFilePath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputWavPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("FFmpeg error: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	return outputWavPath, nil
}
