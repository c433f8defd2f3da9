package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"transcribe-all/internal/app/audio"
	"transcribe-all/internal/app/util/files"
)

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	binaryPath string
	modelPath  string
	language   string
	prompt     string
	tempDir    string
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
// An empty tempDir uses the system temp directory.
func NewLocalTranscriber(binaryPath, modelPath, language, prompt, tempDir string) *LocalTranscriber {
	if language == "" {
		language = "auto"
	}
	return &LocalTranscriber{
		binaryPath: binaryPath,
		modelPath:  modelPath,
		language:   language,
		prompt:     prompt,
		tempDir:    tempDir,
	}
}

// Transcript runs whisper.cpp on inputFilePath. Inputs that are not 16 kHz
// WAV are converted first; scratch files live in a per-call directory that is
// removed afterwards.
func (lt *LocalTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	log := zap.L().With(zap.String("provider", "whisper_cpp"), zap.String("file", inputFilePath))

	workDir, err := os.MkdirTemp(lt.tempDir, "whisper_cpp_*")
	if err != nil {
		return "", fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	is16kHzWav, err := audio.Is16kHzWavFile(ctx, inputFilePath)
	if err != nil {
		return "", fmt.Errorf("error checking input file: %w", err)
	}

	wavPath := inputFilePath
	if !is16kHzWav {
		log.Debug("converting input to 16kHz wav")
		wavPath, err = audio.ConvertTo16kHzWav(ctx, inputFilePath, workDir)
		if err != nil {
			return "", fmt.Errorf("error converting input file: %w", err)
		}
	}

	outputFile := filepath.Join(workDir, "transcript")
	args := []string{
		"-m", lt.modelPath,
		"-l", lt.language,
		"-otxt",
		"-f", wavPath,
		"-of", outputFile,
	}
	if lt.prompt != "" {
		args = append(args, "--prompt", lt.prompt)
	}

	command := exec.CommandContext(ctx, lt.binaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	log.Debug("running whisper.cpp", zap.String("command", lt.binaryPath+" "+strings.Join(args, " ")))

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("command execution error: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	output, err := files.ReadOutputFile(outputFile + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read output file: %w", err)
	}

	return output, nil
}
