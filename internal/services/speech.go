package services

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"interview-platform/internal/apperrors"
	"interview-platform/internal/config"
)

// SpeechService wraps the local whisper.cpp and piper binaries. Both
// run on CPU so they never compete with the GPU-bound models.
type SpeechService interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Synthesize(ctx context.Context, text, outputPath string) error
}

type speechService struct {
	whisperBin   string
	whisperModel string
	piperBin     string
	piperVoice   string
}

func NewSpeechService(cfg config.SpeechConfig) SpeechService {
	return &speechService{
		whisperBin:   cfg.WhisperBin,
		whisperModel: cfg.WhisperModel,
		piperBin:     cfg.PiperBin,
		piperVoice:   cfg.PiperVoice,
	}
}

// Transcribe implements SpeechService.
func (s *speechService) Transcribe(ctx context.Context, audioPath string) (string, error) {
	cmd := exec.CommandContext(ctx, s.whisperBin,
		"--model", s.whisperModel,
		"--no-timestamps",
		"--file", audioPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", apperrors.Wrap(apperrors.KindServiceUnavailable, err, "whisper failed: %s", strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", apperrors.New(apperrors.KindServiceUnavailable, "whisper produced no transcription")
	}

	return text, nil
}

// Synthesize implements SpeechService. Text goes to piper on stdin; the
// WAV lands at outputPath.
func (s *speechService) Synthesize(ctx context.Context, text, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return apperrors.New(apperrors.KindInvalidConfiguration, "text is required")
	}

	cmd := exec.CommandContext(ctx, s.piperBin,
		"--model", s.piperVoice,
		"--output_file", outputPath,
	)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return apperrors.Wrap(apperrors.KindServiceUnavailable, err, "piper failed: %s", strings.TrimSpace(stderr.String()))
	}

	return nil
}
