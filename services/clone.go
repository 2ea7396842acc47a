package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/platform/kafka"
	"github.com/MansiJagta/echo-forge-create/platform/logging"
	"github.com/MansiJagta/echo-forge-create/platform/storage"
)

// maxTextLength bounds the synthesis text, matching the provider's limit.
const maxTextLength = 5000

// SynthesisProvider is the remote speech service as the orchestrator sees
// it. Voice registration must succeed before synthesis may start.
type SynthesisProvider interface {
	RegisterVoice(ctx context.Context, samplePath string) (string, error)
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// CloneResult is the public success envelope of a clone-voice request.
type CloneResult struct {
	Message  string `json:"message"`
	Status   string `json:"status"`
	AudioURL string `json:"audio_url"`
	VoiceID  string `json:"voice_id"`
	AudioID  string `json:"audio_id,omitempty"`
}

// CloneEventPublisher emits a notification after each successful clone.
// Implementations must not fail the request that triggered the event.
type CloneEventPublisher interface {
	PublishCloneCompleted(ctx context.Context, event kafka.CloneEvent)
}

// CloneService drives a clone-voice request end to end: validate, persist
// the sample, register the voice, synthesize, record history, clean up.
type CloneService struct {
	Uploads  *UploadService
	Provider SynthesisProvider
	Audio    storage.AudioStore
	History  HistoryStore
	Events   CloneEventPublisher
}

// CloneVoice runs the full flow. userID may be empty for anonymous calls,
// in which case no history record is written. The scratch sample is removed
// on every exit path after it was saved.
func (s *CloneService) CloneVoice(ctx context.Context, text string, upload *models.Upload, userID string) (*CloneResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", models.ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > maxTextLength {
		return nil, fmt.Errorf("%w: text too long (max %d characters)", models.ErrInvalidInput, maxTextLength)
	}

	if err := s.Uploads.Validate(upload); err != nil {
		return nil, err
	}

	samplePath, err := s.Uploads.Save(upload)
	if err != nil {
		return nil, err
	}
	defer s.Uploads.Remove(samplePath)

	voiceID, err := s.Provider.RegisterVoice(ctx, samplePath)
	if err != nil {
		return nil, fmt.Errorf("registering voice: %w", err)
	}

	audio, err := s.Provider.Synthesize(ctx, text, voiceID)
	if err != nil {
		return nil, fmt.Errorf("generating speech: %w", err)
	}

	filename := "generated_speech_" + uuid.NewString()[:8] + ".mp3"
	if err := s.Audio.Save(ctx, filename, bytes.NewReader(audio), int64(len(audio))); err != nil {
		return nil, fmt.Errorf("storing generated audio: %w", err)
	}
	audioURL := "/download/" + filename

	result := &CloneResult{
		Message:  "Voice cloned and speech generated successfully",
		Status:   "success",
		AudioURL: audioURL,
		VoiceID:  voiceID,
	}

	if userID != "" && s.History != nil {
		recordID, err := s.History.Create(ctx, &models.AudioRecord{
			UserID:   userID,
			Filename: filename,
			Text:     text,
			VoiceID:  voiceID,
			AudioURL: audioURL,
		})
		if err != nil {
			return nil, err
		}
		result.AudioID = recordID
	}

	if s.Events != nil {
		s.Events.PublishCloneCompleted(ctx, kafka.CloneEvent{
			UserID:    userID,
			VoiceID:   voiceID,
			Filename:  filename,
			AudioURL:  audioURL,
			CreatedAt: time.Now().UTC(),
		})
	}

	logging.Info("voice cloned", "voice_id", voiceID, "filename", filename)
	return result, nil
}
