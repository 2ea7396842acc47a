package models

import "time"

// AudioRecord is one completed synthesis, independent from the lifecycle of
// the audio file it points at. The same struct serves the Supabase REST
// representation (json tags) and the Postgres backend (gorm tags).
type AudioRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	Filename  string    `json:"filename" gorm:"not null"`
	Text      string    `json:"text"`
	VoiceID   string    `json:"voice_id"`
	AudioURL  string    `json:"audio_url"`
	Duration  *float64  `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
