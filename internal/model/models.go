package model

import "time"

// RecordingStatus represents the transcription lifecycle state of a recording
type RecordingStatus string

const (
	StatusPending    RecordingStatus = "pending"
	StatusInProgress RecordingStatus = "in_progress"
	StatusCompleted  RecordingStatus = "completed"
	StatusFailed     RecordingStatus = "failed"
)

// CanTransitionTo reports whether the status may move to next.
// Valid transitions: pending -> in_progress -> {completed, failed},
// plus failed -> pending for requeued retries.
func (s RecordingStatus) CanTransitionTo(next RecordingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted || next == StatusFailed
	case StatusFailed:
		return next == StatusPending
	default:
		return false
	}
}

// Recording represents a captured audio file and its transcription state
type Recording struct {
	ID              string          `json:"id" db:"id"`
	AudioPath       string          `json:"audio_path" db:"audio_path"`
	DurationSeconds float64         `json:"duration_seconds" db:"duration_seconds"`
	Status          RecordingStatus `json:"status" db:"status"`
	TranscribedText *string         `json:"transcribed_text" db:"transcribed_text"`
	ErrorMessage    *string         `json:"error_message" db:"error_message"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Document represents an organized body of transcribed text
type Document struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Chapter represents an ordered section within a document.
// Order indices within a document are contiguous from 0.
type Chapter struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	OrderIndex int       `json:"order_index" db:"order_index"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// QueueEntry represents a transcription deferred until connectivity returns
type QueueEntry struct {
	RecordingID string    `json:"recording_id" db:"recording_id"`
	Attempts    int       `json:"attempts" db:"attempts"`
	NextRetryAt time.Time `json:"next_retry_at" db:"next_retry_at"`
	EnqueuedAt  time.Time `json:"enqueued_at" db:"enqueued_at"`
}
