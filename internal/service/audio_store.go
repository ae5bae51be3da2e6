package service

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	apperrors "github.com/talktobook/talktobook/internal/errors"
)

// AudioStore defines operations for managing recorded audio files on disk
type AudioStore interface {
	// Import copies an audio file into the managed audio directory and
	// returns the stored path and the probed duration in seconds.
	Import(ctx context.Context, srcPath string) (string, float64, error)
	// Remove deletes a stored audio file. Missing files are not an error.
	Remove(path string) error
}

// fileAudioStore implements AudioStore on the local filesystem
type fileAudioStore struct {
	dir string
}

// NewAudioStore creates an AudioStore rooted at dir
func NewAudioStore(dir string) AudioStore {
	return &fileAudioStore{
		dir: dir,
	}
}

// Import copies the source file into the audio directory under a fresh name
func (s *fileAudioStore) Import(ctx context.Context, srcPath string) (string, float64, error) {
	if srcPath == "" {
		return "", 0, apperrors.New(apperrors.CodeInvalidArg, "audio file path is required")
	}

	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", 0, apperrors.Wrap(err, apperrors.CodeNotFound, "audio file not found")
		}
		return "", 0, mapStorageError(err, "failed to open audio file")
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", 0, mapStorageError(err, "failed to create audio directory")
	}

	destPath := filepath.Join(s.dir, uuid.NewString()+filepath.Ext(srcPath))
	dest, err := os.Create(destPath)
	if err != nil {
		return "", 0, mapStorageError(err, "failed to create audio file")
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(destPath)
		return "", 0, mapStorageError(err, "failed to copy audio file")
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return "", 0, mapStorageError(err, "failed to flush audio file")
	}

	duration, err := probeWAVDuration(destPath)
	if err != nil {
		// Unknown container, keep the file with an unknown duration
		duration = 0
	}

	return destPath, duration, nil
}

// Remove deletes a stored audio file, tolerating files already gone
func (s *fileAudioStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return mapStorageError(err, "failed to remove audio file")
	}
	return nil
}

// mapStorageError classifies filesystem failures into the domain taxonomy
func mapStorageError(err error, message string) *apperrors.AppError {
	switch {
	case os.IsPermission(err):
		return apperrors.Wrap(err, apperrors.CodePermissionDenied, message)
	case errors.Is(err, syscall.ENOSPC):
		return apperrors.Wrap(err, apperrors.CodeStorageFull, message)
	default:
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

// probeWAVDuration reads the RIFF header to compute the duration in seconds.
// Non-WAV files return an error and are stored with an unknown duration.
func probeWAVDuration(path string) (float64, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return 0, errors.New("not a WAV file")
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		return 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return 0, errors.New("not a RIFF/WAVE file")
	}

	var byteRate uint32
	// Walk the chunks: the fmt chunk carries the byte rate, the data chunk
	// carries the sample payload size.
	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			return 0, err
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			fmtChunk := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, fmtChunk); err != nil {
				return 0, err
			}
			if len(fmtChunk) < 12 {
				return 0, errors.New("malformed fmt chunk")
			}
			byteRate = binary.LittleEndian.Uint32(fmtChunk[8:12])
		case "data":
			if byteRate == 0 {
				return 0, errors.New("data chunk before fmt chunk")
			}
			return float64(chunkSize) / float64(byteRate), nil
		default:
			if _, err := f.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return 0, err
			}
		}
	}
}
