package services

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/platform/logging"
)

// allowedAudioTypes is the fixed allow-list for voice samples.
var allowedAudioTypes = map[string]bool{
	"audio/wav":  true,
	"audio/mp3":  true,
	"audio/webm": true,
	"audio/mpeg": true,
}

// UploadService validates voice samples and persists them to the scratch
// directory until the synthesis provider has consumed them.
type UploadService struct {
	Fs      afero.Fs
	Dir     string
	MaxSize int64
	// Sniff additionally checks the actual bytes against the allow-list.
	// Off by default: the declared content type is trusted, a known and
	// deliberate boundary of the original gateway.
	Sniff bool
}

func NewUploadService(fs afero.Fs, dir string, maxSize int64, sniff bool) (*UploadService, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory %s: %w", dir, err)
	}
	return &UploadService{Fs: fs, Dir: dir, MaxSize: maxSize, Sniff: sniff}, nil
}

// Validate checks the declared media type and size. It reads nothing from
// the stream unless content sniffing is enabled.
func (s *UploadService) Validate(upload *models.Upload) error {
	if !allowedAudioTypes[upload.ContentType] {
		return fmt.Errorf("%w: content type %q not allowed", models.ErrInvalidUpload, upload.ContentType)
	}
	if upload.Size > s.MaxSize {
		return fmt.Errorf("%w: file exceeds %d bytes", models.ErrInvalidUpload, s.MaxSize)
	}
	return nil
}

// Save writes the sample under a collision-resistant name, preserving the
// original extension, and returns the stored path.
func (s *UploadService) Save(upload *models.Upload) (string, error) {
	reader := upload.Reader
	if s.Sniff {
		detected, restored, err := sniffContentType(reader)
		if err != nil {
			return "", fmt.Errorf("sniffing upload: %w", err)
		}
		reader = restored
		// Is resolves aliases, e.g. webm captures detect as video/webm
		// but match audio/webm from the allow-list.
		allowed := false
		for t := range allowedAudioTypes {
			if detected.Is(t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", fmt.Errorf("%w: detected content type %q not allowed", models.ErrInvalidUpload, detected.String())
		}
	}

	name := uuid.NewString() + filepath.Ext(upload.Filename)
	path := filepath.Join(s.Dir, name)

	f, err := s.Fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing upload file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored sample. Best-effort: a failure is logged, never
// escalated, so cleanup can run on every exit path.
func (s *UploadService) Remove(path string) {
	if path == "" {
		return
	}
	if err := s.Fs.Remove(path); err != nil {
		logging.Warn("failed to clean up uploaded file", "path", path, "error", err)
		return
	}
	logging.Debug("cleaned up uploaded file", "path", path)
}

// sniffContentType detects the MIME type from the leading bytes and returns
// a reader that replays them.
func sniffContentType(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, nil, err
	}
	head = head[:n]
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), r), nil
}
