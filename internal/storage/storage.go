package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sideline-app/client/config"
)

// MaxResumeSize bounds uploaded resume files.
const MaxResumeSize = 5 << 20

var (
	ErrUnsupportedResume = errors.New("resume must be a .pdf, .doc or .docx file")
	ErrResumeTooLarge    = errors.New("resume exceeds 5 MB")
)

var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ObjectStorage defines the object operations used for attachments.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the address the API server can fetch key from.
	URL(key string) string
	Bucket() string
	Close() error
}

// New opens the backend selected by cfg. It returns nil when uploads are
// disabled.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Backend {
	case "", config.BackendNone:
		return nil, nil
	case config.BackendMinio:
		client, err := NewMinioClient(cfg.Minio, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendGCS:
		client, err := NewGCSClient(ctx, cfg.GCS, cfg.PublicURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ResumeStore uploads resumes attached to applications.
type ResumeStore struct {
	backend ObjectStorage

	mu      sync.Mutex
	ensured bool
}

func NewResumeStore(backend ObjectStorage) *ResumeStore {
	return &ResumeStore{backend: backend}
}

// UploadResume stores the file under resumes/<userID>/ and returns its URL.
func (s *ResumeStore) UploadResume(ctx context.Context, userID int64, name string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	contentType, ok := resumeTypes[ext]
	if !ok {
		return "", ErrUnsupportedResume
	}
	if size > MaxResumeSize {
		return "", ErrResumeTooLarge
	}
	if detected := mime.TypeByExtension(ext); detected != "" {
		contentType = detected
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := resumeKey(userID, ext)
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("upload resume to %s: %w", s.backend.Bucket(), err)
	}
	return s.backend.URL(key), nil
}

// RemoveResume deletes a resume previously returned by UploadResume.
func (s *ResumeStore) RemoveResume(ctx context.Context, url string) error {
	key := strings.TrimLeft(strings.TrimPrefix(url, s.backend.URL("")), "/")
	if key == url || !strings.HasPrefix(key, "resumes/") {
		return fmt.Errorf("%q is not a resume in %s", url, s.backend.Bucket())
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove resume from %s: %w", s.backend.Bucket(), err)
	}
	return nil
}

// ensureBucket creates the bucket before the first upload.
func (s *ResumeStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}
	if err := s.backend.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket %s: %w", s.backend.Bucket(), err)
	}
	s.ensured = true
	return nil
}

func resumeKey(userID int64, ext string) string {
	return path.Join("resumes", strconv.FormatInt(userID, 10), uuid.NewString()+ext)
}

// publicObjectURL joins a configured public base URL and key.
func publicObjectURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
