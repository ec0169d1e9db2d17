package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/sideline-app/client/config"
)

type memoryBackend struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
	ensureCalls  int
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryBackend) EnsureBucket(ctx context.Context) error {
	m.ensureCalls++
	return nil
}

func (m *memoryBackend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.objects[key] = buf.Bytes()
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryBackend) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryBackend) URL(key string) string { return publicObjectURL("https://cdn.example.com/", key) }
func (m *memoryBackend) Bucket() string        { return "resumes-test" }
func (m *memoryBackend) Close() error          { return nil }

var resumeURLPattern = regexp.MustCompile(`^https://cdn\.example\.com/resumes/5/[0-9a-f-]{36}\.pdf$`)

func TestUploadResume(t *testing.T) {
	backend := newMemoryBackend()
	store := NewResumeStore(backend)

	url, err := store.UploadResume(context.Background(), 5, "My CV.PDF", strings.NewReader("%PDF-1.7"), 8)
	if err != nil {
		t.Fatalf("UploadResume() error = %v", err)
	}
	if !resumeURLPattern.MatchString(url) {
		t.Errorf("url = %q", url)
	}

	key := strings.TrimPrefix(url, "https://cdn.example.com/")
	if got := string(backend.objects[key]); got != "%PDF-1.7" {
		t.Errorf("stored body = %q", got)
	}
	if got := backend.contentTypes[key]; got != "application/pdf" {
		t.Errorf("content type = %q, want application/pdf", got)
	}
}

func TestUploadResumeRejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		size    int64
		putErr  error
		wantErr error
	}{
		{"unsupported type", "cv.exe", 10, nil, ErrUnsupportedResume},
		{"no extension", "cv", 10, nil, ErrUnsupportedResume},
		{"too large", "cv.docx", MaxResumeSize + 1, nil, ErrResumeTooLarge},
		{"backend failure", "cv.doc", 10, errors.New("bucket offline"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newMemoryBackend()
			backend.putErr = tt.putErr
			store := NewResumeStore(backend)

			_, err := store.UploadResume(context.Background(), 5, tt.file, strings.NewReader("x"), tt.size)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.putErr != nil && !errors.Is(err, tt.putErr) {
				t.Errorf("error = %v, want wrapped %v", err, tt.putErr)
			}
			if len(backend.objects) != 0 {
				t.Error("object stored despite the error")
			}
		})
	}
}

func TestNewBackendSelection(t *testing.T) {
	backend, err := New(context.Background(), config.StorageConfig{Backend: config.BackendNone})
	if err != nil || backend != nil {
		t.Errorf("New(none) = %v, %v; want nil, nil", backend, err)
	}

	if _, err := New(context.Background(), config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Error("expected an error for an unknown backend")
	}

	if _, err := New(context.Background(), config.StorageConfig{Backend: config.BackendMinio}); err == nil {
		t.Error("expected an error for minio without endpoint credentials")
	}
}

func TestMinioURL(t *testing.T) {
	client, err := NewMinioClient(config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "sideline-resumes",
	}, "")
	if err != nil {
		t.Fatalf("NewMinioClient() error = %v", err)
	}
	if got, want := client.URL("resumes/5/a.pdf"), "http://localhost:9000/sideline-resumes/resumes/5/a.pdf"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}

	client.publicURL = "https://files.example.com"
	if got, want := client.URL("resumes/5/a.pdf"), "https://files.example.com/resumes/5/a.pdf"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestResumeStoreEnsuresBucketOnce(t *testing.T) {
	backend := newMemoryBackend()
	resumes := NewResumeStore(backend)

	for i := 0; i < 3; i++ {
		body := strings.NewReader("%PDF-1.4")
		if _, err := resumes.UploadResume(context.Background(), 5, "cv.pdf", body, int64(body.Len())); err != nil {
			t.Fatalf("UploadResume() error = %v", err)
		}
	}
	if backend.ensureCalls != 1 {
		t.Errorf("EnsureBucket calls = %d, want 1", backend.ensureCalls)
	}
	if len(backend.objects) != 3 {
		t.Errorf("stored objects = %d, want 3", len(backend.objects))
	}
}

func TestRemoveResume(t *testing.T) {
	backend := newMemoryBackend()
	store := NewResumeStore(backend)

	url, err := store.UploadResume(context.Background(), 5, "cv.docx", strings.NewReader("doc"), 3)
	if err != nil {
		t.Fatalf("UploadResume() error = %v", err)
	}
	if err := store.RemoveResume(context.Background(), url); err != nil {
		t.Fatalf("RemoveResume() error = %v", err)
	}
	if len(backend.objects) != 0 {
		t.Errorf("objects = %v, want none", backend.objects)
	}

	for _, foreign := range []string{"https://elsewhere.example.com/resumes/5/x.pdf", "https://cdn.example.com/avatars/5.png"} {
		if err := store.RemoveResume(context.Background(), foreign); err == nil {
			t.Errorf("RemoveResume(%q) should fail", foreign)
		}
	}
}
