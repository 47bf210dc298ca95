package backup

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/shoplist/internal/database"
)

// fakeS3 captures uploads in memory.
type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*input.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*input.Key]
	if !ok {
		return nil, fmt.Errorf("no such key %q", *input.Key)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func setupManager(t *testing.T) (*Manager, *fakeS3) {
	t.Helper()
	db, err := database.Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := Config{
		S3:         S3Config{Bucket: "backups", AccessKey: "k", SecretKey: "s"},
		Passphrase: "pw",
	}
	m := NewManager(cfg, db, nil, nil)
	fake := newFakeS3()
	m.client = fake
	return m, fake
}

func TestManagerDisabledWithoutConfig(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m := NewManager(Config{}, db, nil, nil)
	if got := m.CurrentStatus().State; got != StateDisabled {
		t.Errorf("state = %q, want disabled", got)
	}
	if err := m.RunBackup(context.Background()); err == nil {
		t.Error("expected error running a disabled backup")
	}
}

func TestRunBackupUploadsSealedSnapshot(t *testing.T) {
	m, fake := setupManager(t)

	if err := m.RunBackup(context.Background()); err != nil {
		t.Fatalf("run backup: %v", err)
	}

	if len(fake.objects) != 1 {
		t.Fatalf("expected 1 uploaded object, got %d", len(fake.objects))
	}
	for key, data := range fake.objects {
		if !strings.HasPrefix(key, "shoplist/") || !strings.HasSuffix(key, ".db.enc") {
			t.Errorf("unexpected key %q", key)
		}
		// A sealed sqlite snapshot never starts with the sqlite magic
		if strings.HasPrefix(string(data), "SQLite format 3") {
			t.Error("upload is not encrypted")
		}
		// Sealed payload unseals back to a sqlite database
		plain, err := Open(data, "pw")
		if err != nil {
			t.Fatalf("unseal upload: %v", err)
		}
		if !strings.HasPrefix(string(plain), "SQLite format 3") {
			t.Error("unsealed payload is not a sqlite snapshot")
		}
	}

	status := m.CurrentStatus()
	if status.State != StateIdle || status.LastBackup == nil || status.InProgress {
		t.Errorf("unexpected status after backup: %+v", status)
	}
}

func TestRunBackupErrorSetsStatus(t *testing.T) {
	m, fake := setupManager(t)
	fake.putErr = fmt.Errorf("bucket gone")

	if err := m.RunBackup(context.Background()); err == nil {
		t.Fatal("expected upload failure")
	}

	status := m.CurrentStatus()
	if status.State != StateError || status.Error == "" {
		t.Errorf("unexpected status after failure: %+v", status)
	}
}

func TestFetchRoundTrip(t *testing.T) {
	m, fake := setupManager(t)

	if err := m.RunBackup(context.Background()); err != nil {
		t.Fatalf("run backup: %v", err)
	}

	var key string
	for k := range fake.objects {
		key = k
	}

	plain, err := m.Fetch(context.Background(), key)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.HasPrefix(string(plain), "SQLite format 3") {
		t.Error("fetched payload is not the sqlite snapshot")
	}
}
