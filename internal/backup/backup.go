// Package backup snapshots the shoplist database, seals it with a
// passphrase, and uploads it to S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Client is the slice of the S3 API the manager uses, as an interface for
// testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config holds backup configuration. Backups are disabled until both the
// S3 target and a passphrase are set.
type Config struct {
	S3         S3Config
	Passphrase string
}

// State represents the backup manager state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

// Status holds the current backup manager status.
type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"in_progress"`
}

// StatusCallback is called whenever the backup state changes.
type StatusCallback func(Status)

// Manager runs encrypted database backups.
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	db       *sql.DB
	status   Status
	callback StatusCallback
	client   s3Client
	logger   *slog.Logger
}

// NewManager creates a backup manager. It stays in StateDisabled until the
// configuration names a bucket, credentials, and a passphrase.
func NewManager(cfg Config, db *sql.DB, callback StatusCallback, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:      cfg,
		db:       db,
		callback: callback,
		logger:   logger,
		status:   Status{State: StateDisabled},
	}
	if cfg.S3.Bucket != "" && cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" && cfg.Passphrase != "" {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// CurrentStatus returns a copy of the current status.
func (m *Manager) CurrentStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) setStatus(mutate func(*Status)) {
	m.mu.Lock()
	mutate(&m.status)
	status := m.status
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(status)
	}
}

// RunBackup snapshots the database with VACUUM INTO, seals the snapshot,
// and uploads it under a timestamped key.
func (m *Manager) RunBackup(ctx context.Context) error {
	m.mu.Lock()
	if m.client == nil {
		m.mu.Unlock()
		return fmt.Errorf("backup disabled: missing S3 target or passphrase")
	}
	if m.status.InProgress {
		m.mu.Unlock()
		return fmt.Errorf("backup already in progress")
	}
	m.mu.Unlock()

	m.setStatus(func(s *Status) {
		s.State = StateRunning
		s.InProgress = true
		s.Error = ""
	})

	err := m.runBackup(ctx)
	if err != nil {
		m.setStatus(func(s *Status) {
			s.State = StateError
			s.InProgress = false
			s.Error = err.Error()
		})
		return err
	}

	now := time.Now().UTC()
	m.setStatus(func(s *Status) {
		s.State = StateIdle
		s.InProgress = false
		s.LastBackup = &now
	})
	return nil
}

func (m *Manager) runBackup(ctx context.Context) error {
	tmpDir, err := os.MkdirTemp("", "shoplist-backup-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// VACUUM INTO produces a consistent standalone copy even under WAL.
	// The path comes from MkdirTemp and never contains a quote.
	snapPath := filepath.Join(tmpDir, "snapshot.db")
	if _, err := m.db.ExecContext(ctx, fmt.Sprintf(`VACUUM INTO '%s'`, snapPath)); err != nil {
		return fmt.Errorf("snapshot db: %w", err)
	}

	plaintext, err := os.ReadFile(snapPath)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	sealed, err := Seal(plaintext, m.cfg.Passphrase)
	if err != nil {
		return fmt.Errorf("seal snapshot: %w", err)
	}

	key := fmt.Sprintf("shoplist/%s.db.enc", time.Now().UTC().Format("20060102-150405"))
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(sealed),
	})
	if err != nil {
		return fmt.Errorf("upload backup: %w", err)
	}

	m.logger.Info("backup uploaded", "key", key, "bytes", len(sealed))
	return nil
}

// Fetch downloads and unseals a previously uploaded backup. The caller is
// responsible for restoring it over the live database while the service is
// stopped.
func (m *Manager) Fetch(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	client := m.client
	m.mu.Unlock()
	if client == nil {
		return nil, fmt.Errorf("backup disabled: missing S3 target or passphrase")
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download backup: %w", err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("read backup body: %w", err)
	}

	return Open(buf.Bytes(), m.cfg.Passphrase)
}
