package file

import (
	"context"
	"fmt"
	"strings"
)

// Store kinds accepted by ATTACHMENT_STORE.
const (
	StoreNone  = "none"
	StoreLocal = "local"
	StoreS3    = "s3"
)

// Config covers the attachment policy and the optional archive.
type Config struct {
	MaxFileSize       int64    `env:"MAX_FILE_SIZE" envDefault:"10485760"`
	AllowedFileTypes  []string `env:"ALLOWED_FILE_TYPES" envDefault:"jpeg,jpg,png,pdf" envSeparator:","`
	Store             string   `env:"ATTACHMENT_STORE" envDefault:"none"`
	LocalDir          string   `env:"ATTACHMENT_DIR" envDefault:"uploads"`
	S3Bucket          string   `env:"S3_BUCKET"`
	S3Region          string   `env:"S3_REGION"`
	S3AccessKeyID     string   `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string   `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string   `env:"S3_ENDPOINT"`
	S3Prefix          string   `env:"S3_PREFIX" envDefault:"attachments"`
	S3ForcePathStyle  bool     `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Policy returns the attachment policy described by cfg.
func (c Config) Policy() Policy {
	return NewPolicy(c.MaxFileSize, c.AllowedFileTypes)
}

// NewStorage returns the archive selected by cfg.Store, or nil for "none".
func NewStorage(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store)) {
	case "", StoreNone:
		return nil, nil
	case StoreLocal:
		s, err := NewLocalStorage(cfg.LocalDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StoreS3:
		s, err := NewS3Storage(ctx, S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretAccessKey,
			Endpoint:       cfg.S3Endpoint,
			Prefix:         cfg.S3Prefix,
			ForcePathStyle: cfg.S3ForcePathStyle,
		}, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
}
