package managers

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"stories-v13/internal/config"
)

// ErrStorageNotConfigured is returned when an upload is attempted without
// object storage being configured.
var ErrStorageNotConfigured = errors.New("object storage not configured")

// StorageMgr outlines the contract for storing uploaded assets.
type StorageMgr interface {
	Configured() bool
	UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// StorageManager stores assets in an S3-compatible bucket and hands out
// public URLs below the configured asset base URL.
type StorageManager struct {
	config config.StorageConfig
	client *s3.Client
}

// NewStorageManager creates a StorageManager from the storage configuration.
// When storage is not configured the manager is still usable; uploads then
// fail with ErrStorageNotConfigured.
func NewStorageManager(cfg config.StorageConfig) (StorageMgr, error) {
	log.Info("Initializing storage manager")

	if !cfg.Configured() {
		log.Warn("Object storage not configured, asset uploads are disabled")
		return &StorageManager{config: cfg}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &StorageManager{config: cfg, client: client}, nil
}

// Configured reports whether uploads can succeed.
func (sm *StorageManager) Configured() bool {
	return sm.client != nil
}

// UploadObject writes the object to the bucket and returns its public URL.
func (sm *StorageManager) UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if sm.client == nil {
		return "", ErrStorageNotConfigured
	}

	_, err := sm.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(sm.config.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return sm.PublicURL(key), nil
}

// PublicURL returns the externally reachable URL of a stored object.
func (sm *StorageManager) PublicURL(key string) string {
	return strings.TrimRight(sm.config.AssetBaseURL, "/") + "/" + strings.TrimLeft(key, "/")
}
