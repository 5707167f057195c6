package s3storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/streetsmart-service/internal/config"
	"github.com/streetsmart-service/internal/domain/repository"
	"go.uber.org/zap"
)

// PutObjectAPI - часть s3.Client, нужная для выгрузки
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type uploader struct {
	client PutObjectAPI
	bucket string
	logger *zap.Logger
}

// NewUploader создает S3 клиент из стандартной цепочки учётных данных AWS
func NewUploader(ctx context.Context, cfg *config.SnapshotConfig, logger *zap.Logger) (repository.SnapshotUploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewUploaderWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, logger), nil
}

func NewUploaderWithClient(client PutObjectAPI, bucket string, logger *zap.Logger) repository.SnapshotUploader {
	return &uploader{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

func (u *uploader) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		u.logger.Error("Failed to upload object",
			zap.String("bucket", u.bucket),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.logger.Info("Object uploaded",
		zap.String("bucket", u.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(body)))
	return nil
}
