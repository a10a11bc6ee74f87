package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/google/uuid"
)

// S3API is the part of *s3.Client the library uses.
type S3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for AWS or an S3-compatible endpoint.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// CoverKey is the object key of a cover saved at now.
func CoverKey(now time.Time, id uuid.UUID) string {
	d := now.UTC()
	return fmt.Sprintf("covers/%d/%02d/%02d/%s.png", d.Year(), d.Month(), d.Day(), id)
}

// S3Library saves covers as objects in a bucket.
type S3Library struct {
	client S3API
	bucket string
	now    func() time.Time
	newID  func() uuid.UUID
}

func NewS3Library(client S3API, bucket string) *S3Library {
	return &S3Library{client: client, bucket: bucket, now: time.Now, newID: uuid.New}
}

// RequestPermission maps bucket access to a permission status: forbidden
// is denied, a missing bucket is restricted.
func (l *S3Library) RequestPermission(ctx context.Context) (models.PermissionStatus, error) {
	_, err := l.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(l.bucket)})
	if err == nil {
		return models.PermissionAuthorized, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "Forbidden", "AccessDenied", "403":
			return models.PermissionDenied, nil
		case "NotFound", "NoSuchBucket", "404":
			return models.PermissionRestricted, nil
		}
	}
	return models.PermissionNotDetermined, fmt.Errorf("head bucket %s: %w", l.bucket, err)
}

func (l *S3Library) SaveImage(ctx context.Context, img image.Image) error {
	b, err := encodePNG(img)
	if err != nil {
		return err
	}

	_, err = l.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(l.bucket),
		Key:         aws.String(CoverKey(l.now(), l.newID())),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("put cover: %w", err)
	}
	return nil
}
