// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/vidtube/internal/platform/constants"
	"github.com/taibuivan/vidtube/pkg/uuid"
)

// S3Options configures an [S3Store]. It works against AWS S3, Cloudflare R2 and MinIO.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL prefixes object keys in returned URLs. Derived from the
	// endpoint and bucket when empty.
	PublicBaseURL string
	UsePathStyle  bool
	// Timeout bounds every upload and delete call.
	Timeout time.Duration
}

// S3Store implements [Store] on an S3-compatible bucket.
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewS3Store builds the S3 client from static credentials.
func NewS3Store(ctx context.Context, options S3Options, logger *slog.Logger) (*S3Store, error) {
	if options.Bucket == "" {
		return nil, errors.New("media: S3 bucket is required")
	}
	if options.Timeout <= 0 {
		return nil, errors.New("media: timeout must be positive")
	}

	loadOptions := []func(*config.LoadOptions) error{
		config.WithRegion(options.Region),
	}
	if options.AccessKeyID != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKeyID, options.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("media: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
		o.UsePathStyle = options.UsePathStyle
		// R2 and MinIO reject the default CRC trailers on PutObject.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	publicBase, err := publicBaseURL(options)
	if err != nil {
		return nil, err
	}

	return &S3Store{
		client:     client,
		bucket:     options.Bucket,
		publicBase: publicBase,
		timeout:    options.Timeout,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Upload implements [Store].
func (store *S3Store) Upload(ctx context.Context, file *Staged) (Reference, error) {
	if file == nil {
		return Reference{}, errors.New("media: nothing to upload")
	}

	body, err := file.Open()
	if err != nil {
		return Reference{}, fmt.Errorf("media_s3_open_failed: %w", err)
	}
	defer body.Close()

	key := store.objectKey(file)

	callCtx, cancel := context.WithTimeout(ctx, store.timeout)
	defer cancel()

	_, err = store.client.PutObject(callCtx, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(file.ContentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return Reference{}, fmt.Errorf("media_s3_put_failed: %w", err)
	}

	store.logger.InfoContext(ctx, "media_uploaded",
		slog.String("key", key),
		slog.Int64("size", file.Size),
	)

	return Reference{Key: key, URL: store.publicBase + "/" + key}, nil
}

// Delete implements [Store].
func (store *S3Store) Delete(ctx context.Context, reference string) error {
	key, ok := store.keyFor(reference)
	if !ok {
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, store.timeout)
	defer cancel()

	if _, err := store.client.DeleteObject(callCtx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("media_s3_delete_failed: %w", err)
	}

	store.logger.InfoContext(ctx, "media_deleted", slog.String("key", key))
	return nil
}

// objectKey lays keys out as <prefix>/yyyy/mm/dd/<uuid><ext>.
func (store *S3Store) objectKey(file *Staged) string {
	prefix := file.Field
	switch file.Field {
	case "avatar":
		prefix = constants.MediaPrefixAvatar
	case "coverImage":
		prefix = constants.MediaPrefixCoverImage
	case "":
		prefix = "uploads"
	}
	return fmt.Sprintf("%s/%s/%s%s", prefix, store.now().UTC().Format("2006/01/02"), uuid.New(), file.Ext())
}

// keyFor maps a public URL back to its key; foreign URLs report false.
func (store *S3Store) keyFor(reference string) (string, bool) {
	key, ok := strings.CutPrefix(reference, store.publicBase+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func publicBaseURL(options S3Options) (string, error) {
	if options.PublicBaseURL != "" {
		return strings.TrimRight(options.PublicBaseURL, "/"), nil
	}

	if options.Endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", options.Bucket, options.Region), nil
	}

	endpoint, err := url.Parse(options.Endpoint)
	if err != nil || endpoint.Host == "" {
		return "", fmt.Errorf("media: invalid S3 endpoint %q", options.Endpoint)
	}
	if options.UsePathStyle {
		return strings.TrimRight(endpoint.String(), "/") + "/" + options.Bucket, nil
	}
	return endpoint.Scheme + "://" + options.Bucket + "." + endpoint.Host, nil
}
