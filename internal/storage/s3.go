// Package storage issues presigned upload URLs for vendor photos.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadExpiry is how long a presigned upload URL stays valid.
const UploadExpiry = 15 * time.Minute

// Presigner hands out URLs that let a client upload one object directly.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (uploadURL string, err error)
	PublicURL(key string) string
}

// S3Config holds bucket connection settings. Endpoint is optional and enables
// S3-compatible servers such as MinIO.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Presigner presigns PUT requests against an S3 bucket.
type S3Presigner struct {
	presign *s3.PresignClient
	cfg     S3Config
}

var _ Presigner = (*S3Presigner)(nil)

// NewS3Presigner builds the S3 client once. Static credentials are used when
// given, otherwise the default AWS credential chain applies.
func NewS3Presigner(ctx context.Context, cfg S3Config) (*S3Presigner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Presigner{presign: s3.NewPresignClient(client), cfg: cfg}, nil
}

// PresignPut returns a URL accepting a single PUT of key.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := p.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		return "", fmt.Errorf("storage: presign put: %w", err)
	}
	return req.URL, nil
}

// PublicURL is where the object is readable once uploaded.
func (p *S3Presigner) PublicURL(key string) string {
	if p.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(p.cfg.PublicBaseURL, "/") + "/" + key
	}
	if p.cfg.Endpoint != "" {
		return strings.TrimSuffix(p.cfg.Endpoint, "/") + "/" + p.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}
