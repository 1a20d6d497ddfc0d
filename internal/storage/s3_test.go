package storage

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Presigner_PresignPut(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), S3Config{
		Bucket:    "photos",
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	raw, err := p.PresignPut(context.Background(), "vendors/abc/photo", "image/png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/photos/vendors/abc/photo", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3Presigner_PublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{"public base", S3Config{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com/k"},
		{"custom endpoint", S3Config{Bucket: "b", Endpoint: "http://localhost:9000"}, "http://localhost:9000/b/k"},
		{"aws", S3Config{Bucket: "b", Region: "eu-west-3"}, "https://b.s3.eu-west-3.amazonaws.com/k"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &S3Presigner{cfg: tt.cfg}
			assert.Equal(t, tt.want, p.PublicURL("k"))
		})
	}
}

func TestNewS3Presigner_RequiresBucket(t *testing.T) {
	_, err := NewS3Presigner(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
