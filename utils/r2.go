package utils

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.Bucket != "" && c.PublicURL != ""
}

// R2Uploader stores files in a Cloudflare R2 bucket through its S3 API.
type R2Uploader struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewR2Uploader(ctx context.Context, c R2Config) (*R2Uploader, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("missing required R2 settings")
	}
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKeyID, c.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 config: %w", err)
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2Uploader{
		client:     client,
		bucket:     c.Bucket,
		publicBase: strings.TrimRight(c.PublicURL, "/"),
	}, nil
}

// Upload stores a PDF under key and returns its public URL.
func (u *R2Uploader) Upload(ctx context.Context, data []byte, key string) (string, error) {
	key = path.Base(key)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload to R2: %w", err)
	}
	return u.publicBase + "/" + url.PathEscape(key), nil
}

// Delete removes the object a previously returned URL points to.
func (u *R2Uploader) Delete(ctx context.Context, fileURL string) error {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("invalid file URL: %w", err)
	}
	_, err = u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(path.Base(parsed.Path)),
	})
	if err != nil {
		return fmt.Errorf("delete R2 object: %w", err)
	}
	return nil
}
