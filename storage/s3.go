package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/config"
)

// keyPrefix scopes every object this service writes or deletes.
const keyPrefix = "portfolio/"

var ErrForeignObject = errors.New("object is not managed by this site")

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client  S3API
	bucket  string
	baseURL string
}

// NewS3Store builds a client for cfg. A custom endpoint (R2, MinIO) switches
// to path-style addressing.
func NewS3Store(ctx context.Context, cfg config.MediaConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load media host config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, cfg), nil
}

func NewS3StoreWithClient(client S3API, cfg config.MediaConfig) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
	}
}

func publicBaseURL(cfg config.MediaConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimSuffix(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func (s *S3Store) objectURL(key string) string {
	escaped := make([]string, 0)
	for _, part := range strings.Split(key, "/") {
		escaped = append(escaped, url.PathEscape(part))
	}
	return s.baseURL + "/" + strings.Join(escaped, "/")
}

func (s *S3Store) Upload(ctx context.Context, f File) (*Object, error) {
	ext := f.Extension()
	key := fmt.Sprintf("%s%s/%s.%s", keyPrefix, f.Kind.Folder(), uuid.NewString(), ext)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f.Body,
		ContentType: aws.String(f.ContentType),
	}
	if f.Size > 0 {
		input.ContentLength = aws.Int64(f.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Object{
		URL:      s.objectURL(key),
		PublicID: key,
		Format:   ext,
		Size:     f.Size,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	if !strings.HasPrefix(publicID, keyPrefix) || strings.Contains(publicID, "..") {
		return ErrForeignObject
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", publicID, err)
	}
	return nil
}
