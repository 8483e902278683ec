// Package archive stores published issues as JSON objects in an S3-compatible
// bucket under issues/<yyyy>/<mm>/<dd>/<id>.json.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures the bucket. An empty BaseEndpoint means AWS itself;
// otherwise path-style addressing is used, as MinIO expects.
type Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type S3Archive struct {
	bucket string
	client objectPutter
}

func NewS3Archive(ctx context.Context, o Options) (*S3Archive, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" && o.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(s *s3.Options) {
		if o.BaseEndpoint != "" {
			s.BaseEndpoint = aws.String(o.BaseEndpoint)
			s.UsePathStyle = true
		}
	})

	return &S3Archive{bucket: o.Bucket, client: client}, nil
}

// StorageKey returns the object key for an issue published at t.
func StorageKey(t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("issues/%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), id)
}

// Store uploads p and returns its key.
func (a *S3Archive) Store(ctx context.Context, p *models.PublishedIssue) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode issue: %w", err)
	}

	key := StorageKey(p.PublishedAt.UTC(), p.ID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// Nop discards issues; used when no bucket is configured.
type Nop struct{}

func (Nop) Store(context.Context, *models.PublishedIssue) (string, error) { return "", nil }
