// Package s3ds reads case exports stored as S3 objects.
package s3ds

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Getter is the slice of the S3 API a Source needs.
type Getter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config locates one object. Empty credentials use the SDK default chain
// (environment, shared config, instance role). Endpoint targets
// S3-compatible stores and switches to path-style addressing.
type Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Source reads one object.
type Source struct {
	client Getter
	bucket string
	key    string
}

// NewSource returns a Source reading bucket/key through client.
func NewSource(client Getter, bucket, key string) *Source {
	return &Source{client: client, bucket: bucket, key: key}
}

// New loads AWS configuration and returns a Source for cfg.
func New(ctx context.Context, cfg Config) (*Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3ds: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewSource(client, cfg.Bucket, cfg.Key), nil
}

// Open fetches the object and returns its body.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3ds: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return out.Body, nil
}

// String names the source in logs.
func (s *Source) String() string { return "s3://" + s.bucket + "/" + s.key }
