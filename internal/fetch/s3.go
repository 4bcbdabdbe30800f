package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the configuration for S3 acquisition.
type S3Config struct {
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// S3Fetcher downloads s3://bucket/key URLs through the AWS SDK.
type S3Fetcher struct {
	client *s3.Client
}

var _ Fetcher = (*S3Fetcher)(nil)

// NewS3Fetcher creates a new S3Fetcher. Static credentials are used
// when provided; otherwise the default AWS credential chain applies.
// A custom endpoint switches the client to path-style addressing.
func NewS3Fetcher(cfg S3Config) (*S3Fetcher, error) {
	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts,
		config.WithRegion(cfg.Region),
		// Acquisition is single-shot; a failed fetch is fatal for the run.
		config.WithRetryMaxAttempts(1),
	)

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Fetcher{client: s3.NewFromConfig(awsCfg, clientOpts...)}, nil
}

// Fetch downloads the object behind an s3://bucket/key URL into dest.
func (f *S3Fetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return err
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: get s3://%s/%s: %w", ErrRequestFailed, bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	return writeToFile(dest, out.Body)
}

// parseS3URL splits an s3://bucket/key URL into bucket and key.
func parseS3URL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("fetch: parse s3 url: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" || len(strings.TrimPrefix(u.Path, "/")) == 0 {
		return "", "", fmt.Errorf("%w: want s3://bucket/key, got %q", ErrInvalidS3URL, rawURL)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}
