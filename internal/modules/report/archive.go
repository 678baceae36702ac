package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const archivePrefix = "reports"

// Uploader is the subset of the S3 upload manager used by the archiver
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// ArchiveConfig describes an S3-compatible bucket
type ArchiveConfig struct {
	Endpoint        string // empty uses the AWS default endpoint for Region
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether enough is configured to archive reports
func (c ArchiveConfig) Enabled() bool {
	return c.Bucket != ""
}

// Archiver uploads rendered reports to a bucket
type Archiver struct {
	uploader Uploader
	bucket   string
	now      func() time.Time
	log      zerolog.Logger
}

// NewArchiver creates an archiver on top of an existing uploader
func NewArchiver(uploader Uploader, bucket string, log zerolog.Logger) *Archiver {
	return &Archiver{
		uploader: uploader,
		bucket:   bucket,
		now:      time.Now,
		log:      log.With().Str("component", "report_archiver").Logger(),
	}
}

// NewS3Archiver builds an S3 client from cfg and wraps it in an archiver.
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies.
func NewS3Archiver(ctx context.Context, cfg ArchiveConfig, log zerolog.Logger) (*Archiver, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("archive bucket is not configured")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewArchiver(manager.NewUploader(client), cfg.Bucket, log), nil
}

// Archive uploads a rendered report and returns its object key
func (a *Archiver) Archive(ctx context.Context, name string, content []byte) (string, error) {
	key := path.Join(archivePrefix, a.now().UTC().Format("20060102T150405Z")+"-"+path.Base(name))

	out, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}

	location := ""
	if out != nil {
		location = out.Location
	}
	a.log.Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Str("location", location).
		Int("bytes", len(content)).
		Msg("Report archived")

	return key, nil
}
