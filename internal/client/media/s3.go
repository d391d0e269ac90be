// Package media uploads recipe photos to S3-compatible object storage and
// returns the public URL the server should reference.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/recetario/internal/client/models"
	"github.com/dmitrijs2005/recetario/internal/filex"
	"github.com/dmitrijs2005/recetario/internal/logging"
	"github.com/google/uuid"
)

const keyPrefix = "recipes/"

var ErrUnsupportedMedia = errors.New("only image files can be uploaded")

// S3Config describes the bucket. Endpoint is set for MinIO and other
// S3-compatible stores; PublicURL overrides the URL prefix handed out.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// PublicBase is the prefix object keys are appended to.
func (c S3Config) PublicBase() string {
	switch {
	case c.PublicURL != "":
		return strings.TrimRight(c.PublicURL, "/")
	case c.Endpoint != "":
		return strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", c.Bucket)
	}
}

// NewS3Client builds an S3 client. Static credentials are used when given;
// otherwise the default AWS chain applies. A custom endpoint switches to
// path-style addressing.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
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

// ObjectPutter is the part of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader puts local image files under recipes/<uuid><ext>.
type S3Uploader struct {
	client     ObjectPutter
	bucket     string
	publicBase string
	log        logging.Logger
}

func NewS3Uploader(client ObjectPutter, cfg S3Config, log logging.Logger) *S3Uploader {
	if log == nil {
		log = logging.Nop()
	}
	return &S3Uploader{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: cfg.PublicBase(),
		log:        log,
	}
}

func objectKey(path string) string {
	return keyPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(path))
}

// Upload stores the file at path and returns its public URL and key.
func (u *S3Uploader) Upload(ctx context.Context, path string) (models.Media, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Media{}, err
	}
	if info.IsDir() {
		return models.Media{}, fmt.Errorf("%s is a directory", path)
	}

	contentType, err := filex.DetectContentType(path)
	if err != nil {
		return models.Media{}, fmt.Errorf("detect content type: %w", err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return models.Media{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType)
	}

	f, err := os.Open(path)
	if err != nil {
		return models.Media{}, err
	}
	defer f.Close()

	key := objectKey(path)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return models.Media{}, fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := u.publicBase + "/" + key
	u.log.Info(ctx, "photo uploaded", "key", key, "bytes", info.Size())
	return models.Media{URL: url, Path: key}, nil
}
