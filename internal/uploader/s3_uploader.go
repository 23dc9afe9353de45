package uploader

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds object store settings
type S3Config struct {
	Bucket string
	Region string
	// PublicURL is the base URL objects are served from; defaults to the virtual-hosted bucket URL
	PublicURL string
	// EndpointURL overrides the S3 endpoint (MinIO, LocalStack)
	EndpointURL string
}

// objectPutter is the part of the S3 client the uploader needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader puts images into a bucket
type S3Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
}

// NewS3Uploader loads the default AWS configuration and creates the uploader
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for S3 uploads")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}

	return &S3Uploader{client: client, bucket: cfg.Bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Upload puts each file under folder/<uuid><ext>
func (u *S3Uploader) Upload(ctx context.Context, folder string, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		key := path.Join(folder, uuid.New().String()+strings.ToLower(filepath.Ext(f.Name)))

		input := &s3.PutObjectInput{
			Bucket: aws.String(u.bucket),
			Key:    aws.String(key),
			Body:   f.Body,
		}
		if f.ContentType != "" {
			input.ContentType = aws.String(f.ContentType)
		}
		if f.Size > 0 {
			input.ContentLength = aws.Int64(f.Size)
		}

		if _, err := u.client.PutObject(ctx, input); err != nil {
			return urls, fmt.Errorf("failed to upload %s: %w", f.Name, err)
		}
		urls = append(urls, u.publicURL+"/"+key)
	}

	return urls, nil
}
