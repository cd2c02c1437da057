package blobstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 serves blobs from a bucket prefix
type S3 struct {
	client     *s3.Client
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewS3 connects to the bucket named by source.
// source format: "s3://bucket/prefix?region=us-east-1&endpoint=http://localhost:9000"
func NewS3(ctx context.Context, source string) (*S3, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid blob source: %w", err)
	}
	if u.Scheme != "s3" {
		return nil, fmt.Errorf("invalid scheme: expected s3, got %s", u.Scheme)
	}

	s := &S3{
		bucket: u.Host,
		prefix: strings.TrimPrefix(u.Path, "/"),
	}
	if s.prefix != "" && !strings.HasSuffix(s.prefix, "/") {
		s.prefix += "/"
	}

	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var options []func(*s3.Options)
	if endpoint := query.Get("endpoint"); endpoint != "" {
		options = append(options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	s.client = s3.NewFromConfig(cfg, options...)
	s.downloader = manager.NewDownloader(s.client)

	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return nil, fmt.Errorf("failed to access bucket %s: %w", s.bucket, err)
	}
	slog.Info("connected blob store", "bucket", s.bucket, "prefix", s.prefix, "region", region)

	return s, nil
}

func (s *S3) Name() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	buf := manager.NewWriteAtBuffer([]byte{})
	_, err = s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to get blob %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
