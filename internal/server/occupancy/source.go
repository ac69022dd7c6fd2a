package occupancy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configure access to an S3-compatible store. Empty keys fall
// back to the default AWS credential chain.
type S3Options struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in, optFns...)
	}

	openFile = func(name string) (io.ReadCloser, error) {
		return os.Open(name)
	}
)

// splitS3URI splits s3://bucket/key.
func splitS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q", uri)
	}
	return bucket, key, nil
}

func newS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	}), nil
}

// Load reads the dataset from a local path or from s3://bucket/key.
func Load(ctx context.Context, source string, o S3Options) (*Dataset, error) {
	if source == "" {
		return nil, errors.New("empty dataset source")
	}

	var body io.ReadCloser

	if strings.HasPrefix(source, "s3://") {
		bucket, key, err := splitS3URI(source)
		if err != nil {
			return nil, err
		}
		client, err := newS3Client(ctx, o)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		out, err := getObject(client, ctx, &s3.GetObjectInput{Bucket: &bucket, Key: &key})
		if err != nil {
			return nil, fmt.Errorf("s3 get %s: %w", source, err)
		}
		body = out.Body
	} else {
		f, err := openFile(source)
		if err != nil {
			return nil, err
		}
		body = f
	}
	defer body.Close()

	ds, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return ds, nil
}
