package s3

import (
	"context"
	"errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/danmasta/rbac"
	"github.com/danmasta/rbac/source/file"
)

// Client covers the single S3 operation the source performs.
type Client interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

// Source reads one policy object from a bucket on every Load.
type Source struct {
	client Client
	bucket string
	key    string
}

// Option configures optional Source behavior.
type Option func(*options)

type options struct {
	client        Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*awss3.Options)
}

// WithClient sets a pre-configured S3 client. Useful for testing with mocks.
func WithClient(client Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithConfigOption adds a custom AWS config option.
func WithConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.configOptions = append(o.configOptions, option)
	}
}

// WithClientOption adds a custom S3 client option.
func WithClientOption(option func(*awss3.Options)) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, option)
	}
}

// New creates a Source for cfg.Key in cfg.Bucket. Unless WithClient supplies
// one, the S3 client is built from the default AWS credential chain plus any
// static credentials in cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, ErrInvalidConfig
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		awsOptions = append(awsOptions, o.configOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, errors.Join(ErrFailedToLoadConfig, err)
		}

		client = awss3.NewFromConfig(awsConfig, func(so *awss3.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range o.clientOptions {
				opt(so)
			}
		})
	}

	return &Source{
		client: client,
		bucket: cfg.Bucket,
		key:    cfg.Key,
	}, nil
}

// Load implements rbac.Source.
func (s *Source) Load(ctx context.Context) ([]rbac.RoleDecl, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, classifyError(err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	decls, err := file.Parse(data, path.Ext(s.key))
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}
	return decls, nil
}

// classifyError converts S3 errors to domain-specific errors.
func classifyError(err error) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return errors.Join(ErrObjectNotFound, err)
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return errors.Join(ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey":
			return errors.Join(ErrObjectNotFound, err)
		case "NoSuchBucket":
			return errors.Join(ErrBucketNotFound, err)
		}
	}

	return errors.Join(ErrLoadFailed, err)
}
