package contact

import (
	"context"
	"errors"
	"fmt"
	"os"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"locuscore/pkg/domain"
)

var _ domain.ContactProvider = (*S3Provider)(nil)

// s3GetObjectAPI is the narrow S3 surface the provider depends on; tests
// substitute a fake.
type s3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds explicit construction parameters (mostly for tests). For
// production we rely primarily on environment variables.
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string // optional key prefix, e.g. "contactmaps/"
	Endpoint        string // optional; enables custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	SessionToken    string // optional
	PathStyle       bool
}

// S3Provider resolves contact maps as JSON objects in an S3-compatible bucket
// under <prefix><map_id>.json.
type S3Provider struct {
	client s3GetObjectAPI
	bucket string
	prefix string
}

// NewS3 creates an S3 contact provider from S3Config.
func NewS3(ctx context.Context, cfg S3Config) (*S3Provider, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Provider{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// NewS3WithClient wires an explicit client implementation (tests).
func NewS3WithClient(client s3GetObjectAPI, bucket, prefix string) *S3Provider {
	return &S3Provider{client: client, bucket: bucket, prefix: prefix}
}

// OpenS3FromEnv builds the provider from LOCUSCORE_CONTACT_S3_* environment
// variables; see factory.go for the full list.
func OpenS3FromEnv(ctx context.Context) (*S3Provider, error) {
	cfg := S3Config{
		Bucket:    os.Getenv("LOCUSCORE_CONTACT_S3_BUCKET"),
		Region:    os.Getenv("LOCUSCORE_CONTACT_S3_REGION"),
		Prefix:    os.Getenv("LOCUSCORE_CONTACT_S3_PREFIX"),
		Endpoint:  os.Getenv("LOCUSCORE_CONTACT_S3_ENDPOINT"),
		PathStyle: os.Getenv("LOCUSCORE_CONTACT_S3_PATH_STYLE") == "true",
	}
	return NewS3(ctx, cfg)
}

// Strength implements domain.ContactProvider.
func (p *S3Provider) Strength(ctx context.Context, a, b domain.Interval, contactMapID string) (float64, error) {
	if err := sanitizeMapID(contactMapID); err != nil {
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID, Cause: err}
	}
	key := p.prefix + contactMapID + ".json"
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID}
		}
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID, Cause: err}
	}
	defer func() { _ = out.Body.Close() }()
	doc, err := DecodeDocument(out.Body)
	if err != nil {
		return 0, domain.ReferenceError{Kind: domain.EntityContactMap, ID: contactMapID, Cause: err}
	}
	return doc.Strength(a, b), nil
}
