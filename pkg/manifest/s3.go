package manifest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/strata-dev/strata/internal/errors"
)

// S3API is the slice of the S3 client the source needs. The concrete
// *s3.Client satisfies it; tests substitute a fake.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a manifest object from S3.
type S3Source struct {
	client S3API
	bucket string
	key    string
}

// NewS3Source returns a Source reading s3://bucket/key through client.
func NewS3Source(client S3API, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

// ParseS3Ref splits an s3://bucket/key reference into bucket and key.
func ParseS3Ref(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(ref, "s3://")
	if !ok {
		return "", "", errors.New("E114").
			WithDetail(fmt.Sprintf("%q does not start with s3://", ref))
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errors.New("E114").
			WithDetail(fmt.Sprintf("%q is missing a bucket or key", ref)).
			WithExample("s3://my-bucket/routes.json")
	}
	return bucket, key, nil
}

// Load implements Source.
func (s *S3Source) Load(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Name implements Source.
func (s *S3Source) Name() string {
	return "s3://" + s.bucket + "/" + s.key
}

// envS3Client builds a client from AWS_REGION and static credentials in
// the environment. Without credentials the client makes anonymous
// requests, which is enough for public buckets.
func envS3Client() S3API {
	opts := s3.Options{
		Region: os.Getenv("AWS_REGION"),
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if accessKey := os.Getenv("AWS_ACCESS_KEY_ID"); accessKey != "" {
		secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
		sessionToken := os.Getenv("AWS_SESSION_TOKEN")
		opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     accessKey,
				SecretAccessKey: secretKey,
				SessionToken:    sessionToken,
				Source:          "environment",
			}, nil
		})
	} else {
		opts.Credentials = aws.AnonymousCredentials{}
	}
	return s3.New(opts)
}
