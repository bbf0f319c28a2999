package manifest

import (
	"context"
	"os"
	"strings"
)

// Source supplies raw manifest bytes. FileSource and S3Source cover the
// common cases; anything else can implement the interface.
type Source interface {
	// Load returns the manifest document bytes.
	Load(ctx context.Context) ([]byte, error)

	// Name identifies the source in errors and logs.
	Name() string
}

// FileSource reads a manifest from the local filesystem.
type FileSource struct {
	Path string
}

// NewFileSource returns a Source reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}

// Name implements Source.
func (s *FileSource) Name() string {
	return s.Path
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	s3Client S3API
}

// WithS3Client supplies the client used for s3:// references. Without
// it, Open builds one from the environment.
func WithS3Client(client S3API) OpenOption {
	return func(o *openOptions) {
		o.s3Client = client
	}
}

// Open resolves a manifest reference to a Source. References of the
// form s3://bucket/key read from S3; everything else is a local path.
func Open(ref string, opts ...OpenOption) (Source, error) {
	if !strings.HasPrefix(ref, "s3://") {
		return NewFileSource(ref), nil
	}
	bucket, key, err := ParseS3Ref(ref)
	if err != nil {
		return nil, err
	}
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}
	client := o.s3Client
	if client == nil {
		client = envS3Client()
	}
	return NewS3Source(client, bucket, key), nil
}
