package manifest

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3 serves objects from a map keyed by "bucket/key".
type fakeS3 struct {
	objects map[string]string
	err     error
	calls   []string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	ref := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	f.calls = append(f.calls, ref)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[ref]
	if !ok {
		return nil, stderrors.New("NoSuchKey: " + ref)
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(body)),
	}, nil
}

func TestParseS3Ref(t *testing.T) {
	tests := []struct {
		name       string
		ref        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{
			name:       "bucket and key",
			ref:        "s3://deploy-bucket/routes.json",
			wantBucket: "deploy-bucket",
			wantKey:    "routes.json",
		},
		{
			name:       "nested key",
			ref:        "s3://deploy-bucket/env/prod/routes.json",
			wantBucket: "deploy-bucket",
			wantKey:    "env/prod/routes.json",
		},
		{
			name:    "missing key",
			ref:     "s3://deploy-bucket",
			wantErr: true,
		},
		{
			name:    "empty key",
			ref:     "s3://deploy-bucket/",
			wantErr: true,
		},
		{
			name:    "empty bucket",
			ref:     "s3:///routes.json",
			wantErr: true,
		},
		{
			name:    "not an s3 ref",
			ref:     "routes.json",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bucket, key, err := ParseS3Ref(tc.ref)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseS3Ref(%q) expected an error", tc.ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseS3Ref(%q) error = %v", tc.ref, err)
			}
			if bucket != tc.wantBucket || key != tc.wantKey {
				t.Errorf("ParseS3Ref(%q) = (%q, %q), want (%q, %q)", tc.ref, bucket, key, tc.wantBucket, tc.wantKey)
			}
		})
	}
}

func TestS3SourceLoad(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"deploy-bucket/routes.json": sampleManifest,
	}}
	src := NewS3Source(fake, "deploy-bucket", "routes.json")

	data, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != sampleManifest {
		t.Error("Load() returned the wrong object body")
	}
	if len(fake.calls) != 1 || fake.calls[0] != "deploy-bucket/routes.json" {
		t.Errorf("calls = %v, want one GetObject for deploy-bucket/routes.json", fake.calls)
	}
	if src.Name() != "s3://deploy-bucket/routes.json" {
		t.Errorf("Name() = %q, want %q", src.Name(), "s3://deploy-bucket/routes.json")
	}
}

func TestS3SourceLoadError(t *testing.T) {
	boom := stderrors.New("access denied")
	src := NewS3Source(&fakeS3{err: boom}, "deploy-bucket", "routes.json")

	_, err := src.Load(context.Background())
	if !stderrors.Is(err, boom) {
		t.Errorf("Load() error = %v, want the client error", err)
	}
}

func TestBuildFromS3(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{
		"deploy-bucket/routes.json": sampleManifest,
	}}
	src, err := Open("s3://deploy-bucket/routes.json", WithS3Client(fake))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	rt, err := Build(context.Background(), src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	res := rt.Match("/api/users")
	if res == nil || res.Route.ID != "api.users" {
		t.Fatalf("Match(/api/users) = %v, want api.users", res)
	}
}

func TestLoadFromS3ReportsSourceName(t *testing.T) {
	src := NewS3Source(&fakeS3{}, "deploy-bucket", "missing.json")

	_, err := Load(context.Background(), src)
	if got := errCode(t, err); got != "E111" {
		t.Errorf("Load() code = %s, want E111", got)
	}
	if !strings.Contains(err.Error(), "E111") {
		t.Errorf("error text %q should carry the code", err.Error())
	}
}
