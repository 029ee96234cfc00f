// Package objstore fetches billing exports from remote object storage.
// Cost-and-usage reports land in S3 buckets on a delivery schedule; the
// ingest pipeline pulls the newest export under a prefix.
package objstore

import (
	"context"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// S3API is the slice of the S3 client the bucket reader uses.
type S3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Bucket reads billing exports from one S3 bucket.
type Bucket struct {
	client S3API
	name   string
}

// NewBucket builds a bucket reader from the default credential chain.
func NewBucket(ctx context.Context, name, region string) (*Bucket, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "objstore: load aws config")
	}
	return &Bucket{client: s3.NewFromConfig(cfg), name: name}, nil
}

// NewBucketFromAPI wires an existing client, mainly for tests.
func NewBucketFromAPI(api S3API, name string) *Bucket {
	return &Bucket{client: api, name: name}
}

// Latest returns the key and contents of the newest object under a
// prefix, by last-modified time. ErrNoObjects when the prefix is empty.
func (b *Bucket) Latest(ctx context.Context, prefix string) (string, []byte, error) {
	key, err := b.newestKey(ctx, prefix)
	if err != nil {
		return "", nil, err
	}

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.name,
		Key:    &key,
	})
	if err != nil {
		return "", nil, eris.Wrapf(err, "objstore: get s3://%s/%s", b.name, key)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", nil, eris.Wrapf(err, "objstore: read s3://%s/%s", b.name, key)
	}

	zap.L().Info("objstore: fetched billing export",
		zap.String("bucket", b.name),
		zap.String("key", key),
		zap.Int("bytes", len(data)),
	)
	return key, data, nil
}

// ErrNoObjects is returned when no object exists under the prefix.
var ErrNoObjects = eris.New("objstore: no objects under prefix")

func (b *Bucket) newestKey(ctx context.Context, prefix string) (string, error) {
	var newestKey string
	var newestAt int64

	input := &s3.ListObjectsV2Input{Bucket: &b.name}
	if prefix != "" {
		input.Prefix = &prefix
	}

	for {
		out, err := b.client.ListObjectsV2(ctx, input)
		if err != nil {
			return "", eris.Wrapf(err, "objstore: list s3://%s/%s", b.name, prefix)
		}
		for _, obj := range out.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			if at := obj.LastModified.UnixNano(); at > newestAt {
				newestAt = at
				newestKey = *obj.Key
			}
		}
		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		input.ContinuationToken = out.NextContinuationToken
	}

	if newestKey == "" {
		return "", ErrNoObjects
	}
	return newestKey, nil
}
