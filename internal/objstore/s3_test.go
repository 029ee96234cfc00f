package objstore

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	pages   [][]types.Object
	objects map[string][]byte
	page    int
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := f.pages[f.page]
	truncated := f.page < len(f.pages)-1
	f.page++
	token := "next"
	return &s3.ListObjectsV2Output{
		Contents:              page,
		IsTruncated:           &truncated,
		NextContinuationToken: &token,
	}, nil
}

func (f *fakeS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*params.Key]
	if !ok {
		return nil, eris.New("no such key")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func obj(key string, age time.Duration) types.Object {
	at := time.Now().Add(-age)
	return types.Object{Key: &key, LastModified: &at}
}

func TestLatestPicksNewestAcrossPages(t *testing.T) {
	t.Parallel()

	api := &fakeS3{
		pages: [][]types.Object{
			{obj("cur/2025-10.csv", 72*time.Hour), obj("cur/2025-11.csv", 48*time.Hour)},
			{obj("cur/2025-12.csv", 1*time.Hour)},
		},
		objects: map[string][]byte{"cur/2025-12.csv": []byte("col\nval\n")},
	}

	key, data, err := NewBucketFromAPI(api, "billing").Latest(context.Background(), "cur/")
	require.NoError(t, err)
	assert.Equal(t, "cur/2025-12.csv", key)
	assert.Equal(t, []byte("col\nval\n"), data)
}

func TestLatestEmptyPrefix(t *testing.T) {
	t.Parallel()

	api := &fakeS3{pages: [][]types.Object{{}}}
	_, _, err := NewBucketFromAPI(api, "billing").Latest(context.Background(), "missing/")
	assert.True(t, eris.Is(err, ErrNoObjects))
}
