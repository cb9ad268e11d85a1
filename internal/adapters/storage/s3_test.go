package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockpile/internal/adapters/storage"
	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/test/helpers"
)

// fakeBucket serves GetObject, DeleteObject and Upload from memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	putErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (f *fakeBucket) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeBucket) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeBucket) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(input.Key)] = data
	return &manager.UploadOutput{Location: "s3://" + aws.ToString(input.Bucket) + "/" + aws.ToString(input.Key)}, nil
}

func TestS3SnapshotStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	store := storage.NewS3SnapshotStoreWithClient(bucket, bucket, "stockpile-test", "snapshots", helpers.TestLogger())

	snap := domain.NewSnapshot(
		domain.Item{ID: "a", Name: "Apples", Category: "Produce", Quantity: 2, Price: decimal.NewFromInt(3), Image: domain.PlaceholderImage},
		domain.Item{ID: "b", Name: "Milk", Category: "Dairy", Quantity: 1, Price: decimal.NewFromInt(5), Image: domain.PlaceholderImage},
	)

	require.NoError(t, store.Save(ctx, "test-products", snap))
	assert.Contains(t, bucket.objects, "snapshots/test-products.json")

	loaded, found, err := store.Load(ctx, "test-products")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, snap.Equal(loaded))

	require.NoError(t, store.Delete(ctx, "test-products"))
	_, found, err = store.Load(ctx, "test-products")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestS3SnapshotStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing_object", func(t *testing.T) {
		bucket := newFakeBucket()
		store := storage.NewS3SnapshotStoreWithClient(bucket, bucket, "b", "", helpers.TestLogger())

		snap, found, err := store.Load(ctx, "test-products")
		require.NoError(t, err)
		assert.False(t, found)
		assert.True(t, snap.IsEmpty())
	})

	t.Run("download_failure", func(t *testing.T) {
		bucket := newFakeBucket()
		bucket.getErr = errors.New("access denied")
		store := storage.NewS3SnapshotStoreWithClient(bucket, bucket, "b", "", helpers.TestLogger())

		_, _, err := store.Load(ctx, "test-products")
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("corrupt_object", func(t *testing.T) {
		bucket := newFakeBucket()
		bucket.objects["test-products.json"] = []byte("not json")
		store := storage.NewS3SnapshotStoreWithClient(bucket, bucket, "b", "", helpers.TestLogger())

		_, _, err := store.Load(ctx, "test-products")
		assert.ErrorContains(t, err, "failed to decode snapshot")
	})

	t.Run("upload_failure", func(t *testing.T) {
		bucket := newFakeBucket()
		bucket.putErr = errors.New("slow down")
		store := storage.NewS3SnapshotStoreWithClient(bucket, bucket, "b", "", helpers.TestLogger())

		assert.ErrorContains(t, store.Save(ctx, "test-products", domain.Snapshot{}), "slow down")
	})
}

func TestS3SnapshotStore_Key(t *testing.T) {
	bucket := newFakeBucket()

	assert.Equal(t, "test-products.json",
		storage.NewS3SnapshotStoreWithClient(bucket, bucket, "b", "", helpers.TestLogger()).Key("test-products"))
	assert.Equal(t, "inventory/test-products.json",
		storage.NewS3SnapshotStoreWithClient(bucket, bucket, "b", "inventory/", helpers.TestLogger()).Key("test-products"))
}
