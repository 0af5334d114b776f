package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrelay/pkg/file"
)

type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.HeadBucketOutput)
	return out, args.Error(1)
}

func TestArchiveKey(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 7, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	assert.Equal(t, "2026/03/07/req1-scan.pdf", file.ArchiveKey(ts, "req1", "scan.pdf"))
	assert.Equal(t, "2026/03/07/a_b.pdf", file.ArchiveKey(ts, "", "a/b.pdf"))
}

func TestLocalStorage_Save(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := file.NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	obj, err := store.Save(context.Background(), "2026/03/07/id-scan.pdf", []byte("%PDF-1.7"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "2026/03/07/id-scan.pdf", obj.Key)
	assert.Equal(t, int64(8), obj.Size)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "2026", "03", "07", "id-scan.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "uploads", "2026", "03", "07"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be gone")
}

func TestLocalStorage_Traversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := file.NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	obj, err := store.Save(context.Background(), "../../escape.txt", []byte("x"), "text/plain")
	require.NoError(t, err, "traversal is clamped into the base dir")
	assert.FileExists(t, filepath.Join(dir, "uploads", "escape.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
	assert.NotNil(t, obj)

	_, err = store.Save(context.Background(), "", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, file.ErrInvalidPath)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Save(ctx, "a.txt", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestS3Storage(t *testing.T) {
	t.Parallel()

	_, err := file.NewS3Storage(context.Background(), file.S3Config{Bucket: "b"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	client := &mockS3Client{}
	store, err := file.NewS3Storage(context.Background(),
		file.S3Config{Bucket: "forms", Region: "ap-south-1", Prefix: "/attachments/"},
		file.WithS3Client(client),
	)
	require.NoError(t, err)

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "forms" && *in.Key == "attachments/2026/03/07/id-scan.pdf" &&
			*in.ContentType == "application/pdf" && *in.ContentLength == 4
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	obj, err := store.Save(context.Background(), "2026/03/07/id-scan.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "attachments/2026/03/07/id-scan.pdf", obj.Key)
	assert.Equal(t, "s3://forms/attachments/2026/03/07/id-scan.pdf", obj.URL)

	_, err = store.Save(context.Background(), "../x", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, file.ErrInvalidPath)

	client.On("PutObject", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}).Once()
	_, err = store.Save(context.Background(), "k.pdf", []byte("x"), "application/pdf")
	assert.ErrorIs(t, err, file.ErrAccessDenied)

	client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).Once()
	assert.ErrorIs(t, store.Ping(context.Background()), file.ErrOperationTimeout)

	client.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil).Once()
	assert.NoError(t, store.Ping(context.Background()))

	client.AssertExpectations(t)
}

func TestNewStorage(t *testing.T) {
	t.Parallel()

	s, err := file.NewStorage(context.Background(), file.Config{Store: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = file.NewStorage(context.Background(), file.Config{Store: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &file.LocalStorage{}, s)

	s, err = file.NewStorage(context.Background(),
		file.Config{Store: "S3", S3Bucket: "b", S3Region: "us-east-1"},
		file.WithS3Client(&mockS3Client{}),
	)
	require.NoError(t, err)
	assert.IsType(t, &file.S3Storage{}, s)

	_, err = file.NewStorage(context.Background(), file.Config{Store: "s3"})
	assert.ErrorIs(t, err, file.ErrInvalidConfig)

	_, err = file.NewStorage(context.Background(), file.Config{Store: "ftp"})
	assert.True(t, errors.Is(err, file.ErrUnknownStore))
}
