package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, ok := ParseKind(" Resume ")
	require.True(t, ok)
	assert.Equal(t, KindResume, k)
	assert.Equal(t, "documents", k.Folder())

	_, ok = ParseKind("video")
	assert.False(t, ok)
}

func TestKindValidate(t *testing.T) {
	assert.NoError(t, KindProject.Validate("image/png", 1024))
	assert.NoError(t, KindResume.Validate("application/pdf", 9<<20))

	err := KindDocument.Validate("image/png", 10)
	assert.ErrorIs(t, err, errs.ErrUnsupportedMediaType)

	err = KindProfile.Validate("application/pdf", 10)
	assert.ErrorIs(t, err, errs.ErrUnsupportedMediaType)

	err = KindProject.Validate("image/jpeg", 6<<20)
	require.ErrorIs(t, err, errs.ErrMaxBodySizeExceeded)
	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "File size must be less than 5MB", apiErr.Message())

	err = KindDocument.Validate("application/pdf", 11<<20)
	assert.ErrorIs(t, err, errs.ErrMaxBodySizeExceeded)
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "png", File{Filename: "Shot.PNG"}.Extension())
	assert.Equal(t, "jpg", File{ContentType: "image/jpeg"}.Extension())
	assert.Equal(t, "pdf", File{Kind: KindResume}.Extension())
}

func TestLocalStoreUpload(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)
	store.now = func() time.Time { return time.UnixMilli(1700000000000) }

	obj, err := store.Upload(context.Background(), File{
		Kind:        KindProject,
		Filename:    "cover.png",
		ContentType: "image/png",
		Body:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/images/projects/project-1700000000000.png", obj.URL)
	assert.Equal(t, "project-1700000000000.png", obj.Filename)
	assert.True(t, obj.Local)

	data, err := os.ReadFile(filepath.Join(root, "images", "projects", obj.Filename))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3StoreUpload(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, config.MediaConfig{
		Bucket:        "media",
		PublicBaseURL: "https://cdn.example.com/",
	})

	obj, err := store.Upload(context.Background(), File{
		Kind:        KindResume,
		Filename:    "cv.pdf",
		ContentType: "application/pdf",
		Size:        3,
		Body:        bytes.NewReader([]byte("pdf")),
	})
	require.NoError(t, err)

	require.NotNil(t, client.put)
	assert.Equal(t, "media", aws.ToString(client.put.Bucket))
	assert.True(t, strings.HasPrefix(obj.PublicID, "portfolio/documents/"))
	assert.True(t, strings.HasSuffix(obj.PublicID, ".pdf"))
	assert.Equal(t, "https://cdn.example.com/"+obj.PublicID, obj.URL)
	assert.Equal(t, "pdf", obj.Format)
	assert.EqualValues(t, 3, obj.Size)
}

func TestS3StoreDelete(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, config.MediaConfig{Bucket: "media", Region: "us-east-1"})

	require.NoError(t, store.Delete(context.Background(), "portfolio/projects/a.png"))
	assert.Equal(t, "portfolio/projects/a.png", aws.ToString(client.deleted.Key))

	assert.ErrorIs(t, store.Delete(context.Background(), "other/thing.png"), ErrForeignObject)
	assert.ErrorIs(t, store.Delete(context.Background(), "portfolio/../secret"), ErrForeignObject)
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://media.s3.eu-west-1.amazonaws.com",
		publicBaseURL(config.MediaConfig{Bucket: "media", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/media",
		publicBaseURL(config.MediaConfig{Bucket: "media", Endpoint: "http://localhost:9000/"}))
}
