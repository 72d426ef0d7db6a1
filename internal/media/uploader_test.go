package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"viewtube/internal/storage"
)

// fakeStore records calls and serves as a stand-in for the S3 client.
type fakeStore struct {
	uploadErr error

	uploadedPath string
	uploadedOpts storage.UploadOptions
	deletedKeys  []string
}

func (f *fakeStore) UploadFile(_ context.Context, localPath string, opts storage.UploadOptions) (string, error) {
	f.uploadedPath = localPath
	f.uploadedOpts = opts
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return f.ObjectURL(opts.Bucket, opts.Key), nil
}

func (f *fakeStore) DeleteObject(_ context.Context, _ string, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

func (f *fakeStore) ObjectURL(_, key string) string {
	return "https://cdn.test/" + key
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

func pngPayload(size int) []byte {
	payload := make([]byte, size)
	copy(payload, pngHeader)
	return payload
}

// fileHeader round-trips the payload through a real multipart request.
func fileHeader(t *testing.T, filename string, payload []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func newTestUploader(t *testing.T, store storage.Service, maxBytes int64) *Uploader {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewUploader(store, Config{
		Bucket:    "test-bucket",
		KeyPrefix: "images",
		TempDir:   t.TempDir(),
		MaxBytes:  maxBytes,
	}, logger)
}

func TestUploadImage(t *testing.T) {
	store := &fakeStore{}
	uploader := newTestUploader(t, store, 1<<20)

	url, err := uploader.UploadImage(context.Background(), fileHeader(t, "avatar.png", pngPayload(1024)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://cdn.test/images/"))
	require.True(t, strings.HasSuffix(url, ".png"))

	require.Equal(t, "test-bucket", store.uploadedOpts.Bucket)
	require.Equal(t, "image/png", store.uploadedOpts.ContentType)

	// the staged copy is gone once the upload returns
	_, err = os.Stat(store.uploadedPath)
	require.True(t, os.IsNotExist(err))
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	store := &fakeStore{}
	uploader := newTestUploader(t, store, 1<<20)

	_, err := uploader.UploadImage(context.Background(), fileHeader(t, "notes.txt", []byte("just some text, definitely not pixels")))
	require.ErrorIs(t, err, ErrNotAnImage)
	require.Empty(t, store.uploadedPath)
}

func TestUploadImageRejectsOversize(t *testing.T) {
	store := &fakeStore{}
	uploader := newTestUploader(t, store, 512)

	_, err := uploader.UploadImage(context.Background(), fileHeader(t, "big.png", pngPayload(1024)))
	require.ErrorIs(t, err, ErrTooLarge)
	require.Empty(t, store.uploadedPath)
}

func TestUploadImageCleansUpOnStoreFailure(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("bucket on fire")}
	uploader := newTestUploader(t, store, 1<<20)

	_, err := uploader.UploadImage(context.Background(), fileHeader(t, "avatar.png", pngPayload(1024)))
	require.Error(t, err)

	require.NotEmpty(t, store.uploadedPath)
	_, err = os.Stat(store.uploadedPath)
	require.True(t, os.IsNotExist(err))
}

func TestUploadOptionalImageDowngradesFailure(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("bucket on fire")}
	uploader := newTestUploader(t, store, 1<<20)

	require.Empty(t, uploader.UploadOptionalImage(context.Background(), fileHeader(t, "cover.png", pngPayload(256))))
	require.Empty(t, uploader.UploadOptionalImage(context.Background(), nil))
}

func TestRemoveResolvesKeyFromURL(t *testing.T) {
	store := &fakeStore{}
	uploader := newTestUploader(t, store, 1<<20)
	ctx := context.Background()

	uploader.Remove(ctx, "https://cdn.test/images/abc.png")
	require.Equal(t, []string{"images/abc.png"}, store.deletedKeys)

	// empty URLs are a no-op
	uploader.Remove(ctx, "")
	require.Len(t, store.deletedKeys, 1)
}
