package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"viewtube/internal/storage"
)

var (
	// ErrNotAnImage is returned when the staged file does not sniff as an image.
	ErrNotAnImage = errors.New("file is not an image")
	// ErrTooLarge is returned when the file exceeds the configured size cap.
	ErrTooLarge = errors.New("file exceeds maximum allowed size")
)

// Config holds upload bridge settings.
type Config struct {
	Bucket    string
	KeyPrefix string
	TempDir   string
	MaxBytes  int64
}

// Uploader stages an incoming multipart file on local disk, forwards it to
// object storage, and removes the local copy on every exit path.
type Uploader struct {
	store  storage.Service
	cfg    Config
	logger *logrus.Logger
}

func NewUploader(store storage.Service, cfg Config, logger *logrus.Logger) *Uploader {
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &Uploader{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// UploadImage validates and uploads a single image file, returning its public
// URL. The staged local copy is deleted whether or not the remote upload
// succeeds.
func (u *Uploader) UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", errors.New("file is required")
	}
	if u.cfg.MaxBytes > 0 && file.Size > u.cfg.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, file.Size)
	}

	localPath, contentType, err := u.stage(file)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			u.logger.Warnf("remove staged upload %s: %v", localPath, err)
		}
	}()

	key := uuid.NewString() + extensionFor(file.Filename, contentType)
	if u.cfg.KeyPrefix != "" {
		key = u.cfg.KeyPrefix + "/" + key
	}

	objectURL, err := u.store.UploadFile(ctx, localPath, storage.UploadOptions{
		Bucket:      u.cfg.Bucket,
		Key:         key,
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	u.logger.Infof("uploaded image %s (%d bytes)", key, file.Size)
	return objectURL, nil
}

// UploadOptionalImage behaves like UploadImage but downgrades failures to an
// empty URL. Used for assets the caller can live without (cover images).
func (u *Uploader) UploadOptionalImage(ctx context.Context, file *multipart.FileHeader) string {
	if file == nil {
		return ""
	}
	objectURL, err := u.UploadImage(ctx, file)
	if err != nil {
		u.logger.Warnf("optional image upload failed: %v", err)
		return ""
	}
	return objectURL
}

// Remove deletes a previously uploaded object by its public URL. Failures are
// logged, not returned: stale objects are an acceptable leak.
func (u *Uploader) Remove(ctx context.Context, objectURL string) {
	if objectURL == "" {
		return
	}
	key, err := u.keyFromURL(objectURL)
	if err != nil {
		u.logger.Warnf("resolve object key from %s: %v", objectURL, err)
		return
	}
	if err := u.store.DeleteObject(ctx, u.cfg.Bucket, key); err != nil {
		u.logger.Warnf("delete object %s: %v", key, err)
	}
}

// stage copies the multipart file into the temp dir and sniffs its content
// type. The caller owns removal of the returned path.
func (u *Uploader) stage(file *multipart.FileHeader) (string, string, error) {
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("open multipart file: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("read multipart file: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("%w: detected %s", ErrNotAnImage, contentType)
	}

	if err := os.MkdirAll(u.cfg.TempDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create temp dir: %w", err)
	}

	dst, err := os.CreateTemp(u.cfg.TempDir, "upload-*")
	if err != nil {
		return "", "", fmt.Errorf("create staging file: %w", err)
	}

	_, copyErr := dst.Write(head[:n])
	if copyErr == nil {
		_, copyErr = io.Copy(dst, src)
	}
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(dst.Name())
		if copyErr != nil {
			return "", "", fmt.Errorf("stage multipart file: %w", copyErr)
		}
		return "", "", fmt.Errorf("close staging file: %w", closeErr)
	}

	return dst.Name(), contentType, nil
}

func (u *Uploader) keyFromURL(objectURL string) (string, error) {
	parsed, err := url.Parse(objectURL)
	if err != nil {
		return "", err
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return "", errors.New("object url has no key")
	}
	return key, nil
}

func extensionFor(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
