package storage

import "context"

// UploadOptions conveys upload destination metadata for a single object.
type UploadOptions struct {
	Bucket      string
	Key         string
	ContentType string
}

// Service stores media objects in remote object storage.
type Service interface {
	// UploadFile uploads the file at localPath and returns the object's public URL.
	UploadFile(ctx context.Context, localPath string, opts UploadOptions) (string, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	// ObjectURL returns the public URL an uploaded key is served from.
	ObjectURL(bucket, key string) string
}
