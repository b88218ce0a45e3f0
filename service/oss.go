package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"ReelsWizard-server/config"
	"ReelsWizard-server/engine"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var MinioClient *minio.Client

// Object layout inside the bucket:
//
//	jobs/{jobID}/media/{slot+1}.{ext}   per-slot wizard media
//	jobs/{jobID}/output/{file}.mp4      rendered videos
//	bookmarks/videos/{file}             shared bookmark pool
//	bookmarks/images/{file}
const (
	jobPrefix      = "jobs"
	bookmarkVideos = "bookmarks/videos/"
	bookmarkImages = "bookmarks/images/"
)

func InitMinIO() {
	cfg := config.AppConfig.MinIO
	var err error
	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatalf("minio init failed: %v", err)
	}
	log.Println("minio connected")
}

func ensureBucket(ctx context.Context) (string, error) {
	bucket := config.AppConfig.MinIO.Bucket
	exists, err := MinioClient.BucketExists(ctx, bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := MinioClient.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("create bucket: %w", err)
		}
		log.Printf("bucket %q created", bucket)
	}
	return bucket, nil
}

func contentTypeFor(objectName string) string {
	switch strings.ToLower(filepath.Ext(objectName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".heic", ".heif":
		return "image/heic"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	}
	return "application/octet-stream"
}

// JobMediaObject returns the bucket key for one wizard slot. The worker
// expects 1-based names, so slot 0 becomes "1.png".
func JobMediaObject(jobID string, slotIndex int, ext string) string {
	return fmt.Sprintf("%s/%s/media/%d%s", jobPrefix, jobID, slotIndex+1, ext)
}

func JobOutputObject(jobID, filename string) string {
	return fmt.Sprintf("%s/%s/output/%s", jobPrefix, jobID, filename)
}

// UploadToMinIO streams data into the bucket and returns a presigned URL.
// size may be -1 when unknown.
func UploadToMinIO(ctx context.Context, reader io.Reader, objectName string, size int64) (string, error) {
	bucket, err := ensureBucket(ctx)
	if err != nil {
		return "", err
	}
	_, err = MinioClient.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentTypeFor(objectName),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return PresignedURL(ctx, objectName)
}

func PresignedURL(ctx context.Context, objectName string) (string, error) {
	bucket := config.AppConfig.MinIO.Bucket
	u, err := MinioClient.PresignedGetObject(ctx, bucket, objectName, 72*time.Hour, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectName, err)
	}
	return u.String(), nil
}

// FetchFromMinIO opens an object for reading. The caller closes it.
func FetchFromMinIO(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	bucket := config.AppConfig.MinIO.Bucket
	obj, err := MinioClient.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("get %s: %w", objectName, err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", objectName, err)
	}
	return obj, stat.Size, nil
}

// BookmarkEntry is one reusable asset from the shared bookmark pool.
type BookmarkEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

func listBookmarks(ctx context.Context, prefix string) ([]BookmarkEntry, error) {
	bucket, err := ensureBucket(ctx)
	if err != nil {
		return nil, err
	}
	entries := []BookmarkEntry{}
	for obj := range MinioClient.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, obj.Err)
		}
		u, err := PresignedURL(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, BookmarkEntry{
			Name: path.Base(obj.Key),
			Size: obj.Size,
			URL:  u,
		})
	}
	return entries, nil
}

func ListBookmarkVideos(ctx context.Context) ([]BookmarkEntry, error) {
	return listBookmarks(ctx, bookmarkVideos)
}

func ListBookmarkImages(ctx context.Context) ([]BookmarkEntry, error) {
	return listBookmarks(ctx, bookmarkImages)
}

// CopyBookmark server-side copies a bookmark object into a job's media slot
// and returns the destination key and object size.
func CopyBookmark(ctx context.Context, kind, name, jobID string, slotIndex int) (string, int64, error) {
	bucket, err := ensureBucket(ctx)
	if err != nil {
		return "", 0, err
	}
	var src string
	switch kind {
	case "video":
		src = bookmarkVideos + name
	case "image":
		src = bookmarkImages + name
	default:
		return "", 0, fmt.Errorf("unknown bookmark kind %q", kind)
	}
	stat, err := MinioClient.StatObject(ctx, bucket, src, minio.StatObjectOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("stat bookmark %s: %w", src, err)
	}
	dst := JobMediaObject(jobID, slotIndex, strings.ToLower(filepath.Ext(name)))
	_, err = MinioClient.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: bucket, Object: dst},
		minio.CopySrcOptions{Bucket: bucket, Object: src})
	if err != nil {
		return "", 0, fmt.Errorf("copy %s: %w", src, err)
	}
	return dst, stat.Size, nil
}

// RemoveJobObjects deletes every object under a job's prefix. Used by
// cleanup-job-folder.
func RemoveJobObjects(ctx context.Context, jobID string) error {
	bucket := config.AppConfig.MinIO.Bucket
	prefix := fmt.Sprintf("%s/%s/", jobPrefix, jobID)
	for obj := range MinioClient.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list job objects: %w", obj.Err)
		}
		if err := MinioClient.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove %s: %w", obj.Key, err)
		}
	}
	return nil
}

// staleObject reports the bucket key left behind when next replaces prev at
// a slot, or "" when there is nothing to remove. Same-extension replacements
// reuse the key, so only a kind/extension change strands an object.
func staleObject(prev, next engine.MediaItem) string {
	if prev.ObjectName == "" || prev.ObjectName == next.ObjectName {
		return ""
	}
	return prev.ObjectName
}

// RemoveReplacedObject deletes the object orphaned by a slot replacement,
// e.g. 3.mp4 left behind after 3.png took the slot. Best effort.
func RemoveReplacedObject(ctx context.Context, prev, next engine.MediaItem) {
	key := staleObject(prev, next)
	if key == "" {
		return
	}
	if err := RemoveObject(ctx, key); err != nil {
		log.Printf("remove replaced object %s: %v", key, err)
	}
}

func RemoveObject(ctx context.Context, objectName string) error {
	bucket := config.AppConfig.MinIO.Bucket
	if err := MinioClient.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", objectName, err)
	}
	return nil
}
