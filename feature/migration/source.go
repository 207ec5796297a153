package migration

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"hysync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Source abstracts where an archive tree lives. Keys are slash-separated
// paths relative to the tree root, e.g. "11111111-....json" or
// "11111111-.../stashes.json", so the runners can interpret the same layout
// whether it sits on disk or in a bucket.
type Source interface {
	// List returns the keys of every regular file in the tree.
	List(ctx context.Context) ([]string, error)
	// Read returns the contents of one file.
	Read(ctx context.Context, key string) ([]byte, error)
}

// DirSource reads an archive tree from the local filesystem.
type DirSource struct {
	root string
}

// NewDirSource wraps a directory as a Source. The directory must exist.
func NewDirSource(root string) (*DirSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", root)
	}
	return &DirSource{root: root}, nil
}

func (s *DirSource) List(_ context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	return keys, nil
}

func (s *DirSource) Read(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(key)))
}

// BucketSource reads an archive tree mirrored into an object-storage bucket,
// optionally below a key prefix.
type BucketSource struct {
	client storage.Client
	bucket string
	prefix string
}

// NewBucketSource wraps a bucket (and optional prefix) as a Source. The
// bucket must exist.
func NewBucketSource(ctx context.Context, client storage.Client, bucket, prefix string) (*BucketSource, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket does not exist: %s", bucket)
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &BucketSource{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *BucketSource) List(ctx context.Context) ([]string, error) {
	var keys []string
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", s.bucket, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, s.prefix))
	}
	return keys, nil
}

func (s *BucketSource) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.prefix+key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()
	return io.ReadAll(obj)
}
