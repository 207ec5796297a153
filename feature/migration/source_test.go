package migration_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"hysync/core/storage/mocks"
	"hysync/feature/migration"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDirSourceListsAndReads(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.json", `{"a":1}`)
	writeFile(t, root, "nested/b.json", `{"b":2}`)

	src, err := migration.NewDirSource(root)
	assert.NoError(t, err)

	keys, err := src.List(context.Background())
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.json", "nested/b.json"}, keys)

	data, err := src.Read(context.Background(), "nested/b.json")
	assert.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))
}

func TestDirSourceRejectsMissingDirectory(t *testing.T) {
	_, err := migration.NewDirSource(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func objectStream(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		ch <- minio.ObjectInfo{Key: key}
	}
	close(ch)
	return ch
}

func TestBucketSourceStripsPrefix(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "archives").Return(true, nil)
	client.On("ListObjects", mock.Anything, "archives", mock.Anything).
		Return(objectStream("players/a.json", "players/nested/b.json"))
	client.On("GetObject", mock.Anything, "archives", "players/a.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(`{"a":1}`))), nil)

	src, err := migration.NewBucketSource(context.Background(), client, "archives", "players")
	assert.NoError(t, err)

	keys, err := src.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.json", "nested/b.json"}, keys)

	data, err := src.Read(context.Background(), "a.json")
	assert.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
	client.AssertExpectations(t)
}

func TestBucketSourceRejectsMissingBucket(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "archives").Return(false, nil)

	_, err := migration.NewBucketSource(context.Background(), client, "archives", "")
	assert.Error(t, err)
}
