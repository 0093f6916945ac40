package upload

import (
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMultipartFile adapts a strings.Reader to multipart.File for Stage's
// io.CopyBuffer call, which only needs Read/Close here.
type fakeMultipartFile struct {
	*strings.Reader
}

func (fakeMultipartFile) Close() error { return nil }

var _ multipart.File = fakeMultipartFile{}

func TestStorage_StageOpenRemove(t *testing.T) {
	dir := t.TempDir()
	storage := New(&Config{BasePath: dir, ChunkSize: 1024})

	content := "Date(UTC),Time(UTC),Receiver,Transmitter,StationName\n"
	file := fakeMultipartFile{strings.NewReader(content)}

	ctx := context.Background()
	path, err := storage.Stage(ctx, file, "detections.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "detections_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	reader, err := storage.Open(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	buf := make([]byte, len(content))
	n, _ := reader.Read(buf)
	assert.Equal(t, content, string(buf[:n]))

	require.NoError(t, storage.Remove(ctx, path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStorage_RemoveMissingFileIsNotAnError(t *testing.T) {
	storage := New(&Config{BasePath: t.TempDir(), ChunkSize: 1024})
	err := storage.Remove(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.NoError(t, err)
}
