package media

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)

	rootPath := path.Join(t.TempDir(), "media")
	store, err := NewStore(rootPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	// root dir gets created
	stat, err := os.Stat(rootPath)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestStore_SaveAndServe(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	imageContent := "not really a png"
	storedName, err := store.Save("gopher.png", "image/png", strings.NewReader(imageContent))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedName, ".png"))
	// client filename never becomes the stored name
	assert.NotContains(t, storedName, "gopher")

	imagePath, err := store.FilePath(storedName)
	require.NoError(t, err)
	savedContent, err := os.ReadFile(imagePath)
	require.NoError(t, err)
	assert.Equal(t, imageContent, string(savedContent))
}

func TestStore_Save_ContentTypeFallback(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	storedName, err := store.Save("photo.JPEG", "application/octet-stream", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedName, ".jpeg"))

	_, err = store.Save("malware.exe", "application/octet-stream", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestStore_FilePath_Invalid(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{
		"",
		"missing.png",
		"../../../etc/passwd",
		".hidden",
	} {
		_, err := store.FilePath(name)
		assert.ErrorIs(t, err, ErrImageNotFound, "name: %q", name)
	}
}
