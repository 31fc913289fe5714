package services

import (
	"abadas_server/structs"
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func uploadedJPEG(t *testing.T) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	header := &multipart.FileHeader{
		Filename: "proof.jpg",
		Size:     int64(buf.Len()),
	}
	return memoryFile{bytes.NewReader(buf.Bytes())}, header
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h  int
		wantW int
		wantH int
	}{
		{800, 600, 800, 600},     // already inside the bound
		{1080, 1080, 1080, 1080}, // exactly at the bound
		{2160, 1080, 1080, 540},  // wide
		{1080, 2160, 540, 1080},  // tall
		{4000, 4000, 1080, 1080}, // square
	}

	for _, tc := range cases {
		gotW, gotH := fitWithin(tc.w, tc.h, maxImageDimension)
		assert.Equal(t, tc.wantW, gotW, "%dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wantH, gotH, "%dx%d", tc.w, tc.h)
	}
}

func TestNormalizeImageFlattensTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	// Fully transparent source: flattening must leave the white background.

	out := normalizeImage(src)
	assert.Equal(t, 10, out.Bounds().Dx())
	assert.Equal(t, 10, out.Bounds().Dy())

	r, g, b, _ := out.At(5, 5).RGBA()
	white := color.White
	wr, wg, wb, _ := white.RGBA()
	assert.Equal(t, wr, r)
	assert.Equal(t, wg, g)
	assert.Equal(t, wb, b)
}

func TestNormalizeImageScalesDown(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3240, 1620))

	out := normalizeImage(src)
	assert.Equal(t, 1080, out.Bounds().Dx())
	assert.Equal(t, 540, out.Bounds().Dy())
}

func TestStoreAndRemovePaymentProof(t *testing.T) {
	dir := t.TempDir()
	cfg := &structs.Config{Storage: &structs.StorageConfig{
		UploadDir: dir,
		BaseURL:   "https://cdn.example/uploads",
	}}
	is := NewImageService(gecho.NewDefaultLogger(), cfg)

	file, header := uploadedJPEG(t)
	url, err := is.StorePaymentProof(file, header)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "https://cdn.example/uploads/proofs/"), url)

	rel := strings.TrimPrefix(url, "https://cdn.example/uploads/")
	stored := filepath.Join(dir, filepath.FromSlash(rel))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	// A failed checkout removes the proof it uploaded.
	require.NoError(t, is.RemoveStoredFile(url))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveStoredFileRejectsForeignURL(t *testing.T) {
	cfg := &structs.Config{Storage: &structs.StorageConfig{
		UploadDir: t.TempDir(),
		BaseURL:   "https://cdn.example/uploads",
	}}
	is := NewImageService(gecho.NewDefaultLogger(), cfg)

	assert.Error(t, is.RemoveStoredFile("https://other.example/x.jpg"))
	assert.Error(t, is.RemoveStoredFile("https://cdn.example/uploads/../secrets"))
}
