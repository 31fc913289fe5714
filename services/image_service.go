package services

import (
	"abadas_server/structs"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// Uploaded images are normalized to fit inside this square before storage.
	maxImageDimension = 1080

	jpegQuality = 85

	// MaxUploadSize bounds a single uploaded file part.
	MaxUploadSize = 10 << 20 // 10 MiB
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// ImageService normalizes uploaded images and writes them to local storage.
// Every stored file is re-encoded: transparency is flattened onto white and
// anything larger than the bounding square is scaled down, preserving aspect
// ratio. Output is always JPEG.
type ImageService struct {
	logger *gecho.Logger
	cfg    *structs.Config
}

func NewImageService(logger *gecho.Logger, cfg *structs.Config) *ImageService {
	return &ImageService{
		logger: logger,
		cfg:    cfg,
	}
}

// StoreProductImage normalizes and stores one uploaded product image, and
// returns the public URL it will be served under.
func (is *ImageService) StoreProductImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	return is.normalizeAndStore(file, header, "products")
}

// StorePaymentProof stores a manual payment proof image. Proofs go through
// the same normalization as product images so the admin view never has to
// deal with oversized or exotic files.
func (is *ImageService) StorePaymentProof(file multipart.File, header *multipart.FileHeader) (string, error) {
	return is.normalizeAndStore(file, header, "proofs")
}

// RemoveStoredFile deletes a file this service previously stored, addressed
// by the public URL it was returned under. Used to clean up a payment proof
// when the checkout that uploaded it fails.
func (is *ImageService) RemoveStoredFile(url string) error {
	base := strings.TrimRight(is.cfg.Storage.BaseURL, "/") + "/"
	rel, ok := strings.CutPrefix(url, base)
	if !ok || rel == "" || strings.Contains(rel, "..") {
		return fmt.Errorf("not a stored file url: %s", url)
	}
	return os.Remove(filepath.Join(is.cfg.Storage.UploadDir, filepath.FromSlash(rel)))
}

func (is *ImageService) normalizeAndStore(file multipart.File, header *multipart.FileHeader, subdir string) (string, error) {
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrUnsupportedImage, MaxUploadSize)
	}

	img, err := decodeImage(file, header.Filename)
	if err != nil {
		return "", err
	}

	normalized := normalizeImage(img)

	dir := filepath.Join(is.cfg.Storage.UploadDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.New().String() + ".jpg"
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, normalized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("encode image: %w", err)
	}

	url := strings.TrimRight(is.cfg.Storage.BaseURL, "/") + "/" + path.Join(subdir, name)
	is.logger.Debug("Stored image",
		gecho.Field("path", dst),
		gecho.Field("original", header.Filename))
	return url, nil
}

func decodeImage(r io.Reader, filename string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, err)
		}
		return img, nil
	case ".png":
		img, err := png.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, err)
		}
		return img, nil
	case ".gif":
		img, err := gif.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, err)
		}
		return img, nil
	default:
		// Fall back to sniffing; some browsers send odd filenames.
		img, _, err := image.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ext)
		}
		return img, nil
	}
}

// normalizeImage flattens the image onto a white background and scales it
// down to fit the bounding square. Images already inside the bound keep
// their dimensions.
func normalizeImage(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	targetW, targetH := fitWithin(w, h, maxImageDimension)

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if targetW == w && targetH == h {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
		return dst
	}

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// fitWithin scales (w, h) down so both sides fit inside max, preserving
// aspect ratio. Dimensions already within the bound pass through unchanged.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		scaled := h * max / w
		if scaled < 1 {
			scaled = 1
		}
		return max, scaled
	}
	scaled := w * max / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, max
}
