package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/sadokz/lamaitrise/internal/model"
)

// maxImageBytes is the accepted size ceiling for image uploads.
const maxImageBytes = 10 << 20

// maxVideoBytes is the accepted size ceiling for video uploads.
const maxVideoBytes = 50 << 20

// maxImageDimension is the longest edge images are resized down to.
const maxImageDimension = 1600

// thumbDimension is the longest edge of generated thumbnails.
const thumbDimension = 400

// jpegQuality is the re-encode quality for processed images.
const jpegQuality = 80

// sniffLen is how many leading bytes content-type detection reads.
const sniffLen = 512

// imageExtensions maps accepted image content types to stored extensions.
// JPEG and PNG are re-encoded; WebP is stored as received.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".jpg",
	"image/webp": ".webp",
}

// videoExtensions maps accepted video content types to stored extensions.
var videoExtensions = map[string]string{
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

// UploadService validates incoming media and writes it to the object store.
// Validation happens entirely before the first store write, so a rejected
// upload leaves no object behind.
type UploadService struct {
	store  ObjectStore
	logger *slog.Logger
}

// NewUploadService creates an UploadService.
func NewUploadService(store ObjectStore, logger *slog.Logger) *UploadService {
	return &UploadService{store: store, logger: logger}
}

// UploadResult describes a stored upload. ThumbURL is set for re-encoded
// images only.
type UploadResult struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ThumbURL    string `json:"thumb_url,omitempty"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Upload reads one media file, validates its type and size, processes images
// and stores the result under a generated name.
func (s *UploadService) Upload(ctx context.Context, r io.Reader, declaredSize int64) (*UploadResult, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}

	ext, isImage := imageExtensions[contentType]
	if !isImage {
		var ok bool
		if ext, ok = videoExtensions[contentType]; !ok {
			return nil, model.NewFileTypeError(contentType)
		}
	}

	limit := int64(maxVideoBytes)
	if isImage {
		limit = maxImageBytes
	}
	if declaredSize > limit {
		return nil, model.NewFileTooLargeError(limit)
	}

	// Re-join the sniffed head with the rest, capped one byte past the limit
	// so an understated declared size still gets caught.
	body, err := io.ReadAll(io.LimitReader(io.MultiReader(bytes.NewReader(head), r), limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, model.NewFileTooLargeError(limit)
	}

	var thumb []byte
	if isImage && contentType != "image/webp" {
		body, thumb, err = s.processImage(body)
		if err != nil {
			return nil, err
		}
	}

	base := uuid.NewString()
	name := base + ext
	url, err := s.store.Save(ctx, name, bytes.NewReader(body))
	if err != nil {
		return nil, model.NewStoreError("upload")
	}

	var thumbURL string
	if thumb != nil {
		thumbURL, err = s.store.Save(ctx, base+"_thumb.jpg", bytes.NewReader(thumb))
		if err != nil {
			return nil, model.NewStoreError("upload")
		}
	}

	s.logger.Info("upload stored",
		slog.String("name", name),
		slog.String("content_type", contentType),
		slog.Int("size", len(body)))

	return &UploadResult{
		Name:        name,
		URL:         url,
		ThumbURL:    thumbURL,
		ContentType: contentType,
		Size:        int64(len(body)),
	}, nil
}

// Delete removes a previously stored object by name, along with its
// thumbnail when one exists.
func (s *UploadService) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return model.NewStoreError("delete upload")
	}
	if ext := filepath.Ext(name); ext != "" && !strings.HasSuffix(name, "_thumb.jpg") {
		// best effort; the thumbnail may not exist for this object
		s.store.Delete(ctx, strings.TrimSuffix(name, ext)+"_thumb.jpg")
	}
	s.logger.Info("upload deleted", slog.String("name", name))
	return nil
}

// processImage decodes, resizes to the dimension ceiling and re-encodes as
// JPEG, producing the display image and its thumbnail. Images already within
// bounds are still re-encoded, which strips metadata along the way.
func (s *UploadService) processImage(data []byte) (full, thumb []byte, err error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, model.NewFileTypeError("corrupt image")
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDimension || bounds.Dy() > maxImageDimension {
		img = imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	}

	full, err = encodeJPEG(img, jpegQuality)
	if err != nil {
		return nil, nil, err
	}

	thumbImg := img
	if bounds := img.Bounds(); bounds.Dx() > thumbDimension || bounds.Dy() > thumbDimension {
		thumbImg = imaging.Fit(img, thumbDimension, thumbDimension, imaging.Lanczos)
	}
	thumb, err = encodeJPEG(thumbImg, jpegQuality)
	if err != nil {
		return nil, nil, err
	}
	return full, thumb, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
