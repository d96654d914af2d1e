package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sadokz/lamaitrise/internal/model"
)

// mockObjectStore records saved objects in memory.
type mockObjectStore struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{saved: map[string][]byte{}}
}

func (m *mockObjectStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, _ := io.ReadAll(r)
	m.saved[name] = data
	return "/uploads/" + name, nil
}

func (m *mockObjectStore) Delete(_ context.Context, name string) error {
	m.deleted = append(m.deleted, name)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pngBytes encodes a solid square PNG of the given edge length.
func pngBytes(t *testing.T, edge int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, edge, edge))
	for x := 0; x < edge; x++ {
		for y := 0; y < edge; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestUploadReencodesPNGAsJPEG(t *testing.T) {
	store := newMockObjectStore()
	svc := NewUploadService(store, testLogger())

	data := pngBytes(t, 32)
	res, err := svc.Upload(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if !strings.HasSuffix(res.Name, ".jpg") {
		t.Errorf("name = %q, want .jpg suffix", res.Name)
	}
	if res.URL != "/uploads/"+res.Name {
		t.Errorf("url = %q does not match name %q", res.URL, res.Name)
	}
	stored, ok := store.saved[res.Name]
	if !ok {
		t.Fatal("object not written to store")
	}
	if _, _, err := image.Decode(bytes.NewReader(stored)); err != nil {
		t.Errorf("stored object is not a decodable image: %v", err)
	}

	if res.ThumbURL == "" {
		t.Error("ThumbURL is empty for a processed image")
	}
	if len(store.saved) != 2 {
		t.Errorf("stored %d objects, want image plus thumbnail", len(store.saved))
	}
}

func TestUploadResizesOversizedImages(t *testing.T) {
	store := newMockObjectStore()
	svc := NewUploadService(store, testLogger())

	data := pngBytes(t, maxImageDimension+400)
	res, err := svc.Upload(context.Background(), bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(store.saved[res.Name]))
	if err != nil {
		t.Fatalf("stored image undecodable: %v", err)
	}
	if img.Bounds().Dx() > maxImageDimension || img.Bounds().Dy() > maxImageDimension {
		t.Errorf("stored image bounds %v exceed the dimension ceiling", img.Bounds())
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := NewUploadService(newMockObjectStore(), testLogger())

	_, err := svc.Upload(context.Background(), strings.NewReader("%PDF-1.4 not media"), 20)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeFileType {
		t.Errorf("err = %v, want UNSUPPORTED_FILE_TYPE", err)
	}
}

func TestUploadRejectsOversizedDeclaredSize(t *testing.T) {
	svc := NewUploadService(newMockObjectStore(), testLogger())

	data := pngBytes(t, 16)
	_, err := svc.Upload(context.Background(), bytes.NewReader(data), maxImageBytes+1)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeFileTooLarge {
		t.Errorf("err = %v, want FILE_TOO_LARGE", err)
	}
}

func TestUploadRejectsWithoutStoreWriteOnValidationFailure(t *testing.T) {
	store := newMockObjectStore()
	svc := NewUploadService(store, testLogger())

	if _, err := svc.Upload(context.Background(), strings.NewReader("plain text"), 10); err == nil {
		t.Fatal("expected rejection")
	}
	if len(store.saved) != 0 {
		t.Errorf("validation failure still wrote %d objects", len(store.saved))
	}
}

func TestUploadSurfacesStoreFailure(t *testing.T) {
	store := newMockObjectStore()
	store.saveErr = errors.New("disk full")
	svc := NewUploadService(store, testLogger())

	data := pngBytes(t, 8)
	_, err := svc.Upload(context.Background(), bytes.NewReader(data), int64(len(data)))
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeStoreFailure {
		t.Errorf("err = %v, want STORE_FAILURE", err)
	}
}

func TestDeleteDelegatesToStore(t *testing.T) {
	store := newMockObjectStore()
	svc := NewUploadService(store, testLogger())

	if err := svc.Delete(context.Background(), "old.jpg"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(store.deleted) != 2 || store.deleted[0] != "old.jpg" || store.deleted[1] != "old_thumb.jpg" {
		t.Errorf("deleted = %v, want the object and its thumbnail", store.deleted)
	}
}
