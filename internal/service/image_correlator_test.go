package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

type stubStorage struct {
	mu      sync.Mutex
	uploads []string
	failOn  string
}

func (s *stubStorage) Upload(_ context.Context, _, objectName, _ string, reader io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(reader); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && strings.Contains(objectName, s.failOn) {
		return "", errors.New("storage unavailable")
	}
	s.uploads = append(s.uploads, objectName)
	return objectName, nil
}

func (s *stubStorage) PublicURL(bucket, objectName string) string {
	return "https://cdn.test/" + bucket + "/" + objectName
}

func buildArchive(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		if strings.HasSuffix(name, "/") {
			if _, err := w.Create(name); err != nil {
				t.Fatalf("create dir entry: %v", err)
			}
			continue
		}
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := entry.Write([]byte("image-bytes")); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func TestCorrelateAndUploadGroupsByCode(t *testing.T) {
	storage := &stubStorage{}
	correlator := NewImageCorrelator(storage, nil, "suppliers", 1, 0)

	archive := buildArchive(t, "F001-frente.jpg", "F001-verso.png", "F002.jpeg")
	imageMap, stats, err := correlator.CorrelateAndUpload(context.Background(), archive)
	if err != nil {
		t.Fatalf("CorrelateAndUpload returned error: %v", err)
	}
	if stats.Uploaded != 3 || stats.Failed != 0 || stats.Skipped != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(imageMap["F001"]) != 2 {
		t.Fatalf("expected 2 images for F001, got %v", imageMap["F001"])
	}
	if len(imageMap["F002"]) != 1 {
		t.Fatalf("expected 1 image for F002, got %v", imageMap["F002"])
	}
	for _, url := range imageMap["F001"] {
		if !strings.HasPrefix(url, "https://cdn.test/suppliers/suppliers/F001/") {
			t.Fatalf("unexpected public url %q", url)
		}
	}
}

func TestCorrelateAndUploadCaseSensitiveCodes(t *testing.T) {
	storage := &stubStorage{}
	correlator := NewImageCorrelator(storage, nil, "suppliers", 1, 0)

	archive := buildArchive(t, "F001-a.jpg", "f001-b.jpg")
	imageMap, _, err := correlator.CorrelateAndUpload(context.Background(), archive)
	if err != nil {
		t.Fatalf("CorrelateAndUpload returned error: %v", err)
	}
	if len(imageMap["F001"]) != 1 || len(imageMap["f001"]) != 1 {
		t.Fatalf("expected F001 and f001 to stay distinct, got %v", imageMap)
	}
}

func TestCorrelateAndUploadSkipsNonImages(t *testing.T) {
	storage := &stubStorage{}
	correlator := NewImageCorrelator(storage, nil, "suppliers", 1, 0)

	archive := buildArchive(t, "pasta/", "F001-a.jpg", "leia-me.txt", "F002-b.pdf")
	imageMap, stats, err := correlator.CorrelateAndUpload(context.Background(), archive)
	if err != nil {
		t.Fatalf("CorrelateAndUpload returned error: %v", err)
	}
	if stats.Uploaded != 1 || stats.Skipped != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(imageMap) != 1 {
		t.Fatalf("expected only image entries correlated, got %v", imageMap)
	}
}

func TestCorrelateAndUploadFailureDoesNotAbort(t *testing.T) {
	storage := &stubStorage{failOn: "F002"}
	correlator := NewImageCorrelator(storage, nil, "suppliers", 1, 0)

	archive := buildArchive(t, "F001-a.jpg", "F002-b.jpg", "F003-c.jpg")
	imageMap, stats, err := correlator.CorrelateAndUpload(context.Background(), archive)
	if err != nil {
		t.Fatalf("expected per-file failure to be absorbed, got %v", err)
	}
	if stats.Uploaded != 2 || stats.Failed != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if _, ok := imageMap["F002"]; ok {
		t.Fatalf("expected failed upload to be excluded from the map")
	}
	if len(imageMap["F001"]) != 1 || len(imageMap["F003"]) != 1 {
		t.Fatalf("expected siblings to survive, got %v", imageMap)
	}
}

func TestCorrelateAndUploadEmptyArchive(t *testing.T) {
	correlator := NewImageCorrelator(&stubStorage{}, nil, "suppliers", 1, 0)
	imageMap, stats, err := correlator.CorrelateAndUpload(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected nil archive to be a no-op, got %v", err)
	}
	if len(imageMap) != 0 || stats.Uploaded != 0 {
		t.Fatalf("expected empty result, got %v %+v", imageMap, stats)
	}
}

func TestCorrelateAndUploadUnreadableArchive(t *testing.T) {
	correlator := NewImageCorrelator(&stubStorage{}, nil, "suppliers", 1, 0)
	_, _, err := correlator.CorrelateAndUpload(context.Background(), []byte("not a zip"))
	if !errors.Is(err, ErrArchiveUnreadable) {
		t.Fatalf("expected ErrArchiveUnreadable, got %v", err)
	}
}

func TestDeriveSupplierCode(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"F001-frente.jpg", "F001"},
		{"F001.jpg", "F001"},
		{"F001-a-b.jpg", "F001"},
		{"semextensao", ""},
	}
	for _, tc := range cases {
		if got := deriveSupplierCode(tc.filename); got != tc.want {
			t.Fatalf("deriveSupplierCode(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
