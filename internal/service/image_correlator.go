package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/media"
	"github.com/fornecelist/backend/internal/repository/ports"
)

var ErrArchiveUnreadable = errors.New("image archive could not be opened")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// CorrelationStats summarizes what the correlator did with an archive so a
// partially uploaded image set is distinguishable from "no images referenced".
type CorrelationStats struct {
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// ImageCorrelator matches image files inside a ZIP archive to supplier codes
// by filename convention and uploads them to object storage. When a media
// processor is configured, oversized images are re-encoded before upload.
type ImageCorrelator struct {
	storage   ports.ObjectStorage
	processor media.Processor
	bucket    string
	workers   int
	maxDim    int
}

func NewImageCorrelator(storage ports.ObjectStorage, processor media.Processor, bucket string, workers, maxDim int) *ImageCorrelator {
	if workers <= 0 {
		workers = 4
	}
	return &ImageCorrelator{storage: storage, processor: processor, bucket: bucket, workers: workers, maxDim: maxDim}
}

// CorrelateAndUpload walks every archive entry, derives the supplier code
// from the filename (text before the first hyphen, or before the first dot
// when no hyphen exists; codes are case-sensitive), and uploads each image
// under a unique object name. Uploads run concurrently; one file failing is
// logged and counted but never aborts the rest. The returned map carries only
// successful uploads, ordered by archive position per code.
func (c *ImageCorrelator) CorrelateAndUpload(ctx context.Context, archive []byte) (domain.ImageMap, CorrelationStats, error) {
	stats := CorrelationStats{}
	if len(archive) == 0 {
		return domain.ImageMap{}, stats, nil
	}

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, stats, fmt.Errorf("%w: %s", ErrArchiveUnreadable, err.Error())
	}

	type uploaded struct {
		code  string
		index int
		url   string
	}

	var (
		mu      sync.Mutex
		results []uploaded
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(c.workers)

	for index, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := path.Base(file.Name)
		ext := strings.ToLower(path.Ext(name))
		if _, ok := imageExtensions[ext]; !ok {
			stats.Skipped++
			continue
		}
		code := deriveSupplierCode(name)
		if code == "" {
			stats.Skipped++
			continue
		}

		index, file, name, ext, code := index, file, name, ext, code
		group.Go(func() error {
			url, err := c.uploadEntry(groupCtx, file, code, ext)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				log.Printf("import: image upload failed for %s: %v", name, err)
				return nil
			}
			stats.Uploaded++
			results = append(results, uploaded{code: code, index: index, url: url})
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, stats, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	imageMap := domain.ImageMap{}
	for _, r := range results {
		imageMap[r.code] = append(imageMap[r.code], r.url)
	}
	return imageMap, stats, nil
}

func (c *ImageCorrelator) uploadEntry(ctx context.Context, file *zip.File, code, ext string) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if c.processor != nil {
		result, err := c.processor.Process(ctx, media.Upload{
			Reader:      bytes.NewReader(data),
			Size:        int64(len(data)),
			FileName:    file.Name,
			ContentType: contentType,
		}, c.maxDim)
		if err != nil {
			return "", err
		}
		data = result.Bytes
		contentType = result.ContentType
	}

	objectName := fmt.Sprintf("suppliers/%s/%s%s", code, uuid.NewString(), ext)
	key, err := c.storage.Upload(ctx, c.bucket, objectName, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	return c.storage.PublicURL(c.bucket, key), nil
}

// deriveSupplierCode extracts the correlation key from an image filename:
// everything before the first hyphen, or before the first dot when the name
// has no hyphen. Matching is case-sensitive.
func deriveSupplierCode(filename string) string {
	if idx := strings.Index(filename, "-"); idx >= 0 {
		return strings.TrimSpace(filename[:idx])
	}
	if idx := strings.Index(filename, "."); idx >= 0 {
		return strings.TrimSpace(filename[:idx])
	}
	return ""
}
