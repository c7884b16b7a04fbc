package form

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dukkan-shop/dukkan-backend/pkg/logger"
)

// MaxAssetSize is the per-file ceiling for attached media (5 MiB)
const MaxAssetSize int64 = 5 * 1024 * 1024

var (
	ErrFileTooLarge        = errors.New("file exceeds the 5 MiB size limit")
	ErrTypeNotAllowed      = errors.New("file type is not allowed")
	ErrNoStagedAssets      = errors.New("no staged files to upload")
	ErrEmptyUploadResponse = errors.New("upload returned no usable media URLs")
)

// acceptedMedia maps allowed MIME types to their permitted extensions
var acceptedMedia = map[string][]string{
	"image/jpeg":      {".jpeg", ".jpg"},
	"image/png":       {".png"},
	"image/gif":       {".gif"},
	"video/mp4":       {".mp4"},
	"video/quicktime": {".mov"},
}

// StagedAsset is one attached, not-yet-uploaded media file. The preview
// lives as a temp file on disk until the asset is uploaded or removed.
type StagedAsset struct {
	ID          string
	FileName    string
	ContentType string
	Size        int64
	PreviewPath string
}

// Uploader transmits staged assets in one batch and returns the
// persisted URLs.
type Uploader interface {
	Upload(ctx context.Context, assets []*StagedAsset) ([]string, error)
}

// AttachResult reports the outcome for one file of an attach batch
type AttachResult struct {
	FileName string
	Asset    *StagedAsset
	Err      error
}

// MediaManager stages local media files for one form session and owns
// their preview resources until upload completes or the session ends.
type MediaManager struct {
	mu         sync.Mutex
	stagingDir string
	maxSize    int64
	staged     []*StagedAsset
}

// NewMediaManager creates a manager staging previews under dir. A zero
// maxSize falls back to the 5 MiB default.
func NewMediaManager(dir string, maxSize int64) *MediaManager {
	if dir == "" {
		dir = os.TempDir()
	}
	if maxSize <= 0 {
		maxSize = MaxAssetSize
	}
	return &MediaManager{stagingDir: dir, maxSize: maxSize}
}

// Attach stages one file. Files over the size ceiling or outside the
// accepted type set are rejected with a typed error; nothing is staged
// for a rejected file.
func (m *MediaManager) Attach(fileName, contentType string, size int64, r io.Reader) (*StagedAsset, error) {
	if size > m.maxSize {
		return nil, fmt.Errorf("%s: %w", fileName, ErrFileTooLarge)
	}
	if !typeAllowed(fileName, contentType) {
		return nil, fmt.Errorf("%s: %w", fileName, ErrTypeNotAllowed)
	}

	asset := &StagedAsset{
		ID:          uuid.New().String(),
		FileName:    fileName,
		ContentType: contentType,
	}

	preview, err := os.CreateTemp(m.stagingDir, "media-staged-*"+filepath.Ext(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to stage %s: %w", fileName, err)
	}

	// Enforce the ceiling on the actual bytes too, the declared size
	// header is client-controlled.
	written, err := io.Copy(preview, io.LimitReader(r, m.maxSize+1))
	closeErr := preview.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(preview.Name())
		return nil, fmt.Errorf("failed to stage %s: %w", fileName, err)
	}
	if written > m.maxSize {
		os.Remove(preview.Name())
		return nil, fmt.Errorf("%s: %w", fileName, ErrFileTooLarge)
	}

	asset.Size = written
	asset.PreviewPath = preview.Name()

	m.mu.Lock()
	m.staged = append(m.staged, asset)
	m.mu.Unlock()

	return asset, nil
}

// Remove detaches one asset by ID and releases its preview immediately
func (m *MediaManager) Remove(assetID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, asset := range m.staged {
		if asset.ID == assetID {
			releasePreview(asset)
			m.staged = append(m.staged[:i], m.staged[i+1:]...)
			return true
		}
	}
	return false
}

// Staged returns the current staged asset list in attach order
func (m *MediaManager) Staged() []*StagedAsset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*StagedAsset, len(m.staged))
	copy(out, m.staged)
	return out
}

// Upload transmits all staged assets in one batch. On success the staged
// set is cleared and every preview released; the returned URLs are the
// persisted references. A response with zero usable URLs is a failure.
// On any failure the staged set is preserved unchanged for retry.
func (m *MediaManager) Upload(ctx context.Context, uploader Uploader) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.staged) == 0 {
		return nil, ErrNoStagedAssets
	}

	urls, err := uploader.Upload(ctx, m.staged)
	if err != nil {
		return nil, err
	}

	usable := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			usable = append(usable, u)
		}
	}
	if len(usable) == 0 {
		return nil, ErrEmptyUploadResponse
	}

	for _, asset := range m.staged {
		releasePreview(asset)
	}
	m.staged = nil

	return usable, nil
}

// Close releases every remaining preview regardless of upload outcome
func (m *MediaManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, asset := range m.staged {
		releasePreview(asset)
	}
	m.staged = nil
}

func releasePreview(asset *StagedAsset) {
	if asset.PreviewPath == "" {
		return
	}
	if err := os.Remove(asset.PreviewPath); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to release staged media preview", map[string]interface{}{
			"file":  asset.FileName,
			"path":  asset.PreviewPath,
			"error": err.Error(),
		})
	}
	asset.PreviewPath = ""
}

func typeAllowed(fileName, contentType string) bool {
	exts, ok := acceptedMedia[strings.ToLower(contentType)]
	if !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range exts {
		if ext == allowed {
			return true
		}
	}
	return false
}
