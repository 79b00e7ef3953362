package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/infrastructure"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/jitter"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"

	"github.com/google/uuid"
)

const (
	cleanupAttempts = 3
	cleanupBackoff  = time.Second
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure uploads product pictures and removes orphaned ones
// in the background.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup
	backoff     time.Duration
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		backoff:     cleanupBackoff,
	}
}

// UploadProductImage stores image as products/<id>/<uuid>.<ext> and returns the key.
func (m *MinioInfrastructure) UploadProductImage(ctx context.Context, productID int64, image usecase.ProductImage) (string, error) {
	const op = "MinioInfrastructure.UploadProductImage"

	if m.cfg.MaxImageSize > 0 && int64(len(image.Data)) > m.cfg.MaxImageSize {
		return "", e.Wrap(op, e.ErrFileTooLarge)
	}

	ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err))
	}

	imageID := uuid.NewString()
	key := domain.ProductImageKey(productID, imageID, ext)
	img := domain.NewImage(imageID, m.cfg.BucketName, key, image.Data, image.MimeType)

	stored, err := m.minioRepo.Upload(ctx, img)
	if err != nil {
		return "", e.Wrap(op, fmt.Errorf("upload %s failed: %w", image.Name, err))
	}

	return stored, nil
}

// CleanupImages removes keys in the background.
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys retries each delete with jittered exponential backoff.
// It gives up when the application shuts down.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d keys", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.minioRepo.Delete(ctx, key)
			if err == nil {
				break
			}

			if ctx.Err() != nil {
				m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%v", op, key)
				break
			}

			delay := jitter.ExponentialBackoff(m.backoff, 8*m.backoff, attempt, jitter.DefaultJitter)
			if jitter.Sleep(ctx, delay) != nil {
				m.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup blocks until background deletes finish or ctx ends.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
