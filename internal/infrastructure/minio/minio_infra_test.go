package minio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	"github.com/Rafa-lopez12/examen-arqui/internal/domain"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImages struct {
	mu        sync.Mutex
	uploaded  []*domain.Image
	deleted   []string
	failFirst int
	calls     int
}

func (s *stubImages) Upload(_ context.Context, img *domain.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = append(s.uploaded, img)
	return img.ObjectKey, nil
}

func (s *stubImages) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failFirst {
		return errors.New("minio unavailable")
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func newInfra(repo usecase.ImageRepository, maxSize int64) *MinioInfrastructure {
	log := logger.NewWithHandler(slog.NewTextHandler(io.Discard, nil))
	m := NewMinioInfrastructure(repo, &cfg.MinIOCfg{BucketName: "products", MaxImageSize: maxSize}, log, context.Background())
	m.backoff = time.Millisecond
	return m
}

func TestUploadProductImage(t *testing.T) {
	repo := &stubImages{}
	m := newInfra(repo, 1024)

	key, err := m.UploadProductImage(context.Background(), 7, *usecase.NewProductImage([]byte("png"), "image/png", 3, "split.png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "products/7/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	require.Len(t, repo.uploaded, 1)
	assert.Equal(t, "products", repo.uploaded[0].Bucket)
	assert.Equal(t, "image/png", repo.uploaded[0].ContentType)
	assert.Equal(t, int64(3), repo.uploaded[0].Size)
}

func TestUploadProductImage_Rejects(t *testing.T) {
	repo := &stubImages{}
	m := newInfra(repo, 4)

	_, err := m.UploadProductImage(context.Background(), 1, *usecase.NewProductImage([]byte("too large"), "image/png", 9, "a.png"))
	assert.ErrorIs(t, err, e.ErrFileTooLarge)

	_, err = m.UploadProductImage(context.Background(), 1, *usecase.NewProductImage([]byte("gif"), "image/gif", 3, "a.gif"))
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)

	assert.Empty(t, repo.uploaded)
}

func TestCleanupImages_RetriesUntilDeleted(t *testing.T) {
	repo := &stubImages{failFirst: 2}
	m := newInfra(repo, 0)

	m.CleanupImages([]string{"products/1/a.png"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.WaitForCleanup(ctx))

	assert.Equal(t, []string{"products/1/a.png"}, repo.deleted)
	assert.Equal(t, 3, repo.calls)
}

func TestCleanupImages_Empty(t *testing.T) {
	m := newInfra(&stubImages{}, 0)
	m.CleanupImages(nil)
	require.NoError(t, m.WaitForCleanup(context.Background()))
}
