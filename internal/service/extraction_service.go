package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"gridbill/internal/config"
	"gridbill/internal/domain"
	"gridbill/internal/port"
)

// UploadInput is the DTO for document upload requests.
type UploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// ExtractionService manages the document upload and extraction lifecycle.
// Upload stores the source document and enqueues a pending extraction; the
// queue worker picks it up from there.
type ExtractionService interface {
	Upload(ctx context.Context, input UploadInput) (*domain.ExtractionRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error)
	List(ctx context.Context, filter port.ExtractionListFilter) ([]domain.ExtractionRecord, error)
	GetDocumentURL(ctx context.Context, extractionID uuid.UUID) (string, error)
}

type extractionService struct {
	fileRepo       port.FileMetaRepository
	extractionRepo port.ExtractionRepository
	storage        port.ObjectStorage
	cfg            *config.S3Config
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	fileRepo port.FileMetaRepository,
	extractionRepo port.ExtractionRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) ExtractionService {
	return &extractionService{
		fileRepo:       fileRepo,
		extractionRepo: extractionRepo,
		storage:        storage,
		cfg:            cfg,
	}
}

func (s *extractionService) Upload(ctx context.Context, input UploadInput) (*domain.ExtractionRecord, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	raw, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	// Magic-byte detection guards against mislabeled uploads
	detectedType := http.DetectContentType(raw[:min(len(raw), 512)])
	if _, valid := domain.AllowedContentTypes[detectedType]; !valid {
		return nil, domain.ErrUnsupportedFileType
	}

	sum := sha256.Sum256(raw)
	sha := hex.EncodeToString(sum[:])
	contentType := domain.AllowedFileTypes[fileType]

	// Re-uploads of a known document reuse the stored object so drift
	// baselines keyed by hash stay attached.
	meta, err := s.fileRepo.GetBySHA256(ctx, sha)
	if err == domain.ErrNotFound {
		fileID := uuid.New()
		meta = &domain.FileMeta{
			ID:          fileID,
			FileName:    input.Header.Filename,
			FileType:    fileType,
			ContentType: contentType,
			SizeBytes:   int64(len(raw)),
			SHA256:      sha,
			StorageKey:  fmt.Sprintf("documents/%s/%s", fileID, input.Header.Filename),
		}
		if err := s.fileRepo.Create(ctx, meta); err != nil {
			return nil, fmt.Errorf("creating file metadata: %w", err)
		}
		_, err = s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.Bucket,
			Key:         meta.StorageKey,
			Body:        bytes.NewReader(raw),
			ContentType: contentType,
			Size:        int64(len(raw)),
			Metadata:    map[string]string{"sha256": sha},
		})
		if err != nil {
			log.Printf("extractionService.Upload: storage upload failed for file %s: %v", meta.ID, err)
			_ = s.fileRepo.Delete(ctx, meta.ID)
			return nil, domain.ErrUploadFailed
		}
	} else if err != nil {
		return nil, fmt.Errorf("looking up file by hash: %w", err)
	}

	rec := &domain.ExtractionRecord{
		ID:     uuid.New(),
		FileID: meta.ID,
		Status: domain.ExtractionStatusPending,
	}
	if err := s.extractionRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating extraction record: %w", err)
	}

	log.Printf("extractionService.Upload: queued extraction %s for %s (%s, %d bytes)",
		rec.ID, input.Header.Filename, contentType, len(raw))

	return rec, nil
}

func (s *extractionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractionRecord, error) {
	return s.extractionRepo.GetByID(ctx, id)
}

func (s *extractionService) List(ctx context.Context, filter port.ExtractionListFilter) ([]domain.ExtractionRecord, error) {
	return s.extractionRepo.List(ctx, filter)
}

func (s *extractionService) GetDocumentURL(ctx context.Context, extractionID uuid.UUID) (string, error) {
	rec, err := s.extractionRepo.GetByID(ctx, extractionID)
	if err != nil {
		return "", err
	}
	meta, err := s.fileRepo.GetByID(ctx, rec.FileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, s.cfg.Bucket, meta.StorageKey, meta.FileName, s.cfg.PresignExpiry)
}
