package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/core/ports"
)

type UploadResumeUseCase struct {
	repo    ports.ResumeRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewUploadResumeUseCase(
	repo ports.ResumeRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *UploadResumeUseCase {
	return &UploadResumeUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *UploadResumeUseCase) Upload(
	ctx context.Context,
	ownerID, filename, mimeType string,
	size int64,
	body io.Reader,
) (*domain.Resume, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload resume", fmt.Errorf("owner id is required"))
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save resume file: %w", err)
	}

	resume := &domain.Resume{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    filename,
		StoragePath: storageKey,
		FileSize:    size,
		MimeType:    mimeType,
		Status:      domain.ResumeStatusUploaded,
		UploadedAt:  time.Now().UTC(),
	}

	if err := uc.repo.Create(ctx, resume); err != nil {
		return nil, fmt.Errorf("create resume record: %w", err)
	}

	if err := uc.queue.PublishResumeUploaded(ctx, resume.ID); err != nil {
		return nil, fmt.Errorf("publish parse event: %w", err)
	}

	return resume, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "resume.bin"
	}
	return base
}
