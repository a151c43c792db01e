package services

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/access"
	"github.com/complytrack/compliance-tracker-api/internal/constants"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/observability/metrics"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"github.com/complytrack/compliance-tracker-api/internal/storage"
	"github.com/complytrack/compliance-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileNotFound = errors.New("file not found")
)

// FileService manages task attachments. Payloads are kept both in the
// database and as a copy on disk.
type FileService struct {
	tasks *TaskService
	files repository.TaskFileRepository
	store storage.FileStore
	log   *slog.Logger
	now   func() time.Time
}

// NewFileService creates a new FileService
func NewFileService(tasks *TaskService, files repository.TaskFileRepository, store storage.FileStore, log *slog.Logger) *FileService {
	return &FileService{
		tasks: tasks,
		files: files,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// UploadInput is a fully buffered upload
type UploadInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Upload attaches a file to a task the caller can access. Empty payloads are
// rejected before anything is written.
func (s *FileService) Upload(scope access.Scope, taskID uint64, input UploadInput) (*models.TaskFile, error) {
	if len(input.Data) == 0 {
		return nil, ErrEmptyFile
	}

	task, err := s.tasks.accessibleTask(scope, taskID)
	if err != nil {
		return nil, err
	}

	uploader, err := s.tasks.users.FindByID(scope.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find uploader: %w", err)
	}

	original := utils.SanitizeFileName(input.FileName)
	storedName := utils.UniqueFileName(original)

	path, err := s.store.Save(storedName, input.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	contentType := strings.TrimSpace(input.ContentType)
	if contentType == "" {
		contentType = ContentTypeFor(original)
	}

	file := &models.TaskFile{
		TaskID:           task.ID,
		FileName:         original,
		FilePath:         path,
		ContentType:      contentType,
		FileSize:         int64(len(input.Data)),
		FileData:         input.Data,
		UploadedByUserID: scope.UserID,
		UploadedAt:       s.now().UTC(),
		UploadedByUser:   *uploader,
	}

	if err := s.files.Create(file); err != nil {
		if rmErr := s.store.Remove(path); rmErr != nil {
			s.log.Warn("failed to clean up stored file", slog.String("path", path), slog.String("error", rmErr.Error()))
		}
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	metrics.ObserveFileUpload(file.FileSize)
	return file, nil
}

// Fetch returns a file with its payload, looked up by the (task, file) pair.
// A nil scope skips the visibility check.
func (s *FileService) Fetch(scope *access.Scope, taskID, fileID uint64) (*models.TaskFile, error) {
	if scope != nil {
		if _, err := s.tasks.accessibleTask(*scope, taskID); err != nil {
			if errors.Is(err, ErrTaskNotFound) {
				return nil, ErrFileNotFound
			}
			return nil, err
		}
	}

	file, err := s.files.FindForTask(taskID, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}

	file.ContentType = ContentTypeFor(file.FileName)
	return file, nil
}

// Delete removes the file row and, best effort, its copy on disk.
func (s *FileService) Delete(fileID uint64) error {
	file, err := s.files.FindByID(fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to find file: %w", err)
	}

	if err := s.files.Delete(file.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.store.Remove(file.FilePath); err != nil {
		s.log.Warn("failed to remove attachment from disk",
			slog.Uint64("file_id", file.ID),
			slog.String("path", file.FilePath),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// ContentTypeFor resolves a MIME type from the file extension.
func ContentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return constants.DefaultContentType
}
