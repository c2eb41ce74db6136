package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/skillshare/backend/internal/models"
)

// photoExtensions maps accepted upload content types to the extension the
// stored file gets. Anything else is rejected before touching disk.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PhotoService stores profile photos on local disk under
// uploadDir/<uid>/<photoID><ext>. Keying the path by owner means ownership
// checks read straight from the filesystem and survive restarts.
type PhotoService struct {
	uploadDir string
}

func NewPhotoService(uploadDir string) *PhotoService {
	// Create upload directory if it doesn't exist
	os.MkdirAll(uploadDir, 0755)

	return &PhotoService{uploadDir: uploadDir}
}

func (s *PhotoService) Upload(userID, contentType string, file io.Reader) (*models.PhotoUploadResponse, error) {
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, ErrInvalidPhotoType
	}

	photoID := uuid.New().String()
	filename := photoID + ext
	userDir := filepath.Join(s.uploadDir, userID)
	if err := os.MkdirAll(userDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(userDir, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &models.PhotoUploadResponse{
		ID:       photoID,
		URL:      "/uploads/" + userID + "/" + filename,
		Filename: filename,
	}, nil
}

func (s *PhotoService) Delete(userID, photoID string) error {
	// Rejecting non-uuid ids keeps path globbing free of client input.
	if _, err := uuid.Parse(photoID); err != nil {
		return ErrPhotoNotFound
	}

	own, _ := filepath.Glob(filepath.Join(s.uploadDir, userID, photoID+".*"))
	if len(own) > 0 {
		if err := os.Remove(own[0]); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	}

	others, _ := filepath.Glob(filepath.Join(s.uploadDir, "*", photoID+".*"))
	if len(others) > 0 {
		return ErrNotPhotoOwner
	}
	return ErrPhotoNotFound
}
