package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".txt":  true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// StorageService keeps uploaded job descriptions and CVs on disk, one
// subdirectory per document type. Stored paths are what screening requests
// reference later.
type StorageService interface {
	SaveFile(file *multipart.FileHeader, fileType string) (string, string, error)
	GetFilePath(fileType, filename string) string
	DeleteFile(fileType, filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

// EnsureUploadDir creates the upload root and the per-type subdirectories.
func (s *storageService) EnsureUploadDir() error {
	for _, dir := range []string{s.uploadPath, filepath.Join(s.uploadPath, "jd"), filepath.Join(s.uploadPath, "cv")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create upload directory %s: %w", dir, err)
		}
	}
	return nil
}

// SaveFile stores an uploaded document under its type directory. The stored
// name keeps a sanitized fragment of the original so files stay recognizable
// on disk, with a uuid to avoid collisions.
func (s *storageService) SaveFile(file *multipart.FileHeader, fileType string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExtensions[ext] {
		return "", "", fmt.Errorf("invalid file extension: %s", ext)
	}

	stem := sanitizeFilename(strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename)))
	uniqueFilename := fmt.Sprintf("%s_%s%s", stem, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, fileType, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(fileType, filename string) string {
	return filepath.Join(s.uploadPath, fileType, filename)
}

func (s *storageService) DeleteFile(fileType, filename string) error {
	if err := os.Remove(s.GetFilePath(fileType, filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// sanitizeFilename reduces an original filename stem to a short, safe slug.
func sanitizeFilename(stem string) string {
	stem = unsafeNameChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		return "document"
	}
	if len(stem) > 40 {
		stem = stem[:40]
	}
	return strings.ToLower(stem)
}
