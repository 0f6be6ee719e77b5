package services

import (
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxUploadSize caps supporting documents at 5MB.
const MaxUploadSize = 5 * 1024 * 1024

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
	".jpg":  true,
	".png":  true,
}

// FileUploadService validates and stores supporting documents under
// UPLOAD_PATH, one subfolder per claim.
type FileUploadService struct {
	basePath string
}

func NewFileUploadService() *FileUploadService {
	basePath := os.Getenv("UPLOAD_PATH")
	if basePath == "" {
		basePath = "./uploads"
	}
	return &FileUploadService{basePath: basePath}
}

// IsValidFile reports whether the upload passes the size and extension rules.
func (s *FileUploadService) IsValidFile(file *multipart.FileHeader) bool {
	if file == nil || file.Size == 0 {
		return false
	}
	return IsAllowedUpload(file.Filename, file.Size)
}

// IsAllowedUpload applies the upload rules to a bare name and size.
func IsAllowedUpload(filename string, size int64) bool {
	if size <= 0 || size > MaxUploadSize {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedUploadExtensions[ext]
}

// RemoveStored deletes previously stored files. Called when the database
// write that owns the uploads fails, so disk and database stay in step.
func (s *FileUploadService) RemoveStored(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("upload cleanup: failed to remove %s: %v", path, err)
		}
	}
}

// SaveFile stores the upload under a claim subfolder with a uuid-prefixed
// name and returns the stored path.
func (s *FileUploadService) SaveFile(c *gin.Context, file *multipart.FileHeader, subFolder string) (string, error) {
	folder := filepath.Join(s.basePath, subFolder)
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder %s: %w", folder, err)
	}

	storedName := uuid.NewString() + "_" + filepath.Base(file.Filename)
	fullPath := filepath.Join(folder, storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		return "", fmt.Errorf("failed to save upload %s: %w", file.Filename, err)
	}

	return fullPath, nil
}
