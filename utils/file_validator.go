package utils

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

type FileValidator struct {
	allowedExt map[string]bool
	mimePrefix string
	maxSize    int64
}

// NewImageValidator accepts common image files up to maxSize bytes.
func NewImageValidator(maxSize int64) *FileValidator {
	return &FileValidator{
		allowedExt: map[string]bool{
			".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
		},
		mimePrefix: "image/",
		maxSize:    maxSize,
	}
}

func (v *FileValidator) MaxSize() int64 {
	return v.maxSize
}

// ValidateFile checks size, extension and sniffed content type and returns
// the detected MIME type.
func (v *FileValidator) ValidateFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > v.maxSize {
		return "", fmt.Errorf("Please upload an image less than %d bytes", v.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !v.allowedExt[ext] {
		return "", fmt.Errorf("Please upload an image file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && n == 0 {
		return "", fmt.Errorf("failed to read file header")
	}

	detectedMime := strings.ToLower(http.DetectContentType(buffer[:n]))
	if !strings.HasPrefix(detectedMime, v.mimePrefix) {
		return "", fmt.Errorf("Please upload an image file")
	}

	return detectedMime, nil
}
