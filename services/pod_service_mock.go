package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/acroscarlos/suite-erp-api/utils"
)

// MockPODService is a mock implementation of PODService for testing
type MockPODService struct {
	uploads map[string][]byte // map of storage key to file content
	mu      sync.RWMutex
}

// NewMockPODService creates a new mock POD service
func NewMockPODService() *MockPODService {
	return &MockPODService{
		uploads: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global POD service instance for testing
func (m *MockPODService) SetAsMockForTesting() {
	SetPODService(m)
}

// UploadPOD simulates uploading a proof-of-delivery image
func (m *MockPODService) UploadPOD(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidatePODImage(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("pod/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.uploads[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetPODURL simulates generating a URL for a stored image
func (m *MockPODService) GetPODURL(podKey string) (string, error) {
	if podKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.uploads[podKey]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("proof of delivery not found in mock storage: %s", podKey)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", podKey), nil
}

// PODExists checks if an image exists in mock storage
func (m *MockPODService) PODExists(podKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploads[podKey]
	return exists
}

// Clear removes all images from mock storage
func (m *MockPODService) Clear() {
	m.mu.Lock()
	m.uploads = make(map[string][]byte)
	m.mu.Unlock()
}
