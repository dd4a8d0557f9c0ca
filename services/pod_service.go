package services

import (
	"fmt"
	"mime/multipart"

	"github.com/acroscarlos/suite-erp-api/utils"
)

// PODService handles proof-of-delivery images attached to dispatched orders
type PODService interface {
	// UploadPOD validates and stores a proof-of-delivery image, returns the storage key
	UploadPOD(fileHeader *multipart.FileHeader) (string, error)

	// GetPODURL generates a URL for accessing a stored proof-of-delivery image
	GetPODURL(podKey string) (string, error)
}

// S3PODService implements PODService using AWS S3 for storage
type S3PODService struct {
	s3Service S3Interface
}

var podServiceInstance PODService

// InitPODService initializes the POD service with an S3 backend
func InitPODService(s3Service S3Interface) PODService {
	podServiceInstance = &S3PODService{s3Service: s3Service}
	return podServiceInstance
}

// GetPODService returns the initialized POD service instance
func GetPODService() PODService {
	return podServiceInstance
}

// SetPODService sets the POD service instance (primarily for testing)
func SetPODService(service PODService) {
	podServiceInstance = service
}

// UploadPOD validates and uploads a proof-of-delivery image
func (s *S3PODService) UploadPOD(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidatePODImage(fileHeader); err != nil {
		return "", err
	}

	key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload proof of delivery: %w", err)
	}

	return key, nil
}

// GetPODURL generates a presigned URL for a stored proof-of-delivery image
func (s *S3PODService) GetPODURL(podKey string) (string, error) {
	if podKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(podKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate proof-of-delivery URL: %w", err)
	}

	return url, nil
}
