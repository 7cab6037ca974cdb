package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-plan-api/internal/dto"
	"github.com/noah-isme/study-plan-api/internal/models"
	"github.com/noah-isme/study-plan-api/internal/scheduling"
	appErrors "github.com/noah-isme/study-plan-api/pkg/errors"
)

type availabilityRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Availability, error)
	Create(ctx context.Context, window *models.Availability) error
	Delete(ctx context.Context, studentID, id string) error
}

// AvailabilityService lets students manage their own weekly windows.
type AvailabilityService struct {
	access    *StudentAccess
	repo      availabilityRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(access *StudentAccess, repo availabilityRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{access: access, repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the caller's windows.
func (s *AvailabilityService) List(ctx context.Context, userID string) ([]models.Availability, error) {
	profile, err := s.access.ForStudentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	windows, err := s.repo.ListByStudent(ctx, profile.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability")
	}
	return nonNilWindows(windows), nil
}

// Create declares a window; IsAvailable defaults to true.
func (s *AvailabilityService) Create(ctx context.Context, userID string, req dto.CreateAvailabilityRequest) (*models.Availability, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if !scheduling.ValidTimeRange(req.StartTime, req.EndTime) {
		return nil, rejectionError(scheduling.Reject(scheduling.RejectInvalidTimeRange))
	}
	profile, err := s.access.ForStudentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	window := &models.Availability{
		StudentID:   profile.ID,
		DayOfWeek:   time.Weekday(*req.DayOfWeek),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: available,
	}
	if err := s.repo.Create(ctx, window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create availability")
	}
	_ = s.cache.InvalidateStudent(ctx, profile.ID)
	return window, nil
}

// Delete removes one of the caller's windows. Existing sessions are left untouched.
func (s *AvailabilityService) Delete(ctx context.Context, userID, id string) error {
	profile, err := s.access.ForStudentUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, profile.ID, id); err != nil {
		return lookupError(err, "availability not found", "failed to delete availability")
	}
	_ = s.cache.InvalidateStudent(ctx, profile.ID)
	return nil
}
