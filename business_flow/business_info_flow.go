// Package businessflow contains the core business logic and use cases for account and website workflows
package businessflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/medify/medify-backend/app/dto"
	"github.com/medify/medify-backend/models"
	"github.com/medify/medify-backend/repository"
	"github.com/medify/medify-backend/utils"
	"gorm.io/gorm"
)

// BusinessInfoFlow handles the business profile attached to a website setup.
// Every operation resolves the setup through the caller's account so another
// account's records are indistinguishable from absent ones.
type BusinessInfoFlow interface {
	GetOrCreateBusinessInfo(ctx context.Context, accountID uint) (*dto.BusinessInfoDTO, error)
	CreateBusinessInfo(ctx context.Context, accountID uint, req *dto.CreateBusinessInfoRequest) (*dto.BusinessInfoDTO, error)
	UpdateBusinessInfo(ctx context.Context, accountID uint, req *dto.UpdateBusinessInfoRequest) (*dto.BusinessInfoDTO, error)
	Publish(ctx context.Context, accountID uint) (*dto.BusinessInfoDTO, error)
}

// errInfoCreateRace marks a lazy create that lost the website_setup_id race
// inside a transaction. Postgres aborts the transaction on the failed insert,
// so the retry happens at the operation level where the winner's row is found.
var errInfoCreateRace = errors.New("business info create lost a concurrent race")

// BusinessInfoFlowImpl implements the business info flow
type BusinessInfoFlowImpl struct {
	setupRepo repository.WebsiteSetupRepository
	infoRepo  repository.BusinessInfoRepository
	db        *gorm.DB
}

// NewBusinessInfoFlow creates a new business info flow instance
func NewBusinessInfoFlow(
	setupRepo repository.WebsiteSetupRepository,
	infoRepo repository.BusinessInfoRepository,
	db *gorm.DB,
) BusinessInfoFlow {
	return &BusinessInfoFlowImpl{
		setupRepo: setupRepo,
		infoRepo:  infoRepo,
		db:        db,
	}
}

// GetOrCreateBusinessInfo returns the profile attached to the caller's setup,
// lazily creating an empty draft on first access. The unique index on
// website_setup_id guards concurrent creates the same way the setup registry
// does.
func (bf *BusinessInfoFlowImpl) GetOrCreateBusinessInfo(ctx context.Context, accountID uint) (*dto.BusinessInfoDTO, error) {
	setup, err := bf.resolveSetup(ctx, accountID)
	if err != nil {
		return nil, err
	}

	info, err := bf.infoRepo.ByWebsiteSetupID(ctx, setup.ID)
	if err != nil {
		return nil, NewBusinessError("BUSINESS_INFO_LOOKUP_FAILED", "Failed to load business info", err)
	}

	if info == nil {
		// Defaults: empty strings, empty working-hours map, draft state
		info = &models.BusinessInfo{
			UUID:           uuid.New(),
			WebsiteSetupID: setup.ID,
			WorkingHours:   models.WorkingHoursMap{},
		}

		if err := bf.infoRepo.Save(ctx, info); err != nil {
			if !repository.IsUniqueViolation(err) {
				return nil, NewBusinessError("BUSINESS_INFO_CREATE_FAILED", "Failed to create business info", err)
			}

			// Lost the race; the winner's row is authoritative
			info, err = bf.infoRepo.ByWebsiteSetupID(ctx, setup.ID)
			if err != nil {
				return nil, NewBusinessError("BUSINESS_INFO_LOOKUP_FAILED", "Failed to load business info", err)
			}
			if info == nil {
				return nil, NewBusinessError("BUSINESS_INFO_LOOKUP_FAILED", "Failed to load business info", ErrBusinessInfoNotFound)
			}
		}
	}

	result := ToBusinessInfoDTO(*info)
	return &result, nil
}

// CreateBusinessInfo is the single-shot explicit creation path. Unlike the
// lazy get-or-create used for reads, a second create for the same setup fails
// and the caller is directed to the update operation.
func (bf *BusinessInfoFlowImpl) CreateBusinessInfo(ctx context.Context, accountID uint, req *dto.CreateBusinessInfoRequest) (*dto.BusinessInfoDTO, error) {
	if err := validateBusinessInfoFields(req.Latitude, req.Longitude, req.WorkingHours); err != nil {
		return nil, NewBusinessError("BUSINESS_INFO_VALIDATION_FAILED", "Business info validation failed", err)
	}

	setup, err := bf.resolveSetup(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var info *models.BusinessInfo

	err = repository.WithTransaction(ctx, bf.db, func(txCtx context.Context) error {
		existing, err := bf.infoRepo.ByWebsiteSetupID(txCtx, setup.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrBusinessInfoAlreadyExists
		}

		info = &models.BusinessInfo{
			UUID:           uuid.New(),
			WebsiteSetupID: setup.ID,
			Name:           req.Name,
			About:          req.About,
			Address:        req.Address,
			Latitude:       req.Latitude,
			Longitude:      req.Longitude,
			ContactPhone:   req.ContactPhone,
			ContactEmail:   req.ContactEmail,
			Website:        req.Website,
			WorkingHours:   ToWorkingHoursModel(req.WorkingHours),
		}

		return bf.infoRepo.Save(txCtx, info)
	})

	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, NewBusinessError("BUSINESS_INFO_EXISTS", "Business info already exists", ErrBusinessInfoAlreadyExists)
		}
		return nil, NewBusinessError("BUSINESS_INFO_CREATE_FAILED", "Failed to create business info", err)
	}

	result := ToBusinessInfoDTO(*info)
	return &result, nil
}

// UpdateBusinessInfo applies a partial update; unspecified fields keep their
// prior values. When no record exists yet the update targets a lazily created
// draft.
func (bf *BusinessInfoFlowImpl) UpdateBusinessInfo(ctx context.Context, accountID uint, req *dto.UpdateBusinessInfoRequest) (*dto.BusinessInfoDTO, error) {
	if err := validateBusinessInfoFields(req.Latitude, req.Longitude, req.WorkingHours); err != nil {
		return nil, NewBusinessError("BUSINESS_INFO_VALIDATION_FAILED", "Business info validation failed", err)
	}

	setup, err := bf.resolveSetup(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var info *models.BusinessInfo

	for attempt := 0; attempt < 2; attempt++ {
		err = repository.WithTransaction(ctx, bf.db, func(txCtx context.Context) error {
			var err error
			info, err = bf.infoRepo.ByWebsiteSetupID(txCtx, setup.ID)
			if err != nil {
				return err
			}
			if info == nil {
				info = &models.BusinessInfo{
					UUID:           uuid.New(),
					WebsiteSetupID: setup.ID,
					WorkingHours:   models.WorkingHoursMap{},
				}
				if err := bf.infoRepo.Save(txCtx, info); err != nil {
					if repository.IsUniqueViolation(err) {
						return errInfoCreateRace
					}
					return err
				}
			}

			applyBusinessInfoPatch(info, req)
			info.UpdatedAt = utils.UTCNow()

			return bf.infoRepo.Update(txCtx, info)
		})
		if !errors.Is(err, errInfoCreateRace) {
			break
		}
	}

	if err != nil {
		return nil, NewBusinessError("BUSINESS_INFO_UPDATE_FAILED", "Failed to update business info", err)
	}

	result := ToBusinessInfoDTO(*info)
	return &result, nil
}

// Publish flips the profile to published. There is no completeness
// precondition and republishing an already-published record succeeds
// unchanged.
func (bf *BusinessInfoFlowImpl) Publish(ctx context.Context, accountID uint) (*dto.BusinessInfoDTO, error) {
	setup, err := bf.resolveSetup(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var info *models.BusinessInfo

	for attempt := 0; attempt < 2; attempt++ {
		err = repository.WithTransaction(ctx, bf.db, func(txCtx context.Context) error {
			var err error
			info, err = bf.infoRepo.ByWebsiteSetupID(txCtx, setup.ID)
			if err != nil {
				return err
			}
			if info == nil {
				// Publishing a never-touched profile publishes the empty draft
				info = &models.BusinessInfo{
					UUID:           uuid.New(),
					WebsiteSetupID: setup.ID,
					WorkingHours:   models.WorkingHoursMap{},
				}
				if err := bf.infoRepo.Save(txCtx, info); err != nil {
					if repository.IsUniqueViolation(err) {
						return errInfoCreateRace
					}
					return err
				}
			}

			if info.IsPublished {
				return nil
			}

			if err := bf.infoRepo.SetPublished(txCtx, info.ID, true); err != nil {
				return err
			}
			info.IsPublished = true

			return nil
		})
		if !errors.Is(err, errInfoCreateRace) {
			break
		}
	}

	if err != nil {
		return nil, NewBusinessError("BUSINESS_INFO_PUBLISH_FAILED", "Failed to publish business info", err)
	}

	result := ToBusinessInfoDTO(*info)
	return &result, nil
}

// Private helper methods

// resolveSetup loads the caller's setup, creating it lazily so business info
// operations work for accounts that never touched the setup endpoint
func (bf *BusinessInfoFlowImpl) resolveSetup(ctx context.Context, accountID uint) (*models.WebsiteSetup, error) {
	setup, err := bf.setupRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("SETUP_LOOKUP_FAILED", "Failed to load website setup", err)
	}

	if setup == nil {
		setup = &models.WebsiteSetup{
			UUID:      uuid.New(),
			AccountID: accountID,
		}

		if err := bf.setupRepo.Save(ctx, setup); err != nil {
			if !repository.IsUniqueViolation(err) {
				return nil, NewBusinessError("SETUP_CREATE_FAILED", "Failed to create website setup", err)
			}

			setup, err = bf.setupRepo.ByAccountID(ctx, accountID)
			if err != nil {
				return nil, NewBusinessError("SETUP_LOOKUP_FAILED", "Failed to load website setup", err)
			}
			if setup == nil {
				return nil, NewBusinessError("SETUP_LOOKUP_FAILED", "Failed to load website setup", ErrSetupNotFound)
			}
		}
	}

	return setup, nil
}

// validateBusinessInfoFields enforces the storage-independent rules the HTTP
// layer also checks, so callers that reach a flow directly get the same
// coordinate-range and working-hours guarantees.
func validateBusinessInfoFields(latitude, longitude *float64, hours map[string]dto.DayScheduleDTO) error {
	if latitude != nil && (*latitude < -90 || *latitude > 90) {
		return ErrInvalidCoordinates
	}
	if longitude != nil && (*longitude < -180 || *longitude > 180) {
		return ErrInvalidCoordinates
	}

	for day, schedule := range hours {
		if !validWeekday(day) {
			return ErrInvalidWorkingHours
		}
		if !validTimeOfDay(schedule.Open) || !validTimeOfDay(schedule.Close) {
			return ErrInvalidWorkingHours
		}
	}

	return nil
}

func validWeekday(day string) bool {
	switch day {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	}
	return false
}

// validTimeOfDay accepts an empty value (field not set for the day) or a
// 24-hour HH:MM string
func validTimeOfDay(value string) bool {
	if value == "" {
		return true
	}
	if len(value) != 5 || value[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	hour := int(value[0]-'0')*10 + int(value[1]-'0')
	minute := int(value[3]-'0')*10 + int(value[4]-'0')
	return hour <= 23 && minute <= 59
}

func applyBusinessInfoPatch(info *models.BusinessInfo, req *dto.UpdateBusinessInfoRequest) {
	if req.Name != nil {
		info.Name = *req.Name
	}
	if req.About != nil {
		info.About = *req.About
	}
	if req.Address != nil {
		info.Address = *req.Address
	}
	if req.Latitude != nil {
		info.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		info.Longitude = req.Longitude
	}
	if req.ContactPhone != nil {
		info.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		info.ContactEmail = *req.ContactEmail
	}
	if req.Website != nil {
		info.Website = *req.Website
	}
	if req.WorkingHours != nil {
		info.WorkingHours = ToWorkingHoursModel(req.WorkingHours)
	}
}
