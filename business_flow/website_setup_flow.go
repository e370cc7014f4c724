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

// WebsiteSetupFlow handles the per-account website setup lifecycle
type WebsiteSetupFlow interface {
	GetOrCreateSetup(ctx context.Context, accountID uint) (*dto.WebsiteSetupDTO, error)
	UpdateSetup(ctx context.Context, accountID uint, req *dto.UpdateWebsiteSetupRequest) (*dto.WebsiteSetupDTO, error)
}

// errSetupCreateRace marks a lazy create that lost the account_id race inside
// a transaction; the retry at the operation level finds the winner's row
var errSetupCreateRace = errors.New("setup create lost a concurrent race")

// WebsiteSetupFlowImpl implements the website setup business flow
type WebsiteSetupFlowImpl struct {
	setupRepo repository.WebsiteSetupRepository
	db        *gorm.DB
}

// NewWebsiteSetupFlow creates a new website setup flow instance
func NewWebsiteSetupFlow(setupRepo repository.WebsiteSetupRepository, db *gorm.DB) WebsiteSetupFlow {
	return &WebsiteSetupFlowImpl{
		setupRepo: setupRepo,
		db:        db,
	}
}

// GetOrCreateSetup returns the caller's setup, lazily creating it when the
// account predates automatic provisioning or signup was interrupted. The
// unique index on account_id is the concurrency guard: of two racing creates
// one loses with a unique violation and retries as a plain lookup, so exactly
// one row exists per account.
func (wf *WebsiteSetupFlowImpl) GetOrCreateSetup(ctx context.Context, accountID uint) (*dto.WebsiteSetupDTO, error) {
	setup, err := wf.setupRepo.ByAccountID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("SETUP_LOOKUP_FAILED", "Failed to load website setup", err)
	}

	if setup == nil {
		// Defaults: all feature toggles off, no template, unpaid, zero
		// price. A setup created through this lazy path carries no
		// subdomain; only signup assigns one.
		setup = &models.WebsiteSetup{
			UUID:      uuid.New(),
			AccountID: accountID,
		}

		if err := wf.setupRepo.Save(ctx, setup); err != nil {
			if !repository.IsUniqueViolation(err) {
				return nil, NewBusinessError("SETUP_CREATE_FAILED", "Failed to create website setup", err)
			}

			// Lost the race; the winner's row is authoritative
			setup, err = wf.setupRepo.ByAccountID(ctx, accountID)
			if err != nil {
				return nil, NewBusinessError("SETUP_LOOKUP_FAILED", "Failed to load website setup", err)
			}
			if setup == nil {
				return nil, NewBusinessError("SETUP_LOOKUP_FAILED", "Failed to load website setup", ErrSetupNotFound)
			}
		}
	}

	result := ToWebsiteSetupDTO(*setup)
	return &result, nil
}

// UpdateSetup applies a partial update to the caller's setup. Nil request
// fields keep their prior values.
func (wf *WebsiteSetupFlowImpl) UpdateSetup(ctx context.Context, accountID uint, req *dto.UpdateWebsiteSetupRequest) (*dto.WebsiteSetupDTO, error) {
	if err := validateSetupUpdateRequest(req); err != nil {
		return nil, NewBusinessError("SETUP_UPDATE_VALIDATION_FAILED", "Setup update validation failed", err)
	}

	var setup *models.WebsiteSetup
	var err error

	for attempt := 0; attempt < 2; attempt++ {
		err = repository.WithTransaction(ctx, wf.db, func(txCtx context.Context) error {
			var err error
			setup, err = wf.setupRepo.ByAccountID(txCtx, accountID)
			if err != nil {
				return err
			}
			if setup == nil {
				// Updates go through the same lazy path as reads
				setup = &models.WebsiteSetup{
					UUID:      uuid.New(),
					AccountID: accountID,
				}
				if err := wf.setupRepo.Save(txCtx, setup); err != nil {
					if repository.IsUniqueViolation(err) {
						return errSetupCreateRace
					}
					return err
				}
			}

			if req.Subdomain != nil && (setup.Subdomain == nil || *req.Subdomain != *setup.Subdomain) {
				existing, err := wf.setupRepo.BySubdomain(txCtx, *req.Subdomain)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != setup.ID {
					return ErrSubdomainTaken
				}
			}

			applySetupPatch(setup, req)
			setup.UpdatedAt = utils.UTCNow()

			return wf.setupRepo.Update(txCtx, setup)
		})
		if !errors.Is(err, errSetupCreateRace) {
			break
		}
	}

	if err != nil {
		// With the account_id race handled above, the only unique index left
		// to fire is the subdomain one, on a concurrent claim at commit
		if repository.IsUniqueViolation(err) {
			return nil, NewBusinessError("SETUP_UPDATE_FAILED", "Setup update failed", ErrSubdomainTaken)
		}
		return nil, NewBusinessError("SETUP_UPDATE_FAILED", "Setup update failed", err)
	}

	result := ToWebsiteSetupDTO(*setup)
	return &result, nil
}

// Private helper methods

func validateSetupUpdateRequest(req *dto.UpdateWebsiteSetupRequest) error {
	if req == nil {
		return ErrSetupUpdateEmpty
	}

	if req.ReviewSystem == nil && req.AIChatbot == nil && req.AmbulanceOrdering == nil &&
		req.PatientPortal == nil && req.PrescriptionRefill == nil && req.TemplateID == nil &&
		req.IsPaid == nil && req.TotalPrice == nil && req.Subdomain == nil {
		return ErrSetupUpdateEmpty
	}

	if req.TemplateID != nil && *req.TemplateID < 0 {
		return ErrTemplateOutOfRange
	}

	return nil
}

func applySetupPatch(setup *models.WebsiteSetup, req *dto.UpdateWebsiteSetupRequest) {
	if req.ReviewSystem != nil {
		setup.ReviewSystem = *req.ReviewSystem
	}
	if req.AIChatbot != nil {
		setup.AIChatbot = *req.AIChatbot
	}
	if req.AmbulanceOrdering != nil {
		setup.AmbulanceOrdering = *req.AmbulanceOrdering
	}
	if req.PatientPortal != nil {
		setup.PatientPortal = *req.PatientPortal
	}
	if req.PrescriptionRefill != nil {
		setup.PrescriptionRefill = *req.PrescriptionRefill
	}
	if req.TemplateID != nil {
		setup.TemplateID = req.TemplateID
	}
	if req.IsPaid != nil {
		setup.IsPaid = *req.IsPaid
	}
	if req.TotalPrice != nil {
		setup.TotalPrice = *req.TotalPrice
	}
	if req.Subdomain != nil {
		setup.Subdomain = req.Subdomain
	}
}
