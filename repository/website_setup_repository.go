// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medify/medify-backend/models"
	"gorm.io/gorm"
)

// WebsiteSetupRepositoryImpl implements WebsiteSetupRepository interface
type WebsiteSetupRepositoryImpl struct {
	*BaseRepository[models.WebsiteSetup, models.WebsiteSetupFilter]
}

// NewWebsiteSetupRepository creates a new website setup repository
func NewWebsiteSetupRepository(db *gorm.DB) WebsiteSetupRepository {
	return &WebsiteSetupRepositoryImpl{
		BaseRepository: NewBaseRepository[models.WebsiteSetup, models.WebsiteSetupFilter](db),
	}
}

// ByAccountID retrieves the setup owned by an account. Each account has at
// most one setup, enforced by a unique index on account_id.
func (r *WebsiteSetupRepositoryImpl) ByAccountID(ctx context.Context, accountID uint) (*models.WebsiteSetup, error) {
	db := r.getDB(ctx)

	var setup models.WebsiteSetup
	err := db.Where("account_id = ?", accountID).
		Last(&setup).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find website setup by account ID: %w", err)
	}

	return &setup, nil
}

// BySubdomain retrieves a setup by its claimed subdomain
func (r *WebsiteSetupRepositoryImpl) BySubdomain(ctx context.Context, subdomain string) (*models.WebsiteSetup, error) {
	db := r.getDB(ctx)

	var setup models.WebsiteSetup
	err := db.Where("subdomain = ?", subdomain).
		Last(&setup).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find website setup by subdomain: %w", err)
	}

	return &setup, nil
}

// Update persists all mutable fields of an existing setup
func (r *WebsiteSetupRepositoryImpl) Update(ctx context.Context, setup *models.WebsiteSetup) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	// Select forces zero values (cleared toggles, zeroed price) to be written
	err = db.Model(setup).
		Select("review_system", "ai_chatbot", "ambulance_ordering", "patient_portal",
			"prescription_refill", "template_id", "is_paid", "total_price", "subdomain", "updated_at").
		Updates(setup).Error

	if err != nil {
		return fmt.Errorf("failed to update website setup: %w", err)
	}

	return nil
}

// ByFilter retrieves website setups based on filter criteria
func (r *WebsiteSetupRepositoryImpl) ByFilter(ctx context.Context, filter models.WebsiteSetupFilter, orderBy string, limit, offset int) ([]*models.WebsiteSetup, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.WebsiteSetup{}), filter)

	// Apply ordering (default to id DESC)
	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	// Apply pagination
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var setups []*models.WebsiteSetup
	err := query.Find(&setups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find website setups by filter: %w", err)
	}

	return setups, nil
}

// Count returns the number of website setups matching the filter
func (r *WebsiteSetupRepositoryImpl) Count(ctx context.Context, filter models.WebsiteSetupFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.WebsiteSetup{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count website setups: %w", err)
	}

	return count, nil
}

// Exists checks if any website setup matching the filter exists
func (r *WebsiteSetupRepositoryImpl) Exists(ctx context.Context, filter models.WebsiteSetupFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *WebsiteSetupRepositoryImpl) applyFilter(query *gorm.DB, filter models.WebsiteSetupFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}

	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}

	if filter.Subdomain != nil {
		query = query.Where("subdomain = ?", *filter.Subdomain)
	}

	if filter.IsPaid != nil {
		query = query.Where("is_paid = ?", *filter.IsPaid)
	}

	if filter.TemplateID != nil {
		query = query.Where("template_id = ?", *filter.TemplateID)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return query
}
