// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/medify/medify-backend/models"
	"github.com/medify/medify-backend/utils"
	"gorm.io/gorm"
)

// BusinessInfoRepositoryImpl implements BusinessInfoRepository interface
type BusinessInfoRepositoryImpl struct {
	*BaseRepository[models.BusinessInfo, models.BusinessInfoFilter]
}

// NewBusinessInfoRepository creates a new business info repository
func NewBusinessInfoRepository(db *gorm.DB) BusinessInfoRepository {
	return &BusinessInfoRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BusinessInfo, models.BusinessInfoFilter](db),
	}
}

// ByWebsiteSetupID retrieves the business info attached to a setup. Each setup
// has at most one record, enforced by a unique index on website_setup_id.
func (r *BusinessInfoRepositoryImpl) ByWebsiteSetupID(ctx context.Context, websiteSetupID uint) (*models.BusinessInfo, error) {
	db := r.getDB(ctx)

	var info models.BusinessInfo
	err := db.Where("website_setup_id = ?", websiteSetupID).
		Last(&info).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find business info by website setup ID: %w", err)
	}

	return &info, nil
}

// Update persists all mutable fields of an existing business info record
func (r *BusinessInfoRepositoryImpl) Update(ctx context.Context, info *models.BusinessInfo) error {
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

	// Select forces cleared strings and nil coordinates to be written
	err = db.Model(info).
		Select("name", "about", "address", "latitude", "longitude",
			"contact_phone", "contact_email", "website", "working_hours", "updated_at").
		Updates(info).Error

	if err != nil {
		return fmt.Errorf("failed to update business info: %w", err)
	}

	return nil
}

// SetPublished flips the published state of a business info record
func (r *BusinessInfoRepositoryImpl) SetPublished(ctx context.Context, infoID uint, published bool) error {
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

	err = db.Model(&models.BusinessInfo{}).
		Where("id = ?", infoID).
		Updates(map[string]any{
			"is_published": published,
			"updated_at":   utils.UTCNow(),
		}).Error

	if err != nil {
		return fmt.Errorf("failed to set published state: %w", err)
	}

	return nil
}

// ByFilter retrieves business info records based on filter criteria
func (r *BusinessInfoRepositoryImpl) ByFilter(ctx context.Context, filter models.BusinessInfoFilter, orderBy string, limit, offset int) ([]*models.BusinessInfo, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.BusinessInfo{}), filter)

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

	var infos []*models.BusinessInfo
	err := query.Find(&infos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find business info by filter: %w", err)
	}

	return infos, nil
}

// Count returns the number of business info records matching the filter
func (r *BusinessInfoRepositoryImpl) Count(ctx context.Context, filter models.BusinessInfoFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.BusinessInfo{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count business info records: %w", err)
	}

	return count, nil
}

// Exists checks if any business info record matching the filter exists
func (r *BusinessInfoRepositoryImpl) Exists(ctx context.Context, filter models.BusinessInfoFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *BusinessInfoRepositoryImpl) applyFilter(query *gorm.DB, filter models.BusinessInfoFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}

	if filter.WebsiteSetupID != nil {
		query = query.Where("website_setup_id = ?", *filter.WebsiteSetupID)
	}

	if filter.IsPublished != nil {
		query = query.Where("is_published = ?", *filter.IsPublished)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return query
}
