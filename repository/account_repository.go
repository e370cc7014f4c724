// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/medify/medify-backend/models"
	"gorm.io/gorm"
)

// AccountRepositoryImpl implements AccountRepository interface
type AccountRepositoryImpl struct {
	*BaseRepository[models.Account, models.AccountFilter]
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &AccountRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Account, models.AccountFilter](db),
	}
}

// ByEmail retrieves an account by email address
func (r *AccountRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Account, error) {
	filter := models.AccountFilter{Email: &email}
	accounts, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}

	if len(accounts) == 0 {
		return nil, nil
	}

	return accounts[0], nil
}

// ByUUID retrieves an account by its public UUID
func (r *AccountRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Account, error) {
	db := r.getDB(ctx)

	var account models.Account
	err := db.Where("uuid = ?", uuid).
		Last(&account).Error

	if err != nil {
		if err.Error() == "record not found" { // GORM error check
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account by UUID: %w", err)
	}

	return &account, nil
}

// UpdateLastLogin records the most recent successful login time
func (r *AccountRepositoryImpl) UpdateLastLogin(ctx context.Context, accountID uint, loginTime time.Time) error {
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

	err = db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("last_login_at", loginTime).Error

	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// UpdatePassword replaces the stored password hash for an account
func (r *AccountRepositoryImpl) UpdatePassword(ctx context.Context, accountID uint, passwordHash string) error {
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

	err = db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("password_hash", passwordHash).Error

	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// ByFilter retrieves accounts based on filter criteria
func (r *AccountRepositoryImpl) ByFilter(ctx context.Context, filter models.AccountFilter, orderBy string, limit, offset int) ([]*models.Account, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Account{}), filter)

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

	var accounts []*models.Account
	err := query.Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts by filter: %w", err)
	}

	return accounts, nil
}

// Count returns the number of accounts matching the filter
func (r *AccountRepositoryImpl) Count(ctx context.Context, filter models.AccountFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Account{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	return count, nil
}

// Exists checks if any account matching the filter exists
func (r *AccountRepositoryImpl) Exists(ctx context.Context, filter models.AccountFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AccountRepositoryImpl) applyFilter(query *gorm.DB, filter models.AccountFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}

	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}

	if filter.BusinessType != nil {
		query = query.Where("business_type = ?", *filter.BusinessType)
	}

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return query
}
