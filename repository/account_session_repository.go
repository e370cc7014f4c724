// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medify/medify-backend/models"
	"gorm.io/gorm"
)

// AccountSessionRepositoryImpl implements AccountSessionRepository interface
type AccountSessionRepositoryImpl struct {
	*BaseRepository[models.AccountSession, models.AccountSessionFilter]
}

// NewAccountSessionRepository creates a new account session repository
func NewAccountSessionRepository(db *gorm.DB) AccountSessionRepository {
	return &AccountSessionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AccountSession, models.AccountSessionFilter](db),
	}
}

// BySessionToken retrieves an active, unexpired session by its access token
func (r *AccountSessionRepositoryImpl) BySessionToken(ctx context.Context, token string) (*models.AccountSession, error) {
	db := r.getDB(ctx)

	var session models.AccountSession
	err := db.Where("session_token = ? AND is_active = ? AND expires_at > ?",
		token, true, time.Now()).
		Preload("Account").
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	return &session, nil
}

// ByRefreshToken retrieves an active, unexpired session by its refresh token
func (r *AccountSessionRepositoryImpl) ByRefreshToken(ctx context.Context, token string) (*models.AccountSession, error) {
	db := r.getDB(ctx)

	var session models.AccountSession
	err := db.Where("refresh_token = ? AND is_active = ? AND expires_at > ?",
		token, true, time.Now()).
		Preload("Account").
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by refresh token: %w", err)
	}

	return &session, nil
}

// ListActiveSessionsByAccount retrieves all active sessions for an account
func (r *AccountSessionRepositoryImpl) ListActiveSessionsByAccount(ctx context.Context, accountID uint) ([]*models.AccountSession, error) {
	filter := models.AccountSessionFilter{
		AccountID: &accountID,
		IsActive:  &[]bool{true}[0],
	}

	sessions, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions by account: %w", err)
	}

	// Filter out expired sessions
	var activeSessions []*models.AccountSession
	now := time.Now()
	for _, session := range sessions {
		if session.ExpiresAt.After(now) {
			activeSessions = append(activeSessions, session)
		}
	}

	return activeSessions, nil
}

// RevokeSession marks a session inactive so its refresh token can no longer
// be exchanged
func (r *AccountSessionRepositoryImpl) RevokeSession(ctx context.Context, sessionID uint) error {
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

	err = db.Model(&models.AccountSession{}).
		Where("id = ?", sessionID).
		Update("is_active", false).Error

	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}

// ByFilter retrieves sessions based on filter criteria
func (r *AccountSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.AccountSessionFilter, orderBy string, limit, offset int) ([]*models.AccountSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AccountSession{}), filter)

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

	var sessions []*models.AccountSession
	err := query.Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions by filter: %w", err)
	}

	return sessions, nil
}

// Count returns the number of sessions matching the filter
func (r *AccountSessionRepositoryImpl) Count(ctx context.Context, filter models.AccountSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AccountSession{}), filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return count, nil
}

// Exists checks if any session matching the filter exists
func (r *AccountSessionRepositoryImpl) Exists(ctx context.Context, filter models.AccountSessionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AccountSessionRepositoryImpl) applyFilter(query *gorm.DB, filter models.AccountSessionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}

	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if filter.IPAddress != nil {
		query = query.Where("ip_address = ?", *filter.IPAddress)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	if filter.ExpiresAfter != nil {
		query = query.Where("expires_at >= ?", *filter.ExpiresAfter)
	}

	if filter.ExpiresBefore != nil {
		query = query.Where("expires_at <= ?", *filter.ExpiresBefore)
	}

	return query
}
