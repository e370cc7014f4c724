// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/medify/medify-backend/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AccountRepository defines operations for accounts
type AccountRepository interface {
	Repository[models.Account, models.AccountFilter]
	ByEmail(ctx context.Context, email string) (*models.Account, error)
	ByUUID(ctx context.Context, uuid string) (*models.Account, error)
	UpdateLastLogin(ctx context.Context, accountID uint, loginTime time.Time) error
	UpdatePassword(ctx context.Context, accountID uint, passwordHash string) error
}

// WebsiteSetupRepository defines operations for website setups
type WebsiteSetupRepository interface {
	Repository[models.WebsiteSetup, models.WebsiteSetupFilter]
	ByAccountID(ctx context.Context, accountID uint) (*models.WebsiteSetup, error)
	BySubdomain(ctx context.Context, subdomain string) (*models.WebsiteSetup, error)
	Update(ctx context.Context, setup *models.WebsiteSetup) error
}

// BusinessInfoRepository defines operations for business info records
type BusinessInfoRepository interface {
	Repository[models.BusinessInfo, models.BusinessInfoFilter]
	ByWebsiteSetupID(ctx context.Context, websiteSetupID uint) (*models.BusinessInfo, error)
	Update(ctx context.Context, info *models.BusinessInfo) error
	SetPublished(ctx context.Context, infoID uint, published bool) error
}

// AccountSessionRepository defines operations for account sessions
type AccountSessionRepository interface {
	Repository[models.AccountSession, models.AccountSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.AccountSession, error)
	ByRefreshToken(ctx context.Context, token string) (*models.AccountSession, error)
	ListActiveSessionsByAccount(ctx context.Context, accountID uint) ([]*models.AccountSession, error)
	RevokeSession(ctx context.Context, sessionID uint) error
}
