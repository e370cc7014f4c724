// Package businessflow contains the core business logic and use cases for account and website workflows
package businessflow

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medify/medify-backend/app/dto"
	"github.com/medify/medify-backend/app/services"
	"github.com/medify/medify-backend/models"
	"github.com/medify/medify-backend/repository"
	"github.com/medify/medify-backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles account authentication operations
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	RefreshTokens(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error)
	CurrentAccount(ctx context.Context, accountID uint) (*dto.AuthAccountDTO, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	accountRepo  repository.AccountRepository
	sessionRepo  repository.AccountSessionRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	accountRepo repository.AccountRepository,
	sessionRepo repository.AccountSessionRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		accountRepo:  accountRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Login authenticates an account with email and password. Prior sessions stay
// valid; the token scheme is stateless.
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	// Validate business rules
	if err := lf.validateLoginRequest(ctx, request); err != nil {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", err)
	}

	resp, err := lf.WithLoginTransaction(ctx, func(txCtx context.Context) (*dto.LoginResponse, error) {
		account, err := lf.accountRepo.ByEmail(txCtx, strings.TrimSpace(request.Email))
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}

		// Check if account is active
		if !utils.IsTrue(account.IsActive) {
			return nil, ErrAccountInactive
		}

		// Verify password
		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		// Create new session
		session, err := lf.CreateSession(txCtx, account.ID, metadata)
		if err != nil {
			return nil, err
		}

		// Record the login time
		now := utils.UTCNow()
		if err := lf.accountRepo.UpdateLastLogin(txCtx, account.ID, now); err != nil {
			return nil, err
		}
		account.LastLoginAt = &now

		return &dto.LoginResponse{
			Account: ToAuthAccountDTO(*account),
			Session: ToSessionDTO(*session),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	return resp, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh token pair and
// records the new session
func (lf *LoginFlowImpl) RefreshTokens(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.RefreshTokenResponse, error) {
	if request.RefreshToken == "" {
		return nil, NewBusinessError("REFRESH_VALIDATION_FAILED", "Refresh validation failed", ErrInvalidRefreshToken)
	}

	claims, err := lf.tokenService.ValidateToken(request.RefreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", ErrInvalidRefreshToken)
	}

	resp, err := lf.WithRefreshTransaction(ctx, func(txCtx context.Context) (*dto.RefreshTokenResponse, error) {
		account, err := lf.accountRepo.ByID(txCtx, claims.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}
		if !utils.IsTrue(account.IsActive) {
			return nil, ErrAccountInactive
		}

		session, err := lf.CreateSession(txCtx, account.ID, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.RefreshTokenResponse{
			Session: ToSessionDTO(*session),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Token refresh failed", err)
	}

	return resp, nil
}

// CurrentAccount resolves the caller's account from its resolved identity
func (lf *LoginFlowImpl) CurrentAccount(ctx context.Context, accountID uint) (*dto.AuthAccountDTO, error) {
	account, err := lf.accountRepo.ByID(ctx, accountID)
	if err != nil {
		return nil, NewBusinessError("CURRENT_ACCOUNT_FAILED", "Failed to load account", err)
	}
	if account == nil {
		return nil, NewBusinessError("CURRENT_ACCOUNT_FAILED", "Failed to load account", ErrAccountNotFound)
	}
	if !utils.IsTrue(account.IsActive) {
		return nil, NewBusinessError("CURRENT_ACCOUNT_FAILED", "Failed to load account", ErrAccountInactive)
	}

	result := ToAuthAccountDTO(*account)
	return &result, nil
}

// Private helper methods

func (lf *LoginFlowImpl) CreateSession(ctx context.Context, accountID uint, metadata *ClientMetadata) (*models.AccountSession, error) {
	// Generate tokens
	accessToken, refreshToken, err := lf.tokenService.GenerateTokens(accountID)
	if err != nil {
		return nil, err
	}

	// Calculate expiry time using constant
	expiresAt := utils.UTCNowAdd(utils.SessionTimeout)

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	// Create session record
	session := &models.AccountSession{
		UUID:         uuid.New(),
		AccountID:    accountID,
		SessionToken: accessToken,
		RefreshToken: &refreshToken,
		ExpiresAt:    expiresAt,
		IsActive:     utils.ToPtr(true),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
	}

	err = lf.sessionRepo.Save(ctx, session)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (lf *LoginFlowImpl) WithLoginTransaction(ctx context.Context, fn func(context.Context) (*dto.LoginResponse, error)) (*dto.LoginResponse, error) {
	var result *dto.LoginResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LoginFlowImpl) WithRefreshTransaction(ctx context.Context, fn func(context.Context) (*dto.RefreshTokenResponse, error)) (*dto.RefreshTokenResponse, error) {
	var result *dto.RefreshTokenResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LoginFlowImpl) validateLoginRequest(ctx context.Context, request *dto.LoginRequest) error {
	// Validate email is not empty
	if request.Email == "" {
		return ErrAccountNotFound
	}

	// Validate password is not empty
	if request.Password == "" {
		return ErrIncorrectPassword
	}

	return nil
}
