// Package businessflow contains the core business logic and use cases for account and website workflows
package businessflow

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/medify/medify-backend/app/dto"
	"github.com/medify/medify-backend/app/services"
	"github.com/medify/medify-backend/models"
	"github.com/medify/medify-backend/repository"
	"github.com/medify/medify-backend/utils"
	"gorm.io/gorm"
)

// SignupFlow handles the complete signup business logic
type SignupFlow interface {
	Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
}

// errSubdomainClaimRace marks a subdomain claim that passed the lookup but
// lost the unique-index race to a concurrent signup. The aborted transaction
// cannot continue, so the whole signup retries without a claim.
var errSubdomainClaimRace = errors.New("subdomain claim lost a concurrent race")

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	accountRepo  repository.AccountRepository
	setupRepo    repository.WebsiteSetupRepository
	sessionRepo  repository.AccountSessionRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewSignupFlow creates a new signup flow instance
func NewSignupFlow(
	accountRepo repository.AccountRepository,
	setupRepo repository.WebsiteSetupRepository,
	sessionRepo repository.AccountSessionRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) SignupFlow {
	return &SignupFlowImpl{
		accountRepo:  accountRepo,
		setupRepo:    setupRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Signup registers a new account and provisions its website setup. The
// account and setup are created in one transaction so a setup failure never
// leaves an orphaned account behind.
func (s *SignupFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	// Validate business rules
	if err := s.validateSignupRequest(ctx, req); err != nil {
		return nil, NewBusinessError("SIGNUP_VALIDATION_FAILED", "Signup validation failed", err)
	}

	var account *models.Account
	var setup *models.WebsiteSetup
	var session *models.AccountSession

	// The subdomain is claimed on the first attempt only; losing a claim
	// race still completes the signup, just without a subdomain
	var err error
	for _, claimSubdomain := range []bool{true, false} {
		err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
			// Create account
			var err error
			account, err = s.createAccount(txCtx, req)
			if err != nil {
				return err
			}

			// Provision the account's website setup with a subdomain derived
			// from the email local part
			setup, err = s.createWebsiteSetup(txCtx, account, claimSubdomain)
			if err != nil {
				return err
			}

			// Issue tokens and record the session
			session, err = s.createSession(txCtx, account.ID, metadata)
			if err != nil {
				return err
			}

			return nil
		})
		if !errors.Is(err, errSubdomainClaimRace) {
			break
		}
	}

	if err != nil {
		if IsEmailAlreadyExists(err) {
			return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", ErrEmailAlreadyExists)
		}
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	return &dto.SignupResponse{
		Message:        "Signup completed successfully",
		Account:        ToAuthAccountDTO(*account),
		Session:        ToSessionDTO(*session),
		WebsiteSetupID: setup.ID,
	}, nil
}

// Private helper methods

func (s *SignupFlowImpl) validateSignupRequest(ctx context.Context, req *dto.SignupRequest) error {
	if req.Password != req.PasswordConfirm {
		return ErrPasswordMismatch
	}

	if !models.ValidBusinessType(req.Category) {
		return ErrInvalidBusinessType
	}

	// Check if email already exists
	existingAccount, err := s.accountRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if existingAccount != nil {
		return ErrEmailAlreadyExists
	}

	return nil
}

func (s *SignupFlowImpl) createAccount(ctx context.Context, req *dto.SignupRequest) (*models.Account, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UUID:         uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		BusinessType: req.Category,
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		// A concurrent signup with the same email loses the race on the
		// email unique index rather than the earlier lookup
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return account, nil
}

func (s *SignupFlowImpl) createWebsiteSetup(ctx context.Context, account *models.Account, claimSubdomain bool) (*models.WebsiteSetup, error) {
	setup := &models.WebsiteSetup{
		UUID:      uuid.New(),
		AccountID: account.ID,
	}

	if claimSubdomain {
		subdomain := utils.SubdomainFromEmail(account.Email)
		if subdomain != "" {
			// Subdomains are globally unique; a collision leaves the setup
			// without one rather than failing signup
			existing, err := s.setupRepo.BySubdomain(ctx, subdomain)
			if err != nil {
				return nil, err
			}
			if existing == nil {
				setup.Subdomain = &subdomain
			}
		}
	}

	if err := s.setupRepo.Save(ctx, setup); err != nil {
		// A fresh insert can only violate the subdomain index when it
		// carries a claim; the account_id index cannot fire for a row
		// created in the same transaction as its account
		if setup.Subdomain != nil && repository.IsUniqueViolation(err) {
			return nil, errSubdomainClaimRace
		}
		return nil, err
	}

	return setup, nil
}

func (s *SignupFlowImpl) createSession(ctx context.Context, accountID uint, metadata *ClientMetadata) (*models.AccountSession, error) {
	accessToken, refreshToken, err := s.tokenService.GenerateTokens(accountID)
	if err != nil {
		return nil, err
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.AccountSession{
		UUID:         uuid.New(),
		AccountID:    accountID,
		SessionToken: accessToken,
		RefreshToken: &refreshToken,
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		IsActive:     utils.ToPtr(true),
		ExpiresAt:    utils.UTCNowAdd(utils.SessionTimeout),
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
