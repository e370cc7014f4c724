// Package testing provides test utilities and database setup for testing the website configuration backend
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/medify/medify-backend/models"
	"github.com/medify/medify-backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAccount creates a test account with the specified business type
func (tf *TestFixtures) CreateTestAccount(businessType string) (*models.Account, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	randomDigits := fmt.Sprintf("%09d", mrand.Intn(900000000)+100000000)

	account := &models.Account{
		UUID:         uuid.New(),
		Email:        fmt.Sprintf("john.doe.%s@example.com", randomDigits),
		Name:         "Test Clinic",
		BusinessType: businessType,
		PasswordHash: string(hashedPassword),
		IsActive:     utils.ToPtr(true),
	}

	err = tf.DB.DB.Create(account).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test account: %w", err)
	}

	return account, nil
}

// CreateTestWebsiteSetup creates a website setup row attached to the account
func (tf *TestFixtures) CreateTestWebsiteSetup(accountID uint, subdomain *string) (*models.WebsiteSetup, error) {
	setup := &models.WebsiteSetup{
		UUID:      uuid.New(),
		AccountID: accountID,
		Subdomain: subdomain,
	}

	err := tf.DB.DB.Create(setup).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test website setup: %w", err)
	}

	return setup, nil
}

// CreateTestBusinessInfo creates a business info row attached to the setup
func (tf *TestFixtures) CreateTestBusinessInfo(websiteSetupID uint) (*models.BusinessInfo, error) {
	info := &models.BusinessInfo{
		UUID:           uuid.New(),
		WebsiteSetupID: websiteSetupID,
		Name:           "Test Pharmacy",
		WorkingHours:   models.WorkingHoursMap{},
	}

	err := tf.DB.DB.Create(info).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test business info: %w", err)
	}

	return info, nil
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates a test account session
func (tf *TestFixtures) CreateTestSession(accountID uint) (*models.AccountSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	refreshToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure refresh token: %w", err)
	}

	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	session := &models.AccountSession{
		UUID:         uuid.New(),
		AccountID:    accountID,
		SessionToken: sessionToken,
		RefreshToken: &refreshToken,
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		IsActive:     utils.ToPtr(true),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
	}

	err = tf.DB.DB.Create(session).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateMultipleTestAccounts creates one account per business type
func (tf *TestFixtures) CreateMultipleTestAccounts() ([]*models.Account, error) {
	businessTypes := []string{
		models.BusinessTypeHospital,
		models.BusinessTypePharmacy,
	}

	var accounts []*models.Account
	for i, businessType := range businessTypes {
		account, err := tf.CreateTestAccount(businessType)
		if err != nil {
			return nil, fmt.Errorf("failed to create account %d: %w", i, err)
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}
