package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/medify/medify-backend/app/dto"
	"github.com/medify/medify-backend/app/services"
	businessflow "github.com/medify/medify-backend/business_flow"
	"github.com/medify/medify-backend/models"
	"github.com/medify/medify-backend/repository"
	testingutil "github.com/medify/medify-backend/testing"
	"github.com/medify/medify-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-that-is-long-enough-123456"

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	tokenService, err := services.NewTokenService(
		1*time.Hour, 24*time.Hour, "test-issuer", "test-audience",
		false, "", "", testJWTSecret,
	)
	require.NoError(t, err)
	return tokenService
}

func TestSignup(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		// Initialize repositories
		accountRepo := repository.NewAccountRepository(testDB.DB)
		setupRepo := repository.NewWebsiteSetupRepository(testDB.DB)
		sessionRepo := repository.NewAccountSessionRepository(testDB.DB)

		tokenService := newTestTokenService(t)

		signupFlow := businessflow.NewSignupFlow(
			accountRepo,
			setupRepo,
			sessionRepo,
			tokenService,
			testDB.DB,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		t.Run("SuccessfulHospitalSignup", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:           "mercy.general@example.com",
				Password:        "SecurePass123",
				PasswordConfirm: "SecurePass123",
				Name:            "Mercy General Hospital",
				Category:        models.BusinessTypeHospital,
			}

			result, err := signupFlow.Signup(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.NotEmpty(t, result.Session.SessionToken)
			assert.NotNil(t, result.Session.RefreshToken)
			assert.NotZero(t, result.WebsiteSetupID)

			// Verify account was created
			account, err := accountRepo.ByID(context.Background(), result.Account.ID)
			require.NoError(t, err)
			require.NotNil(t, account)
			assert.Equal(t, "mercy.general@example.com", account.Email)
			assert.Equal(t, "Mercy General Hospital", account.Name)
			assert.Equal(t, models.BusinessTypeHospital, account.BusinessType)
			assert.NotEmpty(t, account.UUID)
			assert.True(t, utils.IsTrue(account.IsActive))
			assert.NotEqual(t, "SecurePass123", account.PasswordHash)

			// Verify the website setup was provisioned with derived subdomain
			setup, err := setupRepo.ByAccountID(context.Background(), account.ID)
			require.NoError(t, err)
			require.NotNil(t, setup)
			assert.Equal(t, result.WebsiteSetupID, setup.ID)
			require.NotNil(t, setup.Subdomain)
			assert.Equal(t, "mercygeneral", *setup.Subdomain)
			assert.False(t, setup.ReviewSystem)
			assert.False(t, setup.AIChatbot)
			assert.False(t, setup.IsPaid)
			assert.Nil(t, setup.TemplateID)

			// Verify a session was recorded
			sessions, err := sessionRepo.ListActiveSessionsByAccount(context.Background(), account.ID)
			require.NoError(t, err)
			require.Len(t, sessions, 1)
			assert.Equal(t, result.Session.SessionToken, sessions[0].SessionToken)
		})

		t.Run("DuplicateEmailRejected", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:           "dup.pharmacy@example.com",
				Password:        "SecurePass123",
				PasswordConfirm: "SecurePass123",
				Name:            "Dup Pharmacy",
				Category:        models.BusinessTypePharmacy,
			}

			_, err := signupFlow.Signup(context.Background(), req, metadata)
			require.NoError(t, err)

			_, err = signupFlow.Signup(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("PasswordMismatchLeavesNoState", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:           "mismatch@example.com",
				Password:        "SecurePass123",
				PasswordConfirm: "DifferentPass456",
				Name:            "Mismatch Clinic",
				Category:        models.BusinessTypeHospital,
			}

			_, err := signupFlow.Signup(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsPasswordMismatch(err))

			account, err := accountRepo.ByEmail(context.Background(), "mismatch@example.com")
			require.NoError(t, err)
			assert.Nil(t, account)
		})

		t.Run("InvalidCategoryRejected", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:           "vet.clinic@example.com",
				Password:        "SecurePass123",
				PasswordConfirm: "SecurePass123",
				Name:            "Vet Clinic",
				Category:        "veterinary",
			}

			_, err := signupFlow.Signup(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidBusinessType(err))

			// No account row should survive the failed signup
			account, err := accountRepo.ByEmail(context.Background(), "vet.clinic@example.com")
			require.NoError(t, err)
			assert.Nil(t, account)
		})

		t.Run("SubdomainCollisionLeavesSecondSetupWithout", func(t *testing.T) {
			first := &dto.SignupRequest{
				Email:           "riverside@clinics.example.com",
				Password:        "SecurePass123",
				PasswordConfirm: "SecurePass123",
				Name:            "Riverside One",
				Category:        models.BusinessTypeHospital,
			}
			second := &dto.SignupRequest{
				Email:           "riverside@hospitals.example.org",
				Password:        "SecurePass123",
				PasswordConfirm: "SecurePass123",
				Name:            "Riverside Two",
				Category:        models.BusinessTypeHospital,
			}

			res1, err := signupFlow.Signup(context.Background(), first, metadata)
			require.NoError(t, err)
			res2, err := signupFlow.Signup(context.Background(), second, metadata)
			require.NoError(t, err)

			setup1, err := setupRepo.ByAccountID(context.Background(), res1.Account.ID)
			require.NoError(t, err)
			require.NotNil(t, setup1.Subdomain)
			assert.Equal(t, "riverside", *setup1.Subdomain)

			// Same email local part, subdomain already taken
			setup2, err := setupRepo.ByAccountID(context.Background(), res2.Account.ID)
			require.NoError(t, err)
			assert.Nil(t, setup2.Subdomain)
		})

		t.Run("ConcurrentSignupsSharingLocalPart", func(t *testing.T) {
			// All emails derive the same subdomain candidate. Every signup
			// must succeed; exactly one account wins the subdomain and the
			// losers end up without one instead of failing
			const n = 6
			var wg sync.WaitGroup
			errs := make([]error, n)
			results := make([]*dto.SignupResponse, n)

			for i := 0; i < n; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					req := &dto.SignupRequest{
						Email:           fmt.Sprintf("northside@host%d.example.com", i),
						Password:        "SecurePass123",
						PasswordConfirm: "SecurePass123",
						Name:            fmt.Sprintf("Northside %d", i),
						Category:        models.BusinessTypeHospital,
					}
					results[i], errs[i] = signupFlow.Signup(context.Background(), req, metadata)
				}(i)
			}
			wg.Wait()

			claimed := 0
			for i := 0; i < n; i++ {
				require.NoError(t, errs[i])
				setup, err := setupRepo.ByAccountID(context.Background(), results[i].Account.ID)
				require.NoError(t, err)
				require.NotNil(t, setup)
				if setup.Subdomain != nil {
					assert.Equal(t, "northside", *setup.Subdomain)
					claimed++
				}
			}
			assert.Equal(t, 1, claimed)
		})

		t.Run("AccessTokenIsValid", func(t *testing.T) {
			req := &dto.SignupRequest{
				Email:           "token.check@example.com",
				Password:        "SecurePass123",
				PasswordConfirm: "SecurePass123",
				Name:            "Token Check",
				Category:        models.BusinessTypePharmacy,
			}

			result, err := signupFlow.Signup(context.Background(), req, metadata)
			require.NoError(t, err)

			claims, err := tokenService.ValidateToken(result.Session.SessionToken)
			require.NoError(t, err)
			assert.Equal(t, result.Account.ID, claims.AccountID)
			assert.Equal(t, "access", claims.TokenType)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestSubdomainFromEmail(t *testing.T) {
	cases := []struct {
		email    string
		expected string
	}{
		{"mercy.general@example.com", "mercygeneral"},
		{"Sunrise_Pharmacy+1@example.com", "sunrisepharmacy1"},
		{"--weird--@example.com", "weird"},
		{"!!!@example.com", ""},
		{"no-at-sign", "no-at-sign"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, utils.SubdomainFromEmail(tc.email), "email %q", tc.email)
	}
}
