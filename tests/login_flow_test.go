package tests

import (
	"context"
	"testing"

	"github.com/medify/medify-backend/app/dto"
	businessflow "github.com/medify/medify-backend/business_flow"
	"github.com/medify/medify-backend/models"
	"github.com/medify/medify-backend/repository"
	testingutil "github.com/medify/medify-backend/testing"
	"github.com/medify/medify-backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		accountRepo := repository.NewAccountRepository(testDB.DB)
		sessionRepo := repository.NewAccountSessionRepository(testDB.DB)

		tokenService := newTestTokenService(t)

		loginFlow := businessflow.NewLoginFlow(
			accountRepo,
			sessionRepo,
			tokenService,
			testDB.DB,
		)

		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		t.Run("SuccessfulLogin", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			req := &dto.LoginRequest{
				Email:    account.Email,
				Password: "TestPass123!",
			}

			result, err := loginFlow.Login(context.Background(), req, metadata)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, account.ID, result.Account.ID)
			assert.NotEmpty(t, result.Session.SessionToken)
			require.NotNil(t, result.Session.RefreshToken)
			assert.Equal(t, "Bearer", result.Session.TokenType)
			assert.NotEmpty(t, result.Account.LastLoginAt)

			// Last login is persisted
			reloaded, err := accountRepo.ByID(context.Background(), account.ID)
			require.NoError(t, err)
			require.NotNil(t, reloaded.LastLoginAt)
		})

		t.Run("UnknownEmail", func(t *testing.T) {
			req := &dto.LoginRequest{
				Email:    "nobody@example.com",
				Password: "TestPass123!",
			}

			_, err := loginFlow.Login(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		t.Run("WrongPassword", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			req := &dto.LoginRequest{
				Email:    account.Email,
				Password: "WrongPass123",
			}

			_, err = loginFlow.Login(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("InactiveAccount", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			err = testDB.DB.Model(&models.Account{}).
				Where("id = ?", account.ID).
				Update("is_active", false).Error
			require.NoError(t, err)

			req := &dto.LoginRequest{
				Email:    account.Email,
				Password: "TestPass123!",
			}

			_, err = loginFlow.Login(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		t.Run("LoginLeavesPriorSessionsValid", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			req := &dto.LoginRequest{Email: account.Email, Password: "TestPass123!"}

			_, err = loginFlow.Login(context.Background(), req, metadata)
			require.NoError(t, err)
			_, err = loginFlow.Login(context.Background(), req, metadata)
			require.NoError(t, err)

			sessions, err := sessionRepo.ListActiveSessionsByAccount(context.Background(), account.ID)
			require.NoError(t, err)
			assert.Len(t, sessions, 2)
		})

		t.Run("RefreshTokens", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			loginRes, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    account.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, loginRes.Session.RefreshToken)

			refreshRes, err := loginFlow.RefreshTokens(context.Background(), &dto.RefreshTokenRequest{
				RefreshToken: *loginRes.Session.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			assert.NotEmpty(t, refreshRes.Session.SessionToken)
			assert.NotEqual(t, loginRes.Session.SessionToken, refreshRes.Session.SessionToken)
		})

		t.Run("RefreshRejectsAccessToken", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			loginRes, err := loginFlow.Login(context.Background(), &dto.LoginRequest{
				Email:    account.Email,
				Password: "TestPass123!",
			}, metadata)
			require.NoError(t, err)

			// The access token is not accepted as a refresh token
			_, err = loginFlow.RefreshTokens(context.Background(), &dto.RefreshTokenRequest{
				RefreshToken: loginRes.Session.SessionToken,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidRefreshToken(err))
		})

		t.Run("CurrentAccount", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			result, err := loginFlow.CurrentAccount(context.Background(), account.ID)
			require.NoError(t, err)
			assert.Equal(t, account.Email, result.Email)
			assert.Equal(t, models.BusinessTypePharmacy, result.Category)
			assert.True(t, utils.IsTrue(result.IsActive))

			_, err = loginFlow.CurrentAccount(context.Background(), 999999)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
