package tests

import (
	"context"
	"strings"
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

func TestBusinessInfoFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		setupRepo := repository.NewWebsiteSetupRepository(testDB.DB)
		infoRepo := repository.NewBusinessInfoRepository(testDB.DB)
		infoFlow := businessflow.NewBusinessInfoFlow(setupRepo, infoRepo, testDB.DB)

		t.Run("GetCreatesEmptyDraft", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			result, err := infoFlow.GetOrCreateBusinessInfo(context.Background(), account.ID)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Empty(t, result.Name)
			assert.Empty(t, result.About)
			assert.Nil(t, result.Latitude)
			assert.Nil(t, result.Longitude)
			assert.NotNil(t, result.WorkingHours)
			assert.Empty(t, result.WorkingHours)
			assert.False(t, result.IsPublished)

			// The setup was also lazily created even though the account
			// never touched the setup endpoint
			setup, err := setupRepo.ByAccountID(context.Background(), account.ID)
			require.NoError(t, err)
			require.NotNil(t, setup)
			assert.Equal(t, setup.ID, result.WebsiteSetupID)
		})

		t.Run("ExplicitCreateThenDuplicateFails", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			req := &dto.CreateBusinessInfoRequest{
				Name:         "Mercy General",
				About:        "Full-service hospital",
				Address:      "1 Hospital Way",
				ContactPhone: "+15550100",
				ContactEmail: "info@mercy.example.com",
				Website:      "https://mercy.example.com",
				WorkingHours: map[string]dto.DayScheduleDTO{
					"monday": {Open: "08:00", Close: "18:00"},
					"sunday": {Closed: true},
				},
			}

			result, err := infoFlow.CreateBusinessInfo(context.Background(), account.ID, req)
			require.NoError(t, err)
			assert.Equal(t, "Mercy General", result.Name)
			assert.Len(t, result.WorkingHours, 2)
			assert.Equal(t, "08:00", result.WorkingHours["monday"].Open)
			assert.True(t, result.WorkingHours["sunday"].Closed)

			_, err = infoFlow.CreateBusinessInfo(context.Background(), account.ID, req)
			require.Error(t, err)
			assert.True(t, businessflow.IsBusinessInfoAlreadyExists(err))
		})

		t.Run("CreateAfterLazyDraftFails", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			// The GET created a draft, so explicit creation is a conflict
			_, err = infoFlow.GetOrCreateBusinessInfo(context.Background(), account.ID)
			require.NoError(t, err)

			_, err = infoFlow.CreateBusinessInfo(context.Background(), account.ID, &dto.CreateBusinessInfoRequest{
				Name: "Late Pharmacy",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsBusinessInfoAlreadyExists(err))
		})

		t.Run("PartialUpdateKeepsUntouchedFields", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			_, err = infoFlow.CreateBusinessInfo(context.Background(), account.ID, &dto.CreateBusinessInfoRequest{
				Name:      "Sunrise Pharmacy",
				About:     "Neighborhood pharmacy",
				Latitude:  utils.ToPtr(35.6892),
				Longitude: utils.ToPtr(51.3890),
			})
			require.NoError(t, err)

			result, err := infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				About: utils.ToPtr("Open late every day"),
			})
			require.NoError(t, err)
			assert.Equal(t, "Sunrise Pharmacy", result.Name)
			assert.Equal(t, "Open late every day", result.About)
			require.NotNil(t, result.Latitude)
			assert.Equal(t, 35.6892, *result.Latitude)
		})

		t.Run("ContactPhoneAtMaxLengthPersists", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			// The longest phone the API accepts must also fit the column
			phone := "+" + strings.Repeat("5", 31)
			require.Len(t, phone, 32)

			result, err := infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				ContactPhone: utils.ToPtr(phone),
			})
			require.NoError(t, err)
			assert.Equal(t, phone, result.ContactPhone)

			reloaded, err := infoFlow.GetOrCreateBusinessInfo(context.Background(), account.ID)
			require.NoError(t, err)
			assert.Equal(t, phone, reloaded.ContactPhone)
		})

		t.Run("OutOfRangeCoordinatesRejected", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			_, err = infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				Latitude: utils.ToPtr(91.0),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCoordinates(err))

			_, err = infoFlow.CreateBusinessInfo(context.Background(), account.ID, &dto.CreateBusinessInfoRequest{
				Name:      "Offshore Hospital",
				Longitude: utils.ToPtr(-180.5),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCoordinates(err))
		})

		t.Run("MalformedWorkingHoursRejected", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			_, err = infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				WorkingHours: map[string]dto.DayScheduleDTO{
					"funday": {Open: "08:00", Close: "18:00"},
				},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidWorkingHours(err))

			_, err = infoFlow.CreateBusinessInfo(context.Background(), account.ID, &dto.CreateBusinessInfoRequest{
				WorkingHours: map[string]dto.DayScheduleDTO{
					"monday": {Open: "25:00", Close: "18:00"},
				},
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidWorkingHours(err))
		})

		t.Run("UpdateLazilyCreates", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			result, err := infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				Name: utils.ToPtr("Lazy Hospital"),
			})
			require.NoError(t, err)
			assert.Equal(t, "Lazy Hospital", result.Name)
		})

		t.Run("UpdateNeverPublishes", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			result, err := infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				Name:    utils.ToPtr("Quiet Pharmacy"),
				Website: utils.ToPtr("https://quiet.example.com"),
			})
			require.NoError(t, err)
			assert.False(t, result.IsPublished)
		})

		t.Run("PublishIsIdempotent", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			_, err = infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				Name: utils.ToPtr("Central Hospital"),
			})
			require.NoError(t, err)

			first, err := infoFlow.Publish(context.Background(), account.ID)
			require.NoError(t, err)
			assert.True(t, first.IsPublished)

			second, err := infoFlow.Publish(context.Background(), account.ID)
			require.NoError(t, err)
			assert.True(t, second.IsPublished)
			assert.Equal(t, first.ID, second.ID)
		})

		t.Run("PublishEmptyDraft", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			// No completeness precondition; a never-touched profile
			// publishes as an empty record
			result, err := infoFlow.Publish(context.Background(), account.ID)
			require.NoError(t, err)
			assert.True(t, result.IsPublished)
			assert.Empty(t, result.Name)
		})

		t.Run("PublishSurvivesLaterUpdates", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			_, err = infoFlow.Publish(context.Background(), account.ID)
			require.NoError(t, err)

			result, err := infoFlow.UpdateBusinessInfo(context.Background(), account.ID, &dto.UpdateBusinessInfoRequest{
				Name: utils.ToPtr("Renamed Hospital"),
			})
			require.NoError(t, err)
			assert.True(t, result.IsPublished)
			assert.Equal(t, "Renamed Hospital", result.Name)
		})

		t.Run("OwnershipIsolation", func(t *testing.T) {
			owner, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)
			other, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			_, err = infoFlow.UpdateBusinessInfo(context.Background(), owner.ID, &dto.UpdateBusinessInfoRequest{
				Name: utils.ToPtr("Owner Pharmacy"),
			})
			require.NoError(t, err)

			result, err := infoFlow.GetOrCreateBusinessInfo(context.Background(), other.ID)
			require.NoError(t, err)
			assert.Empty(t, result.Name)
		})

		return nil
	})
	require.NoError(t, err)
}
