package tests

import (
	"context"
	"sync"
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

func TestWebsiteSetupFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		setupRepo := repository.NewWebsiteSetupRepository(testDB.DB)
		setupFlow := businessflow.NewWebsiteSetupFlow(setupRepo, testDB.DB)

		t.Run("GetCreatesDefaultRecord", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			result, err := setupFlow.GetOrCreateSetup(context.Background(), account.ID)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, account.ID, result.AccountID)
			assert.False(t, result.ReviewSystem)
			assert.False(t, result.AIChatbot)
			assert.False(t, result.AmbulanceOrdering)
			assert.False(t, result.PatientPortal)
			assert.False(t, result.PrescriptionRefill)
			assert.Nil(t, result.TemplateID)
			assert.False(t, result.IsPaid)
			assert.Zero(t, result.TotalPrice)
			// Lazy creation never assigns a subdomain
			assert.Nil(t, result.Subdomain)
		})

		t.Run("GetIsIdempotent", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			first, err := setupFlow.GetOrCreateSetup(context.Background(), account.ID)
			require.NoError(t, err)
			second, err := setupFlow.GetOrCreateSetup(context.Background(), account.ID)
			require.NoError(t, err)
			assert.Equal(t, first.ID, second.ID)
		})

		t.Run("ConcurrentGetOrCreateYieldsOneRow", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			const workers = 8
			ids := make([]uint, workers)
			errs := make([]error, workers)

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					result, err := setupFlow.GetOrCreateSetup(context.Background(), account.ID)
					if err != nil {
						errs[i] = err
						return
					}
					ids[i] = result.ID
				}(i)
			}
			wg.Wait()

			for i := 0; i < workers; i++ {
				require.NoError(t, errs[i])
				assert.Equal(t, ids[0], ids[i])
			}

			count, err := setupRepo.Count(context.Background(), models.WebsiteSetupFilter{AccountID: &account.ID})
			require.NoError(t, err)
			assert.EqualValues(t, 1, count)
		})

		t.Run("ConcurrentUpdatesLazyCreateOneRow", func(t *testing.T) {
			// Updates also lazy-create, but inside a transaction where a lost
			// insert race aborts the whole attempt; every caller must still
			// come back with the single surviving row
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			const workers = 6
			errs := make([]error, workers)

			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, errs[i] = setupFlow.UpdateSetup(context.Background(), account.ID, &dto.UpdateWebsiteSetupRequest{
						ReviewSystem: utils.ToPtr(true),
					})
				}(i)
			}
			wg.Wait()

			for i := 0; i < workers; i++ {
				require.NoError(t, errs[i])
			}

			count, err := setupRepo.Count(context.Background(), models.WebsiteSetupFilter{AccountID: &account.ID})
			require.NoError(t, err)
			assert.EqualValues(t, 1, count)
		})

		t.Run("PartialUpdateKeepsUntouchedFields", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			_, err = setupFlow.UpdateSetup(context.Background(), account.ID, &dto.UpdateWebsiteSetupRequest{
				ReviewSystem: utils.ToPtr(true),
				AIChatbot:    utils.ToPtr(true),
				TotalPrice:   utils.ToPtr(250.0),
			})
			require.NoError(t, err)

			result, err := setupFlow.UpdateSetup(context.Background(), account.ID, &dto.UpdateWebsiteSetupRequest{
				AIChatbot: utils.ToPtr(false),
			})
			require.NoError(t, err)

			// Cleared flag is persisted, untouched fields survive
			assert.True(t, result.ReviewSystem)
			assert.False(t, result.AIChatbot)
			assert.Equal(t, 250.0, result.TotalPrice)
		})

		t.Run("UpdateLazilyCreates", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			result, err := setupFlow.UpdateSetup(context.Background(), account.ID, &dto.UpdateWebsiteSetupRequest{
				TemplateID: utils.ToPtr(3),
			})
			require.NoError(t, err)
			require.NotNil(t, result.TemplateID)
			assert.Equal(t, 3, *result.TemplateID)
		})

		t.Run("EmptyUpdateRejected", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			_, err = setupFlow.UpdateSetup(context.Background(), account.ID, &dto.UpdateWebsiteSetupRequest{})
			require.Error(t, err)
			assert.True(t, businessflow.IsSetupUpdateEmpty(err))
		})

		t.Run("NegativeTemplateRejected", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount(models.BusinessTypePharmacy)
			require.NoError(t, err)

			_, err = setupFlow.UpdateSetup(context.Background(), account.ID, &dto.UpdateWebsiteSetupRequest{
				TemplateID: utils.ToPtr(-1),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsTemplateOutOfRange(err))
		})

		t.Run("SubdomainUniqueness", func(t *testing.T) {
			first, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)
			second, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			_, err = setupFlow.UpdateSetup(context.Background(), first.ID, &dto.UpdateWebsiteSetupRequest{
				Subdomain: utils.ToPtr("lakeside-clinic"),
			})
			require.NoError(t, err)

			_, err = setupFlow.UpdateSetup(context.Background(), second.ID, &dto.UpdateWebsiteSetupRequest{
				Subdomain: utils.ToPtr("lakeside-clinic"),
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsSubdomainTaken(err))

			// Re-claiming your own subdomain is fine
			result, err := setupFlow.UpdateSetup(context.Background(), first.ID, &dto.UpdateWebsiteSetupRequest{
				Subdomain: utils.ToPtr("lakeside-clinic"),
			})
			require.NoError(t, err)
			require.NotNil(t, result.Subdomain)
			assert.Equal(t, "lakeside-clinic", *result.Subdomain)
		})

		t.Run("OwnershipIsolation", func(t *testing.T) {
			owner, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)
			other, err := fixtures.CreateTestAccount(models.BusinessTypeHospital)
			require.NoError(t, err)

			_, err = setupFlow.UpdateSetup(context.Background(), owner.ID, &dto.UpdateWebsiteSetupRequest{
				PatientPortal: utils.ToPtr(true),
			})
			require.NoError(t, err)

			// The other account resolves its own setup, never the owner's
			result, err := setupFlow.GetOrCreateSetup(context.Background(), other.ID)
			require.NoError(t, err)
			assert.False(t, result.PatientPortal)
			assert.Equal(t, other.ID, result.AccountID)
		})

		return nil
	})
	require.NoError(t, err)
}
