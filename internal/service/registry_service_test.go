package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/core/ports/mocks"
	"helpdesk-webhooks/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testTargetURL = "https://helpdesk.example.com/api/webhooks/incoming"

func setupRegistryService(t *testing.T) (
	*RegistryService,
	*mocks.MockWebhookRepository,
	*mocks.MockWebexClient,
	*mocks.MockEncryptionService,
) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockWebhookRepository(ctrl)
	webex := mocks.NewMockWebexClient(ctrl)
	enc := mocks.NewMockEncryptionService(ctrl)

	return NewRegistryService(repo, webex, enc, testTargetURL, newTestLogger()), repo, webex, enc
}

func assertAppStatus(t *testing.T, err error, status int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

func remoteSub(id uuid.UUID) *domain.WebhookSubscription {
	ext := "Y2lzY29zcGFyazovL3VzL1dFQkhPT0svMQ"
	return &domain.WebhookSubscription{
		ID:             id,
		Name:           "support",
		Resource:       domain.ResourceMessages,
		Event:          domain.EventCreated,
		WebhookID:      &ext,
		AccessTokenEnc: "enc-token",
	}
}

func TestRegistryService_Create_Success(t *testing.T) {
	svc, repo, webex, enc := setupRegistryService(t)
	ctx := context.Background()
	filter := "roomId=R1"
	secret := "shh"

	enc.EXPECT().Encrypt("user-token").Return("enc-token", nil)
	webex.EXPECT().CreateWebhook(ctx, "user-token", ports.CreateRemoteWebhook{
		Name:      "support",
		TargetURL: testTargetURL,
		Resource:  "messages",
		Event:     "created",
		Filter:    "roomId=R1",
		Secret:    "shh",
	}).Return(&ports.RemoteWebhook{ID: "EXT-1"}, nil)
	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.WebhookSubscription) error {
			assert.Equal(t, "enc-token", w.AccessTokenEnc)
			assert.Equal(t, testTargetURL, w.TargetURL)
			require.NotNil(t, w.WebhookID)
			assert.Equal(t, "EXT-1", *w.WebhookID)
			return nil
		})

	sub, err := svc.Create(ctx, ports.CreateWebhookRequest{
		Name:        "support",
		AccessToken: "user-token",
		Resource:    domain.ResourceMessages,
		Event:       domain.EventCreated,
		Filter:      &filter,
		Secret:      &secret,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sub.ID)
	assert.True(t, sub.IsRegisteredRemotely())
}

func TestRegistryService_Create_InvalidInput(t *testing.T) {
	svc, _, _, _ := setupRegistryService(t)

	_, err := svc.Create(context.Background(), ports.CreateWebhookRequest{Resource: "teams", Event: domain.EventCreated})
	assertAppStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(context.Background(), ports.CreateWebhookRequest{Resource: domain.ResourceRooms, Event: "all"})
	assertAppStatus(t, err, http.StatusBadRequest)
}

func TestRegistryService_Create_RemoteRejects(t *testing.T) {
	svc, _, webex, enc := setupRegistryService(t)

	enc.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)
	webex.EXPECT().CreateWebhook(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &ports.WebexAPIError{StatusCode: 400, Message: "targetUrl invalid"})
	// no repo.Create

	_, err := svc.Create(context.Background(), ports.CreateWebhookRequest{Name: "x", AccessToken: "t", Resource: domain.ResourceRooms, Event: domain.EventCreated})
	appErr := assertAppStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, appErr.Detail, "targetUrl invalid")
}

func TestRegistryService_Create_InsertFailureWithdrawsRemote(t *testing.T) {
	svc, repo, webex, enc := setupRegistryService(t)

	enc.EXPECT().Encrypt("t").Return("enc", nil)
	webex.EXPECT().CreateWebhook(gomock.Any(), "t", gomock.Any()).Return(&ports.RemoteWebhook{ID: "EXT-9"}, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	webex.EXPECT().DeleteWebhook(gomock.Any(), "t", "EXT-9").Return(nil)

	_, err := svc.Create(context.Background(), ports.CreateWebhookRequest{Name: "x", AccessToken: "t", Resource: domain.ResourceRooms, Event: domain.EventCreated})
	assertAppStatus(t, err, http.StatusInternalServerError)
}

func TestRegistryService_Get_NotFound(t *testing.T) {
	svc, repo, _, _ := setupRegistryService(t)
	id := uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

	_, err := svc.Get(context.Background(), id)
	assertAppStatus(t, err, http.StatusNotFound)
}

func TestRegistryService_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc, repo, _, _ := setupRegistryService(t)
		id := uuid.New()
		repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

		err := svc.Delete(context.Background(), id)
		assertAppStatus(t, err, http.StatusNotFound)
	})

	t.Run("local only when never registered remotely", func(t *testing.T) {
		svc, repo, _, _ := setupRegistryService(t)
		id := uuid.New()
		repo.EXPECT().GetByID(gomock.Any(), id).Return(&domain.WebhookSubscription{ID: id}, nil)
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
		// no webex call, no decrypt

		require.NoError(t, svc.Delete(context.Background(), id))
	})

	t.Run("remote then local", func(t *testing.T) {
		svc, repo, webex, enc := setupRegistryService(t)
		id := uuid.New()
		sub := remoteSub(id)

		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), id).Return(sub, nil),
			enc.EXPECT().Decrypt("enc-token").Return("owner-token", nil),
			webex.EXPECT().DeleteWebhook(gomock.Any(), "owner-token", *sub.WebhookID).Return(nil),
			repo.EXPECT().Delete(gomock.Any(), id).Return(nil),
		)

		require.NoError(t, svc.Delete(context.Background(), id))
	})

	t.Run("remote 404 is tolerated", func(t *testing.T) {
		svc, repo, webex, enc := setupRegistryService(t)
		id := uuid.New()

		repo.EXPECT().GetByID(gomock.Any(), id).Return(remoteSub(id), nil)
		enc.EXPECT().Decrypt(gomock.Any()).Return("owner-token", nil)
		webex.EXPECT().DeleteWebhook(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(fmt.Errorf("delete webhook X: %w", &ports.WebexAPIError{StatusCode: 404}))
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), id))
	})

	t.Run("other remote failure keeps local row", func(t *testing.T) {
		svc, repo, webex, enc := setupRegistryService(t)
		id := uuid.New()

		repo.EXPECT().GetByID(gomock.Any(), id).Return(remoteSub(id), nil)
		enc.EXPECT().Decrypt(gomock.Any()).Return("owner-token", nil)
		webex.EXPECT().DeleteWebhook(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&ports.WebexAPIError{StatusCode: 403, Message: "not the owner"})
		// no repo.Delete

		err := svc.Delete(context.Background(), id)
		appErr := assertAppStatus(t, err, http.StatusBadRequest)
		assert.Contains(t, appErr.Detail, "not the owner")
	})

	t.Run("transport failure keeps local row", func(t *testing.T) {
		svc, repo, webex, enc := setupRegistryService(t)
		id := uuid.New()

		repo.EXPECT().GetByID(gomock.Any(), id).Return(remoteSub(id), nil)
		enc.EXPECT().Decrypt(gomock.Any()).Return("owner-token", nil)
		webex.EXPECT().DeleteWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("send request: connection refused"))

		err := svc.Delete(context.Background(), id)
		assertAppStatus(t, err, http.StatusBadRequest)
	})

	t.Run("undecryptable token", func(t *testing.T) {
		svc, repo, _, enc := setupRegistryService(t)
		id := uuid.New()

		repo.EXPECT().GetByID(gomock.Any(), id).Return(remoteSub(id), nil)
		enc.EXPECT().Decrypt(gomock.Any()).Return("", errors.New("bad key"))

		err := svc.Delete(context.Background(), id)
		assertAppStatus(t, err, http.StatusInternalServerError)
	})
}

func TestRegistryService_List(t *testing.T) {
	svc, repo, _, _ := setupRegistryService(t)
	repo.EXPECT().List(gomock.Any()).Return([]domain.WebhookSubscription{{Name: "a"}, {Name: "b"}}, nil)

	subs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}
