package service_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-routines/internal/repository/memory"
	"alcyxob/fitness-routines/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

const (
	testSecret   = "test-secret"
	testResetURL = "https://app.example.com/reset"
)

func newAuth(t *testing.T) (service.AuthService, *MockMailer) {
	ctrl := gomock.NewController(t)
	mailer := NewMockMailer(ctrl)
	return service.NewAuthService(memory.NewStore().Users(), mailer, testResetURL, testSecret, time.Hour), mailer
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	name, email, password := gofakeit.Name(), gofakeit.Email(), gofakeit.Password(true, true, true, false, false, 12)

	user, err := auth.Register(ctx, name, "  "+strings.ToUpper(email)+" ", password)
	require.NoError(t, err)
	assert.Equal(t, strings.ToLower(email), user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.False(t, user.ID.IsZero())

	token, loggedIn, err := auth.Login(ctx, email, password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)

	userID, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	me, err := auth.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, name, me.Name)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	email := gofakeit.Email()
	_, err := auth.Register(ctx, "Sam", email, "longenough")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "Sam Again", strings.ToUpper(email), "longenough")
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)

	_, err = auth.Register(ctx, "Sam", gofakeit.Email(), "short")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = auth.Register(ctx, "Sam", "not-an-email", "longenough")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = auth.Register(ctx, " ", gofakeit.Email(), "longenough")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	email := gofakeit.Email()
	_, err := auth.Register(ctx, "Sam", email, "correct-horse")
	require.NoError(t, err)

	_, _, wrongPassword := auth.Login(ctx, email, "battery-staple")
	_, _, unknownEmail := auth.Login(ctx, gofakeit.Email(), "correct-horse")
	assert.ErrorIs(t, wrongPassword, service.ErrAuthenticationFailed)
	assert.ErrorIs(t, unknownEmail, service.ErrAuthenticationFailed)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	auth, _ := newAuth(t)
	other := service.NewAuthService(memory.NewStore().Users(), nil, "", "another-secret", time.Hour)

	ctx := context.Background()
	_, err := other.Register(ctx, "Sam", "sam@example.com", "longenough")
	require.NoError(t, err)
	foreign, _, err := other.Login(ctx, "sam@example.com", "longenough")
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", foreign} {
		id, err := auth.ParseToken(token)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.Equal(t, primitive.NilObjectID, id)
	}
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	auth, _ := newAuth(t)
	// No mailer expectation: sending anything fails the test.
	assert.NoError(t, auth.ForgotPassword(context.Background(), gofakeit.Email()))
}

func TestAuthService_ResetPassword(t *testing.T) {
	auth, mailer := newAuth(t)
	ctx := context.Background()
	email := gofakeit.Email()
	_, err := auth.Register(ctx, "Sam", email, "old-password")
	require.NoError(t, err)

	var link string
	mailer.EXPECT().
		SendPasswordReset(gomock.Any(), strings.ToLower(email), "Sam", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, l string) error {
			link = l
			return nil
		})
	require.NoError(t, auth.ForgotPassword(ctx, email))

	require.True(t, strings.HasPrefix(link, testResetURL+"?token="), link)
	parsed, err := url.Parse(link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")
	require.NotEmpty(t, token)

	assert.ErrorIs(t, auth.ResetPassword(ctx, token, "short"), service.ErrValidation)
	assert.ErrorIs(t, auth.ResetPassword(ctx, "wrong-token", "new-password"), service.ErrInvalidResetToken)
	require.NoError(t, auth.ResetPassword(ctx, token, "new-password"))

	_, _, err = auth.Login(ctx, email, "old-password")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	_, _, err = auth.Login(ctx, email, "new-password")
	assert.NoError(t, err)

	// Tokens are single use.
	assert.ErrorIs(t, auth.ResetPassword(ctx, token, "another-password"), service.ErrInvalidResetToken)
}
