package service

import (
	"context"
	"testing"
	"time"

	"my-notes-be/internal/dto"
	"my-notes-be/internal/pkg/apperror"
	"my-notes-be/internal/pkg/serverutils"
	"my-notes-be/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 1)}
}

func (m *fakeMailer) SendWelcome(toEmail, login string) error {
	m.sent <- toEmail
	return nil
}

func newUserService(store *fakeStore, sessions *memory.SessionRepository, mail *fakeMailer) IUserService {
	return NewUserService(&fakeFactory{store: store}, sessions, mail, testSecret, time.Hour, nil)
}

func registerRequest() *dto.RegisterUserRequest {
	return &dto.RegisterUserRequest{
		Email:          "alice@example.com",
		Login:          "alice",
		Password:       "s3cret",
		RepeatPassword: "s3cret",
	}
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store, memory.NewSessionRepository(time.Hour), newFakeMailer())

	req := registerRequest()
	req.RepeatPassword = "different"
	_, err := svc.Register(context.Background(), req)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	assert.Empty(t, store.users)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store, memory.NewSessionRepository(time.Hour), newFakeMailer())

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Contains(t, err.Error(), "alice@example.com")
}

func TestRegisterHashesPasswordAndSendsWelcome(t *testing.T) {
	store := newFakeStore()
	mail := newFakeMailer()
	svc := newUserService(store, memory.NewSessionRepository(time.Hour), mail)

	res, err := svc.Register(context.Background(), registerRequest())

	require.NoError(t, err)
	user := store.users[res.Id]
	require.NotNil(t, user)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	select {
	case to := <-mail.sent:
		assert.Equal(t, "alice@example.com", to)
	case <-time.After(time.Second):
		t.Fatal("welcome email was never sent")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store, memory.NewSessionRepository(time.Hour), newFakeMailer())

	_, err := svc.Login(context.Background(), &dto.LoginUserRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	// Unknown email and wrong password produce the same message.
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeStore()
	svc := newUserService(store, memory.NewSessionRepository(time.Hour), newFakeMailer())
	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginUserRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestLoginIssuesTokenAndSession(t *testing.T) {
	store := newFakeStore()
	sessions := memory.NewSessionRepository(time.Hour)
	svc := newUserService(store, sessions, newFakeMailer())
	reg, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), &dto.LoginUserRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})

	require.NoError(t, err)
	assert.Equal(t, reg.Id, res.Id)

	userId, err := serverutils.ParseUserId(res.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, reg.Id, userId)

	session, found := sessions.Get(res.Token)
	require.True(t, found)
	assert.Equal(t, reg.Id, session.UserId)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	store := newFakeStore()
	sessions := memory.NewSessionRepository(time.Hour)
	svc := newUserService(store, sessions, newFakeMailer())
	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), &dto.LoginUserRequest{
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.Token))

	_, found := sessions.Get(res.Token)
	assert.False(t, found)
}
