package service

import (
	"testing"

	"github.com/riteshk28/CELPIP-Practice-sub000/config"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestAuthService() AuthService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLHours = 1
	return NewAuthService(newFakeUserRepo(), cfg)
}

func TestAuth_SignupLoginRoundTrip(t *testing.T) {
	svc := newTestAuthService()

	resp, err := svc.Signup("alex@example.com", "hunter22", "Alex")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alex@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)

	// The issued token parses back to the same identity.
	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	login, err := svc.Login("alex@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestAuth_DuplicateSignup(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Signup("alex@example.com", "hunter22", "Alex")
	require.NoError(t, err)
	_, err = svc.Signup("alex@example.com", "other", "Alex B")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuth_InvalidCredentials(t *testing.T) {
	svc := newTestAuthService()
	_, err := svc.Signup("alex@example.com", "hunter22", "Alex")
	require.NoError(t, err)

	_, err = svc.Login("alex@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_ParseTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService()
	_, err := svc.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
