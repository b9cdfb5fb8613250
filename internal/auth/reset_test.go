package auth_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"ndelight-api/internal/apperr"
	"ndelight-api/internal/auth"
	"ndelight-api/internal/auth/db"
	"ndelight-api/internal/logger"
	"ndelight-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCredentialUpdater struct {
	mock.Mock
}

func (m *MockCredentialUpdater) UpdatePassword(userID, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func newResetService(store *MockProfileStore, creds *MockCredentialUpdater, mailer *MockOTPMailer, clock auth.Clock) *auth.ResetService {
	return auth.NewResetService(store, creds, mailer, time.Hour, "https://www.ndelight.in", clock, logger.NewLogger())
}

func TestForgotStoresHashAndEmailsLink(t *testing.T) {
	store := new(MockProfileStore)
	mailer := new(MockOTPMailer)
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	svc := newResetService(store, new(MockCredentialUpdater), mailer, clock)

	store.On("GetProfileByEmail", "asha@example.com").Return(&models.Profile{
		ID: "prof1", Email: "asha@example.com",
	}, nil)

	var storedHash string
	store.On("SetResetToken", "prof1", mock.MatchedBy(func(hash string) bool {
		storedHash = hash
		return len(hash) == 64
	}), clock.now.Add(time.Hour)).Return(nil)

	var mailedLink string
	mailer.On("SendResetLink", "asha@example.com", mock.MatchedBy(func(link string) bool {
		mailedLink = link
		return strings.HasPrefix(link, "https://www.ndelight.in/reset-password.html?token=")
	})).Return(nil)

	assert.NoError(t, svc.Forgot("asha@example.com"))

	// The stored hash must be the SHA-256 of the token in the emailed link.
	parsed, err := url.Parse(mailedLink)
	assert.NoError(t, err)
	assert.Equal(t, "asha@example.com", parsed.Query().Get("email"))
	token := parsed.Query().Get("token")
	sum := sha256.Sum256([]byte(token))
	assert.Equal(t, storedHash, hex.EncodeToString(sum[:]))
}

func TestForgotUnknownEmailLooksTheSame(t *testing.T) {
	store := new(MockProfileStore)
	mailer := new(MockOTPMailer)
	clock := &fakeClock{now: time.Now()}
	svc := newResetService(store, new(MockCredentialUpdater), mailer, clock)

	store.On("GetProfileByEmail", "ghost@example.com").Return(nil, db.ErrNotFound)

	assert.NoError(t, svc.Forgot("ghost@example.com"))
	mailer.AssertNotCalled(t, "SendResetLink", mock.Anything, mock.Anything)
}

func TestForgotStoreFailureStaysSilent(t *testing.T) {
	store := new(MockProfileStore)
	clock := &fakeClock{now: time.Now()}
	svc := newResetService(store, new(MockCredentialUpdater), new(MockOTPMailer), clock)

	store.On("GetProfileByEmail", "asha@example.com").Return(nil, errors.New("db down"))

	assert.NoError(t, svc.Forgot("asha@example.com"))
}

func TestResetRedeemsTokenOnce(t *testing.T) {
	store := new(MockProfileStore)
	creds := new(MockCredentialUpdater)
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	svc := newResetService(store, creds, new(MockOTPMailer), clock)

	token := "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])
	expires := clock.now.Add(30 * time.Minute)

	store.On("GetProfileByResetTokenHash", hash).Return(&models.Profile{
		ID: "prof1", ResetTokenHash: hash, ResetTokenExpiresAt: &expires,
	}, nil)
	creds.On("UpdatePassword", "prof1", "new-password-1").Return(nil)
	store.On("ClearResetToken", "prof1").Return(nil)

	assert.NoError(t, svc.Reset(token, "new-password-1"))
	store.AssertCalled(t, "ClearResetToken", "prof1")
}

func TestResetRejectsExpiredToken(t *testing.T) {
	store := new(MockProfileStore)
	clock := &fakeClock{now: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	svc := newResetService(store, new(MockCredentialUpdater), new(MockOTPMailer), clock)

	token := "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])
	expires := clock.now.Add(-time.Minute)

	store.On("GetProfileByResetTokenHash", hash).Return(&models.Profile{
		ID: "prof1", ResetTokenHash: hash, ResetTokenExpiresAt: &expires,
	}, nil)

	err := svc.Reset(token, "new-password-1")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestResetRejectsUnknownToken(t *testing.T) {
	store := new(MockProfileStore)
	clock := &fakeClock{now: time.Now()}
	svc := newResetService(store, new(MockCredentialUpdater), new(MockOTPMailer), clock)

	store.On("GetProfileByResetTokenHash", mock.Anything).Return(nil, db.ErrNotFound)

	err := svc.Reset("bogus-token", "new-password-1")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestResetRejectsShortPassword(t *testing.T) {
	store := new(MockProfileStore)
	clock := &fakeClock{now: time.Now()}
	svc := newResetService(store, new(MockCredentialUpdater), new(MockOTPMailer), clock)

	err := svc.Reset("whatever", "short")
	assert.True(t, apperr.IsKind(err, apperr.Validation))
	store.AssertNotCalled(t, "GetProfileByResetTokenHash", mock.Anything)
}
