package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/password"
	"github.com/dmitrijs2005/newsletter/internal/server/workerpool"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDummyHash = "dummy-hash"
	testRealHash  = "real-hash"
	testPassword  = "correct horse"
)

// recordingHasher accepts testPassword against any hash and records calls.
type recordingHasher struct {
	mu     sync.Mutex
	hashes []string
	err    error
}

func (h *recordingHasher) Verify(phc, pw string) error {
	h.mu.Lock()
	h.hashes = append(h.hashes, phc)
	h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	if pw != testPassword {
		return password.ErrMismatch
	}
	return nil
}

type verifierFixture struct {
	v        *CredentialVerifier
	hasher   *recordingHasher
	creds    *fakeCredentialsRepo
	failures *fakeCounter
	userID   uuid.UUID
}

func newVerifierFixture(t *testing.T) *verifierFixture {
	t.Helper()
	id := uuid.New()
	creds := &fakeCredentialsRepo{byName: map[string]*models.Credential{
		"admin": {UserID: id, Username: "admin", PasswordHash: testRealHash},
	}}
	h := &recordingHasher{}
	fc := &fakeCounter{}
	pool := workerpool.New(2)
	t.Cleanup(pool.Close)
	l, _ := newBufferLogger()

	v := NewCredentialVerifier(nil, &fakeRepoManager{c: creds}, h, pool, testDummyHash, fc, l)
	return &verifierFixture{v: v, hasher: h, creds: creds, failures: fc, userID: id}
}

func TestCredentialVerifier_Valid(t *testing.T) {
	f := newVerifierFixture(t)

	id, err := f.v.Validate(context.Background(), "admin", testPassword)
	require.NoError(t, err)
	assert.Equal(t, f.userID, id)
	assert.Equal(t, []string{testRealHash}, f.hasher.hashes)
	assert.Equal(t, []string{"admin"}, f.failures.resets)
	assert.Empty(t, f.failures.fails)
}

func TestCredentialVerifier_UnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	f := newVerifierFixture(t)
	ctx := context.Background()

	_, errUnknown := f.v.Validate(ctx, "ghost", "whatever")
	_, errWrong := f.v.Validate(ctx, "admin", "whatever")

	require.ErrorIs(t, errUnknown, common.ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, common.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())

	// One hash check on each path; the unknown user pays for the dummy.
	assert.Equal(t, []string{testDummyHash, testRealHash}, f.hasher.hashes)
	assert.Equal(t, []string{"ghost", "admin"}, f.failures.fails)
}

func TestCredentialVerifier_UnknownUserNeverSucceeds(t *testing.T) {
	f := newVerifierFixture(t)

	// The dummy hash "matches" testPassword here, the user still does not exist.
	_, err := f.v.Validate(context.Background(), "ghost", testPassword)
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, []string{testDummyHash}, f.hasher.hashes)
}

func TestCredentialVerifier_StorageFailureIsInternal(t *testing.T) {
	f := newVerifierFixture(t)
	f.creds.err = errors.New("connection refused")

	_, err := f.v.Validate(context.Background(), "admin", testPassword)
	require.ErrorIs(t, err, common.ErrorInternal)
	require.NotErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Empty(t, f.hasher.hashes)
	assert.Empty(t, f.failures.fails)
}

func TestCredentialVerifier_MalformedHashIsInternal(t *testing.T) {
	f := newVerifierFixture(t)
	f.hasher.err = password.ErrMalformedHash

	_, err := f.v.Validate(context.Background(), "admin", testPassword)
	require.ErrorIs(t, err, common.ErrorInternal)
	require.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestCredentialVerifier_ArgonTimingIsComparable(t *testing.T) {
	if testing.Short() {
		t.Skip("argon2 timing comparison")
	}

	h := password.NewHasher(password.DefaultParams)
	realHash, err := h.Hash(testPassword)
	require.NoError(t, err)

	creds := &fakeCredentialsRepo{byName: map[string]*models.Credential{
		"admin": {UserID: uuid.New(), Username: "admin", PasswordHash: realHash},
	}}
	pool := workerpool.New(1)
	t.Cleanup(pool.Close)
	l, _ := newBufferLogger()
	v := NewCredentialVerifier(nil, &fakeRepoManager{c: creds}, h, pool, password.DefaultDummyHash, &fakeCounter{}, l)

	measure := func(username string) time.Duration {
		const rounds = 5
		start := time.Now()
		for range rounds {
			_, err := v.Validate(context.Background(), username, "wrong password")
			require.ErrorIs(t, err, common.ErrInvalidCredentials)
		}
		return time.Since(start) / rounds
	}

	unknown := measure("ghost")
	wrong := measure("admin")

	ratio := float64(unknown) / float64(wrong)
	assert.Greater(t, ratio, 0.5, "unknown=%s wrong=%s", unknown, wrong)
	assert.Less(t, ratio, 2.0, "unknown=%s wrong=%s", unknown, wrong)
}
