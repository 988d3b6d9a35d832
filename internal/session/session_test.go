package session

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustcare/cli/internal/models"
)

func TestTokenStore_SetGetClear(t *testing.T) {
	s := NewTokenStore()

	_, ok := s.Get()
	require.False(t, ok)
	require.False(t, s.Clear())

	s.Set("first")
	s.Set("second")
	tok, ok := s.Get()
	require.True(t, ok)
	require.Equal(t, "second", tok)

	require.True(t, s.Clear())
	require.False(t, s.Clear())
	_, ok = s.Get()
	require.False(t, ok)
}

func TestTokenStore_ClearIfOnlyMatchesCurrent(t *testing.T) {
	s := NewTokenStore()
	require.False(t, s.ClearIf(""))

	s.Set("new")
	require.False(t, s.ClearIf("old"))
	tok, ok := s.Get()
	require.True(t, ok)
	require.Equal(t, "new", tok)

	require.True(t, s.ClearIf("new"))
	require.False(t, s.ClearIf("new"))
	_, ok = s.Get()
	require.False(t, ok)
}

func TestTokenStore_ConcurrentClearReportsOnce(t *testing.T) {
	s := NewTokenStore()
	s.Set("T")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		cleared int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Clear() {
				mu.Lock()
				cleared++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, cleared)
}

func TestSession_Lifecycle(t *testing.T) {
	s, w := New()
	require.Equal(t, Anonymous, s.State())
	require.False(t, s.IsAuthenticated())

	w.SetPending(PendingLogin{Username: "a@b.com", MaskedEmail: "a***@b.com"})
	require.Equal(t, OtpPending, s.State())
	p, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, "a***@b.com", p.MaskedEmail)

	user := &models.UserProfile{Username: "a@b.com", Role: &models.Role{RoleName: "DOCTOR"}}
	w.Authenticate(user)
	require.True(t, s.IsAuthenticated())
	_, ok = s.Pending()
	require.False(t, ok)
	require.Same(t, user, s.User())

	gen := s.Generation()
	require.True(t, w.Reset())
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())
	require.Equal(t, gen+1, s.Generation())

	require.False(t, w.Reset())
	require.Equal(t, gen+1, s.Generation())
}

func TestSession_BeginLoginDiscardsEarlierPending(t *testing.T) {
	s, w := New()
	w.SetPending(PendingLogin{Username: "u"})
	w.BeginLogin()
	require.Equal(t, LoginPending, s.State())
	_, ok := s.Pending()
	require.False(t, ok)

	require.True(t, w.Reset())
	require.Equal(t, Anonymous, s.State())
}

func TestSession_LoadingIsCounted(t *testing.T) {
	s, w := New()
	end1 := w.BeginLoading()
	end2 := w.BeginLoading()
	require.True(t, s.IsLoading())

	end1()
	end1()
	require.True(t, s.IsLoading())
	end2()
	require.False(t, s.IsLoading())
}

func TestWriter_InvalidateKeepsState(t *testing.T) {
	s, w := New()
	before := s.Generation()

	w.Invalidate()

	assert.Equal(t, before+1, s.Generation())
	assert.Equal(t, Anonymous, s.State())
	assert.False(t, w.Reset())
	assert.Equal(t, before+1, s.Generation())
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(-time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "doc",
		"role": "DOCTOR",
		"exp":  exp.Unix(),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	c, err := ParseClaims(signed)
	require.NoError(t, err)
	assert.Equal(t, "doc", c.Subject)
	assert.Equal(t, "DOCTOR", c.Role)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.True(t, c.Expired(time.Now()))
}

func TestParseClaims_Opaque(t *testing.T) {
	_, err := ParseClaims("T")
	require.ErrorIs(t, err, ErrOpaqueToken)

	assert.False(t, Claims{}.Expired(time.Now()))
}
