package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trustcare/cli/internal/backendtest"
	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/session"
)

func TestClient_LoginFlowAgainstBackend(t *testing.T) {
	backend := backendtest.New(t)
	backend.AddUser("a@b.com", "a@b.com", "Secret1!", "DOCTOR")
	backend.SetNextToken("T")

	tokens := session.NewTokenStore()
	client := NewClient(backend.URL(), tokens)
	ctx := context.Background()

	initiated, err := client.InitiateLogin(ctx, models.LoginRequest{Email: "a@b.com", Password: "Secret1!"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", initiated.Username)
	assert.Equal(t, "a***@b.com", initiated.MaskedEmail)
	assert.True(t, initiated.OtpSent)

	resp, err := client.VerifyOtp(ctx, models.OtpVerificationRequest{Username: "a@b.com", Otp: backendtest.ValidOTP})
	require.NoError(t, err)
	assert.Equal(t, "T", resp.Token)
	assert.Equal(t, "DOCTOR", resp.Role)

	tokens.Set(resp.Token)
	me, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DOCTOR", me.RoleName())

	reqs := backend.Requests()
	require.Len(t, reqs, 3)
	assert.Empty(t, reqs[0].Authorization)
	assert.Empty(t, reqs[1].Authorization)
	assert.Equal(t, "Bearer T", reqs[2].Authorization)
	for _, r := range reqs {
		_, err := uuid.Parse(r.RequestID)
		assert.NoError(t, err, "request id on %s", r.Path)
	}
}

func TestClient_ResendOtpSendsPlainText(t *testing.T) {
	backend := backendtest.New(t)
	backend.AddUser("a@b.com", "a@b.com", "Secret1!", "PATIENT")

	client := NewClient(backend.URL(), session.NewTokenStore())
	resp, err := client.ResendOtp(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a***@b.com", resp.MaskedEmail)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "text/plain", reqs[0].ContentType)
	assert.Equal(t, "a@b.com", reqs[0].Body)
}

func TestClient_RegisterAcceptsPlainTextReply(t *testing.T) {
	backend := backendtest.New(t)
	client := NewClient(backend.URL(), session.NewTokenStore())

	msg, err := client.Register(context.Background(), models.RegisterRequest{
		Username: "new_user", Email: "n@b.com", Password: "Secret1!", RoleName: "PATIENT",
	})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)

	_, err = client.Register(context.Background(), models.RegisterRequest{
		Username: "new_user", Email: "n@b.com", Password: "Secret1!", RoleName: "PATIENT",
	})
	require.Error(t, err)
	assert.Equal(t, "Email is already registered", ErrorMessage(err))
}

func TestClient_UnauthorizedWithTokenRunsHandler(t *testing.T) {
	backend := backendtest.New(t)
	tokens := session.NewTokenStore()
	tokens.Set("stale")

	client := NewClient(backend.URL(), tokens)
	var (
		calls    atomic.Int32
		rejected atomic.Value
	)
	client.SetUnauthorizedHandler(func(token string) {
		calls.Add(1)
		rejected.Store(token)
	})

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "stale", rejected.Load())
}

func TestClient_UnauthorizedWithoutTokenIsLocal(t *testing.T) {
	backend := backendtest.New(t)
	backend.AddUser("a@b.com", "a@b.com", "Secret1!", "PATIENT")

	client := NewClient(backend.URL(), session.NewTokenStore())
	var calls atomic.Int32
	client.SetUnauthorizedHandler(func(string) { calls.Add(1) })

	_, err := client.InitiateLogin(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, "Invalid email or password", ErrorMessage(err))
	assert.Zero(t, calls.Load())
}

func TestClient_OtherStatusesPassThrough(t *testing.T) {
	backend := backendtest.New(t)
	acc := backend.AddUser("p@b.com", "p@b.com", "Secret1!", "PATIENT")
	backend.SetNextToken("P")
	_, err := NewClient(backend.URL(), nil).VerifyOtp(context.Background(),
		models.OtpVerificationRequest{Username: acc.Profile.Email, Otp: backendtest.ValidOTP})
	require.NoError(t, err)

	tokens := session.NewTokenStore()
	tokens.Set("P")
	client := NewClient(backend.URL(), tokens)
	var calls atomic.Int32
	client.SetUnauthorizedHandler(func(string) { calls.Add(1) })

	_, err = client.ListPatients(context.Background())
	require.Error(t, err)
	assert.True(t, IsForbiddenError(err))

	_, err = client.GetPatient(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))

	backend.FailNext("/patient/1", 1)
	_, err = client.GetPatient(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsServerFault(err))

	assert.Zero(t, calls.Load())
	_, stillHeld := tokens.Get()
	assert.True(t, stillHeld)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, session.NewTokenStore(), WithTimeout(time.Second))
	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.NotEmpty(t, ErrorMessage(err))
}

func TestClient_ConcurrentUnauthorizedCallsAllReachHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	tokens := session.NewTokenStore()
	tokens.Set("T")
	client := NewClient(srv.URL, tokens)

	var cleared atomic.Int32
	client.SetUnauthorizedHandler(func(string) {
		if tokens.Clear() {
			cleared.Add(1)
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.ListPrescriptions(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), cleared.Load())
}
