package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firstlog/internal/models"
	"firstlog/internal/storage"
	"firstlog/internal/tokens"
	"firstlog/internal/transport"
)

func newFacadeClient(t *testing.T, handler http.Handler) (*transport.Client, *tokens.Manager) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tm := tokens.NewManager(context.Background(), storage.NewMemoryStore())
	c, err := transport.New(srv.URL+"/api/v1", 2*time.Second, tm)
	require.NoError(t, err)
	return c, tm
}

func TestAuth_Login_TokenEnvelopes(t *testing.T) {
	envelopes := []struct {
		name string
		body string
	}{
		{"top-level token", `{"token":"tok"}`},
		{"data.token", `{"data":{"token":"tok"}}`},
		{"data.accessToken", `{"data":{"accessToken":"tok"}}`},
		{"top-level accessToken", `{"accessToken":"tok"}`},
	}

	for _, tt := range envelopes {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body))
			})
			mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"data":{"id":1,"email":"a@b.com","name":"mina"}}`))
			})

			c, tm := newFacadeClient(t, mux)
			auth := NewAuth(c, tm)

			user, err := auth.Login(context.Background(), "a@b.com", "pw")
			require.NoError(t, err)
			assert.Equal(t, "tok", tm.Access())
			assert.Equal(t, "mina", user.Name)
		})
	}
}

func TestAuth_Login_NoTokenIsAuthError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"message":"ok but no token"}}`))
	})

	c, tm := newFacadeClient(t, mux)
	auth := NewAuth(c, tm)

	_, err := auth.Login(context.Background(), "a@b.com", "pw")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeAuth, appErr.Code)
	assert.Empty(t, tm.Access())
}

func TestAuth_Login_ProfileFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"token":"tok","refreshToken":"ref"}`))
	})
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, tm := newFacadeClient(t, mux)
	auth := NewAuth(c, tm)

	user, err := auth.Login(context.Background(), "mina.kim@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "mina.kim@example.com", user.Email)
	assert.Equal(t, "mina.kim", user.Name)
	assert.Equal(t, "ref", tm.Refresh())
}

func TestAuth_Login_IncompleteProfileFilledFromInput(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"token":"tok"}`))
	})
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"id":5}}`))
	})

	c, tm := newFacadeClient(t, mux)
	auth := NewAuth(c, tm)

	user, err := auth.Login(context.Background(), "june@example.com", "pw")
	require.NoError(t, err)
	assert.EqualValues(t, 5, user.ID)
	assert.Equal(t, "june@example.com", user.Email)
	assert.Equal(t, "june", user.Name)
}

func TestAuth_Signup_PersistsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var in SignupInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "new@user.com", in.Email)
		w.Write([]byte(`{"data":{"accessToken":"fresh"}}`))
	})

	c, tm := newFacadeClient(t, mux)
	auth := NewAuth(c, tm)

	err := auth.Signup(context.Background(), SignupInput{Email: "new@user.com", Password: "pw", Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", tm.Access())
}

func TestAuth_Logout_AlwaysClearsLocally(t *testing.T) {
	t.Run("server failure", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		c, tm := newFacadeClient(t, mux)
		tm.Save(context.Background(), "tok")
		tm.SaveRefresh(context.Background(), "ref")

		NewAuth(c, tm).Logout(context.Background())
		assert.Empty(t, tm.Access())
		assert.Empty(t, tm.Refresh())
	})

	t.Run("server success sends refresh token", func(t *testing.T) {
		var got map[string]string
		mux := http.NewServeMux()
		mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got)
			w.Write([]byte(`{}`))
		})

		c, tm := newFacadeClient(t, mux)
		tm.Save(context.Background(), "tok")
		tm.SaveRefresh(context.Background(), "ref")

		NewAuth(c, tm).Logout(context.Background())
		assert.Equal(t, "ref", got["refreshToken"])
		assert.Empty(t, tm.Access())
	})
}

func TestAuth_ValidateToken_FailureIsPlainError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	c, tm := newFacadeClient(t, mux)
	auth := NewAuth(c, tm)

	_, err := auth.ValidateToken(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsUnauthorized(err))

	// the interceptor purged the token as part of the same operation
	assert.Empty(t, tm.Access())
}
