package identity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legumes/internal/model"
)

func TestGoTrueClient_AdminCreate(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		var body struct {
			Email        string         `json:"email"`
			Password     string         `json:"password"`
			EmailConfirm bool           `json:"email_confirm"`
			UserMetadata model.Metadata `json:"user_metadata"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body.Email)
		assert.True(t, body.EmailConfirm)
		assert.Equal(t, model.Metadata{Name: "Ana", Roles: []string{"vendor"}}, body.UserMetadata)

		_, _ = io.WriteString(w, `{"id":"`+id.String()+`","email":"a@b.com","user_metadata":{"name":"Ana","roles":["vendor"]}}`)
	}))
	defer srv.Close()

	client := NewGoTrueClient(srv.URL, "service-key", srv.Client())

	account, err := client.AdminCreate(context.Background(), "a@b.com", "secret1", true, model.Metadata{Name: "Ana", Roles: []string{"vendor"}})

	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.Equal(t, "vendor", account.Metadata.PrimaryRole())
}

func TestGoTrueClient_AdminCreateIDHandling(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantNil bool
		wantErr error
	}{
		{name: "missing id", body: `{"email":"a@b.com"}`, wantNil: true},
		{name: "malformed id", body: `{"id":"42","email":"a@b.com"}`, wantErr: ErrMalformedAccountID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			account, err := NewGoTrueClient(srv.URL, "k", srv.Client()).
				AdminCreate(context.Background(), "a@b.com", "secret1", true, model.Metadata{})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uuid.Nil, account.ID)
		})
	}
}

func TestGoTrueClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantIs   error
		wantMsg  string
		wantCode string
	}{
		{
			name:    "current shape email exists",
			status:  http.StatusUnprocessableEntity,
			body:    `{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`,
			wantIs:  ErrEmailExists,
			wantMsg: "A user with this email address has already been registered",
		},
		{
			name:    "legacy email not confirmed",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid_grant","error_description":"Email not confirmed"}`,
			wantIs:  ErrEmailNotConfirmed,
			wantMsg: "Email not confirmed",
		},
		{
			name:    "legacy invalid credentials",
			status:  http.StatusBadRequest,
			body:    `{"error":"invalid_grant","error_description":"Invalid login credentials"}`,
			wantIs:  ErrInvalidCredentials,
			wantMsg: "Invalid login credentials",
		},
		{
			name:     "plain text",
			status:   http.StatusBadGateway,
			body:     "bad gateway",
			wantMsg:  "bad gateway",
			wantCode: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewGoTrueClient(srv.URL, "k", srv.Client()).SignIn(context.Background(), "a@b.com", "pw")

			var idErr *Error
			require.True(t, errors.As(err, &idErr))
			assert.Equal(t, tt.status, idErr.Status)
			assert.Equal(t, tt.wantMsg, idErr.Message)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.Equal(t, tt.wantCode, idErr.Code)
			}
		})
	}
}

func TestGoTrueClient_SignInAndIntrospect(t *testing.T) {
	id := uuid.New()
	user := `{"id":"` + id.String() + `","email":"a@b.com","email_confirmed_at":"2024-01-01T00:00:00Z","user_metadata":{"name":"Ana","roles":["admin"]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
			_, _ = io.WriteString(w, `{"access_token":"at","token_type":"bearer","expires_in":3600,"refresh_token":"rt","user":`+user+`}`)
		case "/auth/v1/user":
			if r.Header.Get("Authorization") != "Bearer at" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`)
				return
			}
			_, _ = io.WriteString(w, user)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewGoTrueClient(srv.URL, "k", srv.Client())

	session, err := client.SignIn(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, 3600, session.ExpiresIn)
	require.NotNil(t, session.User)
	assert.True(t, session.User.Confirmed())

	account, err := client.Introspect(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, id, account.ID)
	assert.True(t, account.Metadata.HasRole("admin"))

	_, err = client.Introspect(context.Background(), "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoTrueClient_AdminDelete(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/auth/v1/admin/users/"+id.String(), r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	assert.NoError(t, NewGoTrueClient(srv.URL, "k", srv.Client()).AdminDelete(context.Background(), id))
}
