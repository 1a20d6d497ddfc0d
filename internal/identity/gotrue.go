package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"legumes/internal/model"
)

// GoTrueClient talks to a hosted GoTrue auth API.
type GoTrueClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

var _ Provider = (*GoTrueClient)(nil)

// NewGoTrueClient creates a client for baseURL (the project URL; /auth/v1 is appended).
func NewGoTrueClient(baseURL, serviceKey string, httpClient *http.Client) *GoTrueClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoTrueClient{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/auth/v1",
		serviceKey: serviceKey,
		httpClient: httpClient,
	}
}

type goTrueUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	UserMetadata     model.Metadata `json:"user_metadata"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// account converts the wire user. An empty id yields uuid.Nil so callers can
// detect it; anything else that is not a UUID is rejected.
func (u *goTrueUser) account() (*model.Account, error) {
	account := &model.Account{
		Email:            u.Email,
		Metadata:         u.UserMetadata,
		EmailConfirmedAt: u.EmailConfirmedAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if u.ID == "" {
		return account, nil
	}
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAccountID, u.ID)
	}
	account.ID = id
	return account, nil
}

type goTrueSession struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
	User         *goTrueUser `json:"user"`
}

// SignIn uses the password grant.
func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out goTrueSession
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.serviceKey, body, &out); err != nil {
		return nil, err
	}
	session := &Session{
		AccessToken:  out.AccessToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
		RefreshToken: out.RefreshToken,
	}
	if out.User != nil {
		account, err := out.User.account()
		if err != nil {
			return nil, err
		}
		session.User = account
	}
	return session, nil
}

// Introspect fetches the user the token was issued for.
func (c *GoTrueClient) Introspect(ctx context.Context, token string) (*model.Account, error) {
	var out goTrueUser
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &out); err != nil {
		return nil, err
	}
	return out.account()
}

// AdminCreate creates a user through the admin API.
func (c *GoTrueClient) AdminCreate(ctx context.Context, email, password string, confirmed bool, meta model.Metadata) (*model.Account, error) {
	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": confirmed,
		"user_metadata": meta,
	}
	var out goTrueUser
	if err := c.do(ctx, http.MethodPost, "/admin/users", c.serviceKey, body, &out); err != nil {
		return nil, err
	}
	return out.account()
}

// AdminDelete removes a user through the admin API.
func (c *GoTrueClient) AdminDelete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+id.String(), c.serviceKey, nil, nil)
}

func (c *GoTrueClient) do(ctx context.Context, method, path, bearer string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("identity: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("identity: new request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusMultipleChoices {
		return decodeError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("identity: decode response: %w", err)
	}
	return nil
}

// errorBody covers both the legacy OAuth style and the current error shape.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func decodeError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return &Error{Status: res.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	e := &Error{Status: res.StatusCode, Code: body.ErrorCode}
	for _, msg := range []string{body.Msg, body.ErrorDescription, body.Message, body.Error} {
		if msg != "" {
			e.Message = msg
			break
		}
	}
	if e.Code == "" {
		e.Code = legacyCode(body, res.StatusCode)
	}
	if e.Message == "" {
		e.Message = http.StatusText(res.StatusCode)
	}
	return e
}

// legacyCode derives a code for servers that only send an OAuth error and description.
func legacyCode(body errorBody, status int) string {
	desc := strings.ToLower(body.ErrorDescription + " " + body.Msg)
	switch {
	case strings.Contains(desc, "email not confirmed"):
		return CodeEmailNotConfirmed
	case strings.Contains(desc, "invalid login credentials"):
		return CodeInvalidCredentials
	case strings.Contains(desc, "already been registered"):
		return CodeEmailExists
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeBadJWT
	}
	return body.Error
}
