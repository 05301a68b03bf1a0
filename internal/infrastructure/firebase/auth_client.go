package firebase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
)

const (
	identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	secureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// FirebaseAuthClient combines the Admin SDK, which manages users and verifies
// ID tokens, with the Identity Toolkit REST API, which performs the end-user
// sign-in flows the Admin SDK does not offer.
type FirebaseAuthClient struct {
	client      *auth.Client
	apiKey      string
	httpClient  *http.Client
	identityURL string
	tokenURL    string
}

type Option func(*FirebaseAuthClient)

// WithEndpoints points the REST calls at another host, e.g. the auth emulator.
func WithEndpoints(identityURL, tokenURL string) Option {
	return func(f *FirebaseAuthClient) {
		f.identityURL = identityURL
		f.tokenURL = tokenURL
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(f *FirebaseAuthClient) {
		f.httpClient = c
	}
}

func NewFirebaseAuthClient(client *auth.Client, apiKey string, opts ...Option) *FirebaseAuthClient {
	f := &FirebaseAuthClient{
		client:      client,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		identityURL: identityToolkitURL,
		tokenURL:    secureTokenURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ usecase.FirebaseAuthClient = (*FirebaseAuthClient)(nil)

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", adminError(err)
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}

func (f *FirebaseAuthClient) UpdateDisplayName(ctx context.Context, uid, name string) error {
	params := (&auth.UserToUpdate{}).
		DisplayName(name)

	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return adminError(err)
	}

	return nil
}

func (f *FirebaseAuthClient) UpdateEmail(ctx context.Context, uid, email string) error {
	params := (&auth.UserToUpdate{}).
		Email(email)

	if _, err := f.client.UpdateUser(ctx, uid, params); err != nil {
		return adminError(err)
	}

	return nil
}

func (f *FirebaseAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IsNewUser    bool   `json:"isNewUser"`
}

func (r *signInResponse) session() *entity.Session {
	return &entity.Session{
		UID:          r.LocalID,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresIn:    parseExpiresIn(r.ExpiresIn),
	}
}

func (f *FirebaseAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	var resp signInResponse
	err := f.post(ctx, f.identityURL+"/accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return resp.session(), nil
}

func (f *FirebaseAuthClient) SignInWithIdp(ctx context.Context, providerID, idToken string) (*usecase.IdpSignIn, error) {
	var resp signInResponse
	err := f.post(ctx, f.identityURL+"/accounts:signInWithIdp", map[string]interface{}{
		"postBody":            fmt.Sprintf("id_token=%s&providerId=%s", idToken, providerID),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &usecase.IdpSignIn{
		Session:     resp.session(),
		DisplayName: resp.DisplayName,
		Email:       resp.Email,
		IsNewUser:   resp.IsNewUser,
	}, nil
}

func (f *FirebaseAuthClient) SendPasswordReset(ctx context.Context, email string) error {
	return f.post(ctx, f.identityURL+"/accounts:sendOobCode", map[string]interface{}{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

func (f *FirebaseAuthClient) RefreshIdToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	var resp struct {
		UserID       string `json:"user_id"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	err := f.post(ctx, f.tokenURL+"/token", map[string]interface{}{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &entity.Session{
		UID:          resp.UserID,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    parseExpiresIn(resp.ExpiresIn),
	}, nil
}
