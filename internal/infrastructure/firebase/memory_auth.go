package firebase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
)

const memoryTokenTTL = 3600

type memoryUser struct {
	uid      string
	email    string
	password string
	name     string
}

// MemoryAuthClient is an in-process stand-in for Firebase Auth used with
// DATA_BACKEND=memory. It reports the same error codes as the REST API.
type MemoryAuthClient struct {
	mu       sync.Mutex
	byUID    map[string]*memoryUser
	byEmail  map[string]*memoryUser
	idTokens map[string]string
	refresh  map[string]string
}

var _ usecase.FirebaseAuthClient = (*MemoryAuthClient)(nil)

func NewMemoryAuthClient() *MemoryAuthClient {
	return &MemoryAuthClient{
		byUID:    make(map[string]*memoryUser),
		byEmail:  make(map[string]*memoryUser),
		idTokens: make(map[string]string),
		refresh:  make(map[string]string),
	}
}

func codeError(code string) error {
	return &IdentityError{Status: http.StatusBadRequest, Message: code}
}

func (m *MemoryAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(email)
	if _, exists := m.byEmail[email]; exists {
		return "", codeError("EMAIL_EXISTS")
	}
	if len(password) < 6 {
		return "", codeError("WEAK_PASSWORD : Password should be at least 6 characters")
	}

	user := &memoryUser{uid: uuid.New().String(), email: email, password: password, name: displayName}
	m.byUID[user.uid] = user
	m.byEmail[email] = user
	return user.uid, nil
}

func (m *MemoryAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	uid, ok := m.idTokens[token]
	if !ok {
		return "", fmt.Errorf("ID token has invalid signature or is revoked")
	}
	return uid, nil
}

func (m *MemoryAuthClient) SignInWithEmailPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byEmail[strings.ToLower(email)]
	if !ok || user.password != password {
		return nil, codeError("INVALID_LOGIN_CREDENTIALS")
	}
	return m.issue(user.uid), nil
}

// SignInWithIdp trusts the provider token as the external subject id.
func (m *MemoryAuthClient) SignInWithIdp(ctx context.Context, providerID, idToken string) (*usecase.IdpSignIn, error) {
	if idToken == "" {
		return nil, codeError("INVALID_IDP_RESPONSE")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	uid := providerID + ":" + idToken
	user, exists := m.byUID[uid]
	if !exists {
		user = &memoryUser{uid: uid, email: idToken + "@" + providerID, name: idToken}
		m.byUID[uid] = user
		m.byEmail[user.email] = user
	}

	return &usecase.IdpSignIn{
		Session:     m.issue(uid),
		DisplayName: user.name,
		Email:       user.email,
		IsNewUser:   !exists,
	}, nil
}

func (m *MemoryAuthClient) SendPasswordReset(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[strings.ToLower(email)]; !ok {
		return codeError("EMAIL_NOT_FOUND")
	}
	return nil
}

func (m *MemoryAuthClient) RefreshIdToken(ctx context.Context, refreshToken string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	uid, ok := m.refresh[refreshToken]
	if !ok {
		return nil, codeError("INVALID_REFRESH_TOKEN")
	}
	delete(m.refresh, refreshToken)
	return m.issue(uid), nil
}

func (m *MemoryAuthClient) UpdateDisplayName(ctx context.Context, uid, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byUID[uid]
	if !ok {
		return codeError("USER_NOT_FOUND")
	}
	user.name = name
	return nil
}

func (m *MemoryAuthClient) UpdateEmail(ctx context.Context, uid, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.byUID[uid]
	if !ok {
		return codeError("USER_NOT_FOUND")
	}
	email = strings.ToLower(email)
	if other, exists := m.byEmail[email]; exists && other.uid != uid {
		return codeError("EMAIL_EXISTS")
	}
	delete(m.byEmail, user.email)
	user.email = email
	m.byEmail[email] = user
	return nil
}

func (m *MemoryAuthClient) RevokeSessions(ctx context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, owner := range m.idTokens {
		if owner == uid {
			delete(m.idTokens, token)
		}
	}
	for token, owner := range m.refresh {
		if owner == uid {
			delete(m.refresh, token)
		}
	}
	return nil
}

func (m *MemoryAuthClient) issue(uid string) *entity.Session {
	idToken := uuid.New().String()
	refreshToken := uuid.New().String()
	m.idTokens[idToken] = uid
	m.refresh[refreshToken] = uid

	return &entity.Session{
		UID:          uid,
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresIn:    memoryTokenTTL,
	}
}
