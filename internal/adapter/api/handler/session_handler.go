package handler

import (
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/MichaelVenturi/House-marketplace/internal/adapter/api/middleware"
	"github.com/MichaelVenturi/House-marketplace/internal/domain/entity"
	ws "github.com/MichaelVenturi/House-marketplace/internal/infrastructure/websocket"
	"github.com/MichaelVenturi/House-marketplace/internal/usecase"
	"github.com/MichaelVenturi/House-marketplace/pkg/errors"
	"github.com/MichaelVenturi/House-marketplace/pkg/logger"
	"github.com/MichaelVenturi/House-marketplace/pkg/response"
	"github.com/MichaelVenturi/House-marketplace/pkg/utils"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionHandler upgrades authenticated clients to a push-only socket that
// receives identity changes for their uid.
type SessionHandler struct {
	sessions    *ws.Manager
	verifier    middleware.TokenVerifier
	authUseCase *usecase.AuthUseCase
}

func NewSessionHandler(sessions *ws.Manager, verifier middleware.TokenVerifier, authUseCase *usecase.AuthUseCase) *SessionHandler {
	return &SessionHandler{
		sessions:    sessions,
		verifier:    verifier,
		authUseCase: authUseCase,
	}
}

// Watch reads the ID token from ?token=, falling back to the bearer header.
func (h *SessionHandler) Watch(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		token = utils.BearerToken(c)
	}
	if token == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil).WithRedirect("/sign-in"))
	}

	uid, err := h.verifier.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err).WithRedirect("/sign-in"))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Session upgrade failed for %s: %v", uid, err)
		return nil
	}

	client := ws.NewClient(uid, conn)

	initial := entity.SessionEvent{UID: uid, SignedIn: true, At: time.Now().UTC()}
	if profile, err := h.authUseCase.Me(c.Request().Context(), uid); err == nil {
		initial.Name = profile.Name
	}
	if payload, err := ws.NewSessionMessage(initial).Encode(); err == nil {
		client.Send <- payload
	}

	h.sessions.Register(client)

	go client.ReadPump(h.sessions)
	go client.WritePump()

	return nil
}
