package square

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/smoothbar/studio-backend/pkg/logging"
)

const stateTTL = 10 * time.Minute

// OAuthHandler exposes the connect/callback endpoints of the OAuth flow.
// CSRF state nonces are parked in Redis between the two requests.
type OAuthHandler struct {
	oauthService *OAuthService
	states       *redis.Client
	logger       *logging.Logger
}

// NewOAuthHandler creates handlers for the Square connect flow.
func NewOAuthHandler(oauthService *OAuthService, states *redis.Client, logger *logging.Logger) *OAuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &OAuthHandler{
		oauthService: oauthService,
		states:       states,
		logger:       logger,
	}
}

func (h *OAuthHandler) stateKey(state string) string {
	return fmt.Sprintf("square:oauth:state:%s", state)
}

// HandleConnect starts the authorization flow.
// GET /connect-square
func (h *OAuthHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	if err := h.states.Set(r.Context(), h.stateKey(state), "1", stateTTL).Err(); err != nil {
		h.logger.Error("failed to store oauth state", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	authURL := h.oauthService.AuthorizationURL(state)
	h.logger.Info("initiating square oauth")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Connect Square Account</title></head>
<body>
  <h1>Square Integration Setup</h1>
  <p>To display appointment availability, connect the studio's Square Appointments account.</p>
  <p><a href="%s">Connect Square Account</a></p>
</body>
</html>`, authURL)
}

// HandleCallback finishes the flow: validates state, exchanges the code and
// persists tokens.
// GET /callback?code=...&state=...
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Error("square oauth error", "error", errParam, "description", r.URL.Query().Get("error_description"))
		http.Error(w, "authorization was denied", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "no authorization code received", http.StatusBadRequest)
		return
	}

	state := r.URL.Query().Get("state")
	deleted, err := h.states.Del(r.Context(), h.stateKey(state)).Result()
	if err != nil {
		h.logger.Error("failed to check oauth state", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if state == "" || deleted == 0 {
		h.logger.Warn("oauth callback with unknown state")
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	creds, err := h.oauthService.ExchangeCode(r.Context(), code)
	if err != nil {
		h.logger.Error("square code exchange failed", "error", err)
		http.Error(w, "error connecting to Square", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Success!</title></head>
<body>
  <h1>Successfully Connected to Square!</h1>
  <p>Your Square account has been authorized.</p>
  <p>Merchant ID: %s</p>
</body>
</html>`, creds.MerchantID)
}
