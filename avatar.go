package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// avatarFields is the priority order for extracting a profile picture from
// the upstream response. The upstream renames fields between plan tiers, so
// the HD variant is preferred and the alternates are probed in turn.
var avatarFields = []string{
	"data.profile_pic_url_hd",
	"data.profile_pic_url",
	"data.hd_profile_pic_url_info.url",
	"data.user.profile_pic_url",
}

// AvatarCache memoizes successful lookups so repeated renders of the same
// profile do not burn upstream quota.
type AvatarCache struct {
	cache sync.Map
}

func (c *AvatarCache) Get(username string) (string, bool) {
	value, ok := c.cache.Load(username)
	if !ok {
		return "", false
	}
	avatarURL, ok := value.(string)
	return avatarURL, ok
}

func (c *AvatarCache) Set(username, avatarURL string) {
	c.cache.Store(username, avatarURL)
}

// AvatarService resolves Instagram usernames to profile picture URLs via a
// third-party profile API.
type AvatarService struct {
	httpClient *http.Client
}

var avatarCache = &AvatarCache{}
var avatarService = NewAvatarService()

func NewAvatarService() *AvatarService {
	return &AvatarService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NormalizeUsername strips one leading @, trims whitespace and lowercases.
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	return strings.ToLower(strings.TrimSpace(username))
}

// ErrProfileNotFound distinguishes a missing profile from transport and
// configuration failures so the handler can answer 404 instead of 500.
type ErrProfileNotFound struct {
	Username string
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("no profile picture found for %q", e.Username)
}

// Lookup fetches the avatar URL for an already-normalized username.
func (s *AvatarService) Lookup(username string) (string, error) {
	if avatarURL, ok := avatarCache.Get(username); ok {
		return avatarURL, nil
	}

	endpoint := fmt.Sprintf("%s/v1/info?username_or_id_or_url=%s",
		strings.TrimRight(config.InstagramAPIBase, "/"), url.QueryEscape(username))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("error creating profile request: %w", err)
	}
	req.Header.Set("x-access-key", config.InstagramAPIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling profile API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &ErrProfileNotFound{Username: username}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading profile response: %w", err)
	}

	for _, field := range avatarFields {
		if value := gjson.GetBytes(body, field); value.Exists() && value.String() != "" {
			avatarURL := value.String()
			avatarCache.Set(username, avatarURL)
			return avatarURL, nil
		}
	}

	return "", &ErrProfileNotFound{Username: username}
}

type AvatarHandler struct {
	Validator *validator.Validate
}

var avatarHandler = &AvatarHandler{
	Validator: validator.New(),
}

// Lookup handles POST /get-instagram-avatar. Error bodies keep the shape the
// feedback widget expects: {error, success, suggestion}.
func (h *AvatarHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "Invalid request body", "Send a JSON body like {\"username\": \"@perfil\"}")
		return
	}

	if err := h.Validator.Struct(input); err != nil {
		writeAvatarError(w, http.StatusBadRequest, "Username is required", "Send a JSON body like {\"username\": \"@perfil\"}")
		return
	}

	username := NormalizeUsername(input.Username)
	if username == "" {
		writeAvatarError(w, http.StatusBadRequest, "Username is required", "Send a JSON body like {\"username\": \"@perfil\"}")
		return
	}

	if !config.InstagramConfigured() {
		logger.Error("Avatar lookup attempted without INSTAGRAM_API_KEY configured")
		writeAvatarError(w, http.StatusInternalServerError, "Avatar service is not configured", "Set INSTAGRAM_API_KEY on the server")
		return
	}

	avatarURL, err := avatarService.Lookup(username)
	if err != nil {
		var notFound *ErrProfileNotFound
		if errors.As(err, &notFound) {
			writeAvatarError(w, http.StatusNotFound, "Profile picture not found", "Check the username spelling or try again without the @")
			return
		}
		logger.Error("Error looking up avatar", "error", err, "username", username)
		writeAvatarError(w, http.StatusInternalServerError, "Error looking up profile", "Try again in a few minutes")
		return
	}

	writeRelayJSON(w, http.StatusOK, map[string]interface{}{
		"avatar_url": avatarURL,
		"username":   username,
		"success":    true,
	})
}

func writeAvatarError(w http.ResponseWriter, status int, message, suggestion string) {
	writeRelayJSON(w, status, map[string]interface{}{
		"error":      message,
		"success":    false,
		"suggestion": suggestion,
	})
}

// writeRelayJSON emits a bare JSON body. The relay endpoints predate the
// {message, data} envelope and the widget embedded on external pages depends
// on the flat shape.
func writeRelayJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
