package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// UserContext identifies who sent a feedback report. All fields optional.
type UserContext struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// WhatsAppService relays feedback reports to a fixed destination number
// through an Evolution-style WhatsApp gateway. One request per report, no
// retries; a failed send surfaces once to the caller.
type WhatsAppService struct {
	httpClient *http.Client
}

var whatsappService = NewWhatsAppService()

func NewWhatsAppService() *WhatsAppService {
	return &WhatsAppService{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FormatReport renders the notification template sent to the destination.
func FormatReport(message string, userContext *UserContext) string {
	var b strings.Builder
	b.WriteString("📋 *Novo feedback do painel*\n\n")

	if userContext != nil {
		if userContext.Name != "" {
			b.WriteString(fmt.Sprintf("👤 Nome: %s\n", userContext.Name))
		}
		if userContext.Email != "" {
			b.WriteString(fmt.Sprintf("📧 Email: %s\n", userContext.Email))
		}
		if userContext.TenantID != "" {
			b.WriteString(fmt.Sprintf("🏷️ Tenant: %s\n", userContext.TenantID))
		}
		b.WriteString("\n")
	}

	b.WriteString(message)
	return b.String()
}

// MediaTypeForURL picks the gateway media type from the URL's extension.
func MediaTypeForURL(mediaURL string) string {
	path := mediaURL
	if parsed, err := url.Parse(mediaURL); err == nil {
		path = parsed.Path
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".mp4"), strings.HasSuffix(lower, ".mov"), strings.HasSuffix(lower, ".webm"):
		return "video"
	case strings.HasSuffix(lower, ".mp3"), strings.HasSuffix(lower, ".ogg"), strings.HasSuffix(lower, ".opus"):
		return "audio"
	default:
		return "image"
	}
}

// GatewayResponse carries the gateway's verbatim reply.
type GatewayResponse struct {
	StatusCode int
	Body       []byte
}

// Send forwards a formatted report, choosing the text or media endpoint
// depending on whether a media URL is attached.
func (s *WhatsAppService) Send(text, mediaURL string) (*GatewayResponse, error) {
	base := strings.TrimRight(config.WhatsAppAPIURL, "/")

	var endpoint string
	var payload map[string]interface{}

	if mediaURL == "" {
		endpoint = fmt.Sprintf("%s/message/sendText/%s", base, config.WhatsAppInstance)
		payload = map[string]interface{}{
			"number": config.WhatsAppNumber,
			"text":   text,
		}
	} else {
		endpoint = fmt.Sprintf("%s/message/sendMedia/%s", base, config.WhatsAppInstance)
		payload = map[string]interface{}{
			"number":    config.WhatsAppNumber,
			"mediatype": MediaTypeForURL(mediaURL),
			"media":     mediaURL,
			"caption":   text,
		}
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error encoding gateway payload: %w", err)
	}

	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("error creating gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", config.WhatsAppAPIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending message to gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	return &GatewayResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

type WhatsAppHandler struct {
	Validator *validator.Validate
}

var whatsappHandler = &WhatsAppHandler{
	Validator: validator.New(),
}

// SendReport handles POST /send-whatsapp-report. Without gateway
// configuration the report is acknowledged locally and never leaves the
// server, so the widget still works on installs that skip the integration.
func (h *WhatsAppHandler) SendReport(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Message     string       `json:"message" validate:"required"`
		MediaURL    string       `json:"mediaUrl,omitempty"`
		UserContext *UserContext `json:"user_context,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeRelayJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Invalid request body",
			"success": false,
		})
		return
	}

	if err := h.Validator.Struct(input); err != nil {
		writeRelayJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Message is required",
			"success": false,
		})
		return
	}

	if !config.WhatsAppConfigured() {
		logger.Info("WhatsApp gateway not configured, acknowledging report locally")
		writeRelayJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"local":   true,
		})
		return
	}

	text := FormatReport(input.Message, input.UserContext)

	resp, err := whatsappService.Send(text, input.MediaURL)
	if err != nil {
		logger.Error("Error relaying WhatsApp report", "error", err)
		writeRelayJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   err.Error(),
			"success": false,
		})
		return
	}

	// Pass the gateway's JSON through untouched.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}
