package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/moamoa-kids/moamoa-web/internal/config"
	"github.com/moamoa-kids/moamoa-web/internal/core"
	"github.com/moamoa-kids/moamoa-web/internal/policy"
	"github.com/moamoa-kids/moamoa-web/internal/web"
)

const (
	loginPath  = "/login/"
	signupPath = "/signup/"
	kakaoPath  = "/auth/kakao"
)

// PageHandlers serves the landing page, its fragments, the policy texts and the login redirects.
type PageHandlers struct {
	hub    *core.Hub
	pages  *web.Pages
	policy policy.Policy
	kakao  config.KakaoConfig
	log    *zerolog.Logger
}

// NewPageHandlers creates a new page handlers instance.
func NewPageHandlers(hub *core.Hub, pages *web.Pages, pol policy.Policy, kakao config.KakaoConfig, logger *zerolog.Logger) *PageHandlers {
	return &PageHandlers{
		hub:    hub,
		pages:  pages,
		policy: pol,
		kakao:  kakao,
		log:    logger,
	}
}

// PolicyResponse represents a policy document in API responses.
type PolicyResponse struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Landing renders the marketing page with a fresh chat demo.
// GET /
func (h *PageHandlers) Landing(c *gin.Context) {
	info, err := h.hub.Open(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open chat session for landing page")
		c.String(http.StatusServiceUnavailable, "service unavailable")
		return
	}

	replies := h.hub.Catalog().QuickReplies()
	texts := make([]string, 0, len(replies))
	for _, r := range replies {
		texts = append(texts, r.Text)
	}

	var buf bytes.Buffer
	err = h.pages.Landing(&buf, web.LandingData{
		SessionID:       info.ID,
		ChatHTML:        info.HTML,
		QuickReplies:    texts,
		Typing:          info.State.IsTyping,
		LoginURL:        kakaoPath,
		PolicyAvailable: !h.policy.Empty(),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to render landing page")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	c.SetCookie("chat_session", info.ID, 0, "/", "", false, true)
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Login renders the kids login placeholder.
// GET /login/
func (h *PageHandlers) Login(c *gin.Context) {
	h.placeholder(c, web.PlaceholderData{Title: "키즈 로그인", Message: "키즈 로그인은 준비 중이에요."})
}

// Signup renders the kids signup placeholder.
// GET /signup/
func (h *PageHandlers) Signup(c *gin.Context) {
	h.placeholder(c, web.PlaceholderData{Title: "키즈 계정 만들기", Message: "키즈 계정 만들기는 준비 중이에요."})
}

// KakaoLogin redirects to the OAuth authorize page, or to the kids login when unconfigured.
// GET /auth/kakao
func (h *PageHandlers) KakaoLogin(c *gin.Context) {
	target, ok := KakaoAuthorizeURL(h.kakao)
	if !ok {
		h.log.Warn().Msg("kakao login is not configured, redirecting to kids login")
		target = loginPath
	}
	c.Redirect(http.StatusFound, target)
}

// Header returns the header fragment.
// GET /fragments/header
func (h *PageHandlers) Header(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(web.Header()))
}

// Footer returns the footer fragment.
// GET /fragments/footer
func (h *PageHandlers) Footer(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(web.Footer()))
}

// Policy returns the terms or privacy text for the modal.
// GET /api/policy/:kind
func (h *PageHandlers) Policy(c *gin.Context) {
	kind := policy.Kind(c.Param("kind"))
	text, err := h.policy.Text(kind)
	if err != nil {
		if errors.Is(err, policy.ErrUnknownKind) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown policy"})
			return
		}
		h.log.Error().Err(err).Str("kind", string(kind)).Msg("failed to read policy")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, PolicyResponse{Kind: string(kind), Text: text})
}

func (h *PageHandlers) placeholder(c *gin.Context, data web.PlaceholderData) {
	var buf bytes.Buffer
	if err := h.pages.Placeholder(&buf, data); err != nil {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("failed to render page")
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// KakaoAuthorizeURL builds the OAuth authorize URL. It reports false when the
// client key or redirect URI is missing.
func KakaoAuthorizeURL(cfg config.KakaoConfig) (string, bool) {
	if cfg.RestAPIKey == "" || cfg.RedirectURI == "" || cfg.AuthorizeURL == "" {
		return "", false
	}
	u, err := url.Parse(cfg.AuthorizeURL)
	if err != nil {
		return "", false
	}
	q := u.Query()
	q.Set("client_id", cfg.RestAPIKey)
	q.Set("redirect_uri", cfg.RedirectURI)
	q.Set("response_type", "code")
	u.RawQuery = q.Encode()
	return u.String(), true
}
