// Package server exposes the tool registry and the agent over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/thomasfsr/fitgenius/src/fitness"
	"github.com/thomasfsr/fitgenius/src/tools"
)

// Processor answers free-text requests, typically *agent.Agent.
type Processor interface {
	Process(ctx context.Context, input string, userContext map[string]any) (string, error)
}

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	registry  *tools.Registry
	agent     Processor // nil disables POST /api/agent
	jwtSecret []byte    // empty disables auth
	log       zerolog.Logger
}

func NewHandler(registry *tools.Registry, agent Processor, jwtSecret string, log zerolog.Logger) *Handler {
	h := &Handler{registry: registry, agent: agent, log: log}
	if jwtSecret != "" {
		h.jwtSecret = []byte(jwtSecret)
	}
	return h
}

type Options struct {
	Addr           string
	AllowedOrigins []string
}

// New builds the HTTP server with CORS in front of the gin router.
func New(opts Options, h *Handler) *http.Server {
	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return &http.Server{
		Addr:              opts.Addr,
		Handler:           c.Handler(h.Router()),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
}

func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)
	return router
}

func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/api", h.authMiddleware())
	api.GET("/tools", h.listTools)
	api.POST("/tools/:name", h.invokeTool)
	api.POST("/agent", h.processRequest)
}

// apiError returns a consistent JSON error response.
func apiError(c *gin.Context, status int, message, kind string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "kind": kind})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) (int, string) {
	if errors.Is(err, tools.ErrUnknownTool) {
		return http.StatusNotFound, "UnknownTool"
	}
	kind := fitness.KindOf(err)
	switch {
	case errors.Is(err, fitness.ErrInvalidInput):
		return http.StatusBadRequest, kind
	case errors.Is(err, fitness.ErrTemplateNotFound):
		return http.StatusNotFound, kind
	case errors.Is(err, fitness.ErrInfeasibleTargets):
		return http.StatusUnprocessableEntity, kind
	case errors.Is(err, fitness.ErrUpstream):
		return http.StatusBadGateway, kind
	default:
		return http.StatusInternalServerError, kind
	}
}

func (h *Handler) listTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.registry.Specs()})
}

// invokeTool runs one tool. POST /api/tools/:name with the JSON arguments as
// body.
func (h *Handler) invokeTool(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apiError(c, http.StatusBadRequest, "failed to read request body", "InvalidInput")
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 && !json.Valid(body) {
		apiError(c, http.StatusBadRequest, "request body is not valid JSON", "InvalidInput")
		return
	}
	out, err := h.registry.Invoke(c.Request.Context(), c.Param("name"), body)
	if err != nil {
		status, kind := statusFor(err)
		apiError(c, status, err.Error(), kind)
		return
	}
	c.JSON(http.StatusOK, out)
}

type agentRequest struct {
	Input   string         `json:"input" binding:"required"`
	Context map[string]any `json:"context"`
}

func (h *Handler) processRequest(c *gin.Context) {
	if h.agent == nil {
		apiError(c, http.StatusServiceUnavailable, "no language model configured", "UpstreamFailure")
		return
	}
	var req agentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body", "InvalidInput")
		return
	}
	reply, err := h.agent.Process(c.Request.Context(), req.Input, req.Context)
	if err != nil {
		status, kind := statusFor(err)
		apiError(c, status, err.Error(), kind)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}

// authMiddleware validates an HS256 bearer token when a secret is configured
// and sets the token subject on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(h.jwtSecret) == 0 {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			apiError(c, http.StatusUnauthorized, "missing or invalid authorization header", "Unauthorized")
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return h.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			apiError(c, http.StatusUnauthorized, "invalid token", "Unauthorized")
			return
		}
		if sub, ok := claims["sub"].(string); ok {
			c.Set("subject", sub)
		}
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()

		level := zerolog.InfoLevel
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = zerolog.ErrorLevel
		}
		h.log.WithLevel(level).
			Str("request_id", id).
			Str("subject", c.GetString("subject")).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
