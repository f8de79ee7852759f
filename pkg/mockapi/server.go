package mockapi

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
)

// DefaultPort is used by Start when no port option is given
const DefaultPort = 8080

// MockServer is a scriptable OpenAI-compatible endpoint. Each scripted model
// decides per feature whether a probe request succeeds or answers with a
// provider error.
type MockServer struct {
	config *serverConfig
	engine *gin.Engine
	server *http.Server

	mu    sync.Mutex
	calls map[string]int
}

// serverConfig holds server configuration
type serverConfig struct {
	port            int
	scripts         []ModelScript
	apiKey          string
	withoutModels   bool
	withoutMessages bool
}

// Option is a functional option for configuring the MockServer
type Option func(*serverConfig)

// WithPort sets the port used by Start
func WithPort(port int) Option {
	return func(c *serverConfig) {
		c.port = port
	}
}

// WithAPIKey sets the authentication key required for requests
func WithAPIKey(key string) Option {
	return func(c *serverConfig) {
		c.apiKey = key
	}
}

// WithModels replaces the scripted model list
func WithModels(scripts ...ModelScript) Option {
	return func(c *serverConfig) {
		c.scripts = scripts
	}
}

// WithModel appends a scripted model
func WithModel(script ModelScript) Option {
	return func(c *serverConfig) {
		c.scripts = append(c.scripts, script)
	}
}

// WithoutModelsEndpoint makes the models listing answer 404, imitating
// providers that expose chat but no model catalog.
func WithoutModelsEndpoint() Option {
	return func(c *serverConfig) {
		c.withoutModels = true
	}
}

// WithoutMessagesEndpoint makes the Anthropic-style messages endpoint answer 404
func WithoutMessagesEndpoint() Option {
	return func(c *serverConfig) {
		c.withoutMessages = true
	}
}

// New creates a mock server with the given options
func New(opts ...Option) *MockServer {
	config := &serverConfig{
		port:    DefaultPort,
		scripts: DefaultScripts(),
	}
	for _, opt := range opts {
		opt(config)
	}

	ms := &MockServer{
		config: config,
		calls:  make(map[string]int),
	}
	ms.buildEngine()
	return ms
}

func (ms *MockServer) buildEngine() {
	gin.SetMode(gin.ReleaseMode)

	ms.engine = gin.New()
	ms.engine.Use(gin.Recovery())

	// Answer OPTIONS preflight on any route
	ms.engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			ms.count("options")
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	if ms.config.apiKey != "" {
		ms.engine.Use(ms.authMiddleware())
	}

	v1 := ms.engine.Group("/v1")
	v1.GET("/models", ms.handleModels)
	v1.POST("/chat/completions", ms.handleChatCompletions)
	v1.POST("/embeddings", ms.handleEmbeddings)
	v1.POST("/messages", ms.handleMessages)
}

// authMiddleware creates a middleware that checks for valid authentication
func (ms *MockServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check Authorization header (Bearer token)
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			token := authHeader
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				token = authHeader[7:]
			}
			if token == ms.config.apiKey {
				c.Next()
				return
			}
		}

		// Check x-api-key header (Anthropic style)
		if c.GetHeader("x-api-key") == ms.config.apiKey {
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{
				"type":    "authentication_error",
				"message": "Invalid authentication key",
			},
		})
		c.Abort()
	}
}

// Engine returns the router, ready to mount in an httptest server.
func (ms *MockServer) Engine() *gin.Engine {
	return ms.engine
}

// Start starts the mock server and blocks until it stops
func (ms *MockServer) Start() error {
	ms.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", ms.config.port),
		Handler: ms.engine,
	}
	return ms.server.ListenAndServe()
}

// Stop stops the mock server
func (ms *MockServer) Stop() error {
	if ms.server != nil {
		return ms.server.Close()
	}
	return nil
}

// Port returns the configured port
func (ms *MockServer) Port() int {
	return ms.config.port
}

func (ms *MockServer) count(kind string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.calls[kind]++
}

// Calls reports how many requests of the given kind were served. Kinds are
// models, chat, functions, json, vision, embeddings, messages, and options.
func (ms *MockServer) Calls(kind string) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.calls[kind]
}

func (ms *MockServer) findScript(model string) (ModelScript, bool) {
	for _, s := range ms.config.scripts {
		if s.ID == model {
			return s, true
		}
	}
	return ModelScript{}, false
}
