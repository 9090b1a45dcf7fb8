package reqrestest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/webframe/logger"
)

const (
	perPage = 6
	// SessionCookie is the cookie set by GET /session.
	SessionCookie = "session"
)

// Request is one recorded inbound request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Option configures a Server.
type Option func(*Server)

// RequireAPIKey makes every /api route demand key under the x-api-key header.
func RequireAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithLogger sets the server request logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server is a fake reqres.in API.
type Server struct {
	*httptest.Server

	log    *logger.Logger
	apiKey string

	mu       sync.Mutex
	requests []Request
	nextID   int
}

// NewServer starts a fake and closes it when the test ends.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{log: logger.Nop(), nextID: 100}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root, the equivalent of https://reqres.in/api.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) routes() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(recovery(s.log), requestID(), s.record(), requestLogger(s.log))

	api := r.Group("/api")
	if s.apiKey != "" {
		api.Use(apiKey("x-api-key", s.apiKey))
	}
	api.GET("/users", listUsers)
	api.GET("/users/:id", getUser)
	api.POST("/users", s.createUser)
	api.PUT("/users/:id", updateUser)
	api.PATCH("/users/:id", updateUser)
	api.DELETE("/users/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.GET("/session", startSession)
	api.GET("/whoami", whoami)
	return r
}

var support = gin.H{
	"url":  "https://reqres.in/#support-heading",
	"text": "To keep ReqRes free, contributions towards server costs are appreciated!",
}

// Users returns the seeded user table, ids 1 to 12.
func Users() []gin.H {
	names := [][2]string{
		{"George", "Bluth"}, {"Janet", "Weaver"}, {"Emma", "Wong"},
		{"Eve", "Holt"}, {"Charles", "Morris"}, {"Tracey", "Ramos"},
		{"Michael", "Lawson"}, {"Lindsay", "Ferguson"}, {"Tobias", "Funke"},
		{"Byron", "Fields"}, {"George", "Edwards"}, {"Rachel", "Howell"},
	}
	users := make([]gin.H, len(names))
	for i, n := range names {
		id := i + 1
		users[i] = gin.H{
			"id":         id,
			"email":      fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(n[0]), strings.ToLower(n[1])),
			"first_name": n[0],
			"last_name":  n[1],
			"avatar":     fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
		}
	}
	return users
}

func listUsers(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	users := Users()
	start := (page - 1) * perPage
	data := []gin.H{}
	if start < len(users) {
		data = users[start:min(start+perPage, len(users))]
	}
	c.JSON(http.StatusOK, gin.H{
		"page":        page,
		"per_page":    perPage,
		"total":       len(users),
		"total_pages": (len(users) + perPage - 1) / perPage,
		"data":        data,
		"support":     support,
	})
}

func getUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	users := Users()
	if err != nil || id < 1 || id > len(users) {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users[id-1], "support": support})
}

func (s *Server) createUser(c *gin.Context) {
	fields := bodyFields(c)
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	fields["id"] = strconv.Itoa(id)
	fields["createdAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	c.JSON(http.StatusCreated, fields)
}

func updateUser(c *gin.Context) {
	fields := bodyFields(c)
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	c.JSON(http.StatusOK, fields)
}

// bodyFields reads a JSON object or a form body, whichever parses, the way
// reqres.in accepts either regardless of Content-Type.
func bodyFields(c *gin.Context) gin.H {
	raw, _ := c.GetRawData()
	fields := gin.H{}
	if json.Unmarshal(raw, &fields) == nil {
		return fields
	}
	fields = gin.H{}
	if values, err := url.ParseQuery(string(raw)); err == nil {
		for k := range values {
			fields[k] = values.Get(k)
		}
	}
	return fields
}

func startSession(c *gin.Context) {
	c.SetCookie(SessionCookie, uuid.NewString(), 3600, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func whoami(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": token})
}
