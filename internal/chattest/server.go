// Package chattest provides an in-memory stand-in for the LinkSpark backend,
// speaking the same REST routes and socket events the production server does.
// It exists so the chat core can be exercised end to end inside go test,
// against a real WebSocket, without any external infrastructure.
package chattest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/adirkandabi/LinkSpark/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = bcrypt.MinCost // tests do not need a slow hash

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type account struct {
	UserID         string
	Username       string
	HashedPassword string
}

// Server is the in-memory backend. Construct with NewServer, stop with Close.
type Server struct {
	httpSrv *httptest.Server
	secret  []byte

	mu      sync.Mutex
	users   map[string]*account          // username -> account
	friends map[string][]models.Friend   // user -> friend list
	history map[string][]models.ChatMessage
	unread  map[string]map[string]int    // viewer -> peer -> count
	members map[string]map[*client]bool  // room -> joined clients
	clients map[string]map[*client]bool  // user -> connected clients
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// NewServer starts the stub backend on an ephemeral port.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:  []byte("chattest-secret"),
		users:   make(map[string]*account),
		friends: make(map[string][]models.Friend),
		history: make(map[string][]models.ChatMessage),
		unread:  make(map[string]map[string]int),
		members: make(map[string]map[*client]bool),
		clients: make(map[string]map[*client]bool),
	}

	r := gin.New()

	// Mirrors the production server's middleware stack.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Upgrade", "Connection"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.GET("/ws", s.handleSocket)

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/auth/register", s.handleRegister)
		apiV1.POST("/auth/login", s.handleLogin)
		apiV1.GET("/users/:id/friends", s.handleFriends)
		apiV1.GET("/messages/unread/:user", s.handleUnread)
		apiV1.GET("/messages/:room", s.handleHistory)
	}

	s.httpSrv = httptest.NewServer(r)
	return s
}

// Close shuts the stub down.
func (s *Server) Close() {
	s.httpSrv.Close()
}

// APIBaseURL returns the REST base URL, including the /api/v1 prefix.
func (s *Server) APIBaseURL() string {
	return s.httpSrv.URL + "/api/v1"
}

// SocketURL returns the ws:// endpoint.
func (s *Server) SocketURL() string {
	return "ws" + strings.TrimPrefix(s.httpSrv.URL, "http") + "/ws"
}

// AddUser registers an account with a fixed user id, bypassing the REST flow.
func (s *Server) AddUser(userID, username, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &account{UserID: userID, Username: username, HashedPassword: string(hashed)}
}

// Befriend records a mutual friendship between two users.
func (s *Server) Befriend(a, b models.Friend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[a.UserID] = append(s.friends[a.UserID], b)
	s.friends[b.UserID] = append(s.friends[b.UserID], a)
}

// SeedHistory preloads a room's backlog.
func (s *Server) SeedHistory(room string, msgs ...models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[room] = append(s.history[room], msgs...)
}

// SeedUnread sets a viewer's unread count for one peer.
func (s *Server) SeedUnread(viewer, peer string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unread[viewer] == nil {
		s.unread[viewer] = make(map[string]int)
	}
	s.unread[viewer][peer] = count
}

// UnreadCount reports the server-side unread count (source of truth).
func (s *Server) UnreadCount(viewer, peer string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread[viewer][peer]
}

// HistoryLen reports how many messages the server has stored for a room.
func (s *Server) HistoryLen(room string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history[room])
}

// TokenFor mints a signed session token for the given user id.
func (s *Server) TokenFor(userID string) string {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
		"iat":     jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) userIDFromToken(tokenString string) (string, bool) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", false
	}
	id, _ := claims["user_id"].(string)
	return id, id != ""
}

// --- REST handlers ---

func (s *Server) handleRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	s.mu.Lock()
	if _, exists := s.users[req.Username]; exists {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		s.mu.Unlock()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	userID := uuid.NewString()
	s.users[req.Username] = &account{UserID: userID, Username: req.Username, HashedPassword: string(hashed)}
	s.mu.Unlock()

	c.JSON(http.StatusCreated, models.AuthResponse{UserID: userID, Token: s.TokenFor(userID)})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	s.mu.Lock()
	acct := s.users[req.Username]
	s.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword([]byte(acct.HashedPassword), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{UserID: acct.UserID, Token: s.TokenFor(acct.UserID)})
}

func (s *Server) handleFriends(c *gin.Context) {
	s.mu.Lock()
	friends := append([]models.Friend(nil), s.friends[c.Param("id")]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, models.FriendsResponse{Friends: friends})
}

func (s *Server) handleHistory(c *gin.Context) {
	s.mu.Lock()
	msgs := append([]models.ChatMessage(nil), s.history[c.Param("room")]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, models.HistoryResponse{Messages: msgs})
}

func (s *Server) handleUnread(c *gin.Context) {
	s.mu.Lock()
	entries := make([]models.UnreadEntry, 0, len(s.unread[c.Param("user")]))
	for peer, count := range s.unread[c.Param("user")] {
		entries = append(entries, models.UnreadEntry{UserID: peer, UnreadCount: count})
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, models.UnreadResponse{Unread: entries})
}
