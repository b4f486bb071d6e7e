// Package stubserver implements the backend wire contract in memory, for
// local development and integration tests. It mirrors the deployed server's
// envelope quirks on purpose: trend lists nest under data.content, post
// lists under data.list, and detail bodies under data.
package stubserver

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"firstlog/internal/config"
)

type account struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	RefreshToken string
}

type commentRecord struct {
	ID        int64
	UserID    int64
	Username  string
	Content   string
	CreatedAt time.Time
	likes     map[int64]bool
}

type trendRecord struct {
	ID          int64
	Title       string
	Description string
	Category    string
	Score       float64
	Confidence  float64
	Growth      float64
	ViewCount   int64
	likes       map[int64]bool
	scraps      map[int64]bool
	comments    []*commentRecord
}

type postRecord struct {
	ID          int64
	UserID      int64
	Title       string
	Date        string
	Location    string
	Gu          string
	Emotion     string
	Tags        []string
	Description string
	TrendID     int64
	TrendScore  float64
	ViewCount   int64
	likes       map[int64]bool
	scraps      map[int64]bool
	comments    []*commentRecord
}

// Server holds the in-memory state behind the stub API.
type Server struct {
	cfg *config.Config

	mu            sync.Mutex
	accounts      map[int64]*account
	trends        []*trendRecord
	posts         []*postRecord
	nextAccountID int64
	nextTrendID   int64
	nextPostID    int64
	nextCommentID int64
}

// New creates a seeded stub server and its fiber app.
func New(cfg *config.Config) (*Server, *fiber.App) {
	s := &Server{
		cfg:           cfg,
		accounts:      make(map[int64]*account),
		nextAccountID: 1,
		nextTrendID:   1,
		nextPostID:    1,
		nextCommentID: 1,
	}
	s.seed()

	app := fiber.New(fiber.Config{AppName: "firstlog stub backend"})

	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	s.setupRoutes(app)
	return s, app
}

// prom is shared across app instances; collectors register with the
// process-wide registry exactly once.
var prom = fiberprometheus.New("firstlog-stub")

func (s *Server) setupRoutes(app *fiber.App) {
	v1 := app.Group("/api/v1", s.optionalAuth)

	v1.Post("/auth/login", s.Login)
	v1.Post("/auth/signup", s.Signup)
	v1.Post("/auth/logout", s.Logout)

	v1.Get("/users/me", s.requireAuth, s.CurrentUser)
	v1.Get("/users/me/posts", s.requireAuth, s.MyPosts)

	// literal trend routes must register ahead of /trends/:id
	v1.Get("/trends/recent", s.ListTrends)
	v1.Get("/trends/popular", s.ListTrends)
	v1.Get("/trends/recommendations", s.ListTrends)
	v1.Get("/trends/predictions", s.ListTrends)
	v1.Get("/trends", s.ListTrends)
	v1.Post("/trends", s.requireAuth, s.CreateTrend)
	// trend comments address the comment directly, unlike post comments
	v1.Delete("/trends/comments/:commentId", s.requireAuth, s.DeleteTrendComment)
	v1.Post("/trends/comments/:commentId/like", s.requireAuth, s.LikeTrendComment)
	v1.Get("/trends/:id", s.TrendDetail)
	v1.Put("/trends/:id", s.requireAuth, s.UpdateTrend)
	v1.Delete("/trends/:id", s.requireAuth, s.DeleteTrend)
	v1.Post("/trends/:id/like", s.requireAuth, s.LikeTrend)
	v1.Post("/trends/:id/scrap", s.requireAuth, s.ScrapTrend)
	v1.Post("/trends/:id/comments", s.requireAuth, s.CreateTrendComment)

	v1.Get("/posts", s.ListPosts)
	v1.Post("/posts", s.requireAuth, s.CreatePost)
	v1.Get("/posts/:id", s.PostDetail)
	v1.Put("/posts/:id", s.requireAuth, s.UpdatePost)
	v1.Delete("/posts/:id", s.requireAuth, s.DeletePost)
	v1.Post("/posts/:id/like", s.requireAuth, s.LikePost)
	v1.Post("/posts/:id/scrap", s.requireAuth, s.ScrapPost)
	v1.Post("/posts/:id/comments", s.requireAuth, s.CreatePostComment)
	v1.Delete("/posts/:id/comments/:commentId", s.requireAuth, s.DeletePostComment)
	v1.Post("/posts/:id/comments/:commentId/like", s.requireAuth, s.LikePostComment)
}

// optionalAuth resolves the user from a bearer token when one is present;
// public routes still personalize liked/scrapped flags for signed-in users.
func (s *Server) optionalAuth(c *fiber.Ctx) error {
	if id, ok := s.userFromToken(c); ok {
		c.Locals("userID", id)
	}
	return c.Next()
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	if _, ok := c.Locals("userID").(int64); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}
	return c.Next()
}

func (s *Server) userFromToken(c *fiber.Ctx) (int64, bool) {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Server) generateToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func currentUserID(c *fiber.Ctx) int64 {
	if id, ok := c.Locals("userID").(int64); ok {
		return id
	}
	return 0
}
