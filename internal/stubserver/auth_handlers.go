package stubserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acc := range s.accounts {
		if acc.Email == req.Email {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	acc := &account{
		ID:           s.nextAccountID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	s.nextAccountID++
	s.accounts[acc.ID] = acc

	token, err := s.generateToken(acc.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}
	acc.RefreshToken = uuid.NewString()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"accessToken":  token,
			"refreshToken": acc.RefreshToken,
			"user":         wireUser(acc),
		},
	})
}

func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	var acc *account
	for _, candidate := range s.accounts {
		if candidate.Email == req.Email {
			acc = candidate
			break
		}
	}
	if acc == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	token, err := s.generateToken(acc.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to issue token"})
	}
	acc.RefreshToken = uuid.NewString()

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"accessToken":  token,
			"refreshToken": acc.RefreshToken,
		},
	})
}

func (s *Server) Logout(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	// body is optional, a bare logout still succeeds
	_ = c.BodyParser(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.RefreshToken != "" {
		for _, acc := range s.accounts {
			if acc.RefreshToken == req.RefreshToken {
				acc.RefreshToken = ""
			}
		}
	} else if id := currentUserID(c); id != 0 {
		if acc, ok := s.accounts[id]; ok {
			acc.RefreshToken = ""
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (s *Server) CurrentUser(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[currentUserID(c)]
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	return c.JSON(fiber.Map{"data": wireUser(acc)})
}

func wireUser(acc *account) fiber.Map {
	return fiber.Map{
		"id":    acc.ID,
		"email": acc.Email,
		"name":  acc.Name,
	}
}
