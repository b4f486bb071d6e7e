package stubserver

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) newComment(userID int64, content string) *commentRecord {
	name := ""
	if acc, ok := s.accounts[userID]; ok {
		name = acc.Name
	}
	cm := &commentRecord{
		ID:        s.nextCommentID,
		UserID:    userID,
		Username:  name,
		Content:   content,
		CreatedAt: time.Now(),
		likes:     make(map[int64]bool),
	}
	s.nextCommentID++
	return cm
}

func (s *Server) CreateTrendComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Content is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.trendByID(id)
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trend not found"})
	}

	cm := s.newComment(currentUserID(c), req.Content)
	t.comments = append(t.comments, cm)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": wireComment(cm, cm.UserID)})
}

// DeleteTrendComment addresses the comment by its own id. The deployed
// backend routes trend comments this way, without the parent trend id.
func (s *Server) DeleteTrendComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentUserID(c)
	for _, t := range s.trends {
		for i, cm := range t.comments {
			if cm.ID == commentID {
				if cm.UserID != userID {
					return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not the author"})
				}
				t.comments = append(t.comments[:i], t.comments[i+1:]...)
				return c.JSON(fiber.Map{"message": "Comment deleted"})
			}
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
}

func (s *Server) LikeTrendComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentUserID(c)
	for _, t := range s.trends {
		for _, cm := range t.comments {
			if cm.ID == commentID {
				if cm.likes[userID] {
					delete(cm.likes, userID)
				} else {
					cm.likes[userID] = true
				}
				return c.JSON(fiber.Map{"data": fiber.Map{"active": cm.likes[userID]}})
			}
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
}

func (s *Server) CreatePostComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req commentRequest
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Content is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.postByID(id)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	cm := s.newComment(currentUserID(c), req.Content)
	p.comments = append(p.comments, cm)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": wireComment(cm, cm.UserID)})
}

func (s *Server) DeletePostComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.postByID(id)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	userID := currentUserID(c)
	for i, cm := range p.comments {
		if cm.ID == commentID {
			if cm.UserID != userID {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not the author"})
			}
			p.comments = append(p.comments[:i], p.comments[i+1:]...)
			return c.JSON(fiber.Map{"message": "Comment deleted"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
}

func (s *Server) LikePostComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.postByID(id)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	userID := currentUserID(c)
	for _, cm := range p.comments {
		if cm.ID == commentID {
			if cm.likes[userID] {
				delete(cm.likes, userID)
			} else {
				cm.likes[userID] = true
			}
			return c.JSON(fiber.Map{"data": fiber.Map{"active": cm.likes[userID]}})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Comment not found"})
}
