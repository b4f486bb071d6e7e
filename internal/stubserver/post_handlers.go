package stubserver

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"firstlog/internal/models"
)

func (s *Server) postByID(id int64) *postRecord {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// wirePostSummary matches the deployed backend's list item shape, where
// the trend score arrives as a string and the district field is "gu".
func wirePostSummary(p *postRecord, userID int64) fiber.Map {
	return fiber.Map{
		"id":          p.ID,
		"title":       p.Title,
		"date":        p.Date,
		"location":    p.Location,
		"gu":          p.Gu,
		"emotion":     p.Emotion,
		"tag":         p.Tags,
		"description": p.Description,
		"trendId":     p.TrendID,
		"trendScore":  strconv.FormatFloat(p.TrendScore, 'f', 1, 64),
		"viewCount":   p.ViewCount,
		"likeCount":   len(p.likes),
		"liked":       p.likes[userID],
		"scrapped":    p.scraps[userID],
	}
}

func wirePostDetail(p *postRecord, userID int64) fiber.Map {
	m := wirePostSummary(p, userID)
	comments := make([]fiber.Map, 0, len(p.comments))
	for _, cm := range p.comments {
		comments = append(comments, wireComment(cm, userID))
	}
	m["comments"] = comments
	m["commentCount"] = len(p.comments)
	return m
}

func (s *Server) listPosts(c *fiber.Ctx, onlyMine bool) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	size, _ := strconv.Atoi(c.Query("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	emotion := c.Query("emotion", "all")
	keyword := strings.ToLower(c.Query("keyword"))

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentUserID(c)
	records := make([]*postRecord, 0, len(s.posts))
	for _, p := range s.posts {
		if onlyMine && p.UserID != userID {
			continue
		}
		if emotion != "all" && emotion != "" && p.Emotion != emotion {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(p.Title), keyword) &&
			!strings.Contains(strings.ToLower(p.Description), keyword) {
			continue
		}
		records = append(records, p)
	}

	if c.Query("sort", "latest") == "popular" {
		sort.SliceStable(records, func(i, j int) bool { return len(records[i].likes) > len(records[j].likes) })
	} else {
		sort.SliceStable(records, func(i, j int) bool { return records[i].ID > records[j].ID })
	}

	start := (page - 1) * size
	if start > len(records) {
		start = len(records)
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}

	list := make([]fiber.Map, 0, end-start)
	for _, p := range records[start:end] {
		list = append(list, wirePostSummary(p, userID))
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"list":          list,
			"page":          page,
			"size":          size,
			"totalElements": len(records),
		},
	})
}

func (s *Server) ListPosts(c *fiber.Ctx) error {
	return s.listPosts(c, false)
}

func (s *Server) MyPosts(c *fiber.Ctx) error {
	return s.listPosts(c, true)
}

func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.postByID(id)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}
	p.ViewCount++
	return c.JSON(fiber.Map{"data": wirePostDetail(p, currentUserID(c))})
}

type postRequest struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Gu          string   `json:"gu"`
	Emotion     string   `json:"emotion"`
	Tag         []string `json:"tag"`
	Description string   `json:"description"`
	TrendID     int64    `json:"trendId"`
}

func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		req.Title = models.UntitledPlaceholder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &postRecord{
		ID:          s.nextPostID,
		UserID:      currentUserID(c),
		Title:       req.Title,
		Date:        req.Date,
		Location:    req.Location,
		Gu:          req.Gu,
		Emotion:     string(models.ParseEmotion(req.Emotion)),
		Tags:        req.Tag,
		Description: req.Description,
		TrendID:     req.TrendID,
		likes:       make(map[int64]bool),
		scraps:      make(map[int64]bool),
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	s.nextPostID++
	s.posts = append(s.posts, p)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": wirePostDetail(p, p.UserID)})
}

func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.postByID(id)
	if p == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}
	if p.UserID != currentUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not the author"})
	}

	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Date != "" {
		p.Date = req.Date
	}
	if req.Location != "" {
		p.Location = req.Location
	}
	if req.Gu != "" {
		p.Gu = req.Gu
	}
	if req.Emotion != "" {
		p.Emotion = string(models.ParseEmotion(req.Emotion))
	}
	if req.Tag != nil {
		p.Tags = req.Tag
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	return c.JSON(fiber.Map{"data": wirePostDetail(p, p.UserID)})
}

func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.ID == id {
			if p.UserID != currentUserID(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not the author"})
			}
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return c.JSON(fiber.Map{"message": "Post deleted"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
}

func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.togglePostFlag(c, func(p *postRecord) map[int64]bool { return p.likes })
}

func (s *Server) ScrapPost(c *fiber.Ctx) error {
	return s.togglePostFlag(c, func(p *postRecord) map[int64]bool { return p.scraps })
}

func (s *Server) togglePostFlag(c *fiber.Ctx, pick func(*postRecord) map[int64]bool) error {
	id, err := parseID(c, "id")
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
	set := pick(p)
	if set[userID] {
		delete(set, userID)
	} else {
		set[userID] = true
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"active": set[userID]}})
}
