package stubserver

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) trendByID(id int64) *trendRecord {
	for _, t := range s.trends {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+param)
	}
	return id, nil
}

// wireTrendSummary uses the list shape the deployed backend emits, which
// labels the title field "name".
func (s *Server) wireTrendSummary(t *trendRecord, userID int64) fiber.Map {
	return fiber.Map{
		"trendId":      t.ID,
		"name":         t.Title,
		"description":  t.Description,
		"categoryName": t.Category,
		"score":        t.Score,
		"viewCount":    t.ViewCount,
		"likeCount":    len(t.likes),
		"liked":        t.likes[userID],
		"scrapped":     t.scraps[userID],
	}
}

func (s *Server) wireTrendDetail(t *trendRecord, userID int64) fiber.Map {
	similar := make([]fiber.Map, 0, 3)
	for _, other := range s.trends {
		if other.ID != t.ID && other.Category == t.Category && len(similar) < 3 {
			similar = append(similar, s.wireTrendSummary(other, userID))
		}
	}

	comments := make([]fiber.Map, 0, len(t.comments))
	for _, cm := range t.comments {
		comments = append(comments, wireComment(cm, userID))
	}

	return fiber.Map{
		"id":           t.ID,
		"title":        t.Title,
		"description":  t.Description,
		"category":     t.Category,
		"score":        t.Score,
		"viewCount":    t.ViewCount,
		"likeCount":    len(t.likes),
		"commentCount": len(t.comments),
		"liked":        t.likes[userID],
		"scrapped":     t.scraps[userID],
		"prediction": fiber.Map{
			"confidence":      t.Confidence,
			"nextMonthGrowth": t.Growth,
		},
		"similarTrends": similar,
		"recommendedNews": []fiber.Map{
			{"title": t.Title + " 관련 소식", "url": "https://news.example.com/" + strconv.FormatInt(t.ID, 10)},
		},
		"comments": comments,
	}
}

func (s *Server) ListTrends(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	size, _ := strconv.Atoi(c.Query("size", "10"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID := currentUserID(c)
	records := make([]*trendRecord, len(s.trends))
	copy(records, s.trends)

	switch {
	case strings.HasSuffix(c.Path(), "/popular"):
		sort.SliceStable(records, func(i, j int) bool { return len(records[i].likes) > len(records[j].likes) })
	case strings.HasSuffix(c.Path(), "/predictions"):
		sort.SliceStable(records, func(i, j int) bool { return records[i].Growth > records[j].Growth })
	default:
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

	content := make([]fiber.Map, 0, end-start)
	for _, t := range records[start:end] {
		content = append(content, s.wireTrendSummary(t, userID))
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"content":       content,
			"page":          page,
			"size":          size,
			"totalElements": len(records),
		},
	})
}

func (s *Server) TrendDetail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.trendByID(id)
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trend not found"})
	}
	t.ViewCount++
	return c.JSON(fiber.Map{"data": s.wireTrendDetail(t, currentUserID(c))})
}

type trendRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
}

func (s *Server) CreateTrend(c *fiber.Ctx) error {
	var req trendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Title is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &trendRecord{
		ID:          s.nextTrendID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Score:       req.Score,
		likes:       make(map[int64]bool),
		scraps:      make(map[int64]bool),
	}
	s.nextTrendID++
	s.trends = append(s.trends, t)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": s.wireTrendDetail(t, currentUserID(c))})
}

func (s *Server) UpdateTrend(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req trendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.trendByID(id)
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trend not found"})
	}
	if req.Title != "" {
		t.Title = req.Title
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.Category != "" {
		t.Category = req.Category
	}
	return c.JSON(fiber.Map{"data": s.wireTrendDetail(t, currentUserID(c))})
}

func (s *Server) DeleteTrend(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.trends {
		if t.ID == id {
			s.trends = append(s.trends[:i], s.trends[i+1:]...)
			return c.JSON(fiber.Map{"message": "Trend deleted"})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trend not found"})
}

func (s *Server) LikeTrend(c *fiber.Ctx) error {
	return s.toggleTrendFlag(c, func(t *trendRecord) map[int64]bool { return t.likes })
}

func (s *Server) ScrapTrend(c *fiber.Ctx) error {
	return s.toggleTrendFlag(c, func(t *trendRecord) map[int64]bool { return t.scraps })
}

func (s *Server) toggleTrendFlag(c *fiber.Ctx, pick func(*trendRecord) map[int64]bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.trendByID(id)
	if t == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trend not found"})
	}

	userID := currentUserID(c)
	set := pick(t)
	if set[userID] {
		delete(set, userID)
	} else {
		set[userID] = true
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"active": set[userID]}})
}

func wireComment(cm *commentRecord, userID int64) fiber.Map {
	return fiber.Map{
		"id":        cm.ID,
		"userId":    cm.UserID,
		"username":  cm.Username,
		"content":   cm.Content,
		"likeCount": len(cm.likes),
		"liked":     cm.likes[userID],
		"createdAt": cm.CreatedAt.Format(time.RFC3339),
	}
}
