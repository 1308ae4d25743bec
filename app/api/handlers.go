package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/database"
	"github.com/RichWangombe/bookmarkr-platform/app/recommend"
)

func NewHandler(news NewsSource, recommender Recommender, bookmarks database.BookmarkStore, defaultLimit int) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}

	return &Handler{
		news:         news,
		recommender:  recommender,
		bookmarks:    bookmarks,
		defaultLimit: defaultLimit,
		startedAt:    time.Now(),
	}
}

func (h *Handler) GetNews(c *gin.Context) {
	items := h.news.GetAllNews(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) GetTrending(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	items := h.news.GetTrending(c.Request.Context(), limit)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *Handler) GetNewsByCategory(c *gin.Context) {
	category, ok := content.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category", "category": c.Param("category")})
		return
	}

	items := h.news.GetNewsByCategory(c.Request.Context(), category)

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"category": category,
		"total":    len(items),
	})
}

func (h *Handler) GetPersonalized(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	recommendations := h.recommender.Personalized(c.Request.Context(), limit)

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"total":           len(recommendations),
	})
}

func (h *Handler) GetSimilar(c *gin.Context) {
	bookmarkID, err := strconv.ParseInt(c.Param("bookmarkId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark id"})
		return
	}

	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	recommendations, err := h.recommender.Similar(c.Request.Context(), bookmarkID, limit)
	if err != nil {
		if errors.Is(err, recommend.ErrBookmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
			return
		}
		slog.Error("Similar recommendations failed", "bookmark", bookmarkID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"total":           len(recommendations),
	})
}

func (h *Handler) GetTopic(c *gin.Context) {
	topic := c.Param("topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing topic parameter"})
		return
	}

	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	recommendations := h.recommender.Topic(c.Request.Context(), topic, limit)

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"topic":           topic,
		"total":           len(recommendations),
	})
}

func (h *Handler) GetDiscover(c *gin.Context) {
	limit, ok := h.parseLimit(c)
	if !ok {
		return
	}

	recommendations := h.recommender.Discover(c.Request.Context(), limit)

	c.JSON(http.StatusOK, gin.H{
		"recommendations": recommendations,
		"total":           len(recommendations),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	}

	if count, err := h.bookmarks.GetBookmarkCount(); err == nil {
		health["bookmarks"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := h.news.Stats()

	if count, err := h.bookmarks.GetBookmarkCount(); err == nil {
		stats["bookmarks"] = count
	}

	c.JSON(http.StatusOK, stats)
}

// parseLimit reads the limit query parameter, rejecting malformed values
// at the boundary. Writes the error response itself when invalid.
func (h *Handler) parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return h.defaultLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter", "limit": raw})
		return 0, false
	}

	return limit, true
}
