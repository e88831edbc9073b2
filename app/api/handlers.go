package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roniemartinez/SiteSummarizerBot/app/database"
	"github.com/roniemartinez/SiteSummarizerBot/app/dedup"
)

type Handler struct {
	store     dedup.StoreInterface
	journal   database.ReplyRepository
	version   string
	startedAt time.Time
}

func NewHandler(store dedup.StoreInterface, journal database.ReplyRepository, version string) *Handler {
	return &Handler{
		store:     store,
		journal:   journal,
		version:   version,
		startedAt: time.Now(),
	}
}

// HealthCheck reports dedup store and journal reachability.
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	checks := gin.H{
		"dedup_store": "ok",
		"journal":     "ok",
	}

	if err := h.store.Ping(c.Request.Context()); err != nil {
		slog.Error("Health check failed", "component", "dedup_store", "error", err)
		checks["dedup_store"] = err.Error()
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	if _, err := h.journal.GetStats(); err != nil {
		slog.Error("Health check failed", "component", "journal", "error", err)
		checks["journal"] = err.Error()
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
	})
}

// GetStats reports reply journal counters and process uptime.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.journal.GetStats()
	if err != nil {
		slog.Error("Failed to read journal stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"replies_posted":    stats.Posted,
		"replies_retracted": stats.Retracted,
		"uptime":            time.Since(h.startedAt).Round(time.Second).String(),
		"version":           h.version,
	})
}
