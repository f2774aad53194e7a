// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zaloupe/internal/infrastructure/persistence/elastic"
	"zaloupe/internal/infrastructure/persistence/postgres"
	"zaloupe/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	pg      *postgres.Client
	redis   *redis.Client
	elastic *elastic.Client
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(pg *postgres.Client, redisClient *redis.Client, elasticClient *elastic.Client) *HealthHandler {
	return &HealthHandler{
		pg:      pg,
		redis:   redisClient,
		elastic: elasticClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready 就绪检查接口
// Postgres、Redis、Elasticsearch 都健康才算就绪。
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"postgres":      {Status: "unknown"},
		"redis":         {Status: "unknown"},
		"elasticsearch": {Status: "unknown"},
	}

	ready := true

	runCheck := func(name string, fn func(context.Context) error) {
		if fn == nil {
			checks[name].Status = "missing"
			checks[name].Error = name + " client not configured"
			ready = false
			return
		}
		start := time.Now()
		err := fn(ctx)
		checks[name].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks[name].Status = "error"
			checks[name].Error = err.Error()
			ready = false
			return
		}
		checks[name].Status = "ok"
	}

	if h.pg != nil {
		runCheck("postgres", h.pg.HealthCheck)
	} else {
		runCheck("postgres", nil)
	}
	if h.redis != nil {
		runCheck("redis", h.redis.HealthCheck)
	} else {
		runCheck("redis", nil)
	}
	if h.elastic != nil {
		runCheck("elasticsearch", h.elastic.HealthCheck)
	} else {
		runCheck("elasticsearch", nil)
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
