package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker pings the backing stores. The in-memory conversation store
// and the inference endpoint are deliberately excluded: the first cannot
// fail while the process is up, the second has its own /api/chat/status.
type HealthChecker struct {
	infra Infrastructure
}

func NewHealthChecker(infra Infrastructure) *HealthChecker {
	return &HealthChecker{
		infra: infra,
	}
}

type checkResult struct {
	name string
	err  error
}

func (h *HealthChecker) check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	results := make(chan checkResult, 2)

	go func() {
		results <- checkResult{"postgres", h.infra.Postgres().Ping(ctx)}
	}()

	go func() {
		results <- checkResult{"redis", h.infra.Redis().Ping(ctx)}
	}()

	failed := make(map[string]string)
	for i := 0; i < 2; i++ {
		if r := <-results; r.err != nil {
			failed[r.name] = r.err.Error()
		}
	}
	return failed
}

func (h *HealthChecker) Handler(c *gin.Context) {
	if failed := h.check(c.Request.Context()); len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "fail",
			"errors": failed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "pass",
	})
}
