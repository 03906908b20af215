package server

import (
	"net/http"
	"time"

	"github.com/danmuck/arplace/internal/placement"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "0.1.0"

func (a *Admin) registerRoutes() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(a.Started).String(),
			"service": a.ID,
			"version": version,
		})
	})

	// ready once a session is tracking surfaces
	a.router.GET("/ready", func(c *gin.Context) {
		st := a.source.Status()
		ready := st.State == placement.StateActive && st.HitTestReady
		code := http.StatusOK
		if !ready {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"ready": ready,
			"state": st.State,
		})
	})

	a.router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, a.source.Status())
	})

	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
