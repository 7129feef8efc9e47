package handler

import (
	"net/http"
	"time"

	"traydock/model"
	"traydock/service"
	"traydock/window"

	"github.com/gin-gonic/gin"
)

// keepAliveInterval is how often an idle directive stream is pinged
const keepAliveInterval = 15 * time.Second

// RegisterFrontendHandler registers the endpoints the window frontend uses to
// attach, receive directives and report window events
func RegisterFrontendHandler(router *gin.Engine, remote *window.Remote, ctrl *service.Controller, d *service.Dispatcher) {
	router.GET("/window/directives", streamDirectives(remote, ctrl))
	router.POST("/window/events", windowEvent(remote, ctrl, d))
	router.GET("/window/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, remote.Snapshot())
	})
}

// streamDirectives attaches the caller as a frontend and streams directives
// as server-sent events until it disconnects
// GET /window/directives
func streamDirectives(remote *window.Remote, ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := remote.Attach()
		defer remote.Detach(sub)
		c.Set("session_id", sub.ID)

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Session-ID", sub.ID)
		c.Status(http.StatusOK)

		// a fresh frontend starts from the stored size and opacity
		ctrl.Restore()

		c.SSEvent("session", gin.H{"session_id": sub.ID})
		c.Writer.Flush()

		ping := time.NewTicker(keepAliveInterval)
		defer ping.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Done():
				return
			case d := <-sub.Directives():
				c.SSEvent("directive", d)
				c.Writer.Flush()
			case <-ping.C:
				c.SSEvent("ping", gin.H{"time": time.Now().Unix()})
				c.Writer.Flush()
			}
		}
	}
}

// windowEvent records a window change reported by the frontend
// POST /window/events
func windowEvent(remote *window.Remote, ctrl *service.Controller, d *service.Dispatcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ev model.WindowEvent
		if err := c.ShouldBindJSON(&ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "type is required",
			})
			return
		}

		switch ev.Type {
		case model.WindowEventResized:
			remote.Observe(ev)
			ctrl.OnResized(model.WindowGeometry{Width: ev.Width, Height: ev.Height})
		case model.WindowEventFocus:
			remote.Observe(ev)
			if !ev.Focused {
				d.Dispatch(service.TriggerFocusLost)
			}
		case model.WindowEventMoved, model.WindowEventVisibility:
			remote.Observe(ev)
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_event",
				"message": "unknown event type " + ev.Type,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "recorded"})
	}
}
