package handler

import (
	"net/http"

	"traydock/service"

	"github.com/gin-gonic/gin"
)

const commandTrigger = "command"

// OpacityRequest represents the request body for set_window_opacity
type OpacityRequest struct {
	Opacity *float64 `json:"opacity" binding:"required"`
}

// BadgeRequest represents the request body for set_tray_badge
type BadgeRequest struct {
	HasUnread *bool `json:"has_unread" binding:"required"`
}

// RegisterWindowHandler registers the window commands
func RegisterWindowHandler(router *gin.Engine, ctrl *service.Controller) {
	win := router.Group("/window")
	{
		win.POST("/close", command("close_window"), closeWindow(ctrl))
		win.POST("/show", command("show_window"), showWindow(ctrl))
		win.GET("/visible", command("is_window_visible"), isWindowVisible(ctrl))
		win.POST("/save-size", command("save_size"), saveSize(ctrl))
		win.POST("/opacity", command("set_window_opacity"), setOpacity(ctrl))
		win.POST("/about", command("show_about"), showAbout(ctrl))
		win.POST("/settings", command("show_settings"), showSettings(ctrl))
	}
}

// RegisterTrayHandler registers the tray badge command
func RegisterTrayHandler(router *gin.Engine, badge *service.BadgeCoordinator) {
	router.POST("/tray/badge", command("set_tray_badge"), setTrayBadge(badge))
	router.GET("/tray/badge", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"has_unread": badge.HasUnread()})
	})
}

func closeWindow(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl.Hide(commandTrigger)
		c.JSON(http.StatusOK, gin.H{"visible": ctrl.IsVisible()})
	}
}

func showWindow(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl.Show(commandTrigger)
		c.JSON(http.StatusOK, gin.H{"visible": ctrl.IsVisible()})
	}
}

func isWindowVisible(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"visible": ctrl.IsVisible()})
	}
}

func saveSize(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"saved": ctrl.SaveSize()})
	}
}

func setOpacity(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OpacityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "opacity is required",
			})
			return
		}

		applied := ctrl.SetOpacity(*req.Opacity)
		c.JSON(http.StatusOK, gin.H{"opacity": applied})
	}
}

func showAbout(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl.ShowAbout()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func showSettings(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl.ShowSettings()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func setTrayBadge(badge *service.BadgeCoordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BadgeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "has_unread is required",
			})
			return
		}

		badge.SetBadge(*req.HasUnread)
		c.JSON(http.StatusOK, gin.H{"has_unread": badge.HasUnread()})
	}
}
