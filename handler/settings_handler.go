package handler

import (
	"errors"
	"net/http"

	"traydock/service"
	"traydock/store"

	"github.com/gin-gonic/gin"
)

// SettingRequest represents the request body for set_setting
type SettingRequest struct {
	Value any `json:"value"`
}

// ShortcutRequest represents the request body for set_toggle_shortcut
type ShortcutRequest struct {
	Shortcut string `json:"shortcut"`
}

// RegisterSettingsHandler registers preference and shortcut endpoints
func RegisterSettingsHandler(router *gin.Engine, ctrl *service.Controller, reg *service.ShortcutRegistrar) {
	settings := router.Group("/settings")
	{
		settings.GET("", command("get_settings"), getSettings(ctrl))
		settings.GET("/:key", command("get_setting"), getSetting(ctrl))
		settings.PUT("/:key", command("set_setting"), setSetting(ctrl))
	}

	router.GET("/shortcut/toggle", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"shortcut": reg.Current()})
	})
	router.PUT("/shortcut/toggle", command("set_toggle_shortcut"), setToggleShortcut(reg))
}

func getSettings(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ctrl.Settings())
	}
}

func getSetting(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		value, _ := ctrl.Setting(key)
		c.JSON(http.StatusOK, gin.H{
			"key":   key,
			"value": value,
		})
	}
}

func setSetting(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")

		var req SettingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid JSON body",
			})
			return
		}

		if err := ctrl.SetSetting(key, req.Value); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidShortcut):
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_shortcut",
					"message": err.Error(),
				})
			case errors.Is(err, service.ErrInvalidSetting), errors.Is(err, store.ErrEmptyKey):
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_setting",
					"message": err.Error(),
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "internal_error",
					"message": err.Error(),
				})
			}
			return
		}

		value, _ := ctrl.Setting(key)
		c.JSON(http.StatusOK, gin.H{
			"key":   key,
			"value": value,
		})
	}
}

func setToggleShortcut(reg *service.ShortcutRegistrar) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShortcutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid JSON body",
			})
			return
		}

		if err := reg.SetBinding(req.Shortcut); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "invalid_shortcut",
				"message":  err.Error(),
				"shortcut": reg.Current(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"shortcut": reg.Current()})
	}
}
