package handler

import (
	"net/http"

	"traydock/config"
	"traydock/service"

	"github.com/gin-gonic/gin"
)

// RegisterConfigHandler registers app config and preferences file endpoints
func RegisterConfigHandler(router *gin.Engine, cfg *config.Config, ctrl *service.Controller) {
	router.GET("/config", getConfig(cfg))
	router.PATCH("/config", updateConfig(cfg))
	router.GET("/config/path", command("get_config_path"), getConfigPath(ctrl))
	router.POST("/config/open", command("open_config"), openConfig(ctrl))
}

func getConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cfg.ToMap())
	}
}

func updateConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates map[string]interface{}
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid JSON body",
			})
			return
		}

		if err := cfg.Update(updates); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_config",
				"message": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "updated",
			"config": cfg.ToMap(),
		})
	}
}

func getConfigPath(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"path": ctrl.ConfigPath()})
	}
}

func openConfig(ctrl *service.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		path, err := ctrl.OpenConfig()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "open_failed",
				"message": err.Error(),
				"path":    path,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"path": path})
	}
}
