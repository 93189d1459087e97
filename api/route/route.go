package route

import (
	"notes-go-server/api/controller"
	"notes-go-server/api/middleware"

	"github.com/gin-gonic/gin"
)

// Dependencies 路由依赖注入结构
type Dependencies struct {
	UserController    *controller.UserController
	NoteController    *controller.NoteController
	WSHandler         *controller.WSHandler
	WebhookController *controller.WebhookController
}

// Setup 配置所有路由
func Setup(router *gin.Engine, deps *Dependencies) {
	// --- 公开路由 ---

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "notes-go-server",
		})
	})

	// Clerk Webhook（使用签名验证，不使用 JWT）
	router.POST("/webhook/clerk", deps.WebhookController.HandleClerkWebhook)

	// --- WebSocket 路由 ---
	// WebSocket 自行在 Handler 中验证 Token
	router.GET("/ws", deps.WSHandler.HandleWS)

	// --- API 路由（需要 Clerk JWT 认证）---
	api := router.Group("/api")
	api.Use(middleware.ClerkAuth())
	{
		// 身份同步
		api.POST("/users/sync", deps.UserController.SyncUser)
		api.GET("/users/me", deps.UserController.GetMe)

		// 笔记 CRUD + 过滤列表
		api.POST("/notes", deps.NoteController.CreateNote)
		api.GET("/notes", deps.NoteController.GetNotes)
		api.PATCH("/notes/:noteId", deps.NoteController.UpdateNote)
		api.DELETE("/notes/:noteId", deps.NoteController.DeleteNote)
	}
}
