package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notes-go-server/api/controller"
	"notes-go-server/api/route"
	"notes-go-server/bootstrap"
	"notes-go-server/internal/ws"
	"notes-go-server/repository"
	"notes-go-server/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("[Server] Notes Go Server 启动中...")

	// 加载环境变量
	env := bootstrap.LoadEnv()

	// 初始化 Clerk
	bootstrap.InitClerk()

	// 连接数据库
	db := bootstrap.NewDatabase(env.DatabaseURL)

	// 依赖注入 - Repository 层
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// WebSocket Hub（笔记变更事件流）
	hub := ws.NewHub()

	// 依赖注入 - UseCase 层
	userUseCase := usecase.NewUserUseCase(userRepo)
	noteUseCase := usecase.NewNoteUseCase(noteRepo, userRepo, hub)

	// 依赖注入 - Controller 层
	userController := controller.NewUserController(userUseCase)
	noteController := controller.NewNoteController(noteUseCase)
	wsHandler := controller.NewWSHandler(hub, []string{
		"https://notes.example.com",
	})
	webhookController := controller.NewWebhookController(userRepo, env.WebhookSecret)

	// 配置 Gin 路由
	router := gin.Default()

	// CORS 配置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://notes.example.com", "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 设置路由
	route.Setup(router, &route.Dependencies{
		UserController:    userController,
		NoteController:    noteController,
		WSHandler:         wsHandler,
		WebhookController: webhookController,
	})

	// 启动 HTTP 服务
	srv := &http.Server{
		Addr:    ":" + env.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[Server] 服务已启动: http://localhost:%s", env.Port)
		log.Printf("[Server] API 端点:")
		log.Printf("   GET    /health               - 健康检查")
		log.Printf("   POST   /api/users/sync       - 身份同步")
		log.Printf("   GET    /api/users/me         - 当前用户")
		log.Printf("   POST   /api/notes            - 创建笔记")
		log.Printf("   GET    /api/notes            - 笔记列表（支持过滤）")
		log.Printf("   PATCH  /api/notes/:noteId    - 部分更新笔记")
		log.Printf("   DELETE /api/notes/:noteId    - 删除笔记")
		log.Printf("   GET    /ws?token=xxx         - 笔记变更事件流")
		log.Printf("   POST   /webhook/clerk        - Clerk Webhook")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] 服务启动失败: %v", err)
		}
	}()

	// 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] 收到停机信号，正在优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[Server] 服务强制关闭: %v", err)
	}

	log.Println("[Server] 服务已安全停止")
}
