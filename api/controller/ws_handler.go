package controller

import (
	"log"
	"net/http"
	"strings"

	"notes-go-server/internal/ws"

	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler WebSocket 连接处理器（笔记变更事件流）
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler 构造函数
func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 配置 CORS
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// 开发环境允许所有
				if origin == "" || strings.HasPrefix(origin, "http://localhost") {
					return true
				}
				// 生产环境检查白名单
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				log.Printf("[WS] ⚠️ 拒绝来自 %s 的连接", origin)
				return false
			},
		},
	}
}

// HandleWS 处理 WebSocket 升级请求
// GET /ws?token=xxx
// ⚠️ 需要在 URL 查询参数或 Sec-WebSocket-Protocol 中携带 JWT Token
// 连接按 token 中的 subject 注册，只会收到自己笔记的变更事件
func (h *WSHandler) HandleWS(c *gin.Context) {
	// 1. 验证 JWT Token（从 URL 参数获取，因为 WebSocket 不支持自定义 Header）
	token := c.Query("token")
	if token == "" {
		// 也尝试从 Sec-WebSocket-Protocol 获取（某些客户端实现）
		token = c.GetHeader("Sec-WebSocket-Protocol")
	}

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "缺少认证 token"})
		return
	}

	// 2. 验证 Clerk JWT
	claims, err := jwt.Verify(c.Request.Context(), &jwt.VerifyParams{
		Token: token,
	})
	if err != nil {
		log.Printf("[WS] ❌ Token 验证失败: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效", "details": err.Error()})
		return
	}

	// 3. 升级为 WebSocket 连接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] ❌ 升级 WebSocket 失败: %v", err)
		return
	}

	// 4. 创建客户端并注册到 Hub
	client := ws.NewClient(h.hub, conn, claims.Subject)
	h.hub.Register(client)

	log.Printf("[WS] ✅ 用户 [%s] 已接入事件流", claims.Subject)

	// 5. 启动读写协程
	go client.WritePump()
	go client.ReadPump()
}
