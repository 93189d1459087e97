package controller

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"notes-go-server/domain/entity"
	domainRepo "notes-go-server/domain/repository"
	"notes-go-server/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	svix "github.com/svix/svix-webhooks/go"
)

// WebhookController 处理 Clerk Webhook 回调
// Webhook 是惰性同步之外的第二条同步路径：用户在 Clerk 侧改了资料，
// 不用等下次登录就能刷新本地档案。两条路径都以 external_subject 收敛到同一行
type WebhookController struct {
	userRepo      domainRepo.UserRepository
	webhookSecret string
}

// NewWebhookController 构造函数
func NewWebhookController(userRepo domainRepo.UserRepository, webhookSecret string) *WebhookController {
	return &WebhookController{
		userRepo:      userRepo,
		webhookSecret: webhookSecret,
	}
}

// ClerkWebhookPayload Clerk Webhook 事件结构
type ClerkWebhookPayload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ClerkUserData Clerk 用户数据结构
type ClerkUserData struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// HandleClerkWebhook 处理 Clerk Webhook 回调
// POST /webhook/clerk
// 处理 user.created, user.updated, user.deleted 事件
func (wc *WebhookController) HandleClerkWebhook(c *gin.Context) {
	// 1. 读取请求体
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[Webhook] ❌ 读取请求体失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无法读取请求体"})
		return
	}

	// 2. 验证 Webhook 签名（使用 Svix SDK）
	if wc.webhookSecret != "" {
		wh, err := svix.NewWebhook(wc.webhookSecret)
		if err != nil {
			log.Printf("[Webhook] ❌ 初始化 Webhook 验证器失败: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook 配置错误"})
			return
		}

		headers := http.Header{}
		headers.Set("svix-id", c.GetHeader("svix-id"))
		headers.Set("svix-timestamp", c.GetHeader("svix-timestamp"))
		headers.Set("svix-signature", c.GetHeader("svix-signature"))

		if err := wh.Verify(body, headers); err != nil {
			log.Printf("[Webhook] ❌ 签名验证失败: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "签名验证失败"})
			return
		}
	} else {
		log.Println("[Webhook] ⚠️ 未配置 CLERK_WEBHOOK_SECRET，跳过签名验证（仅限开发环境）")
	}

	// 3. 解析事件
	var payload ClerkWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[Webhook] ❌ 解析 Webhook 失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 JSON 格式"})
		return
	}

	log.Printf("[Webhook] 📥 收到事件: %s", payload.Type)

	// 4. 根据事件类型处理
	switch payload.Type {
	case "user.created", "user.updated":
		wc.handleUserUpsert(payload.Data)
	case "user.deleted":
		wc.handleUserDeleted(payload.Data)
	default:
		log.Printf("[Webhook] ℹ️ 忽略事件: %s", payload.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handleUserUpsert 处理用户创建/更新事件
// 冲突键是 external_subject：行已存在时只刷新 email / name，
// 本地 ID 和 created_at 不动
func (wc *WebhookController) handleUserUpsert(data json.RawMessage) {
	var userData ClerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		log.Printf("[Webhook] ❌ 解析用户数据失败: %v", err)
		return
	}

	// 提取邮箱（取第一个），缺失时用兜底字面量
	email := usecase.FallbackEmail
	if len(userData.EmailAddresses) > 0 && userData.EmailAddresses[0].EmailAddress != "" {
		email = userData.EmailAddresses[0].EmailAddress
	}

	// 组合姓名，缺失时退回邮箱再退回兜底字面量
	name := userData.FirstName
	if userData.LastName != "" {
		if name != "" {
			name += " "
		}
		name += userData.LastName
	}
	if name == "" {
		if email != usecase.FallbackEmail {
			name = email
		} else {
			name = usecase.FallbackName
		}
	}

	user := &entity.User{
		ID:              uuid.NewString(), // 冲突时被忽略，保留已有本地 ID
		ExternalSubject: userData.ID,
		Email:           email,
		Name:            name,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := wc.userRepo.Upsert(user); err != nil {
		log.Printf("[Webhook] ❌ 用户 Upsert 失败: %v", err)
		return
	}

	log.Printf("[Webhook] ✅ 用户同步成功: %s (%s)", user.ExternalSubject, user.Email)
}

// handleUserDeleted 处理用户删除事件
// 本系统没有用户删除路径（笔记归属不可转移），只记录不处理
func (wc *WebhookController) handleUserDeleted(data json.RawMessage) {
	var userData struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &userData); err != nil {
		log.Printf("[Webhook] ❌ 解析删除事件数据失败: %v", err)
		return
	}

	log.Printf("[Webhook] ℹ️ 用户删除事件: %s（本地档案保留，笔记归属不变）", userData.ID)
}
