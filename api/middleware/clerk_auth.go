package middleware

import (
	"context"
	"net/http"
	"strings"

	"notes-go-server/domain/entity"

	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gin-gonic/gin"
)

// TokenClaims Clerk JWT 模板中配置的自定义声明
// 模板需包含 name / email 两个声明；未配置时字段为空，
// 核心逻辑会落到兜底字面量，不算错误
type TokenClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ClerkAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取 Token (支持 Bearer Token)
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "缺少 Authorization 头"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		// 2. 验证 Token (核心)
		// Clerk SDK 会自动拉取公钥并验证签名、过期时间
		claims, err := jwt.Verify(c.Request.Context(), &jwt.VerifyParams{
			Token: token,
			CustomClaimsConstructor: func(_ context.Context) any {
				return &TokenClaims{}
			},
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token 无效", "details": err.Error()})
			return
		}

		// 3. 构造身份断言注入上下文，供后续 Controller 使用
		// Controller 只透传断言，授权判断全部在 usecase 层重做
		assertion := &entity.IdentityAssertion{Subject: claims.Subject}
		if custom, ok := claims.Custom.(*TokenClaims); ok {
			assertion.Name = custom.Name
			assertion.Email = custom.Email
		}
		c.Set(ContextKeyAssertion, assertion)

		c.Next()
	}
}

// GetAssertion 从 gin 上下文取出身份断言
// 未经过认证中间件时返回 nil，核心操作会将其判定为未认证
func GetAssertion(c *gin.Context) *entity.IdentityAssertion {
	v, exists := c.Get(ContextKeyAssertion)
	if !exists {
		return nil
	}
	assertion, ok := v.(*entity.IdentityAssertion)
	if !ok {
		return nil
	}
	return assertion
}
