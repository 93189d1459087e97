package controller

import (
	"net/http"
	"time"

	"notes-go-server/api/middleware"
	"notes-go-server/domain/entity"
	"notes-go-server/usecase"

	"github.com/gin-gonic/gin"
)

// UserResponse 用户响应结构
type UserResponse struct {
	ID              string    `json:"id"`
	ExternalSubject string    `json:"externalSubject"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		ExternalSubject: user.ExternalSubject,
		Email:           user.Email,
		Name:            user.Name,
		CreatedAt:       user.CreatedAt,
	}
}

// UserController 用户 HTTP 控制器
type UserController struct {
	userUseCase *usecase.UserUseCase
}

// NewUserController 创建 UserController 实例
func NewUserController(userUseCase *usecase.UserUseCase) *UserController {
	return &UserController{userUseCase: userUseCase}
}

// SyncUser 身份同步
// POST /api/users/sync
// 认证状态变化时前端调用一次：首次见到该 subject 时建档，
// 显示名漂移时纠正，重复调用幂等
func (uc *UserController) SyncUser(c *gin.Context) {
	user, err := uc.userUseCase.ResolveCurrentUser(middleware.GetAssertion(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetMe 只读获取当前用户
// GET /api/users/me
// 未建档返回 { "user": null }，前端据此决定是否触发同步
func (uc *UserController) GetMe(c *gin.Context) {
	user, err := uc.userUseCase.GetCurrentUserOptional(middleware.GetAssertion(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	resp := toUserResponse(user)
	c.JSON(http.StatusOK, gin.H{"user": resp})
}
