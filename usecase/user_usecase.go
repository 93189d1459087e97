package usecase

import (
	"errors"
	"log"
	"time"

	"notes-go-server/domain/entity"
	domainErrors "notes-go-server/domain/errors"
	"notes-go-server/domain/repository"

	"github.com/google/uuid"
)

// 身份断言缺失字段时的兜底字面量
const (
	FallbackName  = "Unnamed User"
	FallbackEmail = "No email provided"
)

// UserUseCase 身份同步业务逻辑层
// 维护不变量：每个认证过的 external subject 恰好对应一行本地 User，
// name / email 与身份提供商保持大致同步
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase 构造函数，依赖注入
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// preferredName 计算显示名：断言 name -> 断言 email -> 兜底字面量
func preferredName(assertion *entity.IdentityAssertion) string {
	if assertion.Name != "" {
		return assertion.Name
	}
	if assertion.Email != "" {
		return assertion.Email
	}
	return FallbackName
}

// ResolveCurrentUser 解析当前用户，首次见到该 subject 时惰性建档
// 幂等收敛：同一断言重复调用返回同一行；name 未漂移时第二次调用零写入
// 并发首登竞态（两个请求同时通过"不存在"检查）由 external_subject 的
// 唯一索引兜底，且后续每次查找都会察觉重复行并显式报错
func (uc *UserUseCase) ResolveCurrentUser(assertion *entity.IdentityAssertion) (*entity.User, error) {
	if assertion == nil || assertion.Subject == "" {
		// 未认证绝不伪造用户
		return nil, domainErrors.ErrAuthRequired
	}

	user, err := uc.repo.GetByExternalSubject(assertion.Subject)
	if err != nil {
		return nil, err
	}

	// 已存在：只纠正漂移的显示名，email / created_at / id 保持不变
	if user != nil {
		name := preferredName(assertion)
		if user.Name != name {
			if err := uc.repo.UpdateName(user.ID, name); err != nil {
				return nil, err
			}
			user.Name = name
			log.Printf("[UserSync] 用户 %s 显示名已更新", user.ID)
		}
		return user, nil
	}

	// 首次见到该 subject：建档
	email := assertion.Email
	if email == "" {
		email = FallbackEmail
	}

	user = &entity.User{
		ID:              uuid.NewString(),
		ExternalSubject: assertion.Subject,
		Email:           email,
		Name:            preferredName(assertion),
		CreatedAt:       time.Now(),
	}

	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}

	log.Printf("[UserSync] ✅ 新用户建档: %s (%s)", user.ID, user.Email)
	return user, nil
}

// GetCurrentUserOptional 只读查询当前用户，从不建档
// 未认证和未建档都返回 (nil, nil) —— 前端把"还没有档案"当作正常的
// 入驻中间态处理，此路径不允许阻塞渲染
// 完整性错误（重复行）降级为 nil 并记录诊断日志，不向调用方传播
func (uc *UserUseCase) GetCurrentUserOptional(assertion *entity.IdentityAssertion) (*entity.User, error) {
	if assertion == nil || assertion.Subject == "" {
		return nil, nil
	}

	user, err := uc.repo.GetByExternalSubject(assertion.Subject)
	if err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateUser) {
			log.Printf("[UserSync] ❌ 完整性错误: subject %s 存在多行用户记录", assertion.Subject)
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
