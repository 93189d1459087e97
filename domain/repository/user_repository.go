package repository

import "notes-go-server/domain/entity"

// UserRepository 用户数据仓库接口
type UserRepository interface {
	// GetByExternalSubject 根据 Clerk user_id 精确查找本地用户
	// 返回 (nil, nil) 表示不存在
	// 查到多行时返回 ErrDuplicateUser —— 绝不静默挑一行
	GetByExternalSubject(subject string) (*entity.User, error)

	// Create 插入新用户（首次认证时的惰性建档）
	Create(user *entity.User) error

	// UpdateName 只更新 name 字段（显示名漂移纠正）
	UpdateName(userID, name string) error

	// Upsert = Update + Insert（存在则更新，不存在则创建）
	// Clerk Webhook 同步使用，冲突键为 external_subject
	Upsert(user *entity.User) error
}
