package repository

import (
	"notes-go-server/domain/entity"
	domainErrors "notes-go-server/domain/errors"
	domainRepo "notes-go-server/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository GORM 实现 UserRepository 接口
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 构造函数
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

// GetByExternalSubject 根据 Clerk user_id 查询本地用户
// ⚠️ 关键：用 Limit(2) + Find 而不是 First，目的是"察觉"多行
// external_subject 上有唯一索引兜底，但并发首登仍可能留下重复行，
// 一旦出现必须显式报错，而不是随机返回其中一行
func (r *userRepository) GetByExternalSubject(subject string) (*entity.User, error) {
	var users []entity.User
	err := r.db.Where("external_subject = ?", subject).Limit(2).Find(&users).Error
	if err != nil {
		return nil, err
	}

	switch len(users) {
	case 0:
		return nil, nil // 不存在，调用方需处理
	case 1:
		return &users[0], nil
	default:
		return nil, domainErrors.ErrDuplicateUser
	}
}

// Create 插入新用户（首次认证惰性建档）
func (r *userRepository) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// UpdateName 只更新 name 字段
// ⚠️ 禁止用 Save，它会覆盖 email / created_at 等其他列
func (r *userRepository) UpdateName(userID, name string) error {
	return r.db.Model(&entity.User{}).
		Where("id = ?", userID).
		Update("name", name).Error
}

// Upsert 创建或更新用户（Clerk Webhook 同步使用）
// 使用 PostgreSQL ON CONFLICT 语法实现 upsert，冲突键为 external_subject
// 冲突时只刷新可变字段，保留已有的本地 ID 和 created_at
func (r *userRepository) Upsert(user *entity.User) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_subject"}}, // 冲突字段
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "updated_at"}),
	}).Create(user).Error
}
