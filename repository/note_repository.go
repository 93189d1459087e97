package repository

import (
	"errors"

	"notes-go-server/domain/entity"
	domainErrors "notes-go-server/domain/errors"
	domainRepo "notes-go-server/domain/repository"

	"gorm.io/gorm"
)

// 统一的排序规则：最新在前，created_at 相同时按 id 兜底保证确定性
const noteOrder = "created_at DESC, id DESC"

// noteRepository GORM 实现 NoteRepository 接口
type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository 构造函数
func NewNoteRepository(db *gorm.DB) domainRepo.NoteRepository {
	return &noteRepository{db: db}
}

// GetByID 根据主键查询笔记
func (r *noteRepository) GetByID(id string) (*entity.Note, error) {
	var note entity.Note
	err := r.db.Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // 返回 nil 表示不存在，调用方需处理
	}
	return &note, err
}

// Create 插入新笔记
func (r *noteRepository) Create(note *entity.Note) error {
	return r.db.Create(note).Error
}

// ListAll 全量列表
func (r *noteRepository) ListAll() ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.Order(noteOrder).Find(&notes).Error
	return notes, err
}

// ListByCreator 按属主扫描，走 created_by 索引
func (r *noteRepository) ListByCreator(userID string) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.Where("created_by = ?", userID).Order(noteOrder).Find(&notes).Error
	return notes, err
}

// ListByStatus 按账单状态扫描，走 bill_status 索引
func (r *noteRepository) ListByStatus(status string) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.Where("bill_status = ?", status).Order(noteOrder).Find(&notes).Error
	return notes, err
}

// ListByCreatorAndStatus 属主 + 状态组合过滤
// 先走选择性更高的 created_by 索引，状态作为附加谓词
func (r *noteRepository) ListByCreatorAndStatus(userID, status string) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.Where("created_by = ? AND bill_status = ?", userID, status).
		Order(noteOrder).Find(&notes).Error
	return notes, err
}

// UpdateFields 部分字段更新
// ⚠️ 禁止用 Save，它会把未出现的字段一并覆盖；只写 fields 里的列
func (r *noteRepository) UpdateFields(id string, fields map[string]interface{}) error {
	result := r.db.Model(&entity.Note{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}

	// ⚠️ 关键：检查是否真的更新了记录
	// RowsAffected == 0 说明笔记在读取和写入之间被删除了
	if result.RowsAffected == 0 {
		return domainErrors.ErrNoteNotFound
	}

	return nil
}

// Delete 删除笔记
func (r *noteRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.Note{}).Error
}
