package repository

import "notes-go-server/domain/entity"

// NoteRepository 笔记数据仓库接口
// 四个 List* 方法对应查询计划决策表的四个分支，新增过滤器时加新方法，
// 不改动已有分支
type NoteRepository interface {
	// GetByID 根据主键获取笔记，返回 (nil, nil) 表示不存在
	GetByID(id string) (*entity.Note, error)

	// Create 插入新笔记
	Create(note *entity.Note) error

	// ListAll 全量列表，created_at 降序
	ListAll() ([]entity.Note, error)

	// ListByCreator 按属主扫描（created_by 索引），created_at 降序
	ListByCreator(userID string) ([]entity.Note, error)

	// ListByStatus 按账单状态扫描（bill_status 索引），created_at 降序
	ListByStatus(status string) ([]entity.Note, error)

	// ListByCreatorAndStatus 属主扫描后按状态过滤，created_at 降序
	ListByCreatorAndStatus(userID, status string) ([]entity.Note, error)

	// UpdateFields 部分字段更新，只写入 fields 中出现的列
	// 记录不存在时返回 ErrNoteNotFound
	UpdateFields(id string, fields map[string]interface{}) error

	// Delete 删除笔记（硬删除，不可恢复）
	Delete(id string) error
}
