package entity

import "time"

// 账单状态枚举
const (
	BillStatusOpen     = "open"     // 默认状态
	BillStatusBilled   = "billed"   // 已开票
	BillStatusCanceled = "canceled" // 已取消
)

// IsValidBillStatus 检查账单状态是否为合法枚举值
func IsValidBillStatus(s string) bool {
	switch s {
	case BillStatusOpen, BillStatusBilled, BillStatusCanceled:
		return true
	}
	return false
}

// Note 笔记表
// CreatedBy 指向 User.ID（本地 UUID，不是 Clerk user_id），创建后不可变，
// 只有属主可以更新和删除。created_by 和 bill_status 上的索引
// 支撑按属主 / 按状态的列表扫描。Duration 为分钟数，可空，0-1440
type Note struct {
	ID         string `gorm:"primaryKey;size:64"`
	Title      string `gorm:"size:200"`
	Content    string `gorm:"type:text"`
	CreatedBy  string `gorm:"index;size:64"`
	Billable   bool
	Duration   *int
	BillStatus string `gorm:"index;size:16;default:open"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
