package entity

import "time"

// User 本地用户表（与 Clerk 身份同步）
// ID 是系统分配的本地 UUID；ExternalSubject 才是 Clerk 侧的 user_id，
// 写入后不可变。两者分离：本地主键不随身份提供商变化。
// external_subject 上的唯一索引兜底并发首登竞态，查找路径另有重复行察觉
type User struct {
	ID              string `gorm:"primaryKey;size:64"`
	ExternalSubject string `gorm:"uniqueIndex;size:64"`
	Email           string `gorm:"size:255"`
	Name            string `gorm:"size:100"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IdentityAssertion 当前调用者的身份断言（来自已验证的 Clerk JWT）
// Subject 必填；Name / Email 可选（JWT 模板未配置相应声明时为空字符串）
// nil 断言表示未认证，所有核心操作必须自行拒绝，不信任上游网关
type IdentityAssertion struct {
	Subject string
	Name    string
	Email   string
}
