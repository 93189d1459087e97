package ws

import "encoding/json"

type MessageType string

const (
	// 笔记变更事件（服务端 -> 客户端单向推送）
	TypeNoteCreated MessageType = "note-created"
	TypeNoteUpdated MessageType = "note-updated"
	TypeNoteDeleted MessageType = "note-deleted"
)

// WSMessage 统一的 WebSocket 消息结构
type WSMessage struct {
	Type      MessageType     `json:"type"` // 消息类型
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"ts"` // 时间戳（毫秒）
}

// NotePayload 笔记事件的 payload
// 只携带标识和少量摘要字段，客户端需要完整数据时走 REST 拉取
type NotePayload struct {
	NoteID     string `json:"noteId"`
	Title      string `json:"title,omitempty"`
	BillStatus string `json:"billStatus,omitempty"`
}
