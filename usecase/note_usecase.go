package usecase

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"notes-go-server/domain/entity"
	domainErrors "notes-go-server/domain/errors"
	"notes-go-server/domain/repository"
	"notes-go-server/internal/ws"

	"github.com/google/uuid"
)

// 字段边界（去除首尾空白后的字符数 / 分钟数）
const (
	titleMaxLen   = 200
	contentMaxLen = 5000
	durationMax   = 1440
)

// NoteUseCase 笔记业务逻辑层
// 每个操作独立重查身份断言并重做属主检查，不信任上游网关（纵深防御）
// ✅ 注入 Hub：写操作成功后向属主的在线连接推送变更事件
type NoteUseCase struct {
	notes repository.NoteRepository
	users repository.UserRepository
	hub   *ws.Hub
}

// NewNoteUseCase 构造函数，依赖注入
func NewNoteUseCase(notes repository.NoteRepository, users repository.UserRepository, hub *ws.Hub) *NoteUseCase {
	return &NoteUseCase{notes: notes, users: users, hub: hub}
}

// CreateNoteInput 创建笔记的输入
type CreateNoteInput struct {
	Title    string
	Content  string
	Billable bool
	Duration *int // 可空，分钟数
}

// UpdateNoteInput 部分更新的输入
// 全部指针字段："缺席"和"置为零值"是两码事，nil 表示该字段保持不变
type UpdateNoteInput struct {
	Title      *string
	Content    *string
	Billable   *bool
	Duration   *int
	BillStatus *string
}

// NoteFilters 列表过滤器
// 可加性演进：新增过滤字段只能追加新成员 + 决策表新分支，
// 不改变省略该字段的已有调用的语义
type NoteFilters struct {
	CreatedByCurrentUser bool
	BillStatus           string // 空字符串 = 未设置
}

// ================= 字段校验 =================
// 校验失败返回 ValidationError，指明字段和约束；创建和更新共用同一套规则

func validateTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", domainErrors.NewValidationError("title", "must not be empty")
	}
	if utf8.RuneCountInString(t) > titleMaxLen {
		return "", domainErrors.NewValidationError("title", "must be at most 200 characters")
	}
	return t, nil
}

func validateContent(content string) (string, error) {
	c := strings.TrimSpace(content)
	if c == "" {
		return "", domainErrors.NewValidationError("content", "must not be empty")
	}
	if utf8.RuneCountInString(c) > contentMaxLen {
		return "", domainErrors.NewValidationError("content", "must be at most 5000 characters")
	}
	return c, nil
}

func validateDuration(minutes int) error {
	if minutes < 0 || minutes > durationMax {
		return domainErrors.NewValidationError("duration", "must be between 0 and 1440 minutes")
	}
	return nil
}

func validateBillStatus(status string) error {
	if !entity.IsValidBillStatus(status) {
		return domainErrors.NewValidationError("billStatus", "must be one of open, billed, canceled")
	}
	return nil
}

// resolveOwner 认证 + 建档双重门禁
// 断言缺失 -> ErrAuthRequired；断言有效但本地无档案 -> ErrUserNotFound
// （调用方应先触发身份同步）
func (uc *NoteUseCase) resolveOwner(assertion *entity.IdentityAssertion) (*entity.User, error) {
	if assertion == nil || assertion.Subject == "" {
		return nil, domainErrors.ErrAuthRequired
	}

	user, err := uc.users.GetByExternalSubject(assertion.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainErrors.ErrUserNotFound
	}
	return user, nil
}

// CreateNote 创建笔记
// billStatus 固定从 open 起步，createdBy 取解析出的本地用户 ID
func (uc *NoteUseCase) CreateNote(assertion *entity.IdentityAssertion, input CreateNoteInput) (*entity.Note, error) {
	user, err := uc.resolveOwner(assertion)
	if err != nil {
		return nil, err
	}

	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	content, err := validateContent(input.Content)
	if err != nil {
		return nil, err
	}
	if input.Duration != nil {
		if err := validateDuration(*input.Duration); err != nil {
			return nil, err
		}
	}

	note := &entity.Note{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		CreatedBy:  user.ID,
		Billable:   input.Billable,
		Duration:   input.Duration,
		BillStatus: entity.BillStatusOpen,
		CreatedAt:  time.Now(),
	}

	if err := uc.notes.Create(note); err != nil {
		return nil, err
	}

	uc.publish(ws.TypeNoteCreated, user, note)
	return note, nil
}

// GetNotes 过滤列表查询
// 查询计划决策表（按已设置的过滤字段选择最具选择性的访问路径）：
//
//	属主 + 状态  -> ListByCreatorAndStatus
//	仅属主      -> ListByCreator
//	仅状态      -> ListByStatus
//	无过滤      -> ListAll（跨用户全量列表是沿用的参考行为，见 DESIGN.md）
//
// 每个分支都按 created_at 降序返回
// 属主过滤时本地无档案不报错，直接返回空列表（入驻中间态）
func (uc *NoteUseCase) GetNotes(assertion *entity.IdentityAssertion, filters *NoteFilters) ([]entity.Note, error) {
	if assertion == nil || assertion.Subject == "" {
		return nil, domainErrors.ErrAuthRequired
	}

	// 缺失的过滤器对象等价于空过滤器
	f := NoteFilters{}
	if filters != nil {
		f = *filters
	}

	if f.BillStatus != "" {
		if err := validateBillStatus(f.BillStatus); err != nil {
			return nil, err
		}
	}

	switch {
	case f.CreatedByCurrentUser && f.BillStatus != "":
		user, err := uc.users.GetByExternalSubject(assertion.Subject)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return []entity.Note{}, nil
		}
		return uc.notes.ListByCreatorAndStatus(user.ID, f.BillStatus)

	case f.CreatedByCurrentUser:
		user, err := uc.users.GetByExternalSubject(assertion.Subject)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return []entity.Note{}, nil
		}
		return uc.notes.ListByCreator(user.ID)

	case f.BillStatus != "":
		return uc.notes.ListByStatus(f.BillStatus)

	default:
		return uc.notes.ListAll()
	}
}

// UpdateNote 部分更新
// 属主检查通过后才校验字段；任一字段校验失败则整个更新不落库（全有或全无）
// 只有 input 中非 nil 的字段会被写入，其余字段保持原值
func (uc *NoteUseCase) UpdateNote(assertion *entity.IdentityAssertion, id string, input UpdateNoteInput) (*entity.Note, error) {
	user, err := uc.resolveOwner(assertion)
	if err != nil {
		return nil, err
	}

	note, err := uc.notes.GetByID(id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domainErrors.ErrNoteNotFound
	}
	if note.CreatedBy != user.ID {
		return nil, domainErrors.ErrForbidden
	}

	// 先把所有出现的字段校验完，再一次性落库
	fields := map[string]interface{}{}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
		note.Title = title
	}
	if input.Content != nil {
		content, err := validateContent(*input.Content)
		if err != nil {
			return nil, err
		}
		fields["content"] = content
		note.Content = content
	}
	if input.Billable != nil {
		fields["billable"] = *input.Billable
		note.Billable = *input.Billable
	}
	if input.Duration != nil {
		if err := validateDuration(*input.Duration); err != nil {
			return nil, err
		}
		fields["duration"] = *input.Duration
		note.Duration = input.Duration
	}
	if input.BillStatus != nil {
		if err := validateBillStatus(*input.BillStatus); err != nil {
			return nil, err
		}
		fields["bill_status"] = *input.BillStatus
		note.BillStatus = *input.BillStatus
	}

	// 空更新直接返回当前状态，不产生写入
	if len(fields) == 0 {
		return note, nil
	}

	if err := uc.notes.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	uc.publish(ws.TypeNoteUpdated, user, note)
	return note, nil
}

// DeleteNote 删除笔记（硬删除，不可恢复）
// 与更新同样的存在性 + 属主检查
func (uc *NoteUseCase) DeleteNote(assertion *entity.IdentityAssertion, id string) error {
	user, err := uc.resolveOwner(assertion)
	if err != nil {
		return err
	}

	note, err := uc.notes.GetByID(id)
	if err != nil {
		return err
	}
	if note == nil {
		return domainErrors.ErrNoteNotFound
	}
	if note.CreatedBy != user.ID {
		return domainErrors.ErrForbidden
	}

	if err := uc.notes.Delete(id); err != nil {
		return err
	}

	uc.publish(ws.TypeNoteDeleted, user, note)
	return nil
}

// publish 向属主的在线连接推送笔记变更事件
// 事件只是提示，推送失败不影响操作结果
func (uc *NoteUseCase) publish(msgType ws.MessageType, owner *entity.User, note *entity.Note) {
	payload, err := json.Marshal(ws.NotePayload{
		NoteID:     note.ID,
		Title:      note.Title,
		BillStatus: note.BillStatus,
	})
	if err != nil {
		return
	}
	uc.hub.Publish(owner.ExternalSubject, ws.WSMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	})
}
