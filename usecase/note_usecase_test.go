package usecase

import (
	"strings"
	"testing"
	"time"

	"notes-go-server/domain/entity"
	domainErrors "notes-go-server/domain/errors"
	"notes-go-server/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// ========== NoteUseCase 单元测试 ==========
// 覆盖校验边界、属主检查、查询计划决策表、部分更新语义

var (
	assertionA = &entity.IdentityAssertion{Subject: "clerk-a", Name: "Alice", Email: "a@x.com"}
	userA      = &entity.User{ID: "user-a", ExternalSubject: "clerk-a", Name: "Alice", Email: "a@x.com"}
)

func newNoteUseCase() (*NoteUseCase, *MockNoteRepository, *MockUserRepository) {
	mockNotes := new(MockNoteRepository)
	mockUsers := new(MockUserRepository)
	uc := NewNoteUseCase(mockNotes, mockUsers, ws.NewHub())
	return uc, mockNotes, mockUsers
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// --- 创建 ---

// TestNoteUseCase_CreateNote 正常创建：billStatus 固定 open，createdBy 取本地用户 ID
func TestNoteUseCase_CreateNote(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("Create", mock.MatchedBy(func(note *entity.Note) bool {
		return note.ID != "" &&
			note.Title == "会议记录" && // 首尾空白已去除
			note.Content == "讨论了下季度排期" &&
			note.CreatedBy == "user-a" &&
			note.BillStatus == entity.BillStatusOpen &&
			note.Billable &&
			note.Duration != nil && *note.Duration == 30
	})).Return(nil).Once()

	note, err := uc.CreateNote(assertionA, CreateNoteInput{
		Title:    "  会议记录  ",
		Content:  "讨论了下季度排期",
		Billable: true,
		Duration: intPtr(30),
	})

	assert.NoError(t, err)
	assert.NotNil(t, note)
	assert.Equal(t, entity.BillStatusOpen, note.BillStatus)
	mockNotes.AssertExpectations(t)
}

// TestNoteUseCase_CreateNote_AuthRequired 未认证直接拒绝
func TestNoteUseCase_CreateNote_AuthRequired(t *testing.T) {
	uc, mockNotes, _ := newNoteUseCase()

	note, err := uc.CreateNote(nil, CreateNoteInput{Title: "x", Content: "y"})

	assert.Nil(t, note)
	assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)
	mockNotes.AssertNotCalled(t, "Create", mock.Anything)
}

// TestNoteUseCase_CreateNote_UserNotFound 断言有效但本地未建档
func TestNoteUseCase_CreateNote_UserNotFound(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()
	mockUsers.On("GetByExternalSubject", "clerk-a").Return(nil, nil).Once()

	note, err := uc.CreateNote(assertionA, CreateNoteInput{Title: "x", Content: "y"})

	assert.Nil(t, note)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	mockNotes.AssertNotCalled(t, "Create", mock.Anything)
}

// TestNoteUseCase_CreateNote_ValidationBoundaries 字段边界逐一验证
func TestNoteUseCase_CreateNote_ValidationBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		input   CreateNoteInput
		wantErr bool
		field   string
	}{
		{"空标题", CreateNoteInput{Title: "   ", Content: "c"}, true, "title"},
		{"标题恰好200字符", CreateNoteInput{Title: strings.Repeat("a", 200), Content: "c"}, false, ""},
		{"标题201字符", CreateNoteInput{Title: strings.Repeat("a", 201), Content: "c"}, true, "title"},
		{"空内容", CreateNoteInput{Title: "t", Content: " "}, true, "content"},
		{"内容恰好5000字符", CreateNoteInput{Title: "t", Content: strings.Repeat("b", 5000)}, false, ""},
		{"内容5001字符", CreateNoteInput{Title: "t", Content: strings.Repeat("b", 5001)}, true, "content"},
		{"时长1440", CreateNoteInput{Title: "t", Content: "c", Duration: intPtr(1440)}, false, ""},
		{"时长1441", CreateNoteInput{Title: "t", Content: "c", Duration: intPtr(1441)}, true, "duration"},
		{"时长-1", CreateNoteInput{Title: "t", Content: "c", Duration: intPtr(-1)}, true, "duration"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, mockNotes, mockUsers := newNoteUseCase()
			mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
			mockNotes.On("Create", mock.Anything).Return(nil).Maybe()

			_, err := uc.CreateNote(assertionA, tc.input)

			if tc.wantErr {
				var vErr *domainErrors.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.field, vErr.Field)
				// 校验失败不落库
				mockNotes.AssertNotCalled(t, "Create", mock.Anything)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// --- 列表 ---

// TestNoteUseCase_GetNotes_AuthRequired 列表同样要求认证
func TestNoteUseCase_GetNotes_AuthRequired(t *testing.T) {
	uc, _, _ := newNoteUseCase()

	notes, err := uc.GetNotes(nil, nil)

	assert.Nil(t, notes)
	assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)
}

// TestNoteUseCase_GetNotes_NoFilters 无过滤 -> 全量扫描分支
// nil 过滤器对象等价于空过滤器
func TestNoteUseCase_GetNotes_NoFilters(t *testing.T) {
	uc, mockNotes, _ := newNoteUseCase()

	all := []entity.Note{{ID: "n2"}, {ID: "n1"}}
	mockNotes.On("ListAll").Return(all, nil).Once()

	notes, err := uc.GetNotes(assertionA, nil)

	assert.NoError(t, err)
	assert.Len(t, notes, 2)
	// 核心断言：只走 ListAll 分支
	mockNotes.AssertNotCalled(t, "ListByCreator", mock.Anything)
	mockNotes.AssertNotCalled(t, "ListByStatus", mock.Anything)
}

// TestNoteUseCase_GetNotes_OwnerFilter 仅属主过滤 -> 属主扫描分支
func TestNoteUseCase_GetNotes_OwnerFilter(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("ListByCreator", "user-a").Return([]entity.Note{{ID: "n1", CreatedBy: "user-a"}}, nil).Once()

	notes, err := uc.GetNotes(assertionA, &NoteFilters{CreatedByCurrentUser: true})

	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	mockNotes.AssertExpectations(t)
}

// TestNoteUseCase_GetNotes_StatusFilter 仅状态过滤 -> 状态扫描分支
func TestNoteUseCase_GetNotes_StatusFilter(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockNotes.On("ListByStatus", entity.BillStatusOpen).Return([]entity.Note{{ID: "n1"}, {ID: "n3"}}, nil).Once()

	notes, err := uc.GetNotes(assertionA, &NoteFilters{BillStatus: entity.BillStatusOpen})

	assert.NoError(t, err)
	assert.Len(t, notes, 2)
	// 纯状态过滤不需要解析当前用户
	mockUsers.AssertNotCalled(t, "GetByExternalSubject", mock.Anything)
}

// TestNoteUseCase_GetNotes_OwnerAndStatusFilter 属主 + 状态 -> 组合分支
func TestNoteUseCase_GetNotes_OwnerAndStatusFilter(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("ListByCreatorAndStatus", "user-a", entity.BillStatusOpen).
		Return([]entity.Note{{ID: "n1", CreatedBy: "user-a", BillStatus: entity.BillStatusOpen}}, nil).Once()

	notes, err := uc.GetNotes(assertionA, &NoteFilters{
		CreatedByCurrentUser: true,
		BillStatus:           entity.BillStatusOpen,
	})

	assert.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
	mockNotes.AssertExpectations(t)
}

// TestNoteUseCase_GetNotes_OwnerFilterWithoutProfile 未建档时属主过滤返回空列表，不报错
func TestNoteUseCase_GetNotes_OwnerFilterWithoutProfile(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()
	mockUsers.On("GetByExternalSubject", "clerk-a").Return(nil, nil).Once()

	notes, err := uc.GetNotes(assertionA, &NoteFilters{CreatedByCurrentUser: true})

	assert.NoError(t, err)
	assert.Empty(t, notes)
	mockNotes.AssertNotCalled(t, "ListByCreator", mock.Anything)
}

// TestNoteUseCase_GetNotes_InvalidStatus 非法状态值是调用方错误
func TestNoteUseCase_GetNotes_InvalidStatus(t *testing.T) {
	uc, mockNotes, _ := newNoteUseCase()

	notes, err := uc.GetNotes(assertionA, &NoteFilters{BillStatus: "paid"})

	assert.Nil(t, notes)
	var vErr *domainErrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "billStatus", vErr.Field)
	mockNotes.AssertNotCalled(t, "ListByStatus", mock.Anything)
}

// --- 更新 ---

func existingNote() *entity.Note {
	return &entity.Note{
		ID:         "n1",
		Title:      "旧标题",
		Content:    "旧内容",
		CreatedBy:  "user-a",
		Billable:   true,
		Duration:   intPtr(30),
		BillStatus: entity.BillStatusOpen,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
}

// TestNoteUseCase_UpdateNote_PartialBillStatus 只更新 billStatus，其余字段原样保留
func TestNoteUseCase_UpdateNote_PartialBillStatus(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("GetByID", "n1").Return(existingNote(), nil).Once()
	// 核心断言：落库的字段集合里只有 bill_status
	mockNotes.On("UpdateFields", "n1", map[string]interface{}{
		"bill_status": entity.BillStatusBilled,
	}).Return(nil).Once()

	note, err := uc.UpdateNote(assertionA, "n1", UpdateNoteInput{
		BillStatus: strPtr(entity.BillStatusBilled),
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.BillStatusBilled, note.BillStatus)
	// 未出现的字段保持不变
	assert.Equal(t, "旧标题", note.Title)
	assert.Equal(t, "旧内容", note.Content)
	assert.True(t, note.Billable)
	assert.Equal(t, 30, *note.Duration)
	mockNotes.AssertExpectations(t)
}

// TestNoteUseCase_UpdateNote_Forbidden 非属主更新被拒绝
func TestNoteUseCase_UpdateNote_Forbidden(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	userB := &entity.User{ID: "user-b", ExternalSubject: "clerk-b"}
	assertionB := &entity.IdentityAssertion{Subject: "clerk-b"}
	mockUsers.On("GetByExternalSubject", "clerk-b").Return(userB, nil).Once()
	mockNotes.On("GetByID", "n1").Return(existingNote(), nil).Once()

	note, err := uc.UpdateNote(assertionB, "n1", UpdateNoteInput{Title: strPtr("篡改")})

	assert.Nil(t, note)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	mockNotes.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

// TestNoteUseCase_UpdateNote_NotFound 目标不存在
func TestNoteUseCase_UpdateNote_NotFound(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("GetByID", "missing").Return(nil, nil).Once()

	note, err := uc.UpdateNote(assertionA, "missing", UpdateNoteInput{Title: strPtr("x")})

	assert.Nil(t, note)
	assert.ErrorIs(t, err, domainErrors.ErrNoteNotFound)
}

// TestNoteUseCase_UpdateNote_ValidationAborts 任一字段非法则整个更新不落库
func TestNoteUseCase_UpdateNote_ValidationAborts(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("GetByID", "n1").Return(existingNote(), nil).Once()

	note, err := uc.UpdateNote(assertionA, "n1", UpdateNoteInput{
		Content:  strPtr("合法内容"),
		Duration: intPtr(2000), // 越界
	})

	assert.Nil(t, note)
	var vErr *domainErrors.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "duration", vErr.Field)
	// 全有或全无：连合法的 content 也不写
	mockNotes.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

// TestNoteUseCase_UpdateNote_EmptyInput 空更新不产生写入
func TestNoteUseCase_UpdateNote_EmptyInput(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("GetByID", "n1").Return(existingNote(), nil).Once()

	note, err := uc.UpdateNote(assertionA, "n1", UpdateNoteInput{})

	assert.NoError(t, err)
	assert.Equal(t, "旧标题", note.Title)
	mockNotes.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

// --- 删除 ---

// TestNoteUseCase_DeleteNote 属主删除成功
func TestNoteUseCase_DeleteNote(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	mockUsers.On("GetByExternalSubject", "clerk-a").Return(userA, nil).Once()
	mockNotes.On("GetByID", "n1").Return(existingNote(), nil).Once()
	mockNotes.On("Delete", "n1").Return(nil).Once()

	err := uc.DeleteNote(assertionA, "n1")

	assert.NoError(t, err)
	mockNotes.AssertExpectations(t)
}

// TestNoteUseCase_DeleteNote_Forbidden 非属主删除被拒绝
func TestNoteUseCase_DeleteNote_Forbidden(t *testing.T) {
	uc, mockNotes, mockUsers := newNoteUseCase()

	userB := &entity.User{ID: "user-b", ExternalSubject: "clerk-b"}
	mockUsers.On("GetByExternalSubject", "clerk-b").Return(userB, nil).Once()
	mockNotes.On("GetByID", "n1").Return(existingNote(), nil).Once()

	err := uc.DeleteNote(&entity.IdentityAssertion{Subject: "clerk-b"}, "n1")

	assert.ErrorIs(t, err, domainErrors.ErrForbidden)
	mockNotes.AssertNotCalled(t, "Delete", mock.Anything)
}

// TestNoteUseCase_DeleteNote_AuthRequired 未认证直接拒绝
func TestNoteUseCase_DeleteNote_AuthRequired(t *testing.T) {
	uc, mockNotes, _ := newNoteUseCase()

	err := uc.DeleteNote(nil, "n1")

	assert.ErrorIs(t, err, domainErrors.ErrAuthRequired)
	mockNotes.AssertNotCalled(t, "Delete", mock.Anything)
}
