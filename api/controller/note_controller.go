package controller

import (
	"errors"
	"net/http"
	"time"

	"notes-go-server/api/middleware"
	"notes-go-server/domain/entity"
	domainErrors "notes-go-server/domain/errors"
	"notes-go-server/usecase"

	"github.com/gin-gonic/gin"
)

// --- 响应结构定义 ---

// NoteResponse 笔记响应结构
type NoteResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedBy  string    `json:"createdBy"`
	Billable   bool      `json:"billable"`
	Duration   *int      `json:"duration,omitempty"`
	BillStatus string    `json:"billStatus"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse 消息响应结构
type MessageResponse struct {
	Message string `json:"message"`
	NoteID  string `json:"noteId,omitempty"`
}

func toNoteResponse(note *entity.Note) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		CreatedBy:  note.CreatedBy,
		Billable:   note.Billable,
		Duration:   note.Duration,
		BillStatus: note.BillStatus,
		CreatedAt:  note.CreatedAt,
	}
}

// respondDomainError 领域错误到 HTTP 状态码的统一映射
// 越权和不存在分开返回，但越权的文案不确认记录是否存在
func respondDomainError(c *gin.Context, err error) {
	var vErr *domainErrors.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "参数校验失败", Details: vErr.Error()})
	case errors.Is(err, domainErrors.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "未认证"})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "无权限执行此操作"})
	case errors.Is(err, domainErrors.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "笔记不存在"})
	case errors.Is(err, domainErrors.ErrUserNotFound):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "用户尚未同步，请先调用 /api/users/sync"})
	case errors.Is(err, domainErrors.ErrDuplicateUser):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "用户数据完整性错误"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

// --- 控制器定义 ---

// NoteController 笔记 HTTP 控制器
type NoteController struct {
	noteUseCase *usecase.NoteUseCase
}

// NewNoteController 创建 NoteController 实例
func NewNoteController(noteUseCase *usecase.NoteUseCase) *NoteController {
	return &NoteController{noteUseCase: noteUseCase}
}

// CreateNoteRequest 创建笔记请求结构
type CreateNoteRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Billable bool   `json:"billable"`
	Duration *int   `json:"duration"` // 可选，分钟数
}

// CreateNote 创建笔记
// POST /api/notes
// 请求体: { "title": "xxx", "content": "xxx", "billable": true, "duration": 30 }
func (nc *NoteController) CreateNote(c *gin.Context) {
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "title 和 content 不能为空"})
		return
	}

	note, err := nc.noteUseCase.CreateNote(middleware.GetAssertion(c), usecase.CreateNoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Billable: req.Billable,
		Duration: req.Duration,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toNoteResponse(note))
}

// GetNotes 过滤列表查询
// GET /api/notes?createdByCurrentUser=true&billStatus=open
// 两个查询参数都可省略，省略 = 不限制
func (nc *NoteController) GetNotes(c *gin.Context) {
	filters := &usecase.NoteFilters{
		CreatedByCurrentUser: c.Query("createdByCurrentUser") == "true",
		BillStatus:           c.Query("billStatus"),
	}

	notes, err := nc.noteUseCase.GetNotes(middleware.GetAssertion(c), filters)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		resp = append(resp, toNoteResponse(&notes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateNoteRequest 部分更新请求结构
// 全部指针字段：JSON 里没出现的字段保持不变，不会被覆盖成零值
type UpdateNoteRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Billable   *bool   `json:"billable"`
	Duration   *int    `json:"duration"`
	BillStatus *string `json:"billStatus"`
}

// UpdateNote 部分更新笔记
// PATCH /api/notes/:noteId
func (nc *NoteController) UpdateNote(c *gin.Context) {
	noteID := c.Param("noteId")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "noteId 不能为空"})
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "请求体格式无效"})
		return
	}

	note, err := nc.noteUseCase.UpdateNote(middleware.GetAssertion(c), noteID, usecase.UpdateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Billable:   req.Billable,
		Duration:   req.Duration,
		BillStatus: req.BillStatus,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, toNoteResponse(note))
}

// DeleteNote 删除笔记
// DELETE /api/notes/:noteId
func (nc *NoteController) DeleteNote(c *gin.Context) {
	noteID := c.Param("noteId")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "noteId 不能为空"})
		return
	}

	if err := nc.noteUseCase.DeleteNote(middleware.GetAssertion(c), noteID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "笔记已删除",
		NoteID:  noteID,
	})
}
