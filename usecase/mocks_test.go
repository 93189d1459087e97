package usecase

import (
	"notes-go-server/domain/entity"

	"github.com/stretchr/testify/mock"
)

// ========== MockUserRepository ==========
// 实现 repository.UserRepository 接口，用于 UseCase 的单元测试

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByExternalSubject(subject string) (*entity.User, error) {
	args := m.Called(subject)
	// 处理 nil 情况
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateName(userID, name string) error {
	args := m.Called(userID, name)
	return args.Error(0)
}

func (m *MockUserRepository) Upsert(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// ========== MockNoteRepository ==========
// 实现 repository.NoteRepository 接口，用于 NoteUseCase 的单元测试

type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) GetByID(id string) (*entity.Note, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Note), args.Error(1)
}

func (m *MockNoteRepository) Create(note *entity.Note) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockNoteRepository) ListAll() ([]entity.Note, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByCreator(userID string) ([]entity.Note, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByStatus(status string) ([]entity.Note, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *MockNoteRepository) ListByCreatorAndStatus(userID, status string) ([]entity.Note, error) {
	args := m.Called(userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Note), args.Error(1)
}

func (m *MockNoteRepository) UpdateFields(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
