package mocks

import (
	"context"

	"github.com/campuspilot/campuspilot/internal/interfaces"
	"github.com/campuspilot/campuspilot/pkg/models"
)

// MockClassifier is a mock implementation of Classifier for testing.
type MockClassifier struct {
	PredictFunc       func(text string) models.ClassificationResult
	PredictCachedFunc func(text string) models.ClassificationResult
	PredictBatchFunc  func(texts []string) []models.ClassificationResult
	StatusFunc        func() models.EngineStatus
}

func (m *MockClassifier) Predict(text string) models.ClassificationResult {
	if m.PredictFunc != nil {
		return m.PredictFunc(text)
	}
	return models.ClassificationResult{Label: "general", Confidence: 0.9}
}

func (m *MockClassifier) PredictCached(text string) models.ClassificationResult {
	if m.PredictCachedFunc != nil {
		return m.PredictCachedFunc(text)
	}
	return m.Predict(text)
}

func (m *MockClassifier) PredictBatch(texts []string) []models.ClassificationResult {
	if m.PredictBatchFunc != nil {
		return m.PredictBatchFunc(texts)
	}
	results := make([]models.ClassificationResult, len(texts))
	for i, t := range texts {
		results[i] = m.Predict(t)
	}
	return results
}

func (m *MockClassifier) Status() models.EngineStatus {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return models.EngineStatus{Loaded: true, Device: "cpu"}
}

// Ensure MockClassifier implements Classifier interface
var _ interfaces.Classifier = (*MockClassifier)(nil)

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	AttendanceByUserFunc  func(ctx context.Context, userID int64) ([]models.AttendanceRecord, error)
	MarksByUserFunc       func(ctx context.Context, userID int64) ([]models.MarksRecord, error)
	FeesByUserFunc        func(ctx context.Context, userID int64) ([]models.FeeRecord, error)
	CoursesForStudentFunc func(ctx context.Context, userID int64) ([]models.CourseRecord, error)
	RecentAssignmentsFunc func(ctx context.Context) ([]models.AssignmentRecord, error)
	RecentNoticesFunc     func(ctx context.Context) ([]models.NoticeRecord, error)
	UserByIDFunc          func(ctx context.Context, userID int64) (*models.UserProfile, error)
}

func (m *MockRecordStore) AttendanceByUser(ctx context.Context, userID int64) ([]models.AttendanceRecord, error) {
	if m.AttendanceByUserFunc != nil {
		return m.AttendanceByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRecordStore) MarksByUser(ctx context.Context, userID int64) ([]models.MarksRecord, error) {
	if m.MarksByUserFunc != nil {
		return m.MarksByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRecordStore) FeesByUser(ctx context.Context, userID int64) ([]models.FeeRecord, error) {
	if m.FeesByUserFunc != nil {
		return m.FeesByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRecordStore) CoursesForStudent(ctx context.Context, userID int64) ([]models.CourseRecord, error) {
	if m.CoursesForStudentFunc != nil {
		return m.CoursesForStudentFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRecordStore) RecentAssignments(ctx context.Context) ([]models.AssignmentRecord, error) {
	if m.RecentAssignmentsFunc != nil {
		return m.RecentAssignmentsFunc(ctx)
	}
	return nil, nil
}

func (m *MockRecordStore) RecentNotices(ctx context.Context) ([]models.NoticeRecord, error) {
	if m.RecentNoticesFunc != nil {
		return m.RecentNoticesFunc(ctx)
	}
	return nil, nil
}

func (m *MockRecordStore) UserByID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	if m.UserByIDFunc != nil {
		return m.UserByIDFunc(ctx, userID)
	}
	return nil, nil
}

// Ensure MockRecordStore implements RecordStore interface
var _ interfaces.RecordStore = (*MockRecordStore)(nil)

// GeneratorCall captures one Generate invocation for assertions.
type GeneratorCall struct {
	TemplateName string
	Vars         map[string]string
}

// MockGenerator is a mock implementation of Generator for testing. It
// records every call.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, templateName string, vars map[string]string) (string, error)
	Calls        []GeneratorCall
}

func (m *MockGenerator) Generate(ctx context.Context, templateName string, vars map[string]string) (string, error) {
	m.Calls = append(m.Calls, GeneratorCall{TemplateName: templateName, Vars: vars})
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, templateName, vars)
	}
	return "generated response", nil
}

// Ensure MockGenerator implements Generator interface
var _ interfaces.Generator = (*MockGenerator)(nil)

// MockRetriever is a mock implementation of Retriever for testing.
type MockRetriever struct {
	RetrieveFunc func(ctx context.Context, query string) ([]models.Document, error)
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string) ([]models.Document, error) {
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query)
	}
	return nil, nil
}

// Ensure MockRetriever implements Retriever interface
var _ interfaces.Retriever = (*MockRetriever)(nil)

// MockSearcher is a mock implementation of Searcher for testing.
type MockSearcher struct {
	SearchFunc func(ctx context.Context, query string) (string, error)
	Called     bool
}

func (m *MockSearcher) Search(ctx context.Context, query string) (string, error) {
	m.Called = true
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return "search results", nil
}

// Ensure MockSearcher implements Searcher interface
var _ interfaces.Searcher = (*MockSearcher)(nil)
