package interfaces

import (
	"context"

	"github.com/campuspilot/campuspilot/pkg/models"
)

// Classifier performs text-to-label inference with confidence.
type Classifier interface {
	// Predict classifies one text; failures are reported inside the
	// result, never as a panic.
	Predict(text string) models.ClassificationResult
	// PredictCached behaves like Predict behind a bounded LRU keyed by
	// the exact input text.
	PredictCached(text string) models.ClassificationResult
	// PredictBatch classifies several texts in one forward pass, one
	// result per input in input order.
	PredictBatch(texts []string) []models.ClassificationResult
	// Status reports readiness, device, label space and cache stats.
	Status() models.EngineStatus
}

// RecordStore reads structured records per category. Notice and
// assignment fetches are system-wide; the rest are per caller.
type RecordStore interface {
	AttendanceByUser(ctx context.Context, userID int64) ([]models.AttendanceRecord, error)
	MarksByUser(ctx context.Context, userID int64) ([]models.MarksRecord, error)
	FeesByUser(ctx context.Context, userID int64) ([]models.FeeRecord, error)
	CoursesForStudent(ctx context.Context, userID int64) ([]models.CourseRecord, error)
	RecentAssignments(ctx context.Context) ([]models.AssignmentRecord, error)
	RecentNotices(ctx context.Context) ([]models.NoticeRecord, error)
	// UserByID returns nil, nil when the user does not exist.
	UserByID(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// Generator renders a named prompt template with variables and returns
// generated text. Empty output is valid.
type Generator interface {
	Generate(ctx context.Context, templateName string, vars map[string]string) (string, error)
}

// Retriever returns documents ranked descending by score.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]models.Document, error)
}

// Searcher returns a text summary for a general web query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}
