package models

import "time"

// ChatRequest is one user turn entering the dispatcher.
type ChatRequest struct {
	CallerID int64  `json:"caller_id"`
	Query    string `json:"query"`
}

// ChatResponse is the dispatcher's answer: generated text plus the
// intent the query was resolved to.
type ChatResponse struct {
	Response  string `json:"response"`
	QueryType string `json:"query_type"`
}

// ClassificationResult is the raw output of one classifier inference.
// When Err is non-empty the Label and Confidence fields are meaningless
// and must not be acted on.
type ClassificationResult struct {
	Label           string  `json:"query_type,omitempty"`
	Confidence      float64 `json:"confidence"`
	InferenceTimeMs float64 `json:"inference_time_ms"`
	Err             string  `json:"error,omitempty"`
}

// CacheStats reports prediction-cache effectiveness.
type CacheStats struct {
	Capacity int   `json:"capacity"`
	Size     int   `json:"size"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// EngineStatus is the classifier health/readiness snapshot.
type EngineStatus struct {
	Loaded     bool       `json:"loaded"`
	Device     string     `json:"device"`
	Labels     []string   `json:"labels"`
	CacheStats CacheStats `json:"cache_stats"`
}

// Document is one retrieved passage for open-domain answers.
type Document struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// AttendanceRecord is one month of attendance for a student.
type AttendanceRecord struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Month    string `json:"month"`
	Semester string `json:"semester"`
	Total    int    `json:"total"`
	Status   string `json:"attendee_status"`
}

// MarksRecord is one subject's result for a student.
type MarksRecord struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	Subject    string `json:"subject"`
	Semester   string `json:"semester"`
	TotalMarks int    `json:"total_marks"`
	Grade      string `json:"grade"`
	Status     string `json:"status"`
}

// FeeRecord is one semester's fee ledger entry for a student.
type FeeRecord struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	Semester      string  `json:"semester"`
	TotalPaid     float64 `json:"total_paid"`
	AmountDue     float64 `json:"amount_due"`
	PaymentStatus string  `json:"payment_status"`
}

// CourseRecord is one course a student is enrolled in.
type CourseRecord struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	TeacherID int64  `json:"teacher_id"`
}

// AssignmentRecord is one posted assignment.
type AssignmentRecord struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	TeacherID   int64     `json:"teacher_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

// NoticeRecord is one published notice. Targeting fields are empty when
// the notice is campus-wide.
type NoticeRecord struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	TargetBatch   string    `json:"target_batch,omitempty"`
	TargetProgram string    `json:"target_program,omitempty"`
	CourseID      int64     `json:"course_id,omitempty"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserProfile is the account record behind user_info queries.
type UserProfile struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Batch     string    `json:"batch"`
	Program   string    `json:"program"`
	Role      string    `json:"role"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
}
