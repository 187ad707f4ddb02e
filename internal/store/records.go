package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campuspilot/campuspilot/pkg/models"
)

// recentNoticeLimit bounds system-wide notice fetches; notices come
// back most recent first.
const recentNoticeLimit = 10

// AttendanceByUser returns all attendance records for one student.
func (s *Store) AttendanceByUser(ctx context.Context, userID int64) ([]models.AttendanceRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, month, semester, total, attendee_status
		FROM attendance
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		var r models.AttendanceRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Month, &r.Semester, &r.Total, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// MarksByUser returns all subject results for one student.
func (s *Store) MarksByUser(ctx context.Context, userID int64) ([]models.MarksRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, subject, semester, total_marks, grade, status
		FROM marks
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query marks: %w", err)
	}
	defer rows.Close()

	var records []models.MarksRecord
	for rows.Next() {
		var r models.MarksRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Subject, &r.Semester, &r.TotalMarks, &r.Grade, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan marks row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FeesByUser returns all fee ledger entries for one student.
func (s *Store) FeesByUser(ctx context.Context, userID int64) ([]models.FeeRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, semester, total_paid, amount_due, payment_status
		FROM fees
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fees: %w", err)
	}
	defer rows.Close()

	var records []models.FeeRecord
	for rows.Next() {
		var r models.FeeRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Semester, &r.TotalPaid, &r.AmountDue, &r.PaymentStatus); err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CoursesForStudent returns the courses a student is enrolled in.
func (s *Store) CoursesForStudent(ctx context.Context, userID int64) ([]models.CourseRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT c.id, c.name, c.code, c.teacher_id
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.user_id = ?
		ORDER BY c.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var records []models.CourseRecord
	for rows.Next() {
		var r models.CourseRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.Code, &r.TeacherID); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecentAssignments returns the most recent assignment per course,
// system-wide, newest due date first.
func (s *Store) RecentAssignments(ctx context.Context) ([]models.AssignmentRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT a.id, a.course_id, a.teacher_id, a.title, a.description, a.due_date
		FROM assignments a
		JOIN (
			SELECT course_id, MAX(id) AS max_id
			FROM assignments
			GROUP BY course_id
		) latest ON latest.max_id = a.id
		ORDER BY a.due_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var records []models.AssignmentRecord
	for rows.Next() {
		var r models.AssignmentRecord
		if err := rows.Scan(&r.ID, &r.CourseID, &r.TeacherID, &r.Title, &r.Description, &r.DueDate); err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecentNotices returns the latest published notices, newest first.
func (s *Store) RecentNotices(ctx context.Context) ([]models.NoticeRecord, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, title, content, target_batch, target_program, course_id, created_by, created_at
		FROM notices
		ORDER BY created_at DESC
		LIMIT ?
	`, recentNoticeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notices: %w", err)
	}
	defer rows.Close()

	var records []models.NoticeRecord
	for rows.Next() {
		var r models.NoticeRecord
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.TargetBatch, &r.TargetProgram, &r.CourseID, &r.CreatedBy, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notice row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// UserByID returns one user's profile, or nil when no such user exists.
func (s *Store) UserByID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var u models.UserProfile
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, full_name, username, email, batch, program, role, disabled, created_at
		FROM users
		WHERE id = ?
	`, userID).Scan(&u.ID, &u.FullName, &u.Username, &u.Email, &u.Batch, &u.Program, &u.Role, &u.Disabled, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", userID, err)
	}
	return &u, nil
}
