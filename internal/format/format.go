// Package format turns structured record lists into compact
// natural-language digests used as generation context. Every formatter
// is pure and total: an empty input produces a fixed "no records"
// sentence, never an empty string, so the generator always receives a
// non-empty context block.
package format

import (
	"fmt"
	"strings"

	"github.com/campuspilot/campuspilot/pkg/models"
)

const (
	NoAttendanceRecords = "No attendance records found."
	NoFeeRecords        = "No fee records found."
	NoMarksRecords      = "No marks records found."
	NoCourseRecords     = "No course records found."
	NoAssignmentRecords = "No assignment records found."
	NoNotices           = "No notices found."
	NoUserInfo          = "No user information found."
)

// Attendance digests monthly attendance records.
func Attendance(records []models.AttendanceRecord) string {
	if len(records) == 0 {
		return NoAttendanceRecords
	}

	var b strings.Builder
	b.WriteString("Your Attendance Records:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "- %s (%s): %d%% - %s\n", r.Month, r.Semester, r.Total, r.Status)
	}
	return b.String()
}

// Fees digests semester fee ledger entries.
func Fees(records []models.FeeRecord) string {
	if len(records) == 0 {
		return NoFeeRecords
	}

	var b strings.Builder
	b.WriteString("Your Fee Payment Records:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "- Semester %s: Rs. %.0f paid, Rs. %.0f due - %s\n",
			r.Semester, r.TotalPaid, r.AmountDue, r.PaymentStatus)
	}
	return b.String()
}

// Marks digests per-subject results.
func Marks(records []models.MarksRecord) string {
	if len(records) == 0 {
		return NoMarksRecords
	}

	var b strings.Builder
	b.WriteString("Your Marks:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "- %s (%s): %d/100 - Grade: %s (%s)\n",
			r.Subject, r.Semester, r.TotalMarks, r.Grade, r.Status)
	}
	return b.String()
}

// Courses digests a student's enrollments.
func Courses(records []models.CourseRecord) string {
	if len(records) == 0 {
		return NoCourseRecords
	}

	var b strings.Builder
	b.WriteString("Your Enrolled Courses:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "- %s (Code: %s)\n", r.Name, r.Code)
		if r.TeacherID != 0 {
			fmt.Fprintf(&b, "  Teacher ID: %d\n", r.TeacherID)
		}
	}
	return b.String()
}

// Assignments digests recently posted assignments.
func Assignments(records []models.AssignmentRecord) string {
	if len(records) == 0 {
		return NoAssignmentRecords
	}

	var b strings.Builder
	b.WriteString("Recent Assignments:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "- %s\n", r.Title)
		fmt.Fprintf(&b, "  Course ID: %d\n", r.CourseID)
		fmt.Fprintf(&b, "  Description: %s\n", r.Description)
		fmt.Fprintf(&b, "  Due Date: %s\n", r.DueDate.Format("2006-01-02 15:04"))
		fmt.Fprintf(&b, "  Assigned by: User ID %d\n\n", r.TeacherID)
	}
	return b.String()
}

// Notices digests published notices with their targeting metadata.
func Notices(records []models.NoticeRecord) string {
	if len(records) == 0 {
		return NoNotices
	}

	var b strings.Builder
	b.WriteString("Recent Notices:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "\n* %s\n", r.Title)
		fmt.Fprintf(&b, "  %s\n", r.Content)
		if r.TargetBatch != "" {
			fmt.Fprintf(&b, "  Target Batch: %s\n", r.TargetBatch)
		}
		if r.TargetProgram != "" {
			fmt.Fprintf(&b, "  Target Program: %s\n", r.TargetProgram)
		}
		if r.CourseID != 0 {
			fmt.Fprintf(&b, "  Course ID: %d\n", r.CourseID)
		}
		if r.CreatedBy != "" {
			fmt.Fprintf(&b, "  Created By: %s\n", r.CreatedBy)
		}
		fmt.Fprintf(&b, "  Posted: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return b.String()
}

// User digests one profile record.
func User(u *models.UserProfile) string {
	if u == nil {
		return NoUserInfo
	}

	status := "Active"
	if u.Disabled {
		status = "Disabled"
	}

	var b strings.Builder
	b.WriteString("Your Profile Information:\n")
	fmt.Fprintf(&b, "- Full Name: %s\n", u.FullName)
	fmt.Fprintf(&b, "- Username: %s\n", u.Username)
	fmt.Fprintf(&b, "- Email: %s\n", u.Email)
	fmt.Fprintf(&b, "- Batch: %s\n", u.Batch)
	fmt.Fprintf(&b, "- Program: %s\n", u.Program)
	fmt.Fprintf(&b, "- Role: %s\n", u.Role)
	fmt.Fprintf(&b, "- Account Status: %s\n", status)
	fmt.Fprintf(&b, "- Member Since: %s\n", u.CreatedAt.Format("2006-01-02"))
	return b.String()
}
