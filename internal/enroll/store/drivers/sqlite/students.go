package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/enroll/internal/enroll/domain"
)

type studentsRepo struct {
	ext sqlx.ExtContext
}

const studentColumns = `id, student_id, first_name, last_name, email, phone,
	address, dob, status, course, enrollment_date, profile_image, gpa,
	credits, progress, created_at, updated_at`

// sortColumns whitelists the sortable fields. Anything else falls back to
// newest-first by creation time.
var sortColumns = map[string]string{
	"firstName":      "first_name",
	"lastName":       "last_name",
	"email":          "email",
	"studentId":      "student_id",
	"course":         "course",
	"status":         "status",
	"gpa":            "gpa",
	"enrollmentDate": "enrollment_date",
}

func (r *studentsRepo) GetStudentByID(ctx context.Context, id string) (domain.Student, error) {
	var s domain.Student
	err := sqlx.GetContext(ctx, r.ext, &s,
		`SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	if err != nil {
		return domain.Student{}, mapNotFound(err)
	}
	return s, nil
}

func (r *studentsRepo) GetStudentByEmail(ctx context.Context, email string) (domain.Student, error) {
	var s domain.Student
	err := sqlx.GetContext(ctx, r.ext, &s,
		`SELECT `+studentColumns+` FROM students WHERE lower(email) = lower(?)`, email)
	if err != nil {
		return domain.Student{}, mapNotFound(err)
	}
	return s, nil
}

func (r *studentsRepo) CreateStudent(ctx context.Context, s domain.Student) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO students (
			id, student_id, first_name, last_name, email, phone, address,
			dob, status, course, enrollment_date, profile_image, gpa,
			credits, progress
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.StudentID, s.FirstName, s.LastName, s.Email, s.Phone,
		s.Address, s.DOB, string(s.Status), s.Course, s.EnrollmentDate,
		s.ProfileImage, s.GPA, s.Credits, s.Progress)
	return mapConflict(err)
}

func (r *studentsRepo) UpdateStudent(ctx context.Context, s domain.Student) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE students SET
			student_id = ?, first_name = ?, last_name = ?, email = ?,
			phone = ?, address = ?, dob = ?, status = ?, course = ?,
			enrollment_date = ?, profile_image = ?, gpa = ?, credits = ?,
			progress = ?, updated_at = ?
		 WHERE id = ?`,
		s.StudentID, s.FirstName, s.LastName, s.Email, s.Phone, s.Address,
		s.DOB, string(s.Status), s.Course, s.EnrollmentDate, s.ProfileImage,
		s.GPA, s.Credits, s.Progress, time.Now().UTC(), s.ID)
	if err != nil {
		return mapConflict(err)
	}
	return requireRowTouched(res)
}

func (r *studentsRepo) DeleteStudent(ctx context.Context, id string) error {
	res, err := r.ext.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowTouched(res)
}

// escapeLike neutralizes LIKE metacharacters in user search input. The
// queries below pair it with ESCAPE '\'.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *studentsRepo) ListStudents(ctx context.Context, q domain.StudentQuery) ([]domain.Student, int64, error) {
	var (
		where []string
		args  []any
	)

	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		where = append(where, `(
			lower(first_name) LIKE ? ESCAPE '\' OR
			lower(last_name)  LIKE ? ESCAPE '\' OR
			lower(email)      LIKE ? ESCAPE '\' OR
			lower(student_id) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if q.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, string(q.Status))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := sqlx.GetContext(ctx, r.ext, &total,
		`SELECT COUNT(*) FROM students`+clause, args...); err != nil {
		return nil, 0, err
	}

	orderBy := "created_at DESC, id DESC"
	if col, ok := sortColumns[q.SortKey]; ok {
		orderBy = col + " ASC, id ASC"
	}

	rows := []domain.Student{}
	query := `SELECT ` + studentColumns + ` FROM students` + clause +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, q.Limit, q.Offset())
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *studentsRepo) StudentIDExists(ctx context.Context, studentID string, excludeID string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.ext, &n,
		`SELECT COUNT(*) FROM students WHERE student_id = ? AND id != ?`,
		studentID, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *studentsRepo) EmailExists(ctx context.Context, email string, excludeID string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.ext, &n,
		`SELECT COUNT(*) FROM students WHERE lower(email) = lower(?) AND id != ?`,
		email, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *studentsRepo) Stats(ctx context.Context) (total, active, activeCourses, recentEnrollments int, err error) {
	row := struct {
		Total             int `db:"total"`
		Active            int `db:"active"`
		ActiveCourses     int `db:"active_courses"`
		RecentEnrollments int `db:"recent_enrollments"`
	}{}

	// created_at is written by the CURRENT_TIMESTAMP default, so the cutoff
	// is bound in the same text format.
	cutoff := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02 15:04:05")
	err = sqlx.GetContext(ctx, r.ext, &row, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = 'Active' THEN 1 ELSE 0 END), 0) AS active,
			COUNT(DISTINCT CASE WHEN course != '' THEN course END) AS active_courses,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS recent_enrollments
		FROM students`, cutoff)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return row.Total, row.Active, row.ActiveCourses, row.RecentEnrollments, nil
}
