package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/campuskit/enroll/internal/enroll/domain"
	"github.com/campuskit/enroll/internal/enroll/store"
	"github.com/campuskit/enroll/pkg/idx"
	"github.com/campuskit/enroll/pkg/slogx"
)

var (
	ErrStudentNotFound = errors.New("student_not_found")
	ErrStudentIDTaken  = errors.New("student_id_taken")
	ErrStudentEmail    = errors.New("student_email_taken")
)

// capacityBase is the notional campus capacity the dashboard percentage is
// computed against.
const capacityBase = 1000

// StudentService owns the student record lifecycle. Role enforcement happens
// at the transport layer; everything here assumes the caller is already
// authorized.
type StudentService struct {
	Store store.Store
}

// List returns one page of records. Out-of-range paging values are clamped,
// not rejected, so a hand-edited URL still gets a sensible page.
func (s *StudentService) List(ctx context.Context, q domain.StudentQuery) (domain.StudentPage, error) {
	q = q.Normalize()
	students, total, err := s.Store.Students().ListStudents(ctx, q)
	if err != nil {
		return domain.StudentPage{}, err
	}
	return domain.NewStudentPage(students, total, q), nil
}

// Get fetches a single record by its ULID.
func (s *StudentService) Get(ctx context.Context, id string) (domain.Student, error) {
	student, err := s.Store.Students().GetStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Student{}, ErrStudentNotFound
		}
		return domain.Student{}, err
	}
	return student, nil
}

// ProfileByEmail is the self-service lookup: it matches the caller's login
// email against student records. The two tables share no key, so this is a
// best-effort join and a miss is an expected outcome.
func (s *StudentService) ProfileByEmail(ctx context.Context, email string) (domain.Student, error) {
	student, err := s.Store.Students().GetStudentByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Student{}, ErrStudentNotFound
		}
		return domain.Student{}, err
	}
	return student, nil
}

// Create validates and stores a new record. The registrar-assigned studentId
// and the email must both be unused.
func (s *StudentService) Create(ctx context.Context, student domain.Student) (domain.Student, error) {
	l := slogx.FromContext(ctx)

	student.Normalize()
	if err := student.Validate(); err != nil {
		return domain.Student{}, err
	}

	student.ID = idx.New().String()

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := s.checkUniqueness(ctx, tx, student, ""); err != nil {
			return err
		}
		return tx.Students().CreateStudent(ctx, student)
	})
	if err != nil {
		// the unique indexes close the race the pre-checks leave open
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Student{}, s.classifyConflict(ctx, student, "")
		}
		return domain.Student{}, err
	}

	stored, err := s.Store.Students().GetStudentByID(ctx, student.ID)
	if err != nil {
		return domain.Student{}, err
	}

	l.Info("student created",
		slog.String("id", stored.ID),
		slog.String("student_id", stored.StudentID),
	)
	return stored, nil
}

// Update replaces all mutable fields of an existing record. The full record
// is validated; a changed studentId or email is re-checked for uniqueness.
func (s *StudentService) Update(ctx context.Context, id string, student domain.Student) (domain.Student, error) {
	l := slogx.FromContext(ctx)

	student.Normalize()
	if err := student.Validate(); err != nil {
		return domain.Student{}, err
	}
	student.ID = id

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Students().GetStudentByID(ctx, id); err != nil {
			return err
		}
		if err := s.checkUniqueness(ctx, tx, student, id); err != nil {
			return err
		}
		return tx.Students().UpdateStudent(ctx, student)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Student{}, ErrStudentNotFound
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Student{}, s.classifyConflict(ctx, student, id)
		}
		return domain.Student{}, err
	}

	stored, err := s.Store.Students().GetStudentByID(ctx, id)
	if err != nil {
		return domain.Student{}, err
	}

	l.Info("student updated", slog.String("id", id))
	return stored, nil
}

// Delete removes a record permanently.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	l := slogx.FromContext(ctx)

	if err := s.Store.Students().DeleteStudent(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	l.Info("student deleted", slog.String("id", id))
	return nil
}

// Stats computes the dashboard aggregates on demand.
func (s *StudentService) Stats(ctx context.Context) (domain.DashboardStats, error) {
	total, active, courses, recent, err := s.Store.Students().Stats(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	users, err := s.Store.Identities().CountIdentities(ctx)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	capacity := int(math.Round(float64(total+users) / capacityBase * 100))
	if capacity > 100 {
		capacity = 100
	}

	return domain.DashboardStats{
		TotalStudents:      int64(total),
		ActiveStudents:     int64(active),
		TotalUsers:         int64(users),
		ActiveCourses:      int64(courses),
		RecentEnrollments:  int64(recent),
		CapacityPercentage: capacity,
	}, nil
}

// classifyConflict decides which field a unique-index violation was about.
// The winning writer's row is committed by the time we get here, so a fresh
// lookup names the colliding field.
func (s *StudentService) classifyConflict(ctx context.Context, student domain.Student, excludeID string) error {
	taken, err := s.Store.Students().EmailExists(ctx, student.Email, excludeID)
	if err == nil && taken {
		return ErrStudentEmail
	}
	return ErrStudentIDTaken
}

func (s *StudentService) checkUniqueness(ctx context.Context, tx store.Tx, student domain.Student, excludeID string) error {
	taken, err := tx.Students().StudentIDExists(ctx, student.StudentID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrStudentIDTaken
	}
	taken, err = tx.Students().EmailExists(ctx, student.Email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrStudentEmail
	}
	return nil
}
