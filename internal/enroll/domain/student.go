package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// StudentStatus is the enrollment state of a student record.
type StudentStatus string

const (
	StatusActive   StudentStatus = "Active"
	StatusInactive StudentStatus = "Inactive"
	StatusOnLeave  StudentStatus = "On Leave"
)

// Valid reports whether s is one of the three known statuses.
func (s StudentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave:
		return true
	}
	return false
}

// GPA and progress bounds.
const (
	MaxGPA      = 4.0
	MaxProgress = 100
)

// Student is one enrollee. It is a separate entity from Identity; the only
// link between the two is a best-effort email match at profile-lookup time.
type Student struct {
	ID             string        `json:"id" db:"id"`
	StudentID      string        `json:"studentId" db:"student_id"`
	FirstName      string        `json:"firstName" db:"first_name"`
	LastName       string        `json:"lastName" db:"last_name"`
	Email          string        `json:"email" db:"email"`
	Phone          string        `json:"phone" db:"phone"`
	Address        string        `json:"address" db:"address"`
	DOB            time.Time     `json:"dob" db:"dob"`
	Status         StudentStatus `json:"status" db:"status"`
	Course         string        `json:"course" db:"course"`
	EnrollmentDate time.Time     `json:"enrollmentDate" db:"enrollment_date"`
	ProfileImage   string        `json:"profileImage,omitempty" db:"profile_image"`
	GPA            float64       `json:"gpa" db:"gpa"`
	Credits        int           `json:"credits" db:"credits"`
	Progress       int           `json:"progress" db:"progress"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`
}

// ErrValidation marks input validation failures; handlers map it to 400.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Normalize fills defaults and canonicalizes fields before validation.
func (s *Student) Normalize() {
	s.StudentID = strings.TrimSpace(s.StudentID)
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Phone = strings.TrimSpace(s.Phone)
	s.Course = strings.TrimSpace(s.Course)
	if s.Status == "" {
		s.Status = StatusActive
	}
}

// Validate checks the invariants every stored record must hold. The same
// rules apply on create and update.
func (s *Student) Validate() error {
	if s.StudentID == "" {
		return invalid("studentId", "student ID is required")
	}
	if s.FirstName == "" {
		return invalid("firstName", "first name is required")
	}
	if s.LastName == "" {
		return invalid("lastName", "last name is required")
	}
	if err := ValidateEmail(s.Email); err != nil {
		return err
	}
	if !s.Status.Valid() {
		return invalid("status", "status must be Active, Inactive, or On Leave")
	}
	if s.GPA < 0 || s.GPA > MaxGPA {
		return invalid("gpa", "gpa must be between 0 and 4.0")
	}
	if s.Progress < 0 || s.Progress > MaxProgress {
		return invalid("progress", "progress must be between 0 and 100")
	}
	if s.Credits < 0 {
		return invalid("credits", "credits cannot be negative")
	}
	return nil
}

// ValidateEmail checks well-formedness of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return invalid("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "email is not valid")
	}
	return nil
}
