package domain

// Listing defaults. The limit cap keeps a single page from dragging the
// whole table across the wire.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// StudentQuery is a listing request against the record store.
type StudentQuery struct {
	// Search is matched case-insensitively as a substring of first name,
	// last name, email, and student ID. Empty means no search filter.
	Search string

	// Status filters on exact enrollment status when non-empty.
	Status StudentStatus

	// SortKey orders ascending by a whitelisted field; empty or unknown
	// keys fall back to newest-first by creation time.
	SortKey string

	Page  int
	Limit int
}

// Normalize clamps out-of-range paging values instead of rejecting them:
// non-positive page/limit become 1, oversized limits cap at MaxLimit. A zero
// limit means the caller sent nothing, so it gets the default.
func (q StudentQuery) Normalize() StudentQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit < 1 {
		q.Limit = 1
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// Offset returns the slice start for the current page.
func (q StudentQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// StudentPage is the envelope a listing request produces. It is built fresh
// per request and never persisted.
type StudentPage struct {
	Students      []Student `json:"students"`
	TotalStudents int64     `json:"totalStudents"`
	TotalPages    int       `json:"totalPages"`
	CurrentPage   int       `json:"currentPage"`
}

// NewStudentPage assembles the envelope. Zero matches produce an empty,
// non-nil slice with zero totals.
func NewStudentPage(students []Student, total int64, q StudentQuery) StudentPage {
	if students == nil {
		students = []Student{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return StudentPage{
		Students:      students,
		TotalStudents: total,
		TotalPages:    totalPages,
		CurrentPage:   q.Page,
	}
}
