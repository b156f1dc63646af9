package enroll_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuskit/enroll/internal/enroll/domain"
)

type authBody struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

func TestFullEnrollmentFlow(t *testing.T) {
	e := newEnv(t)

	// 1. Bootstrap the first admin.
	resp, data := e.request(t, http.MethodPost, "/v1/bootstrap", "",
		map[string]string{"email": adminEmail, "password": adminPassword},
		map[string]string{"X-Bootstrap-Token": bootstrapToken},
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	// 2. Log in as the admin; the renewal cookie lands in the jar.
	resp, data = e.request(t, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": adminEmail, "password": adminPassword}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	admin := unmarshal[authBody](t, data)
	require.Equal(t, "admin", admin.Role)
	require.NotEmpty(t, admin.AccessToken)

	// 3. Create a student record.
	resp, data = e.request(t, http.MethodPost, "/v1/students", admin.AccessToken,
		domain.Student{
			StudentID: "S001", FirstName: "Ada", LastName: "Lovelace",
			Email: "ada@example.com", Course: "Mathematics", GPA: 3.8,
		}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	created := unmarshal[domain.Student](t, data)

	// 4. A self-registered account starts as a student and cannot mutate.
	resp, data = e.request(t, http.MethodPost, "/v1/auth/register", "",
		map[string]string{"email": "ada@example.com", "password": "Ada123!secret"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	ada := unmarshal[authBody](t, data)
	require.Equal(t, "student", ada.Role)

	resp, _ = e.request(t, http.MethodDelete, "/v1/students/"+created.ID, ada.AccessToken, nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// 5. But the student can read the list and find their own profile.
	resp, data = e.request(t, http.MethodGet, "/v1/students?search=lovelace", ada.AccessToken, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := unmarshal[domain.StudentPage](t, data)
	require.EqualValues(t, 1, page.TotalStudents)

	resp, data = e.request(t, http.MethodGet, "/v1/students/profile", ada.AccessToken, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ada@example.com", unmarshal[domain.Student](t, data).Email)

	// 6. Renew the session via the cookie the jar is holding.
	resp, data = e.request(t, http.MethodPost, "/v1/auth/refresh", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	renewed := unmarshal[authBody](t, data)
	require.NotEmpty(t, renewed.AccessToken)

	// 7. Log out, then renewal is refused.
	resp, _ = e.request(t, http.MethodPost, "/v1/auth/logout", "", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = e.request(t, http.MethodPost, "/v1/auth/refresh", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRateLimitOnCredentialEndpoints(t *testing.T) {
	e := newEnv(t)

	var last int
	for i := 0; i < 10; i++ {
		resp, _ := e.request(t, http.MethodPost, "/v1/auth/login", "",
			map[string]string{"email": "nobody@example.com", "password": "whatever1"}, nil)
		last = resp.StatusCode
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}
