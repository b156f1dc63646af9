package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStudentQueryNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		in        StudentQuery
		wantPage  int
		wantLimit int
	}{
		{"zero values take defaults", StudentQuery{}, 1, DefaultLimit},
		{"negative page clamps to first", StudentQuery{Page: -4, Limit: 20}, 1, 20},
		{"negative limit clamps to one", StudentQuery{Page: 2, Limit: -1}, 2, 1},
		{"oversized limit caps at max", StudentQuery{Page: 3, Limit: 500}, 3, MaxLimit},
		{"in-range values untouched", StudentQuery{Page: 7, Limit: 25}, 7, 25},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.in.Normalize()
			require.Equal(t, tt.wantPage, q.Page)
			require.Equal(t, tt.wantLimit, q.Limit)
		})
	}
}

func TestStudentQueryOffset(t *testing.T) {
	t.Parallel()

	q := StudentQuery{Page: 3, Limit: 10}.Normalize()
	require.Equal(t, 20, q.Offset())
}

func TestNewStudentPage(t *testing.T) {
	t.Parallel()

	t.Run("empty result keeps a non-nil slice", func(t *testing.T) {
		page := NewStudentPage(nil, 0, StudentQuery{Page: 1, Limit: 10})
		require.NotNil(t, page.Students)
		require.Empty(t, page.Students)
		require.EqualValues(t, 0, page.TotalStudents)
		require.Equal(t, 0, page.TotalPages)
		require.Equal(t, 1, page.CurrentPage)
	})

	t.Run("total pages rounds up", func(t *testing.T) {
		page := NewStudentPage(make([]Student, 10), 21, StudentQuery{Page: 2, Limit: 10})
		require.Equal(t, 3, page.TotalPages)
		require.Equal(t, 2, page.CurrentPage)
		require.EqualValues(t, 21, page.TotalStudents)
	})

	t.Run("exact multiple", func(t *testing.T) {
		page := NewStudentPage(make([]Student, 10), 20, StudentQuery{Page: 1, Limit: 10})
		require.Equal(t, 2, page.TotalPages)
	})
}
