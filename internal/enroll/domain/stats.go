package domain

// DashboardStats are the aggregate figures the dashboard shows. Computed on
// demand, never stored.
type DashboardStats struct {
	TotalStudents      int64 `json:"totalStudents"`
	ActiveStudents     int64 `json:"activeStudents"`
	TotalUsers         int64 `json:"totalUsers"`
	ActiveCourses      int64 `json:"activeCourses"`
	RecentEnrollments  int64 `json:"recentEnrollments"`
	CapacityPercentage int   `json:"capacityPercentage"`
}
