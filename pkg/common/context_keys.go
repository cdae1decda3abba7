package common

type contextKey string

const (
	RequestIDContextKey        contextKey = "request_id"
	DashboardSubjectContextKey contextKey = "dashboard_subject"
)
