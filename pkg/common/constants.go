package common

const (
	RequestIDHeader  = "X-Request-Id"
	StaticPathPrefix = "/static"
)
