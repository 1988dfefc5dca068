package constants

// 队列常量
const (
	QueueDefault      = "default"
	QueueExport       = "export"
	TaskExportArchive = "export:archive"
)

// 访问角色常量
const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// 上下文键常量
const (
	ContextKeyRequestID = "request_id"
	ContextKeyRole      = "access_role"
)

// 请求头常量
const (
	HeaderRequestID = "X-Request-ID"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "nt"
)
