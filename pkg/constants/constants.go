package constants

// Роли, приходящие из контекста авторизации.
const (
	RoleClient = "client"
	RoleStaff  = "staff"
	RoleAdmin  = "admin"
)

// Типы сообщений по заказу.
const (
	MessageKindOrdinary   = "ordinary"
	MessageKindCompletion = "completion"
	MessageKindRejection  = "rejection"
)

// Типы файлов, привязанных к заказу.
const (
	FileTypeCompleted    = "completed"
	FileTypeClientUpload = "client_upload"
)

// Режимы межстрочного интервала (коды каталога spacing_modes).
const (
	SpacingSingle  = "single"
	SpacingOneHalf = "onehalf"
	SpacingDouble  = "double"
)
