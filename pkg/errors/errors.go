package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 校验相关错误。
var (
	InvalidRequest     = Definition{Code: "INVALID_REQUEST", Message: "Invalid request payload"}
	InvalidAction      = Definition{Code: "INVALID_ACTION", Message: "Invalid action"}
	InvalidAlertLevel  = Definition{Code: "INVALID_ALERT_LEVEL", Message: "Invalid alert level"}
	InvalidCoordinates = Definition{Code: "INVALID_COORDINATES", Message: "Invalid coordinates"}
	MissingField       = Definition{Code: "MISSING_FIELD", Message: "Missing required field"}
)

// 认证与授权相关错误。
var (
	Unauthorized  = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden     = Definition{Code: "FORBIDDEN", Message: "Forbidden"}
	InvalidUserID = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
)

// 警报生命周期错误。
var (
	AlertNotFound      = Definition{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}
	NoActiveAlert      = Definition{Code: "NO_ACTIVE_ALERT", Message: "No active alert found"}
	AlertAlreadyClosed = Definition{Code: "ALERT_ALREADY_CLOSED", Message: "Alert already resolved or cancelled"}
)

// 胁迫验证错误。口令不匹配与未配置返回同一错误，避免向攻击者暴露配置是否存在。
var (
	DuressInvalid = Definition{Code: "DURESS_INVALID", Message: "Invalid duress password"}
)

// 可穿戴设备错误。
var (
	DeviceNotFound      = Definition{Code: "DEVICE_NOT_FOUND", Message: "Device not found or not paired"}
	DeviceAlreadyPaired = Definition{Code: "DEVICE_ALREADY_PAIRED", Message: "Device already paired"}
)

// 事件与报告错误。
var (
	EventNotFound  = Definition{Code: "EVENT_NOT_FOUND", Message: "Event not found"}
	ReportNotFound = Definition{Code: "REPORT_NOT_FOUND", Message: "Report not found"}
)

// 配置缺失错误。
var (
	BlobNotConfigured = Definition{Code: "BLOB_NOT_CONFIGURED", Message: "Audio storage not configured"}
)

// 限流错误。
var (
	RateLimited = Definition{Code: "RATE_LIMITED", Message: "Too many requests"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	InvalidRequest.Code:      InvalidRequest,
	InvalidAction.Code:       InvalidAction,
	InvalidAlertLevel.Code:   InvalidAlertLevel,
	InvalidCoordinates.Code:  InvalidCoordinates,
	MissingField.Code:        MissingField,
	Unauthorized.Code:        Unauthorized,
	Forbidden.Code:           Forbidden,
	InvalidUserID.Code:       InvalidUserID,
	AlertNotFound.Code:       AlertNotFound,
	NoActiveAlert.Code:       NoActiveAlert,
	AlertAlreadyClosed.Code:  AlertAlreadyClosed,
	DuressInvalid.Code:       DuressInvalid,
	DeviceNotFound.Code:      DeviceNotFound,
	DeviceAlreadyPaired.Code: DeviceAlreadyPaired,
	EventNotFound.Code:       EventNotFound,
	ReportNotFound.Code:      ReportNotFound,
	BlobNotConfigured.Code:   BlobNotConfigured,
	RateLimited.Code:         RateLimited,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
