package dto

// DataSummaryResponse reports row counts before a destructive clear.
type DataSummaryResponse struct {
	RequestCount      int64 `json:"request_count"`
	NotificationCount int64 `json:"notification_count"`
	UserCount         int64 `json:"user_count"`
	AdminCount        int64 `json:"admin_count"`
}

// ClearDataRequest is the payload for the destructive data-clear operation.
// Confirmation must match the fixed phrase exactly.
type ClearDataRequest struct {
	Confirmation string `json:"confirmation" binding:"required" example:"ERASE ALL DATA"`
}

// ClearDataResponse reports what the clear operation removed.
type ClearDataResponse struct {
	RequestsDeleted      int64 `json:"requests_deleted"`
	NotificationsDeleted int64 `json:"notifications_deleted"`
	UsersDeleted         int64 `json:"users_deleted"`
}
