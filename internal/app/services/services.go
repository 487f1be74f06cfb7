package services

// Services defined in this package:
// - AuthService: registration, login, token refresh, profile lookup
// - RequestService: request creation, listing, lookup, student edits
// - TransitionService: lifecycle status changes and rejections
// - AssignmentService: staff assignment and the assignable-staff list
// - NotificationService: fan-out dispatch and the per-user feed
// - AnalyticsService: on-demand dashboard aggregates
// - DocumentService: document metadata registration and lookup
// - AdminService: user administration and destructive data operations

// Services bundles every service for bootstrap wiring.
type Services struct {
	Auth         AuthService
	Request      RequestService
	Transition   TransitionService
	Assignment   AssignmentService
	Notification NotificationService
	Analytics    AnalyticsService
	Document     DocumentService
	Admin        AdminService
}
