package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/kerem/doctrack/internal/app/models"
)

// SendOverdueReminders scans for open requests whose needed-by date has
// passed and reminds the assigned staff member. Unassigned overdue
// requests are escalated to every admin. Delivery is at-least-once: a
// rerun after a partial failure may remind twice.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("send_overdue_reminders", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		overdue, err := jr.requestRepo.ListOverdue(ctx, time.Now())
		if err != nil {
			jr.logger.Error().Err(err).Msg("Failed to list overdue requests")
			return
		}
		if len(overdue) == 0 {
			return
		}

		var admins []*models.User
		var batch []*models.Notification
		for _, request := range overdue {
			title := "Request Overdue"
			message := fmt.Sprintf("%s request #%d for %s %s was needed by %s and is still %s.",
				request.RequestType.Label(), request.ID,
				request.FirstName, request.LastName,
				request.NeededByDate.Format("2006-01-02"), request.Status.Label())

			if request.AssignedStaffID != nil {
				batch = append(batch, &models.Notification{
					UserID:    *request.AssignedStaffID,
					Type:      models.NotificationStatusUpdate,
					Title:     title,
					Message:   message,
					RequestID: &request.ID,
				})
				continue
			}

			if admins == nil {
				admins, err = jr.userRepo.ListByRole(ctx, models.RoleAdmin)
				if err != nil {
					jr.logger.Error().Err(err).Msg("Failed to resolve admins for overdue reminders")
					return
				}
			}
			for _, admin := range admins {
				batch = append(batch, &models.Notification{
					UserID:    admin.ID,
					Type:      models.NotificationStatusUpdate,
					Title:     title,
					Message:   message,
					RequestID: &request.ID,
				})
			}
		}

		if err := jr.notificationRepo.CreateBatch(ctx, batch); err != nil {
			jr.logger.Error().Err(err).Int("count", len(batch)).Msg("Failed to create overdue reminders")
			return
		}
		jr.logger.Info().Int("requests", len(overdue)).Int("reminders", len(batch)).Msg("Overdue reminders sent")
	})
}
