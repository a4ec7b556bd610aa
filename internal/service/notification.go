package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/utils"
)

type notificationService struct {
	sms        SMSSender
	email      EmailSender
	managers   []string
	officeName string
}

func NewNotificationService(sms SMSSender, email EmailSender, managerEmails []string, officeName string) NotificationService {
	if sms == nil {
		sms = NewLogSMSSender()
	}
	if email == nil {
		email = NewLogEmailSender()
	}
	return &notificationService{sms: sms, email: email, managers: managerEmails, officeName: officeName}
}

func overdueReminderText(officeName string, n OverdueNotice) string {
	end := n.Application.EndDate
	vehicle := ""
	if n.Transport != nil {
		vehicle = " " + n.Transport.Description()
	}
	return fmt.Sprintf("%s: срок аренды%s истёк %s (просрочка %s). Пожалуйста, свяжитесь с нами.",
		officeName, vehicle, utils.FormatDate(&end), utils.FormatDays(n.DaysOverdue))
}

func (s *notificationService) SendOverdueReminder(ctx context.Context, notice OverdueNotice) error {
	app := notice.Application
	if app == nil || app.PhoneNumber == "" {
		return nil
	}
	logger.EnterMethod(ctx, "notificationService.SendOverdueReminder", "applicationID", app.ID, "daysOverdue", notice.DaysOverdue)
	if err := s.sms.SendSMS(ctx, app.PhoneNumber, overdueReminderText(s.officeName, notice)); err != nil {
		logger.ExitMethodWithError(ctx, "notificationService.SendOverdueReminder", err)
		return err
	}
	logger.ExitMethod(ctx, "notificationService.SendOverdueReminder", "applicationID", app.ID)
	return nil
}

func digestLine(n OverdueNotice) string {
	app := n.Application
	end := app.EndDate
	vehicle := "без транспорта"
	if n.Transport != nil {
		vehicle = n.Transport.Description()
	}
	return fmt.Sprintf("#%d %s, %s, %s, до %s, просрочка %s",
		app.ID, app.FullName, app.PhoneNumber, vehicle, utils.FormatDate(&end), utils.FormatDays(n.DaysOverdue))
}

// SendOverdueDigest mails one summary of all overdue rentals to the managers.
func (s *notificationService) SendOverdueDigest(ctx context.Context, notices []OverdueNotice) error {
	if len(notices) == 0 || len(s.managers) == 0 {
		return nil
	}
	logger.EnterMethod(ctx, "notificationService.SendOverdueDigest", "count", len(notices))

	var plain, rich strings.Builder
	plain.WriteString("Просроченные аренды:\n\n")
	rich.WriteString("<p>Просроченные аренды:</p><ul>")
	for _, n := range notices {
		line := digestLine(n)
		plain.WriteString(line + "\n")
		rich.WriteString("<li>" + html.EscapeString(line) + "</li>")
	}
	rich.WriteString("</ul>")

	subject := fmt.Sprintf("%s: просроченные аренды (%d)", s.officeName, len(notices))
	if err := s.email.SendEmail(ctx, s.managers, subject, plain.String(), rich.String()); err != nil {
		logger.ExitMethodWithError(ctx, "notificationService.SendOverdueDigest", err)
		return err
	}
	logger.ExitMethod(ctx, "notificationService.SendOverdueDigest", "recipients", len(s.managers))
	return nil
}
