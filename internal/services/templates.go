package services

import (
	"fmt"

	"reminderd/internal/models"
)

const triggerTimeFormat = "Mon Jan 2, 3:04 PM"

// buildMessage selects the type-specific reminder template and renders
// subject, plain-text and HTML bodies from the item.
func buildMessage(item models.ReminderItem) (subject, plainContent, htmlContent string) {
	when := item.TriggerTime.Format(triggerTimeFormat)

	switch item.Kind {
	case models.KindMeeting:
		subject = fmt.Sprintf("Reminder: %s starts in 1 hour", item.Title)

		switch {
		case item.Location != "":
			plainContent = fmt.Sprintf("Hello %s, Your meeting %s starts at %s at %s. Don't miss it!",
				item.UserName, item.Title, when, item.Location)
			htmlContent = fmt.Sprintf("<p>Hello %s,</p><p>Your meeting <strong>%s</strong> starts at %s at %s.</p><p>Don't miss it!</p>",
				item.UserName, item.Title, when, item.Location)
		case item.MeetingLink != "":
			plainContent = fmt.Sprintf("Hello %s, Your meeting %s starts at %s. Join here: %s",
				item.UserName, item.Title, when, item.MeetingLink)
			htmlContent = fmt.Sprintf("<p>Hello %s,</p><p>Your meeting <strong>%s</strong> starts at %s.</p><p><a href=\"%s\">Join the meeting</a></p>",
				item.UserName, item.Title, when, item.MeetingLink)
		default:
			plainContent = fmt.Sprintf("Hello %s, Your meeting %s starts at %s. View your meetings for the details.",
				item.UserName, item.Title, when)
			htmlContent = fmt.Sprintf("<p>Hello %s,</p><p>Your meeting <strong>%s</strong> starts at %s.</p><p>View your meetings for the details.</p>",
				item.UserName, item.Title, when)
		}

	case models.KindAppointment:
		subject = fmt.Sprintf("Reminder: %s is tomorrow", item.Title)

		if item.Location != "" {
			plainContent = fmt.Sprintf("Hello %s, Your appointment %s is coming up on %s at %s.",
				item.UserName, item.Title, when, item.Location)
			htmlContent = fmt.Sprintf("<p>Hello %s,</p><p>Your appointment <strong>%s</strong> is coming up on %s at %s.</p>",
				item.UserName, item.Title, when, item.Location)
		} else {
			plainContent = fmt.Sprintf("Hello %s, Your appointment %s is coming up on %s.",
				item.UserName, item.Title, when)
			htmlContent = fmt.Sprintf("<p>Hello %s,</p><p>Your appointment <strong>%s</strong> is coming up on %s.</p>",
				item.UserName, item.Title, when)
		}

	default: // tasks
		subject = fmt.Sprintf("Reminder: %s is due tomorrow", item.Title)
		plainContent = fmt.Sprintf("Hello %s, Your task %s is due on %s. Don't forget to complete it!",
			item.UserName, item.Title, when)
		htmlContent = fmt.Sprintf("<p>Hello %s,</p><p>Your task <strong>%s</strong> is due on %s.</p><p>Don't forget to complete it!</p>",
			item.UserName, item.Title, when)
	}

	return subject, plainContent, htmlContent
}
