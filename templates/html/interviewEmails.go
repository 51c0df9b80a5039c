package templates

import (
	"fmt"
	"html"
)

// InterviewEmail holds the fields shown in interview emails
type InterviewEmail struct {
	CitizenName string
	OBNumber    string
	When        string
	Duration    int
	Platform    string
	MeetingLink string
	MeetingID   string
}

func (e InterviewEmail) details() string {
	meetingID := ""
	if e.MeetingID != "" {
		meetingID = fmt.Sprintf("<br><strong>Meeting ID:</strong> %s", html.EscapeString(e.MeetingID))
	}
	return fmt.Sprintf(`<div class="details">
        <strong>Case:</strong> %s<br>
        <strong>When:</strong> %s<br>
        <strong>Duration:</strong> %d minutes<br>
        <strong>Platform:</strong> %s%s
      </div>
      <p style="text-align: center;"><a href="%s" class="button">Join Interview</a></p>`,
		html.EscapeString(e.OBNumber),
		html.EscapeString(e.When),
		e.Duration,
		html.EscapeString(e.Platform),
		meetingID,
		html.EscapeString(e.MeetingLink),
	)
}

// RenderInterviewInvitationEmail is sent to the citizen when an interview is scheduled
func RenderInterviewInvitationEmail(e InterviewEmail) string {
	body := fmt.Sprintf(`<p>Hi %s,</p>
      <p>An officer investigating your report has scheduled an interview with you.</p>
      %s
      <p>If you cannot attend, reply through the case page so the officer can reschedule.</p>`,
		html.EscapeString(e.CitizenName), e.details())
	return layout("Interview Scheduled", body)
}

// RenderInterviewReminderEmail is sent shortly before an interview starts
func RenderInterviewReminderEmail(e InterviewEmail) string {
	body := fmt.Sprintf(`<p>Hi %s,</p>
      <p>This is a reminder that your interview starts within the hour.</p>
      %s`,
		html.EscapeString(e.CitizenName), e.details())
	return layout("Interview Reminder", body)
}
