package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderGenericEmailEscapes(t *testing.T) {
	out := RenderGenericEmail("Case <update>", "line one\n<script>")

	assert.Contains(t, out, "Case &lt;update&gt;")
	assert.Contains(t, out, "line one<br>&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestRenderInterviewInvitationEmail(t *testing.T) {
	out := RenderInterviewInvitationEmail(InterviewEmail{
		CitizenName: "Jane",
		OBNumber:    "OB-20240101-ABCDEF12",
		When:        "Monday, January 1, 2024 at 3:04 PM",
		Duration:    30,
		Platform:    "zoom",
		MeetingLink: "https://zoom.example/j/1",
		MeetingID:   "123",
	})

	assert.Contains(t, out, "Interview Scheduled")
	assert.Contains(t, out, "Hi Jane")
	assert.Contains(t, out, "OB-20240101-ABCDEF12")
	assert.Contains(t, out, "30 minutes")
	assert.Contains(t, out, `href="https://zoom.example/j/1"`)
	assert.Contains(t, out, "Meeting ID:</strong> 123")
}

func TestRenderInterviewReminderEmailWithoutMeetingID(t *testing.T) {
	out := RenderInterviewReminderEmail(InterviewEmail{CitizenName: "Jane", Platform: "teams"})

	assert.Contains(t, out, "Interview Reminder")
	assert.NotContains(t, out, "Meeting ID")
}
