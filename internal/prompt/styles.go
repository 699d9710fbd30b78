package prompt

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	questionStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Bold(true)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	answerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

func header(message string) string {
	return questionStyle.Render("?") + " " + messageStyle.Render(message)
}

func answered(message, answer string) string {
	return header(message) + " " + answerStyle.Render(answer) + "\n"
}
