package mailer

import "fmt"

// InvitationMessage builds the mail inviting a student to a course.
func InvitationMessage(appName, email, courseName, code string) Message {
	text := fmt.Sprintf(
		"Has sido invitado al curso %q en %s.\n\n"+
			"Abre la aplicación para aceptar o rechazar la invitación, "+
			"o únete directamente con el código de registro %s.\n",
		courseName, appName, code,
	)
	html := fmt.Sprintf(
		"<p>Has sido invitado al curso <strong>%s</strong> en %s.</p>"+
			"<p>Abre la aplicación para aceptar o rechazar la invitación, "+
			"o únete directamente con el código de registro <strong>%s</strong>.</p>",
		courseName, appName, code,
	)
	return Message{
		To:      email,
		Subject: "Invitación al curso " + courseName,
		Text:    text,
		HTML:    html,
	}
}
