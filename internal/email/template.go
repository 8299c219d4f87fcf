package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// InvitationData fills the client invitation email.
type InvitationData struct {
	ClientName      string
	CoachName       string
	PersonalMessage string
	InviteLink      string
}

// InvitationSubject builds the invitation subject line.
func InvitationSubject(coachName string) string {
	return fmt.Sprintf("%s vous invite à découvrir votre Ikigai ✨", coachName)
}

// InvitationFrom builds the sender header; replies go to the support inbox.
func InvitationFrom(coachName string) string {
	return fmt.Sprintf("%s via AI-Ikigai <noreply@ai-ikigai.com>", coachName)
}

// InvitationReplyTo is the support inbox used for replies to invitations.
const InvitationReplyTo = "contact@ai-ikigai.com"

var invitationTmpl = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<style>
		body { font-family: Arial, sans-serif; background: #f8fafc; margin: 0; padding: 20px; }
		.container { max-width: 600px; margin: 0 auto; background: white; padding: 40px; border-radius: 12px; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
		.logo { font-size: 2.5rem; font-weight: bold; background: linear-gradient(90deg, #00d4ff, #d946ef); -webkit-background-clip: text; -webkit-text-fill-color: transparent; text-align: center; }
		.personal-message { background: linear-gradient(135deg, #f1f5f9 0%, #e0e7ff 100%); padding: 20px; border-radius: 12px; margin: 25px 0; font-style: italic; border-left: 4px solid #8b5cf6; }
		.cta-button { display: inline-block; background: linear-gradient(135deg, #00d4ff, #8b5cf6); color: white; padding: 16px 40px; text-decoration: none; border-radius: 50px; font-weight: 600; box-shadow: 0 4px 15px rgba(139, 92, 246, 0.3); }
	</style>
</head>
<body>
	<div class="container">
		<div class="logo">AI-Ikigai</div>
		<h2>Bonjour {{.ClientName}} 👋</h2>
		<p><strong>{{.CoachName}}</strong> vous invite à découvrir votre Ikigai avec AI-Ikigai !</p>
		{{if .PersonalMessage}}<div class="personal-message">"{{.PersonalMessage}}"<div style="text-align: right; margin-top: 10px; font-style: normal; color: #64748b;">— {{.CoachName}}</div></div>{{end}}
		<div style="margin: 30px 0;">
			<div style="margin: 15px 0;"><span style="font-size: 1.5rem; margin-right: 12px;">🎯</span><strong>Analyse personnalisée</strong><br>Découvrez les 4 dimensions de votre Ikigai</div>
			<div style="margin: 15px 0;"><span style="font-size: 1.5rem; margin-right: 12px;">📊</span><strong>Dashboard interactif</strong><br>Suivez votre progression</div>
			<div style="margin: 15px 0;"><span style="font-size: 1.5rem; margin-right: 12px;">🤝</span><strong>Accompagnement coach</strong><br>Bénéficiez de l'expertise de {{.CoachName}}</div>
		</div>
		<div style="text-align: center;">
			<a href="{{.InviteLink}}" class="cta-button">✨ Créer mon compte gratuitement</a>
		</div>
		<p style="text-align: center; color: #94a3b8; font-size: 0.9rem; margin-top: 30px;">Ce lien est valide pendant 7 jours</p>
	</div>
</body>
</html>
`))

// RenderInvitation renders the invitation email body.
func RenderInvitation(data InvitationData) (string, error) {
	var buf bytes.Buffer
	if err := invitationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render invitation email: %w", err)
	}
	return buf.String(), nil
}
