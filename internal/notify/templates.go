package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"example.com/habitkick/pkg/events"
)

var inviteTemplate = template.Must(template.New("invite").Parse(
	`<p>Hi {{.Invitee}},</p>
<p>{{.Inviter}} added you to <strong>{{.Name}}</strong>, running {{.Start}} to {{.End}}.</p>
<p>Log your weight on HabitKick to climb the leaderboard.</p>`))

var resultsTemplate = template.Must(template.New("results").Parse(
	`<p>Hi {{.Recipient}},</p>
<p><strong>{{.Name}}</strong> has finished.{{if .Winner}} Congratulations to {{.Winner}}!{{end}}</p>
<ol>{{range .Rows}}<li>#{{.Rank}} {{.Username}}: {{.Change}}</li>{{end}}</ol>`))

// InviteEmail renders the competition invitation for invitee.
func InviteEmail(to, invitee string, evt events.CompetitionPlayerInvited) (Email, error) {
	var b strings.Builder
	err := inviteTemplate.Execute(&b, map[string]string{
		"Invitee": invitee,
		"Inviter": evt.InviterName,
		"Name":    evt.CompetitionName,
		"Start":   evt.StartDate.Format(time.DateOnly),
		"End":     evt.EndDate.Format(time.DateOnly),
	})
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      []string{to},
		Subject: fmt.Sprintf("You're in: %s", evt.CompetitionName),
		HTML:    b.String(),
	}, nil
}

type resultRow struct {
	Rank     int
	Username string
	Change   string
}

// ResultsEmail renders final standings for one player.
func ResultsEmail(to, recipient string, evt events.CompetitionFinalized) (Email, error) {
	rows := make([]resultRow, 0, len(evt.Standings))
	winner := ""
	for _, st := range evt.Standings {
		change := "no weigh-ins"
		if st.PercentChange != nil {
			change = fmt.Sprintf("%+.2f%%", *st.PercentChange)
		}
		if st.UserID == evt.WinnerID {
			winner = st.Username
		}
		rows = append(rows, resultRow{Rank: st.Rank, Username: st.Username, Change: change})
	}

	var b strings.Builder
	err := resultsTemplate.Execute(&b, map[string]any{
		"Recipient": recipient,
		"Name":      evt.CompetitionName,
		"Winner":    winner,
		"Rows":      rows,
	})
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      []string{to},
		Subject: fmt.Sprintf("Final results: %s", evt.CompetitionName),
		HTML:    b.String(),
	}, nil
}
