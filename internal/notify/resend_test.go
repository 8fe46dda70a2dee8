package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"example.com/habitkick/pkg/events"
)

func TestSendPostsEmail(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer re_test" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	client := NewResendClient(srv.URL, "re_test", "HabitKick <noreply@habitkick.app>", time.Second)
	id, err := client.Send(context.Background(), Email{To: []string{"sam@example.com"}, Subject: "hi", Text: "hello"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if id != "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794" {
		t.Errorf("id = %q", id)
	}
	if got["from"] != "HabitKick <noreply@habitkick.app>" || got["subject"] != "hi" {
		t.Errorf("payload = %v", got)
	}
}

func TestSendWithoutKeyIsDisabled(t *testing.T) {
	client := NewResendClient("http://unused", "", "x@example.com", time.Second)
	if client.Enabled() {
		t.Fatal("Enabled() = true without key")
	}
	if _, err := client.Send(context.Background(), Email{To: []string{"a@example.com"}}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Send() error = %v, want ErrDisabled", err)
	}
}

func TestSendReportsProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"message":"Invalid to field"}`))
	}))
	defer srv.Close()

	client := NewResendClient(srv.URL, "re_test", "x@example.com", time.Second)
	_, err := client.Send(context.Background(), Email{To: []string{"bad"}})
	if err == nil || !strings.Contains(err.Error(), "Invalid to field") {
		t.Errorf("Send() error = %v", err)
	}
}

func TestResultsEmailListsStandings(t *testing.T) {
	loss := -4.5
	email, err := ResultsEmail("sam@example.com", "sam", events.CompetitionFinalized{
		CompetitionName: "Spring Cut",
		WinnerID:        "u1",
		Standings: []events.CompetitionStanding{
			{Rank: 1, UserID: "u1", Username: "alex", PercentChange: &loss},
			{Rank: 2, UserID: "u2", Username: "sam"},
		},
	})
	if err != nil {
		t.Fatalf("ResultsEmail() error = %v", err)
	}
	for _, want := range []string{"Congratulations to alex", "#1 alex: -4.50%", "#2 sam: no weigh-ins"} {
		if !strings.Contains(email.HTML, want) {
			t.Errorf("html missing %q:\n%s", want, email.HTML)
		}
	}
	if email.Subject != "Final results: Spring Cut" {
		t.Errorf("subject = %q", email.Subject)
	}
}
