package main

import (
	"fmt"
	"html"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

var (
	mairies = []struct{ name, address string }{
		{"Mairie du 15e", "31 Rue Péclet"},
		{"Mairie du 20e", "6 Place Gambetta"},
		{"Mairie du 11e", "12 Place Léon Blum"},
	}
	mois = []string{"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"}
)

// StartMockBookingSite serves an appointment search that answers with a
// random handful of slots, or none at all about half of the time.
// Call this in a goroutine before starting the checker.
func StartMockBookingSite(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		// simulate small latency variance
		time.Sleep(time.Duration(50+rand.Intn(150)) * time.Millisecond)

		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		slog.Debug("search received", "from", r.PostForm.Get("from_date"), "to", r.PostForm.Get("to_date"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(resultsPage(time.Now())))
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock booking site error", "error", err)
	}
}

func resultsPage(now time.Time) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="nextAvailableAppointments">`)
	if rand.Intn(2) == 0 {
		m := mairies[rand.Intn(len(mairies))]
		fmt.Fprintf(&b, `<div><div><h4>%s</h4></div><div><div><p>%s</p></div></div><ul>`,
			html.EscapeString(m.name), html.EscapeString(m.address))
		for i := 0; i < 1+rand.Intn(3); i++ {
			d := now.AddDate(0, 0, 1+rand.Intn(30))
			fmt.Fprintf(&b, `<li><a href="#">%02d %s %d %02d:%02d</a></li>`,
				d.Day(), mois[d.Month()-1], d.Year(), 8+rand.Intn(10), 15*rand.Intn(4))
		}
		b.WriteString(`</ul></div>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// StartMockBotAPI answers the two Bot API calls the checker makes and prints
// every message it receives.
func StartMockBotAPI(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Demo","username":"demo_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			fmt.Printf("\n  --- telegram message to %s ---\n%s\n\n", r.PostForm.Get("chat_id"), r.PostForm.Get("text"))
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock bot api error", "error", err)
	}
}
