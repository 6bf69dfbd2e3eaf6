package site

import (
	"net/url"
	"strconv"

	"github.com/jpalmerr/slotchecker/config"
)

// minute-of-day bounds sent with every search (06:00 to 21:00)
const (
	FromDayMinute = 360
	ToDayMinute   = 1260
)

// Query holds the parameters of one slot search.
type Query struct {
	FromDate string
	FromTime string
	ToDate   string
	ToTime   string

	// FromDayMinute and ToDayMinute bound the search window in minutes since midnight.
	FromDayMinute int
	ToDayMinute   int

	// ConsecutiveSlots is the number of adjacent slots needed (one per person).
	ConsecutiveSlots int

	// Days are the ISO weekdays to search.
	Days []int
}

// NewQuery derives a [Query] from a config snapshot.
func NewQuery(cfg *config.Config) Query {
	days := make([]int, len(cfg.Days))
	copy(days, cfg.Days)

	return Query{
		FromDate:         cfg.FromDate,
		FromTime:         cfg.FromTime,
		ToDate:           cfg.ToDate,
		ToTime:           cfg.ToTime,
		FromDayMinute:    FromDayMinute,
		ToDayMinute:      ToDayMinute,
		ConsecutiveSlots: cfg.PersonNumber,
		Days:             days,
	}
}

// Form encodes the query as the search form body.
func (q Query) Form() url.Values {
	form := url.Values{}
	form.Set("page", "appointmentsearch")
	form.Set("role", "none")
	form.Set("from_date", q.FromDate)
	form.Set("from_time", q.FromTime)
	form.Set("to_date", q.ToDate)
	form.Set("to_time", q.ToTime)
	form.Set("from_day_minute", strconv.Itoa(q.FromDayMinute))
	form.Set("to_day_minute", strconv.Itoa(q.ToDayMinute))
	form.Set("nb_consecutive_slots", strconv.Itoa(q.ConsecutiveSlots))
	for _, d := range q.Days {
		form.Add("days_of_week", strconv.Itoa(d))
	}
	form.Set("action_search", "Rechercher")
	return form
}
