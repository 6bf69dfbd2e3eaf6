package site

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Slot is one bookable appointment.
type Slot struct {
	Location string
	Address  string
	Date     time.Time
}

// ParseError reports a results page that does not have the expected shape.
type ParseError struct {
	Block int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("appointment block %d: %s", e.Block, e.Msg)
}

// selectors of the results page
const (
	blockSelector    = ".nextAvailableAppointments > div"
	locationSelector = "h4"
	addressSelector  = ":nth-child(2) > div > p"
	slotSelector     = "ul > li > a"
)

// months maps lower-cased month names, French and English, to their month.
var months = map[string]time.Month{
	"janvier": time.January, "février": time.February, "fevrier": time.February,
	"mars": time.March, "avril": time.April, "mai": time.May, "juin": time.June,
	"juillet": time.July, "août": time.August, "aout": time.August,
	"septembre": time.September, "octobre": time.October, "novembre": time.November,
	"décembre": time.December, "decembre": time.December,

	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

// ParseSlots extracts slots from a results page.
//
// Each child block of .nextAvailableAppointments holds a location heading,
// an address paragraph and a list of links whose text is a slot date such
// as "03 Juin 2025 09:30". One [Slot] is returned per link, in document
// order. Blocks without links are skipped.
func ParseSlots(body []byte) ([]Slot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var (
		slots    []Slot
		parseErr error
	)
	doc.Find(blockSelector).EachWithBreak(func(i int, block *goquery.Selection) bool {
		links := block.Find(slotSelector)
		if links.Length() == 0 {
			return true
		}

		location := strings.TrimSpace(block.Find(locationSelector).First().Text())
		if location == "" {
			parseErr = &ParseError{Block: i, Msg: "missing location heading"}
			return false
		}
		address := strings.TrimSpace(block.Find(addressSelector).First().Text())

		links.EachWithBreak(func(_ int, link *goquery.Selection) bool {
			date, err := ParseSlotDate(link.Text())
			if err != nil {
				parseErr = &ParseError{Block: i, Msg: err.Error()}
				return false
			}
			slots = append(slots, Slot{Location: location, Address: address, Date: date})
			return true
		})
		return parseErr == nil
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return slots, nil
}

// ParseSlotDate parses a "DD Month YYYY HH:MM" slot date. Month names are
// matched case-insensitively in French or English.
func ParseSlotDate(s string) (time.Time, error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return time.Time{}, fmt.Errorf("invalid slot date %q", s)
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in slot date %q", s)
	}
	month, ok := months[strings.ToLower(fields[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q in slot date %q", fields[1], s)
	}
	year, err := strconv.Atoi(fields[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year in slot date %q", s)
	}
	clock, err := time.Parse("15:04", fields[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time in slot date %q", s)
	}

	date := time.Date(year, month, day, clock.Hour(), clock.Minute(), 0, 0, time.Local)
	if date.Day() != day || date.Month() != month {
		return time.Time{}, fmt.Errorf("day out of range in slot date %q", s)
	}
	return date, nil
}
