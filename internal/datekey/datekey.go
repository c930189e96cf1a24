// Package datekey turns the many shapes a task date arrives in (plain day
// strings, ISO datetimes, locale strings, time values) into one canonical
// YYYY-MM-DD key and renders those keys for humans.
package datekey

import (
	"strings"
	"time"
)

// Layout is the canonical day key layout.
const Layout = "2006-01-02"

const displayLayout = "Monday, January 2, 2006"

// Layouts carrying an explicit zone or offset; the instant is converted to
// the normalizer's location before the day is taken.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.UnixDate,
	time.RubyDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// Layouts without a zone are read as wall-clock time in the normalizer's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.ANSIC,
	"1/2/2006, 3:04:05 PM",
	"1/2/2006, 15:04:05",
	"1/2/2006 15:04",
	Layout,
	"2006/01/02",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Mon Jan 2 2006",
}

// Normalizer resolves day keys against an injected location and clock.
type Normalizer struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Normalizer; nil arguments fall back to time.Local and time.Now.
func New(loc *time.Location, now func() time.Time) Normalizer {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return Normalizer{loc: loc, now: now}
}

// Local is the process-local normalizer.
func Local() Normalizer {
	return New(time.Local, time.Now)
}

func (n Normalizer) Location() *time.Location {
	if n.loc == nil {
		return time.Local
	}
	return n.loc
}

func (n Normalizer) Now() time.Time {
	if n.now == nil {
		return time.Now().In(n.Location())
	}
	return n.now().In(n.Location())
}

// Parse reads raw in any supported shape and returns local midnight of its day.
func (n Normalizer) Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	// Date.prototype.toString appends "(Zone Name)".
	if i := strings.Index(s, " ("); i > 0 && strings.HasSuffix(s, ")") {
		s = s[:i]
	}
	loc := n.Location()
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t.In(loc)), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

// Normalize returns the canonical key for raw, or raw unchanged when it does not parse.
func (n Normalizer) Normalize(raw string) string {
	t, ok := n.Parse(raw)
	if !ok {
		return raw
	}
	return t.Format(Layout)
}

// NormalizeTime returns the local day key of t; the zero time maps to today.
func (n Normalizer) NormalizeTime(t time.Time) string {
	if t.IsZero() {
		return n.Today()
	}
	return t.In(n.Location()).Format(Layout)
}

func (n Normalizer) Today() string {
	return n.Now().Format(Layout)
}

func (n Normalizer) Tomorrow() string {
	return midnight(n.Now()).AddDate(0, 0, 1).Format(Layout)
}

// AddDays shifts a parsable date by days and returns the new key.
func (n Normalizer) AddDays(raw string, days int) (string, bool) {
	t, ok := n.Parse(raw)
	if !ok {
		return raw, false
	}
	return t.AddDate(0, 0, days).Format(Layout), true
}

// Display renders a key as "Today", "Tomorrow" or a long weekday form.
func (n Normalizer) Display(key string) string {
	t, ok := n.Parse(key)
	if !ok {
		return key
	}
	switch t.Format(Layout) {
	case n.Today():
		return "Today"
	case n.Tomorrow():
		return "Tomorrow"
	default:
		return t.Format(displayLayout)
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
