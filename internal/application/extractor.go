package application

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"schedbot/internal/domain"
)

// placeholderTitle is used when no title could be read from the text.
const placeholderTitle = "New event"

// defaultDuration is applied when only a start time is given.
const defaultDuration = 30 * time.Minute

var (
	monthDateRe    = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?`)
	relativeDayRe  = regexp.MustCompile(`(?i)\b(today|tomorrow)\b`)
	timeRangeRe    = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:-|–|to)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	singleTimeRe   = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	scheduleVerbRe = regexp.MustCompile(`(?i)\b(set|schedule|add|create|book|remind me of)\b`)
	alnumRe        = regexp.MustCompile(`[A-Za-z0-9]`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Extraction is the structured result of Extract. A nil Start/End means no
// time token was found (partial result, not an error); TitleKnown is false
// when Title is the generic placeholder.
type Extraction struct {
	Title      string
	TitleKnown bool
	Start      *time.Time
	End        *time.Time
}

// Extractor turns a raw user utterance into an event draft seed. It is pure:
// the only implicit input is the clock, which is injected so tests can
// freeze "now".
type Extractor struct {
	now func() time.Time
}

func NewExtractor(now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{now: now}
}

// Extract applies the ordered pattern-matchers.
//
// Date priority: explicit month-name + day (+ optional year) beats
// "tomorrow", which beats "today"/nothing (today). Time priority: a range
// ("10am - 11:30am", "2pm to 3pm") beats a single token ("4pm", which gets
// a default 30 minute duration); no token at all yields nil Start/End so
// the dialogue can prompt for a time. The title is whatever remains after
// the matched fragments and leading scheduling verbs are stripped.
func (x *Extractor) Extract(text string) (Extraction, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Extraction{}, domain.ErrEmptyInput
	}
	if !alnumRe.MatchString(trimmed) {
		return Extraction{}, domain.ErrUnintelligible
	}

	date := resolveDate(trimmed, x.now())

	// The date fragment is cut before time matching so a day number is
	// never mistaken for the start of a range ("Jan 5 to 4pm").
	working := trimmed
	if date.matched != "" {
		working = strings.Replace(working, date.matched, " ", 1)
	}

	span, err := resolveTime(working, date.base)
	if err != nil {
		return Extraction{}, err
	}

	title, known := resolveTitle(working, span.matched)

	ext := Extraction{Title: title, TitleKnown: known}
	if span.ok {
		start, end := span.start, span.end
		ext.Start = &start
		ext.End = &end
	}
	return ext, nil
}

// dateSource is the resolved base date plus the substring that produced it.
type dateSource struct {
	base    time.Time
	matched string
}

func resolveDate(text string, now time.Time) dateSource {
	if m := monthDateRe.FindStringSubmatch(text); m != nil {
		month := monthsByPrefix[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		return dateSource{
			base:    time.Date(year, month, day, 0, 0, 0, 0, now.Location()),
			matched: m[0],
		}
	}

	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if m := relativeDayRe.FindStringSubmatch(text); m != nil && strings.EqualFold(m[1], "tomorrow") {
		base = base.AddDate(0, 0, 1)
	}
	// "today" and no token both mean the current date. The relative token
	// is stripped later by the title pass, so matched stays empty here.
	return dateSource{base: base}
}

// timeSource is a resolved start/end pair plus the substring that produced it.
type timeSource struct {
	start, end time.Time
	matched    string
	ok         bool
}

func resolveTime(text string, base time.Time) (timeSource, error) {
	if m := timeRangeRe.FindStringSubmatch(text); m != nil {
		sh, sm := clockParts(m[1], m[2], m[3])
		eh, em := clockParts(m[4], m[5], m[6])
		start := withClock(base, sh, sm)
		end := withClock(base, eh, em)
		if end.Before(start) {
			return timeSource{}, domain.ErrEndBeforeStart
		}
		return timeSource{start: start, end: end, matched: m[0], ok: true}, nil
	}

	// A lone time needs an explicit am/pm to count.
	if m := singleTimeRe.FindStringSubmatch(text); m != nil {
		h, min := clockParts(m[1], m[2], m[3])
		start := withClock(base, h, min)
		return timeSource{start: start, end: start.Add(defaultDuration), matched: m[0], ok: true}, nil
	}

	return timeSource{}, nil
}

// clockParts converts matched hour/minute/meridiem strings to 24h values
// (pm + hour<12 adds 12; am + hour 12 wraps to 0).
func clockParts(hourStr, minStr, meridiem string) (int, int) {
	h, _ := strconv.Atoi(hourStr)
	m := 0
	if minStr != "" {
		m, _ = strconv.Atoi(minStr)
	}
	switch strings.ToLower(meridiem) {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return h, m
}

func withClock(base time.Time, hour, minute int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, base.Location())
}

// edge connectors left dangling once a date/time fragment is removed
// ("Meeting tomorrow at 2pm" -> "Meeting at").
var danglingWords = map[string]bool{"at": true, "on": true, "from": true}

func resolveTitle(text string, timeMatched string) (string, bool) {
	title := text
	if timeMatched != "" {
		title = strings.Replace(title, timeMatched, " ", 1)
	}
	title = relativeDayRe.ReplaceAllString(title, " ")
	if loc := scheduleVerbRe.FindStringIndex(title); loc != nil {
		title = title[:loc[0]] + " " + title[loc[1]:]
	}

	title = spaceRe.ReplaceAllString(title, " ")
	title = strings.Trim(title, " \t,.:;!-–")

	words := strings.Fields(title)
	for len(words) > 0 && danglingWords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for len(words) > 0 && danglingWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	title = strings.Join(words, " ")

	if title == "" {
		return placeholderTitle, false
	}
	return title, true
}
