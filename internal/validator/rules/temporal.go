package rules

import (
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/table"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// day is the length of one service day.
var day = table.HMS(24, 0, 0)

// TemporalValidators check dates, service periods and time intervals.
func TemporalValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("calendar_range", validateCalendarRange),
		validator.New("feed_info_dates", validateFeedInfoDates),
		validator.New("expired_calendar", validateExpiredCalendar),
		validator.New("fare_amounts", validateFareAmounts),
		validator.New("frequency_ranges", validateFrequencyRanges),
		validator.New("overlapping_frequency", validateOverlappingFrequency),
		validator.New("timeframes", validateTimeframes),
	}
}

func rangeOutOfOrder(file string, row int, startField, startValue, endField, endValue string) *notice.Notice {
	return rowNotice(CodeRangeOutOfOrder, notice.Error, "start of range is after its end", file, row).
		Str("startFieldName", startField).
		Str("startFieldValue", startValue).
		Str("endFieldName", endField).
		Str("endFieldValue", endValue)
}

func validateCalendarRange(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Calendars.Usable() {
		return
	}
	for row, c := range feed.Calendars.All() {
		if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
			sink.Add(rangeOutOfOrder(gtfs.FileCalendar, row, "start_date", c.StartDate.String(), "end_date", c.EndDate.String()).
				Str("serviceId", c.ServiceID))
		}
	}
}

// A published feed should stay valid for at least the next 30 days.
func validateFeedInfoDates(feed *gtfs.Feed, cfg *validator.Config, sink *notice.Container) {
	if !feed.FeedInfo.Usable() {
		return
	}
	today := cfg.Today()
	for row, fi := range feed.FeedInfo.All() {
		if fi.StartDate != nil && fi.EndDate != nil && fi.StartDate.After(*fi.EndDate) {
			sink.Add(rangeOutOfOrder(gtfs.FileFeedInfo, row, "feed_start_date", fi.StartDate.String(), "feed_end_date", fi.EndDate.String()))
			continue
		}
		if fi.EndDate == nil {
			continue
		}
		end := *fi.EndDate
		switch {
		case !end.After(today.AddDays(7)):
			sink.Add(rowNotice(CodeFeedExpiration7Days, notice.Warning, "feed expires within the next 7 days", gtfs.FileFeedInfo, row).
				Str("currentDate", today.String()).
				Str("feedEndDate", end.String()).
				Str("suggestedExpirationDate", today.AddDays(7).String()))
		case !end.After(today.AddDays(30)):
			sink.Add(rowNotice(CodeFeedExpiration30Days, notice.Warning, "feed expires within the next 30 days", gtfs.FileFeedInfo, row).
				Str("currentDate", today.String()).
				Str("feedEndDate", end.String()).
				Str("suggestedExpirationDate", today.AddDays(30).String()))
		}
	}
}

// weekdayIndex maps a date to the Monday-first index of Calendar.Days.
func weekdayIndex(d table.Date) int {
	return (int(d.Time().Weekday()) + 6) % 7
}

// lastActiveDate returns the last date a calendar entry runs, taking
// calendar_dates exceptions for the same service into account.
func lastActiveDate(c *gtfs.Calendar, added, removed map[table.Date]bool) (table.Date, bool) {
	var last table.Date
	found := false
	for d := range added {
		if !found || d.After(last) {
			last, found = d, true
		}
	}
	// Each enabled weekday starts at its last occurrence on or before
	// end_date and only steps back a week per removed date.
	end := weekdayIndex(*c.EndDate)
	for wd, on := range c.Days {
		if !on {
			continue
		}
		for d := c.EndDate.AddDays(-((end - wd + 7) % 7)); !d.Before(*c.StartDate); d = d.AddDays(-7) {
			if found && !d.After(last) {
				break
			}
			if !removed[d] {
				last, found = d, true
				break
			}
		}
	}
	return last, found
}

func validateExpiredCalendar(feed *gtfs.Feed, cfg *validator.Config, sink *notice.Container) {
	if !feed.Calendars.Usable() {
		return
	}
	added := make(map[string]map[table.Date]bool)
	removed := make(map[string]map[table.Date]bool)
	if feed.CalendarDates.Usable() {
		for _, cd := range feed.CalendarDates.All() {
			if cd.Date == nil || cd.ExceptionType == nil {
				continue
			}
			target := added
			if *cd.ExceptionType == gtfs.ExceptionRemoved {
				target = removed
			}
			if target[cd.ServiceID] == nil {
				target[cd.ServiceID] = make(map[table.Date]bool)
			}
			target[cd.ServiceID][*cd.Date] = true
		}
	}

	today := cfg.Today()
	for row, c := range feed.Calendars.All() {
		if c.StartDate == nil || c.EndDate == nil || c.StartDate.After(*c.EndDate) {
			continue
		}
		last, ok := lastActiveDate(c, added[c.ServiceID], removed[c.ServiceID])
		if ok && last.Before(today) {
			sink.Add(rowNotice(CodeExpiredCalendar, notice.Warning, "service has no active date from today on", gtfs.FileCalendar, row).
				Str("serviceId", c.ServiceID).
				Str("lastActiveDate", last.String()))
		}
	}
}

func validateFareAmounts(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	for row, f := range feed.FareAttributes.All() {
		if f.Price != nil && *f.Price < 0 {
			sink.Add(outOfRange(gtfs.FileFareAttributes, row, "price", "non-negative float", formatFloat(*f.Price)))
		}
		if f.TransferDuration != nil && *f.TransferDuration < 0 {
			sink.Add(outOfRange(gtfs.FileFareAttributes, row, "transfer_duration", "non-negative integer", optInt(f.TransferDuration)))
		}
	}
	for row, p := range feed.FareProducts.All() {
		if p.Amount != nil && *p.Amount < 0 {
			sink.Add(outOfRange(gtfs.FileFareProducts, row, "amount", "non-negative float", formatFloat(*p.Amount)))
		}
	}
}

func validateFrequencyRanges(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Frequencies.Usable() {
		return
	}
	for row, f := range feed.Frequencies.All() {
		if f.StartTime != nil && f.EndTime != nil && *f.StartTime > *f.EndTime {
			sink.Add(rangeOutOfOrder(gtfs.FileFrequencies, row, "start_time", f.StartTime.String(), "end_time", f.EndTime.String()).
				Str("tripId", f.TripID))
		}
		if f.HeadwaySecs != nil && *f.HeadwaySecs <= 0 {
			sink.Add(outOfRange(gtfs.FileFrequencies, row, "headway_secs", "positive integer", optInt(f.HeadwaySecs)))
		}
	}
}

// Frequency windows of one trip must not overlap. Windows are ordered by
// start, end and row number before adjacent windows are compared.
func validateOverlappingFrequency(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Frequencies.Usable() {
		return
	}
	byTrip := newGrouped[string, interval]()
	for row, f := range feed.Frequencies.All() {
		if f.StartTime == nil || f.EndTime == nil {
			continue
		}
		byTrip.add(f.TripID, interval{start: *f.StartTime, end: *f.EndTime, row: row})
	}
	byTrip.each(func(trip string, iv []interval) {
		sortIntervals(iv, byRow)
		eachOverlap(iv, func(prev, curr interval) {
			sink.Add(notice.New(CodeOverlappingFrequency, notice.Error, "frequency windows of a trip overlap").
				At(gtfs.FileFrequencies, curr.row).
				Int("prevCsvRowNumber", prev.row).
				Str("prevEndTime", prev.end.String()).
				Int("currCsvRowNumber", curr.row).
				Str("currStartTime", curr.start.String()).
				Str("tripId", trip))
		})
	})
}

type timeframeKey struct {
	group   string
	service string
}

// Timeframes of one group and service must not overlap. A timeframe with
// neither start_time nor end_time covers the whole day.
func validateTimeframes(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Timeframes.Usable() {
		return
	}
	groups := newGrouped[timeframeKey, interval]()
	for row, t := range feed.Timeframes.All() {
		for _, f := range []struct {
			name string
			v    *table.Time
		}{{"start_time", t.StartTime}, {"end_time", t.EndTime}} {
			if f.v != nil && *f.v > day {
				sink.Add(rowNotice(CodeTimeframeOver24Hours, notice.Error, "timeframe time is past 24:00:00", gtfs.FileTimeframes, row).
					Str("fieldName", f.name).
					Str("time", f.v.String()))
			}
		}

		switch {
		case t.StartTime == nil && t.EndTime == nil:
			groups.add(timeframeKey{t.GroupID, t.ServiceID}, interval{start: 0, end: day, row: row})
		case t.StartTime == nil || t.EndTime == nil:
			sink.Add(rowNotice(CodeTimeframeOnlyStartOrEnd, notice.Error, "timeframe must define both start_time and end_time or neither", gtfs.FileTimeframes, row).
				Str("timeframeGroupId", t.GroupID))
		default:
			groups.add(timeframeKey{t.GroupID, t.ServiceID}, interval{start: *t.StartTime, end: *t.EndTime, row: row})
		}
	}

	groups.each(func(k timeframeKey, iv []interval) {
		sortIntervals(iv, byRow)
		eachOverlap(iv, func(prev, curr interval) {
			sink.Add(notice.New(CodeTimeframeOverlap, notice.Error, "timeframes of one group and service overlap").
				At(gtfs.FileTimeframes, curr.row).
				Int("prevCsvRowNumber", prev.row).
				Str("prevEndTime", prev.end.String()).
				Int("currCsvRowNumber", curr.row).
				Str("currStartTime", curr.start.String()).
				Str("timeframeGroupId", k.group).
				Str("serviceId", k.service))
		})
	})
}
