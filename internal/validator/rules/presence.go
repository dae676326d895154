package rules

import (
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/geo"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// PresenceValidators check which files exist and how many entities they hold.
func PresenceValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("required_files", validateRequiredFiles),
		validator.New("calendar_presence", validateCalendarPresence),
		validator.New("feed_info_presence", validateFeedInfoPresence),
		validator.New("locations_presence", validateLocationsPresence),
		validator.New("locations_notices", passLocationNotices),
	}
}

func validateRequiredFiles(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	present := map[string]bool{
		gtfs.FileAgency:    feed.Agencies.Present(),
		gtfs.FileStops:     feed.Stops.Present(),
		gtfs.FileRoutes:    feed.Routes.Present(),
		gtfs.FileTrips:     feed.Trips.Present(),
		gtfs.FileStopTimes: feed.StopTimes.Present(),
	}
	for _, file := range gtfs.RequiredFiles {
		if !present[file] {
			sink.Add(fileNotice(CodeMissingRequiredFile, notice.Error, "required file is missing", file))
		}
	}
}

// calendar.txt and calendar_dates.txt substitute for each other.
func validateCalendarPresence(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if feed.Calendars.Present() || feed.CalendarDates.Present() {
		return
	}
	sink.Add(notice.New(CodeMissingCalendarFiles, notice.Error, "neither calendar.txt nor calendar_dates.txt is provided"))
}

// feed_info.txt is recommended, and becomes required once translations.txt
// is present.
func validateFeedInfoPresence(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.FeedInfo.Present() {
		if feed.Translations.Present() {
			sink.Add(fileNotice(CodeMissingRequiredFile, notice.Error, "feed_info.txt is required when translations.txt is provided", gtfs.FileFeedInfo))
			return
		}
		sink.Add(fileNotice(CodeMissingRecommendedFile, notice.Warning, "recommended file is missing", gtfs.FileFeedInfo))
		return
	}
	if feed.FeedInfo.Usable() && feed.FeedInfo.Len() > 1 {
		sink.Add(rowNotice(CodeMoreThanOneEntity, notice.Error, "file must contain a single entity", gtfs.FileFeedInfo, feed.FeedInfo.RowNumber(1)).
			Int("entityCount", feed.FeedInfo.Len()))
	}
}

// locations.geojson is only required once a stop time references a zone.
func validateLocationsPresence(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if feed.Locations != nil || !feed.StopTimes.HasColumn("location_id") {
		return
	}
	for row, st := range feed.StopTimes.All() {
		if st.LocationID == "" {
			continue
		}
		sink.Add(fileNotice(CodeMissingRequiredFile, notice.Error, "locations.geojson is required when stop_times.txt references location_id", geo.FileName).
			Int("csvRowNumber", row).
			Str("locationId", st.LocationID))
		return
	}
}

func passLocationNotices(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if feed.Locations == nil {
		return
	}
	for _, n := range feed.Locations.Notices() {
		sink.Add(n)
	}
}
