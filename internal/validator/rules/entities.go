package rules

import (
	"math"
	"strings"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// minColorContrast is the smallest luma difference between route_color and
// route_text_color that is considered readable.
const minColorContrast = 72

// EntityValidators check agencies, routes and stops one record at a time.
func EntityValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("agency_consistency", validateAgencyConsistency),
		validator.New("route_agency", validateRouteAgency),
		validator.New("route_names", validateRouteNames),
		validator.New("route_color_contrast", validateRouteColorContrast),
		validator.New("stop_location", validateStopLocation),
		validator.New("parent_station", validateParentStation),
		validator.New("stop_without_stop_time", validateStopWithoutStopTime),
	}
}

// All agencies of a feed share one timezone, and should share one language.
func validateAgencyConsistency(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	agencies := feed.Agencies
	if !agencies.Usable() || agencies.Len() < 2 {
		return
	}
	for row, a := range agencies.All() {
		if a.ID == "" {
			sink.Add(missingField(gtfs.FileAgency, row, "agency_id"))
		}
	}

	first := agencies.Rows[0]
	for row, a := range agencies.All() {
		if a.Timezone != "" && first.Timezone != "" && a.Timezone != first.Timezone {
			sink.Add(rowNotice(CodeInconsistentAgencyTimezone, notice.Error, "agencies must share one timezone", gtfs.FileAgency, row).
				Str("expected", first.Timezone).
				Str("actual", a.Timezone))
		}
	}

	var lang string
	for _, a := range agencies.All() {
		if a.Lang != "" {
			lang = strings.ToLower(a.Lang)
			break
		}
	}
	if lang == "" {
		return
	}
	for row, a := range agencies.All() {
		if a.Lang != "" && strings.ToLower(a.Lang) != lang {
			sink.Add(rowNotice(CodeInconsistentAgencyLang, notice.Warning, "agencies should share one language", gtfs.FileAgency, row).
				Str("expected", lang).
				Str("actual", strings.ToLower(a.Lang)))
		}
	}
}

// agency_id may only be omitted from routes and fares when there is a single
// agency to default to.
func validateRouteAgency(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Agencies.Usable() || feed.Agencies.Len() < 2 {
		return
	}
	if feed.Routes.Usable() {
		for row, r := range feed.Routes.All() {
			if r.AgencyID == "" {
				sink.Add(missingField(gtfs.FileRoutes, row, "agency_id").Str("routeId", r.ID))
			}
		}
	}
	if feed.FareAttributes.Usable() {
		for row, f := range feed.FareAttributes.All() {
			if f.AgencyID == "" {
				sink.Add(missingField(gtfs.FileFareAttributes, row, "agency_id").Str("fareId", f.ID))
			}
		}
	}
}

func validateRouteNames(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Routes.Usable() {
		return
	}
	for row, r := range feed.Routes.All() {
		switch {
		case r.ShortName == "" && r.LongName == "":
			sink.Add(rowNotice(CodeRouteNamesMissing, notice.Error, "route has neither a short nor a long name", gtfs.FileRoutes, row).
				Str("routeId", r.ID))
		case r.ShortName != "" && strings.EqualFold(r.ShortName, r.LongName):
			sink.Add(rowNotice(CodeRouteNamesEqual, notice.Warning, "route short and long names are equal", gtfs.FileRoutes, row).
				Str("routeId", r.ID).
				Str("routeShortName", r.ShortName).
				Str("routeLongName", r.LongName))
		}
	}
}

func validateRouteColorContrast(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Routes.Usable() {
		return
	}
	for row, r := range feed.Routes.All() {
		if r.Color == nil || r.TextColor == nil {
			continue
		}
		diff := r.Color.Luma() - r.TextColor.Luma()
		if diff < 0 {
			diff = -diff
		}
		if diff < minColorContrast {
			sink.Add(rowNotice(CodeRouteColorContrast, notice.Warning, "route color and text color do not contrast enough", gtfs.FileRoutes, row).
				Str("routeId", r.ID).
				Str("routeColor", r.Color.String()).
				Str("routeTextColor", r.TextColor.String()))
		}
	}
}

// Which of stop_name, stop_lat, stop_lon and parent_station are required
// depends on location_type.
func validateStopLocation(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Stops.Usable() {
		return
	}
	for row, s := range feed.Stops.All() {
		t := s.Type()
		switch t {
		case gtfs.LocationStop, gtfs.LocationStation, gtfs.LocationEntrance:
			if s.Name == "" {
				sink.Add(missingField(gtfs.FileStops, row, "stop_name").Str("stopId", s.ID))
			}
			if s.Lat == nil {
				sink.Add(missingField(gtfs.FileStops, row, "stop_lat").Str("stopId", s.ID))
			}
			if s.Lon == nil {
				sink.Add(missingField(gtfs.FileStops, row, "stop_lon").Str("stopId", s.ID))
			}
		}
		switch t {
		case gtfs.LocationEntrance, gtfs.LocationGenericNode, gtfs.LocationBoardingArea:
			if s.ParentStation == "" {
				sink.Add(missingField(gtfs.FileStops, row, "parent_station").
					Str("stopId", s.ID).
					Int("locationType", int(t)))
			}
		}

		inRange := true
		if s.Lat != nil && (*s.Lat < -90 || *s.Lat > 90) {
			sink.Add(outOfRange(gtfs.FileStops, row, "stop_lat", "latitude", formatFloat(*s.Lat)))
			inRange = false
		}
		if s.Lon != nil && (*s.Lon < -180 || *s.Lon > 180) {
			sink.Add(outOfRange(gtfs.FileStops, row, "stop_lon", "longitude", formatFloat(*s.Lon)))
			inRange = false
		}
		if inRange && s.Lat != nil && s.Lon != nil && math.Abs(*s.Lat) <= 1 && math.Abs(*s.Lon) <= 1 {
			sink.Add(rowNotice(CodePointNearOrigin, notice.Error, "stop is placed near (0, 0)", gtfs.FileStops, row).
				Str("stopId", s.ID).
				Float("stopLat", *s.Lat).
				Float("stopLon", *s.Lon))
		}
	}
}

func outOfRange(file string, row int, field, fieldType, value string) *notice.Notice {
	return rowNotice(CodeNumberOutOfRange, notice.Error, "value is outside of its allowed range", file, row).
		Str("fieldName", field).
		Str("fieldType", fieldType).
		Str("fieldValue", value)
}

// expectedParent returns the location type a stop's parent_station must have.
func expectedParent(t gtfs.LocationType) gtfs.LocationType {
	if t == gtfs.LocationBoardingArea {
		return gtfs.LocationStop
	}
	return gtfs.LocationStation
}

func validateParentStation(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Stops.Usable() || !feed.Stops.HasColumn("parent_station") {
		return
	}
	byID := make(map[string]*gtfs.Stop, feed.Stops.Len())
	rows := make(map[string]int, feed.Stops.Len())
	for row, s := range feed.Stops.All() {
		if _, dup := byID[s.ID]; !dup {
			byID[s.ID] = s
			rows[s.ID] = row
		}
	}

	for row, s := range feed.Stops.All() {
		if s.ParentStation == "" {
			continue
		}
		if s.Type() == gtfs.LocationStation {
			sink.Add(rowNotice(CodeStationWithParentStation, notice.Error, "a station cannot have a parent station", gtfs.FileStops, row).
				Str("stopId", s.ID).
				Str("parentStation", s.ParentStation))
			continue
		}
		parent, ok := byID[s.ParentStation]
		if !ok {
			continue
		}
		want := expectedParent(s.Type())
		if parent.Type() != want {
			sink.Add(rowNotice(CodeWrongParentLocationType, notice.Error, "parent_station has the wrong location type", gtfs.FileStops, row).
				Str("stopId", s.ID).
				Int("locationType", int(s.Type())).
				Int("parentCsvRowNumber", rows[parent.ID]).
				Str("parentStation", parent.ID).
				Int("parentLocationType", int(parent.Type())).
				Int("expectedLocationType", int(want)))
		}
	}
}

// A stop or platform that no trip serves is most likely left over from an
// older schedule.
func validateStopWithoutStopTime(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Stops.Usable() || !feed.StopTimes.Usable() {
		return
	}
	served := make(map[string]bool)
	for _, st := range feed.StopTimes.All() {
		if st.StopID != "" {
			served[st.StopID] = true
		}
	}
	for _, g := range feed.LocationGroupStops.All() {
		served[g.StopID] = true
	}
	for row, s := range feed.Stops.All() {
		if s.Type() != gtfs.LocationStop || served[s.ID] {
			continue
		}
		sink.Add(rowNotice(CodeStopWithoutStopTime, notice.Warning, "stop is not referenced by any stop time", gtfs.FileStops, row).
			Str("stopId", s.ID).
			Str("stopName", s.Name))
	}
}
