package rules

import (
	"strings"
	"unicode"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

const maxRouteShortNameLength = 12

// VendorValidators only report when Config.VendorRules is set.
func VendorValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("vendor:mixed_case", vendorOnly(validateMixedCase)),
		validator.New("vendor:route_short_name_length", vendorOnly(validateRouteShortNameLength)),
		validator.New("vendor:stop_name_description", vendorOnly(validateStopNameDescription)),
	}
}

func vendorOnly(fn func(*gtfs.Feed, *validator.Config, *notice.Container)) func(*gtfs.Feed, *validator.Config, *notice.Container) {
	return func(feed *gtfs.Feed, cfg *validator.Config, sink *notice.Container) {
		if cfg.VendorRules {
			fn(feed, cfg, sink)
		}
	}
}

// singleCase reports whether s has more than three letters, all upper case
// or all lower case.
func singleCase(s string) bool {
	var letters, upper, lower int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	return letters > 3 && (upper == letters || lower == letters)
}

func validateMixedCase(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	check := func(file string, row int, field, value string) {
		if !singleCase(value) {
			return
		}
		sink.Add(rowNotice(CodeMixedCaseRecommendedField, notice.Warning, "field should use mixed case", file, row).
			Str("fieldName", field).
			Str("fieldValue", value))
	}
	for row, a := range feed.Agencies.All() {
		check(gtfs.FileAgency, row, "agency_name", a.Name)
	}
	for row, r := range feed.Routes.All() {
		check(gtfs.FileRoutes, row, "route_long_name", r.LongName)
	}
	for row, s := range feed.Stops.All() {
		check(gtfs.FileStops, row, "stop_name", s.Name)
	}
	for row, t := range feed.Trips.All() {
		check(gtfs.FileTrips, row, "trip_headsign", t.Headsign)
	}
}

func validateRouteShortNameLength(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	for row, r := range feed.Routes.All() {
		if len([]rune(r.ShortName)) > maxRouteShortNameLength {
			sink.Add(rowNotice(CodeRouteShortNameTooLong, notice.Warning, "route short name is too long", gtfs.FileRoutes, row).
				Str("routeId", r.ID).
				Str("routeShortName", r.ShortName))
		}
	}
}

func validateStopNameDescription(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	for row, s := range feed.Stops.All() {
		if s.Name != "" && strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(s.Desc)) {
			sink.Add(rowNotice(CodeSameNameAndDescription, notice.Warning, "stop description repeats the stop name", gtfs.FileStops, row).
				Str("stopId", s.ID).
				Str("stopDesc", s.Desc))
		}
	}
}
