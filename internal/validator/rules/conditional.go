package rules

import (
	"errors"
	"slices"

	"github.com/nyaruka/phonenumbers"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/gtfs"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/notice"
	"github.com/abasis-ltd/gtfs.guru-sub001/internal/validator"
)

// ConditionalValidators check fields whose presence depends on sibling
// values or on which columns were authored.
func ConditionalValidators() []validator.Validator {
	return []validator.Validator{
		validator.New("transfer_times", validateTransferTimes),
		validator.New("translations", validateTranslations),
		validator.New("fare_transfer_duration", validateFareTransferDuration),
		validator.New("phone_numbers", validatePhoneNumbers),
	}
}

func validateTransferTimes(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.Transfers.Usable() {
		return
	}
	for row, t := range feed.Transfers.All() {
		typ := intOr(t.TransferType, gtfs.TransferRecommended)
		if typ == gtfs.TransferMinTime && t.MinTransferTime == nil {
			sink.Add(missingField(gtfs.FileTransfers, row, "min_transfer_time").Int("transferType", typ))
		}
		var required []struct{ name, value string }
		switch typ {
		case gtfs.TransferTimed, gtfs.TransferMinTime, gtfs.TransferNotPossible:
			required = []struct{ name, value string }{{"from_stop_id", t.FromStopID}, {"to_stop_id", t.ToStopID}}
		case gtfs.TransferInSeat, gtfs.TransferReBoard:
			required = []struct{ name, value string }{{"from_trip_id", t.FromTripID}, {"to_trip_id", t.ToTripID}}
		}
		for _, f := range required {
			if f.value == "" {
				sink.Add(missingField(gtfs.FileTransfers, row, f.name).Int("transferType", typ))
			}
		}
	}
}

var translatableTables = []string{
	"agency", "stops", "routes", "trips", "stop_times", "pathways", "levels",
	"feed_info", "attributions", "networks", "areas", "fare_media", "fare_products", "rider_categories",
}

func unexpectedTranslation(row int, field, value string) *notice.Notice {
	return rowNotice(CodeTranslationUnexpectedValue, notice.Error, "translation field must be empty for this record", gtfs.FileTranslations, row).
		Str("fieldName", field).
		Str("fieldValue", value)
}

// A translation names its record either by record_id or by field_value,
// never both. feed_info has a single record and takes neither.
func validateTranslations(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	tr := feed.Translations
	if !tr.Usable() {
		return
	}
	keyed := tr.HasColumn("record_id") || tr.HasColumn("field_value")
	for row, t := range tr.All() {
		if t.TableName == "" {
			continue
		}
		if !slices.Contains(translatableTables, t.TableName) {
			sink.Add(unexpectedTranslation(row, "table_name", t.TableName))
			continue
		}
		if t.TableName == "feed_info" {
			for _, f := range []struct{ name, value string }{
				{"record_id", t.RecordID}, {"record_sub_id", t.RecordSubID}, {"field_value", t.FieldValue},
			} {
				if f.value != "" {
					sink.Add(unexpectedTranslation(row, f.name, f.value))
				}
			}
			continue
		}
		switch {
		case t.RecordID != "" && t.FieldValue != "":
			sink.Add(unexpectedTranslation(row, "field_value", t.FieldValue))
		case t.RecordID == "" && t.FieldValue == "" && keyed:
			sink.Add(missingField(gtfs.FileTranslations, row, "record_id"))
		}
		if t.TableName == "stop_times" && t.RecordID != "" && t.RecordSubID == "" {
			sink.Add(missingField(gtfs.FileTranslations, row, "record_sub_id"))
		}
	}
}

// duration_limit and duration_limit_type go together.
func validateFareTransferDuration(feed *gtfs.Feed, _ *validator.Config, sink *notice.Container) {
	if !feed.FareTransferRules.Usable() {
		return
	}
	for row, r := range feed.FareTransferRules.All() {
		switch {
		case r.DurationLimitType != nil && r.DurationLimit == nil:
			sink.Add(rowNotice(CodeTransferDurationTypeWithoutLimit, notice.Error, "duration_limit_type is set without duration_limit", gtfs.FileFareTransferRules, row))
		case r.DurationLimit != nil && r.DurationLimitType == nil:
			sink.Add(rowNotice(CodeTransferDurationLimitWithoutType, notice.Error, "duration_limit is set without duration_limit_type", gtfs.FileFareTransferRules, row))
		}
	}
}

// validPhone parses s as a number of country. Without a country only
// numbers in international format can be checked; national ones pass when
// they look like a phone number at all.
func validPhone(s, country string) bool {
	region := country
	if region == "" {
		region = "ZZ"
	}
	num, err := phonenumbers.Parse(s, region)
	if err != nil {
		return country == "" && errors.Is(err, phonenumbers.ErrInvalidCountryCode)
	}
	return phonenumbers.IsValidNumber(num)
}

func validatePhoneNumbers(feed *gtfs.Feed, cfg *validator.Config, sink *notice.Container) {
	check := func(file string, row int, field, value string) {
		if value == "" || validPhone(value, cfg.CountryCode) {
			return
		}
		sink.Add(rowNotice(CodeInvalidPhoneNumber, notice.Error, "value is not a valid phone number", file, row).
			Str("fieldName", field).
			Str("fieldValue", value).
			Str("countryCode", cfg.CountryCode))
	}
	for row, a := range feed.Agencies.All() {
		check(gtfs.FileAgency, row, "agency_phone", a.Phone)
	}
	for row, a := range feed.Attributions.All() {
		check(gtfs.FileAttributions, row, "attribution_phone", a.Phone)
	}
	for row, b := range feed.BookingRules.All() {
		check(gtfs.FileBookingRules, row, "phone_number", b.PhoneNumber)
	}
}
