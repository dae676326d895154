package rules

// Notice codes emitted by the rule catalog. Codes are a published contract;
// never rename or reuse one.
const (
	CodeMissingRequiredFile              = "missing_required_file"
	CodeMissingRecommendedFile           = "missing_recommended_file"
	CodeMissingCalendarFiles             = "missing_calendar_and_calendar_date_files"
	CodeMoreThanOneEntity                = "more_than_one_entity"
	CodeDuplicateKey                     = "duplicate_key"
	CodeDuplicateRouteName               = "duplicate_route_name"
	CodeMissingRequiredField             = "missing_required_field"
	CodeInconsistentAgencyTimezone       = "inconsistent_agency_timezone"
	CodeInconsistentAgencyLang           = "inconsistent_agency_lang"
	CodeRouteNamesMissing                = "route_both_short_and_long_name_missing"
	CodeRouteNamesEqual                  = "route_short_and_long_name_equal"
	CodeRouteColorContrast               = "route_color_contrast"
	CodeNumberOutOfRange                 = "number_out_of_range"
	CodePointNearOrigin                  = "point_near_origin"
	CodeWrongParentLocationType          = "wrong_parent_location_type"
	CodeStationWithParentStation         = "station_with_parent_station"
	CodeStopWithoutStopTime              = "stop_without_stop_time"
	CodeForeignKeyViolation              = "foreign_key_violation"
	CodeRangeOutOfOrder                  = "start_and_end_range_out_of_order"
	CodeFeedExpiration7Days              = "feed_expiration_date7_days"
	CodeFeedExpiration30Days             = "feed_expiration_date30_days"
	CodeExpiredCalendar                  = "expired_calendar"
	CodeOverlappingFrequency             = "overlapping_frequency"
	CodeTimeframeOverlap                 = "timeframe_overlap"
	CodeTimeframeOnlyStartOrEnd          = "timeframe_only_start_or_end_time_specified"
	CodeTimeframeOver24Hours             = "timeframe_start_or_end_time_greater_than_twenty_four_hours"
	CodeDepartureBeforeArrival           = "stop_time_with_departure_before_arrival_time"
	CodeArrivalBeforePreviousDeparture   = "stop_time_with_arrival_before_previous_departure_time"
	CodeMissingTripEdge                  = "missing_trip_edge"
	CodeDecreasingStopTimeDistance       = "decreasing_or_equal_stop_time_distance"
	CodeTimepointWithoutTimes            = "stop_time_timepoint_without_times"
	CodeMissingTimepointValue            = "missing_timepoint_value"
	CodeForbiddenGeographyID             = "forbidden_geography_id"
	CodeOverlappingZoneAndWindow         = "overlapping_zone_and_pickup_drop_off_window"
	CodeUnusableTrip                     = "unusable_trip"
	CodeBlockTripsOverlap                = "block_trips_with_overlapping_stop_times"
	CodeDecreasingShapeDistance          = "decreasing_shape_distance"
	CodePathwayLoop                      = "pathway_loop"
	CodePathwayDanglingGenericNode       = "pathway_dangling_generic_node"
	CodePathwayToWrongLocationType       = "pathway_to_wrong_location_type"
	CodePathwayToPlatformWithBoarding    = "pathway_to_platform_with_boarding_areas"
	CodeTranslationUnexpectedValue       = "translation_unexpected_value"
	CodeTransferDurationTypeWithoutLimit = "fare_transfer_rule_duration_limit_type_without_duration_limit"
	CodeTransferDurationLimitWithoutType = "fare_transfer_rule_duration_limit_without_type"
	CodeInvalidPhoneNumber               = "invalid_phone_number"
	CodeMixedCaseRecommendedField        = "mixed_case_recommended_field"
	CodeRouteShortNameTooLong            = "route_short_name_too_long"
	CodeSameNameAndDescription           = "same_name_and_description_for_stop"
	CodeFastTravel                       = "fast_travel_between_consecutive_stops"
)
