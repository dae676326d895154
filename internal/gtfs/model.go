package gtfs

import "github.com/abasis-ltd/gtfs.guru-sub001/internal/table"

// Optional numeric and enumerated columns are pointers: nil means the value
// was empty, the column was absent or the value failed to decode.

type Agency struct {
	ID       string
	Name     string
	URL      string
	Timezone string
	Lang     string
	Phone    string
	FareURL  string
	Email    string
}

type Stop struct {
	ID                 string
	Code               string
	Name               string
	TTSName            string
	Desc               string
	Lat                *float64
	Lon                *float64
	ZoneID             string
	URL                string
	LocationType       *int
	ParentStation      string
	Timezone           string
	WheelchairBoarding *int
	LevelID            string
	PlatformCode       string
}

// Type returns the location type, defaulting to a stop or platform.
func (s *Stop) Type() LocationType {
	if s.LocationType == nil {
		return LocationStop
	}
	return LocationType(*s.LocationType)
}

type Route struct {
	ID                string
	AgencyID          string
	ShortName         string
	LongName          string
	Desc              string
	Type              *int
	URL               string
	Color             *table.Color
	TextColor         *table.Color
	SortOrder         *int
	ContinuousPickup  *int
	ContinuousDropOff *int
	NetworkID         string
}

type Trip struct {
	RouteID              string
	ServiceID            string
	ID                   string
	Headsign             string
	ShortName            string
	DirectionID          *int
	BlockID              string
	ShapeID              string
	WheelchairAccessible *int
	BikesAllowed         *int
}

type StopTime struct {
	TripID                   string
	ArrivalTime              *table.Time
	DepartureTime            *table.Time
	StopID                   string
	LocationGroupID          string
	LocationID               string
	StopSequence             *int
	StopHeadsign             string
	StartPickupDropOffWindow *table.Time
	EndPickupDropOffWindow   *table.Time
	PickupType               *int
	DropOffType              *int
	ContinuousPickup         *int
	ContinuousDropOff        *int
	ShapeDistTraveled        *float64
	Timepoint                *int
	PickupBookingRuleID      string
	DropOffBookingRuleID     string
}

type Calendar struct {
	ServiceID string
	Days      [7]bool // Monday first
	StartDate *table.Date
	EndDate   *table.Date
}

type CalendarDate struct {
	ServiceID     string
	Date          *table.Date
	ExceptionType *int
}

type FareAttribute struct {
	ID               string
	Price            *float64
	CurrencyType     string
	PaymentMethod    *int
	Transfers        *int
	AgencyID         string
	TransferDuration *int
}

type FareRule struct {
	FareID        string
	RouteID       string
	OriginID      string
	DestinationID string
	ContainsID    string
}

type Timeframe struct {
	GroupID   string
	StartTime *table.Time
	EndTime   *table.Time
	ServiceID string
}

type FareMedia struct {
	ID   string
	Name string
	Type *int
}

type FareProduct struct {
	ID              string
	Name            string
	RiderCategoryID string
	FareMediaID     string
	Amount          *float64
	Currency        string
}

type FareLegRule struct {
	LegGroupID           string
	NetworkID            string
	FromAreaID           string
	ToAreaID             string
	FromTimeframeGroupID string
	ToTimeframeGroupID   string
	FareProductID        string
	RulePriority         *int
}

type FareTransferRule struct {
	FromLegGroupID    string
	ToLegGroupID      string
	TransferCount     *int
	DurationLimit     *int
	DurationLimitType *int
	FareTransferType  *int
	FareProductID     string
}

type RiderCategory struct {
	ID                    string
	Name                  string
	IsDefaultFareCategory *int
	EligibilityURL        string
}

type Area struct {
	ID   string
	Name string
}

type StopArea struct {
	AreaID string
	StopID string
}

type Network struct {
	ID   string
	Name string
}

type RouteNetwork struct {
	NetworkID string
	RouteID   string
}

type ShapePoint struct {
	ShapeID      string
	Lat          *float64
	Lon          *float64
	Sequence     *int
	DistTraveled *float64
}

type Frequency struct {
	TripID      string
	StartTime   *table.Time
	EndTime     *table.Time
	HeadwaySecs *int
	ExactTimes  *int
}

type Transfer struct {
	FromStopID      string
	ToStopID        string
	FromRouteID     string
	ToRouteID       string
	FromTripID      string
	ToTripID        string
	TransferType    *int
	MinTransferTime *int
}

type Pathway struct {
	ID                   string
	FromStopID           string
	ToStopID             string
	Mode                 *int
	IsBidirectional      *int
	Length               *float64
	TraversalTime        *int
	StairCount           *int
	MaxSlope             *float64
	MinWidth             *float64
	SignpostedAs         string
	ReversedSignpostedAs string
}

type Level struct {
	ID    string
	Index *float64
	Name  string
}

type LocationGroup struct {
	ID   string
	Name string
}

type LocationGroupStop struct {
	LocationGroupID string
	StopID          string
}

type BookingRule struct {
	ID                     string
	BookingType            *int
	PriorNoticeDurationMin *int
	PriorNoticeDurationMax *int
	PriorNoticeLastDay     *int
	PriorNoticeLastTime    *table.Time
	PriorNoticeStartDay    *int
	PriorNoticeStartTime   *table.Time
	PriorNoticeServiceID   string
	Message                string
	PickupMessage          string
	DropOffMessage         string
	PhoneNumber            string
	InfoURL                string
	BookingURL             string
}

type Translation struct {
	TableName   string
	FieldName   string
	Language    string
	Translation string
	RecordID    string
	RecordSubID string
	FieldValue  string
}

type FeedInfo struct {
	PublisherName string
	PublisherURL  string
	Lang          string
	DefaultLang   string
	StartDate     *table.Date
	EndDate       *table.Date
	Version       string
	ContactEmail  string
	ContactURL    string
}

type Attribution struct {
	ID               string
	AgencyID         string
	RouteID          string
	TripID           string
	OrganizationName string
	IsProducer       *int
	IsOperator       *int
	IsAuthority      *int
	URL              string
	Email            string
	Phone            string
}
