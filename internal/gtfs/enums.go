package gtfs

// LocationType is stops.txt location_type.
type LocationType int

const (
	LocationStop LocationType = iota
	LocationStation
	LocationEntrance
	LocationGenericNode
	LocationBoardingArea
)

func (t LocationType) String() string {
	switch t {
	case LocationStop:
		return "stop"
	case LocationStation:
		return "station"
	case LocationEntrance:
		return "entrance"
	case LocationGenericNode:
		return "generic_node"
	case LocationBoardingArea:
		return "boarding_area"
	}
	return "unknown"
}

const (
	ExceptionAdded   = 1
	ExceptionRemoved = 2
)

const (
	TransferRecommended = 0
	TransferTimed       = 1
	TransferMinTime     = 2
	TransferNotPossible = 3
	TransferInSeat      = 4
	TransferReBoard     = 5
)

const (
	DurationDepartureToArrival   = 0
	DurationDepartureToDeparture = 1
	DurationArrivalToDeparture   = 2
	DurationArrivalToArrival     = 3
)

const (
	TimepointApproximate = 0
	TimepointExact       = 1
)

var (
	zeroOne     = []int{0, 1}
	zeroToTwo   = []int{0, 1, 2}
	zeroToThree = []int{0, 1, 2, 3}
	zeroToFour  = []int{0, 1, 2, 3, 4}
	zeroToFive  = []int{0, 1, 2, 3, 4, 5}
	oneToSeven  = []int{1, 2, 3, 4, 5, 6, 7}
)

// ValidRouteType accepts the basic route types and the extended
// (Hierarchical Vehicle Type) codes.
func ValidRouteType(t int) bool {
	switch {
	case t >= 0 && t <= 7, t == 11, t == 12:
		return true
	case t >= 100 && t <= 1702:
		return true
	}
	return false
}
