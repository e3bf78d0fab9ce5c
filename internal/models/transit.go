package models

// StopRecord represents a physical bus stop from the LTA static dataset.
// Codes are always 5 numeric characters (e.g. "83139").
type StopRecord struct {
	Code        string  `json:"code" db:"code"`
	Description string  `json:"description" db:"description"`
	RoadName    string  `json:"road_name" db:"road_name"`
	Latitude    float64 `json:"latitude" db:"latitude"`
	Longitude   float64 `json:"longitude" db:"longitude"`
}

// ServiceDirection represents one directional variant of a bus service.
// Most services have two directions, loop services have one.
type ServiceDirection struct {
	ServiceNo       string `json:"service_no" db:"service_no"`
	Direction       int    `json:"direction" db:"direction"`
	Category        string `json:"category" db:"category"`
	OriginCode      string `json:"origin_code" db:"origin_code"`
	DestinationCode string `json:"destination_code" db:"destination_code"`
	AMPeakFreq      string `json:"am_peak_freq" db:"am_peak_freq"`
	AMOffpeakFreq   string `json:"am_offpeak_freq" db:"am_offpeak_freq"`
	PMPeakFreq      string `json:"pm_peak_freq" db:"pm_peak_freq"`
	PMOffpeakFreq   string `json:"pm_offpeak_freq" db:"pm_offpeak_freq"`
}

// RouteStopEntry is one stop within the ordered route of a service direction.
// StopSequence numbers are unique within a direction and define the order.
type RouteStopEntry struct {
	StopSequence int    `json:"stop_sequence" db:"stop_sequence"`
	BusStopCode  string `json:"bus_stop_code" db:"stop_code"`
}

// ArrivalEstimate is one upcoming bus from the live arrivals feed.
// EstimatedArrival is ISO-8601 with offset, or "" when no estimate exists.
type ArrivalEstimate struct {
	EstimatedArrival string `json:"estimated_arrival"`
	Load             string `json:"load"` // SEA, SDA, LSD
	Type             string `json:"type"` // SD, DD, BD
}

// ServiceArrival pairs a service number with its next estimated arrival,
// as returned by the live feed for a whole stop.
type ServiceArrival struct {
	ServiceNo   string `json:"service_no"`
	NextArrival string `json:"next_arrival"`
}

// StopDistance pairs a stop with its great-circle distance to a query point.
type StopDistance struct {
	Stop   StopRecord `json:"stop"`
	Meters float64    `json:"meters"`
}
