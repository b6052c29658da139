package square

import "time"

// Location is a merchant location as returned by the locations endpoint.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"` // ACTIVE, INACTIVE
	Timezone string `json:"timezone"`
}

// AppointmentSegment is one service segment of a booking or availability slot.
type AppointmentSegment struct {
	DurationMinutes    int    `json:"duration_minutes"`
	ServiceVariationID string `json:"service_variation_id,omitempty"`
}

// Booking is an appointment already on the merchant's calendar.
type Booking struct {
	ID                  string               `json:"id"`
	StartAt             string               `json:"start_at"` // RFC 3339 instant
	AppointmentSegments []AppointmentSegment `json:"appointment_segments"`
}

// AvailabilitySlot is a bookable opening returned by the availability search.
type AvailabilitySlot struct {
	StartAt             string               `json:"start_at"`
	AppointmentSegments []AppointmentSegment `json:"appointment_segments"`
}

// CatalogObject is one entry of a catalog search response. Only ITEM
// objects carry ItemData.
type CatalogObject struct {
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	ItemData *ItemData `json:"item_data,omitempty"`
}

// ItemData describes a service item.
type ItemData struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Variations  []ItemVariation `json:"variations"`
}

// ItemVariation is one priced variant of a service item.
type ItemVariation struct {
	ID                string             `json:"id"`
	ItemVariationData *ItemVariationData `json:"item_variation_data,omitempty"`
}

// ItemVariationData holds the variation name and price.
type ItemVariationData struct {
	Name       string `json:"name"`
	PriceMoney *Money `json:"price_money,omitempty"`
}

// Money is an amount in the smallest currency unit (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// AvailabilityQuery bounds an availability search.
type AvailabilityQuery struct {
	StartAt    time.Time
	EndAt      time.Time
	LocationID string
	// ServiceVariationIDs become one segment filter each.
	ServiceVariationIDs []string
}

type locationsResponse struct {
	Locations []Location `json:"locations"`
}

type bookingsResponse struct {
	Bookings []Booking `json:"bookings"`
}

type availabilityResponse struct {
	Availabilities []AvailabilitySlot `json:"availabilities"`
}

type catalogSearchRequest struct {
	ObjectTypes []string `json:"object_types"`
}

type catalogSearchResponse struct {
	Objects []CatalogObject `json:"objects"`
}

type availabilitySearchRequest struct {
	Query struct {
		Filter struct {
			StartAtRange struct {
				StartAt string `json:"start_at"`
				EndAt   string `json:"end_at"`
			} `json:"start_at_range"`
			LocationID     string          `json:"location_id"`
			SegmentFilters []segmentFilter `json:"segment_filters"`
		} `json:"filter"`
	} `json:"query"`
}

type segmentFilter struct {
	ServiceVariationID string `json:"service_variation_id"`
}
