package model

type City struct {
	Name string `json:"name"`
	Zip  string `json:"zip"`
}

type Address struct {
	StreetAndNumber       string `json:"streetAndNumber"`
	AdditionalInformation string `json:"additionalInformation,omitempty"`
	City                  City   `json:"city"`
}

// Therapist is the public profile record behind a booking calendar.
type Therapist struct {
	Name          string  `json:"name"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Address       Address `json:"address"`
	ShowWatermark bool    `json:"showWatermark"`
}

// TherapistReference is the compact owner reference embedded in time slots.
type TherapistReference struct {
	ID   int    `json:"id"`
	UUID string `json:"uuid"`
	Name string `json:"name"`
}
