package dto

type Location struct {
	Lat float64
	Lng float64
}

type Place struct {
	ID          string
	Title       string
	Description string
	Image       string
	Address     string
	Location    Location
	CreatorID   string
}
