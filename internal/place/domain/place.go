package domain

import "time"

type ID string

type Location struct {
	Lat float64
	Lng float64
}

type Place struct {
	ID          ID
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string
	CreatorID   string
	CreatedAt   time.Time
}

func (p Place) OwnedBy(userID string) bool {
	return p.CreatorID != "" && p.CreatorID == userID
}
