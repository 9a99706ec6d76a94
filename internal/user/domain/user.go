package domain

import "time"

type ID string

type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	Image        string
	PlaceIDs     []string
	CreatedAt    time.Time
}

func (u User) HasPlace(placeID string) bool {
	for _, id := range u.PlaceIDs {
		if id == placeID {
			return true
		}
	}
	return false
}

// WithPlace returns the place list with placeID appended once.
func (u User) WithPlace(placeID string) []string {
	if u.HasPlace(placeID) {
		return append([]string(nil), u.PlaceIDs...)
	}
	ids := make([]string, 0, len(u.PlaceIDs)+1)
	ids = append(ids, u.PlaceIDs...)
	return append(ids, placeID)
}

// WithoutPlace returns the place list with every occurrence of placeID removed.
func (u User) WithoutPlace(placeID string) []string {
	ids := make([]string, 0, len(u.PlaceIDs))
	for _, id := range u.PlaceIDs {
		if id != placeID {
			ids = append(ids, id)
		}
	}
	return ids
}
