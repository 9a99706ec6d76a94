package mapper

import (
	placedomain "github.com/AlibekovAA/places-api/internal/place/domain"
	placedto "github.com/AlibekovAA/places-api/internal/place/service/dto"
)

func PlaceToDTO(place placedomain.Place) placedto.Place {
	return placedto.Place{
		ID:          string(place.ID),
		Title:       place.Title,
		Description: place.Description,
		Image:       place.Image,
		Address:     place.Address,
		Location: placedto.Location{
			Lat: place.Location.Lat,
			Lng: place.Location.Lng,
		},
		CreatorID: place.CreatorID,
	}
}

func PlacesToDTO(places []placedomain.Place) []placedto.Place {
	result := make([]placedto.Place, len(places))
	for i, p := range places {
		result[i] = PlaceToDTO(p)
	}
	return result
}
