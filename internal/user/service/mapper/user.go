package mapper

import (
	userdomain "github.com/AlibekovAA/places-api/internal/user/domain"
	userdto "github.com/AlibekovAA/places-api/internal/user/service/dto"
)

func UserToDTO(user userdomain.User) userdto.User {
	placeIDs := user.PlaceIDs
	if placeIDs == nil {
		placeIDs = []string{}
	}
	return userdto.User{
		ID:       string(user.ID),
		Name:     user.Name,
		Email:    user.Email,
		Image:    user.Image,
		PlaceIDs: placeIDs,
	}
}

func UsersToDTO(users []userdomain.User) []userdto.User {
	result := make([]userdto.User, len(users))
	for i, u := range users {
		result[i] = UserToDTO(u)
	}
	return result
}
