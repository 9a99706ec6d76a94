package dto

// User is the public view of an account; the password hash never leaves the
// service layer.
type User struct {
	ID       string
	Name     string
	Email    string
	Image    string
	PlaceIDs []string
}
