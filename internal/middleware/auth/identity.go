package auth

import "eshelf/internal/microservices/http-api/models"

// Identity is the outcome of optional authentication: either a present,
// verified user or anonymous. The zero value is anonymous.
type Identity struct {
	user *models.User
}

func Present(user *models.User) Identity {
	return Identity{user: user}
}

func Anonymous() Identity {
	return Identity{}
}

// User returns the verified user and true, or nil and false when anonymous.
func (i Identity) User() (*models.User, bool) {
	return i.user, i.user != nil
}

func (i Identity) IsAnonymous() bool {
	return i.user == nil
}

// UserID returns the user id, or nil when anonymous.
func (i Identity) UserID() *string {
	if i.user == nil {
		return nil
	}
	id := i.user.ID
	return &id
}
