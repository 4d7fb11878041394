package application

import (
	"time"

	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
)

// UserView is the caller-facing representation of a user aggregate.
// It never carries the password hash.
type UserView struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	UserIdentification string         `json:"user_identification"`
	Email              string         `json:"email"`
	Username           string         `json:"username"`
	Profile            entity.Profile `json:"profile"`
	Address            *AddressView   `json:"address,omitempty"`
	LastUpdate         time.Time      `json:"last_update"`
}

type AddressView struct {
	Street       string    `json:"street"`
	Number       int       `json:"number"`
	Complement   string    `json:"complement,omitempty"`
	Neighborhood string    `json:"neighborhood"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	PostalCode   string    `json:"postal_code"`
	LastUpdate   time.Time `json:"last_update"`
}

func ToUserView(u *entity.User) UserView {
	v := UserView{
		ID:                 u.ID,
		Name:               u.Name,
		UserIdentification: u.UserIdentification,
		Email:              u.Email,
		Profile:            u.Profile,
		LastUpdate:         u.LastUpdate,
	}
	if u.Credentials != nil {
		v.Username = u.Credentials.Username
	}
	if u.Address != nil {
		a := ToAddressView(u.Address)
		v.Address = &a
	}
	return v
}

func ToAddressView(a *entity.Address) AddressView {
	return AddressView{
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		PostalCode:   a.PostalCode,
		LastUpdate:   a.LastUpdate,
	}
}

func toUserViews(users []*entity.User) []UserView {
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserView(u))
	}
	return out
}

// AddressInput carries the address fields of a create or update request.
type AddressInput struct {
	Street       string
	Number       int
	Complement   string
	Neighborhood string
	City         string
	State        string
	Country      string
	PostalCode   string
}

func (in *AddressInput) applyTo(a *entity.Address) {
	a.Street = in.Street
	a.Number = in.Number
	a.Complement = in.Complement
	a.Neighborhood = in.Neighborhood
	a.City = in.City
	a.State = in.State
	a.Country = in.Country
	a.PostalCode = in.PostalCode
}
