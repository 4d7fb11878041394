package handlers

import (
	userapp "github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/internal/domain/entity"
)

type addressRequest struct {
	Street       string `json:"street" binding:"required,max=255,addresstext"`
	Number       int    `json:"number" binding:"required,min=1"`
	Complement   string `json:"complement" binding:"omitempty,max=50,addresstext"`
	Neighborhood string `json:"neighborhood" binding:"required,max=50,addresstext"`
	City         string `json:"city" binding:"required,max=50,addresstext"`
	State        string `json:"state" binding:"required,max=50,personname"`
	Country      string `json:"country" binding:"required,max=50,personname"`
	PostalCode   string `json:"postal_code" binding:"required,cep"`
}

func (r *addressRequest) toInput() *userapp.AddressInput {
	if r == nil {
		return nil
	}
	return &userapp.AddressInput{
		Street:       r.Street,
		Number:       r.Number,
		Complement:   r.Complement,
		Neighborhood: r.Neighborhood,
		City:         r.City,
		State:        r.State,
		Country:      r.Country,
		PostalCode:   r.PostalCode,
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,strongpwd"`
}

type createUserRequest struct {
	Name               string              `json:"name" binding:"required,max=100,personname"`
	UserIdentification string              `json:"user_identification" binding:"required,useridentification"`
	Email              string              `json:"email" binding:"required,email,max=100"`
	Profile            string              `json:"profile" binding:"required,profile"`
	Address            *addressRequest     `json:"address" binding:"required"`
	Credentials        *credentialsRequest `json:"credentials" binding:"required"`
}

func (r *createUserRequest) toInput() *userapp.CreateUserInput {
	in := &userapp.CreateUserInput{
		Name:               r.Name,
		UserIdentification: r.UserIdentification,
		Email:              r.Email,
		Profile:            entity.Profile(r.Profile),
		Address:            r.Address.toInput(),
	}
	if r.Credentials != nil {
		in.Credentials = &userapp.CredentialsInput{Username: r.Credentials.Username, Password: r.Credentials.Password}
	}
	return in
}

type updateUserRequest struct {
	Name               string          `json:"name" binding:"required,max=100,personname"`
	UserIdentification string          `json:"user_identification" binding:"required,useridentification"`
	Email              string          `json:"email" binding:"required,email,max=100"`
	Profile            string          `json:"profile" binding:"required,profile"`
	Address            *addressRequest `json:"address" binding:"omitempty"`
}

func (r *updateUserRequest) toInput() *userapp.UpdateUserInput {
	return &userapp.UpdateUserInput{
		Name:               r.Name,
		UserIdentification: r.UserIdentification,
		Email:              r.Email,
		Profile:            entity.Profile(r.Profile),
		Address:            r.Address.toInput(),
	}
}

type updateUsernameRequest struct {
	Username string `json:"username" binding:"required,max=50"`
}

type updatePasswordRequest struct {
	Password string `json:"password" binding:"required,strongpwd"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type idParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type userIDParam struct {
	UserID string `uri:"userId" binding:"required,uuid"`
}
