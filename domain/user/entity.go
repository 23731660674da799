package user

import (
	"strconv"
	"strings"
	"time"
)

// User is the customer as seen by checkout. Accounts are managed by the
// login service, so this aggregate is read only here.
type User struct {
	id        int64
	name      string
	phone     Phone
	email     Email
	loginType string
	isActive  bool
	createdAt time.Time
}

// ReconstructionDTO rebuilds a stored user; for repositories only.
type ReconstructionDTO struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	LoginType string
	IsActive  bool
	CreatedAt time.Time
}

func RebuildFromDTO(dto ReconstructionDTO) *User {
	return &User{
		id:        dto.ID,
		name:      dto.Name,
		phone:     Phone{value: dto.Phone},
		email:     Email{value: strings.ToLower(dto.Email)},
		loginType: dto.LoginType,
		isActive:  dto.IsActive,
		createdAt: dto.CreatedAt,
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) IDString() string     { return strconv.FormatInt(u.id, 10) }
func (u *User) Name() string         { return u.name }
func (u *User) Phone() Phone         { return u.phone }
func (u *User) Email() Email         { return u.email }
func (u *User) LoginType() string    { return u.loginType }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// Address is a saved address book entry.
type Address struct {
	id      int64
	userID  int64
	name    string
	phone   string
	address string
	city    string
	state   string
	pincode string
	country string
}

// AddressDTO rebuilds a stored address.
type AddressDTO struct {
	ID      int64
	UserID  int64
	Name    string
	Phone   string
	Address string
	City    string
	State   string
	Pincode string
	Country string
}

func RebuildAddress(dto AddressDTO) Address {
	return Address{
		id:      dto.ID,
		userID:  dto.UserID,
		name:    dto.Name,
		phone:   dto.Phone,
		address: dto.Address,
		city:    dto.City,
		state:   dto.State,
		pincode: dto.Pincode,
		country: dto.Country,
	}
}

func (a Address) ID() int64       { return a.id }
func (a Address) UserID() int64   { return a.userID }
func (a Address) Name() string    { return a.name }
func (a Address) Phone() string   { return a.phone }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
func (a Address) Pincode() string { return a.pincode }
func (a Address) Country() string { return a.country }
func (a Address) Street() string  { return a.address }

// FormatLine renders "<address> <city> <state> - <pincode>, <country>".
func (a Address) FormatLine() string {
	return a.address + " " + a.city + " " + a.state + " - " + a.pincode + ", " + a.country
}
