package po

import (
	"time"

	"checkout/domain/settings"
	"checkout/domain/user"
)

// UserPO customer row, written by the login service
type UserPO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:128"`
	Phone     string    `gorm:"size:20;index"`
	Email     string    `gorm:"size:255"`
	LoginType string    `gorm:"column:login_type;size:16"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserPO) TableName() string {
	return "users"
}

func (p *UserPO) ToDomain() *user.User {
	return user.RebuildFromDTO(user.ReconstructionDTO{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		LoginType: p.LoginType,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	})
}

// AddressPO saved address book entry
type AddressPO struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	UserID  int64  `gorm:"column:user_id;index;not null"`
	Name    string `gorm:"size:128"`
	Phone   string `gorm:"size:20"`
	Address string `gorm:"type:text"`
	City    string `gorm:"size:64"`
	State   string `gorm:"size:64"`
	Pincode string `gorm:"size:12"`
	Country string `gorm:"size:64"`
}

func (AddressPO) TableName() string {
	return "addresses"
}

func (p *AddressPO) ToDomain() user.Address {
	return user.RebuildAddress(user.AddressDTO{
		ID:      p.ID,
		UserID:  p.UserID,
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
		Pincode: p.Pincode,
		Country: p.Country,
	})
}

// SettingsPO single row of operator switches
type SettingsPO struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	AllowCheckout bool      `gorm:"column:allow_checkout;not null;default:true"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (SettingsPO) TableName() string {
	return "settings"
}

func (p *SettingsPO) ToDomain() settings.Settings {
	return settings.Settings{AllowCheckout: p.AllowCheckout, UpdatedAt: p.UpdatedAt}
}
