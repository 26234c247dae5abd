package model

import (
	"database/sql/driver"
	"time"
)

const (
	RoleUser   = "user"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Address is embedded into users and snapshotted onto orders.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

func (a Address) Value() (driver.Value, error) { return jsonValue(a) }
func (a *Address) Scan(value interface{}) error { return jsonScan(a, value) }

// Complete reports whether every address field is filled in.
func (a Address) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.Zip != "" && a.Country != ""
}

type CartItem struct {
	ProductID uint   `json:"product"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant,omitempty"`
}

type CartItemList []CartItem

func (l CartItemList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *CartItemList) Scan(value interface{}) error { return jsonScan(l, value) }

type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Username  string       `json:"username"`
	Email     string       `gorm:"uniqueIndex" json:"email"`
	Password  string       `json:"-"`
	Role      string       `json:"role"` // user, seller or admin
	Address   Address      `gorm:"type:jsonb" json:"address"`
	Cart      CartItemList `gorm:"type:jsonb" json:"cart"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func ValidRole(r string) bool {
	return r == RoleUser || r == RoleSeller || r == RoleAdmin
}
