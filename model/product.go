package model

import (
	"database/sql/driver"
	"time"
)

type StringList []string

func (l StringList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *StringList) Scan(value interface{}) error { return jsonScan(l, value) }

type UintList []uint

func (l UintList) Value() (driver.Value, error) { return jsonValue(l) }
func (l *UintList) Scan(value interface{}) error { return jsonScan(l, value) }

// Product prices are in minor currency units. The order engine only ever
// reads price/stock/images and decrements stock.
type Product struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Categories  UintList   `gorm:"type:jsonb" json:"categories"`
	Price       int64      `json:"price"`
	Stock       int        `json:"stock"`
	Images      StringList `gorm:"type:jsonb" json:"images"`
	Rating      float64    `json:"rating"`
	CreatedBy   uint       `gorm:"index" json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
