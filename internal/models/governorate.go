package models

import "time"

// Governorate regions used for grouping in lists and regional statistics.
const (
	RegionGreaterCairo = "cairo"
	RegionDelta        = "delta"
	RegionCanal        = "canal"
	RegionSinai        = "sinai"
	RegionRedSea       = "red_sea"
	RegionUpperEgypt   = "upper"
)

// Governorate represents one of the 27 Egyptian governorates. The catalog is
// public reference data consumed by the citizen-facing services; the admin
// service is its single writer.
type Governorate struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `json:"name" gorm:"uniqueIndex;not null"`
	NameEN string `json:"name_en" gorm:"uniqueIndex;not null"`
	Code   string `json:"code" gorm:"uniqueIndex;not null"` // e.g. "CAI", "ALX"
	Region string `json:"region" gorm:"index;not null"`

	Capital    string   `json:"capital"`
	AreaKM2    *float64 `json:"area_km2,omitempty"`
	Population *uint    `json:"population,omitempty"`

	Enabled      bool `json:"enabled" gorm:"index"`
	DisplayOrder uint `json:"display_order" gorm:"default:0"`
}
