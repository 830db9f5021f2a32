package models

import "time"

// Party represents a registered political party. Candidates and members of
// parliament in the users service reference parties by id; ratings and news
// display the abbreviation and color.
type Party struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string `json:"name" gorm:"uniqueIndex;not null"`
	NameEN       string `json:"name_en" gorm:"uniqueIndex;not null"`
	Abbreviation string `json:"abbreviation" gorm:"uniqueIndex;not null"`
	Description  string `json:"description" gorm:"type:text"`

	FoundedDate  *time.Time `json:"founded_date,omitempty"`
	Headquarters string     `json:"headquarters"`
	Website      string     `json:"website"`
	Color        string     `json:"color" gorm:"default:'#007bff'"` // hex, used in charts

	Enabled      bool `json:"enabled" gorm:"index"`
	DisplayOrder uint `json:"display_order" gorm:"default:0"`
}
