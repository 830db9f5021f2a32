package models

import "time"

// Complaint categories. The complaints service validates submissions against
// this catalog but never writes to it.
const (
	CategoryInfrastructure = "infrastructure"
	CategoryHealth         = "health"
	CategoryEducation      = "education"
	CategoryUtilities      = "utilities"
	CategoryTransportation = "transportation"
	CategoryEnvironment    = "environment"
	CategorySocial         = "social"
	CategoryEconomic       = "economic"
	CategoryLegal          = "legal"
	CategorySecurity       = "security"
	CategoryHousing        = "housing"
	CategoryAdministrative = "administrative"
	CategoryOther          = "other"
)

// Target councils a complaint type can be routed to.
const (
	CouncilParliament = "parliament"
	CouncilSenate     = "senate"
	CouncilBoth       = "both"
)

// Priority levels for complaint types.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ComplaintType classifies citizen complaints and carries the routing and
// attachment rules the complaints service applies at submission time.
type ComplaintType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	NameEN      string `json:"name_en" gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`

	Category      string `json:"category" gorm:"index;not null"`
	TargetCouncil string `json:"target_council" gorm:"index;default:'parliament'"`
	Icon          string `json:"icon" gorm:"default:'📋'"`
	Color         string `json:"color" gorm:"default:'#007bff'"`
	PriorityLevel string `json:"priority_level" gorm:"default:'medium'"`

	EstimatedResolutionDays uint `json:"estimated_resolution_days" gorm:"default:30"`
	RequiresAttachments     bool `json:"requires_attachments" gorm:"default:false"`
	MaxAttachments          uint `json:"max_attachments" gorm:"default:5"`

	Enabled      bool `json:"enabled" gorm:"index"`
	Public       bool `json:"public"`
	DisplayOrder uint `json:"display_order" gorm:"default:0"`
}
