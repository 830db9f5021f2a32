package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Setting value types. Values are stored as text and coerced on read.
const (
	SettingString  = "string"
	SettingInteger = "integer"
	SettingFloat   = "float"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
	SettingText    = "text"
	SettingEmail   = "email"
	SettingURL     = "url"
	SettingColor   = "color"
)

// Setting is a typed system-wide key/value pair. Public settings are exposed
// to the citizen-facing frontend without authentication.
type Setting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Key         string `json:"key" gorm:"uniqueIndex;not null"`
	Name        string `json:"name"`
	Description string `json:"description" gorm:"type:text"`

	Type         string `json:"type" gorm:"default:'string'"`
	Value        string `json:"value" gorm:"type:text"`
	DefaultValue string `json:"default_value" gorm:"type:text"`

	Public       bool   `json:"public" gorm:"default:false;index"`
	Editable     bool   `json:"editable"`
	Category     string `json:"category" gorm:"default:'general';index"`
	DisplayOrder uint   `json:"display_order" gorm:"default:0"`

	UpdatedByID *uint `json:"updated_by,omitempty"`
}

// TypedValue returns the value coerced to the setting's declared type. A
// missing or unparseable value falls back to the typed default, and a broken
// default yields nil rather than an error.
func (s *Setting) TypedValue() interface{} {
	if s.Value == "" {
		return s.TypedDefault()
	}
	v, ok := coerce(s.Type, s.Value)
	if !ok {
		return s.TypedDefault()
	}
	return v
}

// TypedDefault returns the default value coerced to the setting's type.
func (s *Setting) TypedDefault() interface{} {
	if s.DefaultValue == "" {
		return nil
	}
	v, ok := coerce(s.Type, s.DefaultValue)
	if !ok {
		return nil
	}
	return v
}

// Accepts reports whether a raw string can be stored as this setting's type.
func (s *Setting) Accepts(raw string) bool {
	_, ok := coerce(s.Type, raw)
	return ok
}

func coerce(settingType, raw string) (interface{}, bool) {
	switch settingType {
	case SettingInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case SettingFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case SettingBoolean:
		switch strings.ToLower(raw) {
		case "true", "1", "yes", "on":
			return true, true
		default:
			return false, true
		}
	case SettingJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, false
		}
		return v, true
	default:
		return raw, true
	}
}
