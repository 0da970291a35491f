package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of product groupings.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

// String returns the enum name. Out-of-range values read as UNKNOWN.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseCategory maps a string to a Category, case-insensitively.
// It is total: unrecognized input yields CategoryUnknown.
func ParseCategory(s string) Category {
	for cat, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return cat
		}
	}
	return CategoryUnknown
}

// MarshalJSON renders the category as its enum name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts the enum name as a JSON string. Unrecognized
// names map to UNKNOWN; non-string values are rejected.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	*c = ParseCategory(name)
	return nil
}
