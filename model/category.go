package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// Category is the closed set of catalog sections a product belongs to.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryFace
	CategoryEyes
	CategoryLips
	CategoryTools
)

var categoryNames = [...]string{
	CategoryUnknown: "UNKNOWN",
	CategoryFace:    "FACE",
	CategoryEyes:    "EYES",
	CategoryLips:    "LIPS",
	CategoryTools:   "TOOLS",
}

// ErrUnknownCategory is returned when a name does not match any Category.
var ErrUnknownCategory = errors.New("unknown category")

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{CategoryFace, CategoryEyes, CategoryLips, CategoryTools}
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c > CategoryUnknown && int(c) < len(categoryNames)
}

// ParseCategory matches s case-insensitively against the category names.
func ParseCategory(s string) (Category, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, c := range Categories() {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the category by name.
func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return c.String(), nil
}

func (c *Category) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Category", src)
	}
}
