// Package types provides type definitions for structured data used throughout the resume-layout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// Font sizes
const (
	FontSizeSmall  = "small"
	FontSizeNormal = "normal"
	FontSizeLarge  = "large"
)

// Column layouts. Each selects a fixed left/right width ratio.
const (
	ColumnLayout75x25 = 1
	ColumnLayout65x35 = 2
	ColumnLayout70x30 = 3
	ColumnLayout50x50 = 4
)

// DesignConfig holds the visual parameters that affect pagination.
type DesignConfig struct {
	Margins        int     `json:"margins" validate:"min=1,max=5"`
	SectionSpacing int     `json:"sectionSpacing" validate:"min=1,max=5"`
	PrimaryColor   string  `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	FontFamily     string  `json:"fontFamily,omitempty"`
	FontSize       string  `json:"fontSize" validate:"oneof=small normal large"`
	LineHeight     float64 `json:"lineHeight" validate:"min=1,max=2"`
	ColumnLayout   int     `json:"columnLayout" validate:"min=1,max=4"`
}

// DefaultDesign returns the design applied to new documents.
func DefaultDesign() DesignConfig {
	return DesignConfig{
		Margins:        2,
		SectionSpacing: 2,
		PrimaryColor:   "#2563eb",
		FontFamily:     "Inter",
		FontSize:       FontSizeNormal,
		LineHeight:     1.5,
		ColumnLayout:   ColumnLayout65x35,
	}
}

// Normalized returns a copy with zero values replaced by defaults and
// out-of-range values clamped. It never fails.
func (d DesignConfig) Normalized() DesignConfig {
	def := DefaultDesign()
	out := d

	if out.Margins == 0 {
		out.Margins = def.Margins
	}
	out.Margins = clampInt(out.Margins, 1, 5)

	if out.SectionSpacing == 0 {
		out.SectionSpacing = def.SectionSpacing
	}
	out.SectionSpacing = clampInt(out.SectionSpacing, 1, 5)

	switch out.FontSize {
	case FontSizeSmall, FontSizeNormal, FontSizeLarge:
	default:
		out.FontSize = def.FontSize
	}

	if out.LineHeight == 0 {
		out.LineHeight = def.LineHeight
	}
	if out.LineHeight < 1 {
		out.LineHeight = 1
	}
	if out.LineHeight > 2 {
		out.LineHeight = 2
	}

	if out.ColumnLayout == 0 {
		out.ColumnLayout = def.ColumnLayout
	}
	out.ColumnLayout = clampInt(out.ColumnLayout, 1, 4)

	if out.PrimaryColor == "" {
		out.PrimaryColor = def.PrimaryColor
	}
	if out.FontFamily == "" {
		out.FontFamily = def.FontFamily
	}
	return out
}

// Validate validates the design using the validator.
func (d *DesignConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
