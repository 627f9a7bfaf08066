// Package model contains domain models passed between layers.
package model

import "time"

// Style is an architectural style in the catalog. It is the unit the
// recommendation ranker scores and returns.
type Style struct {
	ID              string          `koanf:"id"`
	Name            string          `koanf:"name" validate:"required,max=50"`
	Period          string          `koanf:"period" validate:"required"` // free text, e.g. "12th-16th Century" or "1920s-1930s"
	Description     string          `koanf:"description" validate:"required"`
	Characteristics []string        `koanf:"characteristics" validate:"min=1,dive,required"`
	MainFeatures    []string        `koanf:"main_features" validate:"dive,required"`
	FamousExamples  []FamousExample `koanf:"famous_examples" validate:"dive"`
	ImageURL        string          `koanf:"image_url" validate:"omitempty,url"`
	CreatedBy       string          `koanf:"created_by"`
	CreatedAt       time.Time       `koanf:"-"`
}

// FamousExample is a notable building in a style.
type FamousExample struct {
	Name      string `koanf:"name" validate:"required"`
	Location  string `koanf:"location"`
	Architect string `koanf:"architect"`
	Year      string `koanf:"year"`
	ImageURL  string `koanf:"image_url" validate:"omitempty,url"`
}

// ItemID returns the style id.
func (s Style) ItemID() string { return s.ID }

// ItemPeriod returns the free-text period.
func (s Style) ItemPeriod() string { return s.Period }

// ItemCharacteristics returns the style's key characteristics.
func (s Style) ItemCharacteristics() []string { return s.Characteristics }

// Clone returns a deep copy so callers cannot mutate stored slices.
func (s Style) Clone() Style {
	c := s
	c.Characteristics = append([]string(nil), s.Characteristics...)
	c.MainFeatures = append([]string(nil), s.MainFeatures...)
	c.FamousExamples = append([]FamousExample(nil), s.FamousExamples...)
	return c
}
