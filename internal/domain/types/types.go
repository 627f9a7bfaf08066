// Package types contains common types used across the application
package types

import (
	"strings"
	"time"

	"github.com/okian/architex/internal/domain/model"
)

// Style is the JSON shape of a catalog style.
type Style struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Period          string          `json:"period"`
	Description     string          `json:"description"`
	Characteristics []string        `json:"characteristics"`
	MainFeatures    []string        `json:"main_features"`
	FamousExamples  []FamousExample `json:"famous_examples"`
	ImageURL        string          `json:"image_url,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// FamousExample is the JSON shape of a notable building.
type FamousExample struct {
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	Architect string `json:"architect,omitempty"`
	Year      string `json:"year,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// FavoriteToggle is returned after adding or removing a favorite.
type FavoriteToggle struct {
	Success   bool     `json:"success"`
	Action    string   `json:"action"` // "added" or "removed"
	Favorites []string `json:"favorites"`
}

// FromModel converts a domain style to its JSON shape.
func FromModel(s model.Style) Style {
	out := Style{
		ID:              s.ID,
		Name:            s.Name,
		Period:          s.Period,
		Description:     s.Description,
		Characteristics: nonNil(s.Characteristics),
		MainFeatures:    nonNil(s.MainFeatures),
		FamousExamples:  make([]FamousExample, len(s.FamousExamples)),
		ImageURL:        s.ImageURL,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
	for i, e := range s.FamousExamples {
		out.FamousExamples[i] = FamousExample(e)
	}
	return out
}

// FromModels converts a list of styles, never returning nil.
func FromModels(styles []model.Style) []Style {
	out := make([]Style, len(styles))
	for i, s := range styles {
		out[i] = FromModel(s)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Recommendation is a recommended style with its aggregate score.
type Recommendation struct {
	Style
	Score float64 `json:"score"`
}

// StyleInput is the request body for creating a style.
type StyleInput struct {
	Name            string          `json:"name"`
	Period          string          `json:"period"`
	Description     string          `json:"description"`
	Characteristics []string        `json:"characteristics"`
	MainFeatures    []string        `json:"main_features"`
	FamousExamples  []FamousExample `json:"famous_examples"`
	ImageURL        string          `json:"image_url"`
}

// ToModel converts the input to a domain style. Text fields are trimmed.
func (in StyleInput) ToModel() model.Style {
	s := model.Style{
		Name:            strings.TrimSpace(in.Name),
		Period:          strings.TrimSpace(in.Period),
		Description:     strings.TrimSpace(in.Description),
		Characteristics: in.Characteristics,
		MainFeatures:    in.MainFeatures,
		ImageURL:        strings.TrimSpace(in.ImageURL),
	}
	if len(in.FamousExamples) > 0 {
		s.FamousExamples = make([]model.FamousExample, len(in.FamousExamples))
		for i, e := range in.FamousExamples {
			s.FamousExamples[i] = model.FamousExample(e)
		}
	}
	return s
}

// StylePatch is the request body for updating a style. Nil fields are left
// unchanged.
type StylePatch struct {
	Name            *string          `json:"name,omitempty"`
	Period          *string          `json:"period,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Characteristics *[]string        `json:"characteristics,omitempty"`
	MainFeatures    *[]string        `json:"main_features,omitempty"`
	FamousExamples  *[]FamousExample `json:"famous_examples,omitempty"`
	ImageURL        *string          `json:"image_url,omitempty"`
}

// Apply copies the set fields onto s.
func (p StylePatch) Apply(s *model.Style) {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Period != nil {
		s.Period = strings.TrimSpace(*p.Period)
	}
	if p.Description != nil {
		s.Description = strings.TrimSpace(*p.Description)
	}
	if p.Characteristics != nil {
		s.Characteristics = append([]string(nil), (*p.Characteristics)...)
	}
	if p.MainFeatures != nil {
		s.MainFeatures = append([]string(nil), (*p.MainFeatures)...)
	}
	if p.FamousExamples != nil {
		s.FamousExamples = make([]model.FamousExample, len(*p.FamousExamples))
		for i, e := range *p.FamousExamples {
			s.FamousExamples[i] = model.FamousExample(e)
		}
	}
	if p.ImageURL != nil {
		s.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
}
