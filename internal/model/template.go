package model

import (
	"time"

	"github.com/google/uuid"
)

// LayoutTemplate is a named laying pattern. Bias is stored as a fraction of
// the tile pitch so one template works for any tile size.
type LayoutTemplate struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	CreatedAt    string  `json:"created_at"`
	BiasFraction float64 `json:"bias_fraction"` // 0.5 = half bond
	Angle        float64 `json:"angle"`         // degrees
	Seam         float64 `json:"seam"`          // mm, negative keeps the current seam
}

// NewLayoutTemplate creates a template with a fresh ID.
func NewLayoutTemplate(name, description string, biasFraction, angle, seam float64) LayoutTemplate {
	return LayoutTemplate{
		ID:           uuid.New().String()[:8],
		Name:         name,
		Description:  description,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		BiasFraction: biasFraction,
		Angle:        angle,
		Seam:         seam,
	}
}

// ApplyTo returns a copy of settings with the pattern applied.
// Tile size, pivot and offset are left untouched.
func (t LayoutTemplate) ApplyTo(s GridSettings) GridSettings {
	out := s
	if t.Seam >= 0 {
		out.Seam = t.Seam
	}
	out.Bias = t.BiasFraction * (out.TileWidth + out.Seam)
	out.Angle = t.Angle
	return out
}

// BuiltInTemplates returns the standard laying patterns.
func BuiltInTemplates() []LayoutTemplate {
	return []LayoutTemplate{
		{ID: "stack", Name: "Stack bond", Description: "Straight grid, joints aligned", Seam: -1},
		{ID: "half", Name: "Half bond", Description: "Running bond, rows shifted by half a tile", BiasFraction: 0.5, Seam: -1},
		{ID: "third", Name: "Third bond", Description: "Rows shifted by a third of a tile", BiasFraction: 1.0 / 3.0, Seam: -1},
		{ID: "diagonal", Name: "Diagonal", Description: "Straight grid rotated by 45 degrees", Angle: 45, Seam: -1},
	}
}

// TemplateStore holds a collection of layout templates.
type TemplateStore struct {
	Templates []LayoutTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []LayoutTemplate{},
	}
}

// DefaultTemplateStore creates a store seeded with the built-in patterns.
func DefaultTemplateStore() TemplateStore {
	return TemplateStore{Templates: BuiltInTemplates()}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t LayoutTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *LayoutTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}
