package project

import (
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/SlabTile/internal/model"
)

// FileExtension is the suffix of saved project files.
const FileExtension = ".slabtile"

// Save writes a project, including its last layout result, as JSON.
func Save(path string, p model.Project) error {
	if err := writeJSON(path, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// Load reads a project saved with Save.
func Load(path string) (model.Project, error) {
	var p model.Project
	found, err := readJSON(path, &p)
	switch {
	case err != nil:
		return model.Project{}, fmt.Errorf("failed to load project: %w", err)
	case !found:
		return model.Project{}, fmt.Errorf("failed to load project: %w", os.ErrNotExist)
	}
	return p, nil
}

// Spec is a YAML room spec: one tile choice laid in one or more rooms.
//
//	name: Ground floor
//	template: half
//	settings:
//	  tile_width: 600
//	  tile_height: 300
//	  seam: 3
//	rooms:
//	  - label: Kitchen
//	    width: 3600
//	    height: 2800
type Spec struct {
	Name     string                `yaml:"name" json:"name"`
	Template string                `yaml:"template,omitempty" json:"template,omitempty"` // Built-in template ID or name
	Settings model.GridSettings    `yaml:"settings" json:"settings"`
	Rooms    []model.Enclosure     `yaml:"rooms" json:"rooms"`
	Cutter   *model.CutterSettings `yaml:"cutter,omitempty" json:"cutter,omitempty"`
}

// LoadSpec reads a room spec from a YAML file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	return ParseSpec(data)
}

// ParseSpec decodes a YAML room spec. Settings omitted from the document
// keep their defaults, rooms without an ID get one, and a named template is
// applied on top of the settings.
func ParseSpec(data []byte) (*Spec, error) {
	spec := Spec{Settings: model.DefaultGridSettings()}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing spec YAML: %w", err)
	}

	if len(spec.Rooms) == 0 {
		return nil, fmt.Errorf("spec has no rooms")
	}
	for i := range spec.Rooms {
		r := &spec.Rooms[i]
		if r.Width <= 0 || r.Height <= 0 || math.IsNaN(r.Width) || math.IsNaN(r.Height) {
			return nil, fmt.Errorf("room %d (%s): width and height must be positive", i+1, r.Label)
		}
		if r.ID == "" {
			r.ID = uuid.New().String()[:8]
		}
		if r.Label == "" {
			r.Label = fmt.Sprintf("Room %d", i+1)
		}
	}

	if spec.Template != "" {
		store := model.DefaultTemplateStore()
		tmpl := store.FindByID(spec.Template)
		if tmpl == nil {
			tmpl = store.FindByName(spec.Template)
		}
		if tmpl == nil {
			return nil, fmt.Errorf("unknown template %q", spec.Template)
		}
		spec.Settings = tmpl.ApplyTo(spec.Settings)
	}

	if spec.Name == "" {
		spec.Name = "Untitled"
	}
	return &spec, nil
}

// CutterOrDefault returns the spec's cutter settings or the given fallback.
func (s *Spec) CutterOrDefault(fallback model.CutterSettings) model.CutterSettings {
	if s.Cutter != nil {
		return *s.Cutter
	}
	return fallback
}

// Projects returns one project per room, sharing the spec's settings.
func (s *Spec) Projects() []model.Project {
	projects := make([]model.Project, len(s.Rooms))
	for i, r := range s.Rooms {
		projects[i] = model.Project{
			Name:      s.Name + " - " + r.Label,
			Enclosure: r,
			Settings:  s.Settings,
		}
	}
	return projects
}
