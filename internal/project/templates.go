package project

import (
	"path/filepath"

	"github.com/piwi3910/SlabTile/internal/model"
)

// DefaultTemplatePath returns ~/.slabtile/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSON(path, store)
}

// LoadTemplates reads a template store. Until the user saves their own
// store, the built-in laying patterns are returned.
func LoadTemplates(path string) (model.TemplateStore, error) {
	var store model.TemplateStore
	found, err := readJSON(path, &store)
	switch {
	case err != nil:
		return model.TemplateStore{}, err
	case !found:
		return model.DefaultTemplateStore(), nil
	}
	if store.Templates == nil {
		store.Templates = []model.LayoutTemplate{}
	}
	return store, nil
}

// LoadDefaultTemplates loads templates from the default path.
func LoadDefaultTemplates() (model.TemplateStore, error) {
	return LoadTemplates(DefaultTemplatePath())
}

// SaveDefaultTemplates saves templates to the default path.
func SaveDefaultTemplates(store model.TemplateStore) error {
	return SaveTemplates(DefaultTemplatePath(), store)
}
