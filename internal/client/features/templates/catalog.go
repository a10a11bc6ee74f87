package templates

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var ErrEmptyCatalog = errors.New("template catalog is empty")

type catalogFile struct {
	Templates []models.Template `yaml:"templates"`
}

// ParseCatalog reads a YAML template list.
func ParseCatalog(b []byte) ([]models.Template, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Templates) == 0 {
		return nil, ErrEmptyCatalog
	}
	return f.Templates, nil
}

// Catalog returns the built-in templates.
func Catalog() []models.Template {
	t, err := ParseCatalog(catalogYAML)
	if err != nil {
		panic(err)
	}
	return t
}
