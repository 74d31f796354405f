package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/dragon-hoard/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed dragon.yaml
var defaultPersona []byte

type personaFile struct {
	Name     string        `yaml:"name"`
	Setting  string        `yaml:"setting"`
	Traits   []string      `yaml:"traits"`
	Examples []exampleFile `yaml:"examples"`
}

type exampleFile struct {
	Gold               int64  `yaml:"gold"`
	Message            string `yaml:"message"`
	RelationshipChange int    `yaml:"relationship_change"`
}

// Default returns the built-in dragon persona.
func Default() (domain.Persona, error) {
	return Parse(defaultPersona)
}

// Load reads a persona file, or the built-in persona when path is empty.
func Load(path string) (domain.Persona, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Persona{}, fmt.Errorf("read persona file: %w", err)
	}

	persona, err := Parse(data)
	if err != nil {
		return domain.Persona{}, fmt.Errorf("persona file %s: %w", path, err)
	}
	return persona, nil
}

func Parse(data []byte) (domain.Persona, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file personaFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Persona{}, errors.New("persona document is empty")
		}
		return domain.Persona{}, fmt.Errorf("decode persona: %w", err)
	}

	persona := domain.Persona{
		Name:    file.Name,
		Setting: file.Setting,
		Traits:  file.Traits,
	}
	for _, example := range file.Examples {
		if example.RelationshipChange < domain.MinRelationshipChange || example.RelationshipChange > domain.MaxRelationshipChange {
			return domain.Persona{}, fmt.Errorf("example %q: relationship_change %d out of range", example.Message, example.RelationshipChange)
		}
		persona.Examples = append(persona.Examples, domain.PersonaExample{
			Gold:               example.Gold,
			Message:            example.Message,
			RelationshipChange: example.RelationshipChange,
		})
	}

	if err := persona.Validate(); err != nil {
		return domain.Persona{}, err
	}
	return persona, nil
}
