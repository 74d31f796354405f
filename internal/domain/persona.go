package domain

import (
	"errors"
	"strings"
)

// Persona describes the character the model plays.
type Persona struct {
	Name     string
	Setting  string
	Traits   []string
	Examples []PersonaExample
}

// PersonaExample is an illustrative reply used to bias the model's style.
type PersonaExample struct {
	Gold               int64
	Message            string
	RelationshipChange int
}

func (p Persona) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("persona name is required")
	}
	if strings.TrimSpace(p.Setting) == "" {
		return errors.New("persona setting is required")
	}
	return nil
}
