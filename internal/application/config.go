package application

import (
	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
)

type EngineConfig struct {
	Persona           domain.Persona
	MemoryMode        domain.MemoryMode
	TrackRelationship bool
	ExtractFacts      bool
	FactPolicy        domain.FactPolicy
	TurnOptions       ports.GenerateOptions
	FactOptions       ports.GenerateOptions
	GoldThresholds    domain.GoldThresholds
}

func DefaultEngineConfig(persona domain.Persona) EngineConfig {
	return EngineConfig{
		Persona:           persona,
		MemoryMode:        domain.MemoryModeTranscript,
		TrackRelationship: true,
		FactPolicy:        domain.DefaultFactPolicy(),
		TurnOptions:       ports.GenerateOptions{Temperature: 0.9, MaxOutputTokens: 200},
		FactOptions:       ports.GenerateOptions{Temperature: 0.7, MaxOutputTokens: 300},
		GoldThresholds:    domain.DefaultGoldThresholds(),
	}
}

func (c EngineConfig) promptOptions() PromptOptions {
	return PromptOptions{
		Persona:           c.Persona,
		TrackRelationship: c.TrackRelationship,
		UseFacts:          c.ExtractFacts,
	}
}
