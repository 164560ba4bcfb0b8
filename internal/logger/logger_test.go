package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Init(Config{Level: "debug", Format: "json"})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.DebugLevel, Logger.GetLevel())

	Init(Config{Level: "shouting", Format: "pretty"})
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
