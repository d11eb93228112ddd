package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLoggerLevels(t *testing.T) {
	app := &cli.App{
		Name: "contracthub",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
			},
		},
		Before: setupLogger,
		Action: func(*cli.Context) error { return nil },
	}

	t.Run("accepts all four levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			err := app.Run([]string{"contracthub", "--log-level", level})
			assert.NoError(t, err, "level %q", level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := app.Run([]string{"contracthub", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestChunkFileFormat(t *testing.T) {
	data := []byte(`[
		{"text": "Termination clause.", "metadata": {"page": "1"}},
		{"text": "Liability cap."}
	]`)

	var parsed chunkFile
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, "Termination clause.", parsed[0].Text)
	assert.Equal(t, map[string]string{"page": "1"}, parsed[0].Metadata)
	assert.Nil(t, parsed[1].Metadata)
}
