package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockify/internal/pkg/telemetry"
)

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := telemetry.InitTracer(context.Background(), "", "stockify", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_WithEndpoint(t *testing.T) {
	shutdown, err := telemetry.InitTracer(context.Background(), "localhost:4318", "stockify", "test")
	require.NoError(t, err)

	// Nada foi exportado; o encerramento não depende do coletor estar no ar.
	assert.NoError(t, shutdown(context.Background()))
}
