package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVisualStatus(t *testing.T) {
	assert.Equal(t, VisualAberto, NormalizeVisualStatus("ABERTO"))
	assert.Equal(t, VisualEmPreparo, NormalizeVisualStatus("  em_preparo "))
	assert.Equal(t, VisualCancelado, NormalizeVisualStatus("cancelado"))

	// Anything outside the closed set reads as LIBERADO.
	assert.Equal(t, VisualLiberado, NormalizeVisualStatus(""))
	assert.Equal(t, VisualLiberado, NormalizeVisualStatus("OCUPADO"))
	assert.Equal(t, VisualLiberado, NormalizeVisualStatus("garbage"))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "C-010", NormalizeCode("  c-010 "))
	assert.Equal(t, "MESA 3", NormalizeCode("mesa 3"))
}
