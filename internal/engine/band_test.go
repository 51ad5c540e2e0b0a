package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{5, "Excelente"},
		{4.5, "Excelente"},
		{4.49999, "Bueno"},
		{3.5, "Bueno"},
		{3.49, "Regular"},
		{2.5, "Regular"},
		{2.49999, "Necesita mejorar"},
		{1, "Necesita mejorar"},
		{0, "Sin calificar"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score).Label, "score=%v", tt.score)
	}
	assert.Equal(t, "#999999", Classify(0).Color)
	assert.Equal(t, "#27AE60", Classify(4.8).Color)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "N/A", FormatCompact(0))
	assert.Equal(t, "3", FormatCompact(3.375))
	assert.Equal(t, "4", FormatCompact(3.5))
	assert.Equal(t, "5", FormatCompact(4.5))
	assert.Equal(t, "3.38", FormatDetailed(3.375))
	assert.Equal(t, "0.00", FormatDetailed(0))
}
