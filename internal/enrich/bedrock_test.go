package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  float64
	}{
		{"bare number", "72", 72},
		{"decimal", "68.5", 68.5},
		{"trailing period", "75.", 75},
		{"percent sign", "80%", 80},
		{"surrounding whitespace", "  64\n", 64},
		{"number with commentary", "55 based on governance record", 55},
		{"clamped high", "120", 100},
		{"clamped low", "-10", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScore(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScoreRejectsGarbage(t *testing.T) {
	_, err := parseScore("")
	require.Error(t, err)

	_, err = parseScore("no idea")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable score")
}
