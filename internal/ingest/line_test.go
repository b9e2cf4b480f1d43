package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma", `a,"Grinning, Face",c`, []string{"a", "Grinning, Face", "c"}},
		{"escaped quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"trailing empty", "a,", []string{"a", ""}},
		{"quote mid field", `x"y,z"w`, []string{"xy,zw"}},
		{"json array cell", `s,"[""texting"",""reactions""]"`, []string{"s", `["texting","reactions"]`}},
		{"empty line", "", []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitLine(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitLine_UnterminatedQuote(t *testing.T) {
	_, err := SplitLine(`a,"broken,c`)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)
}
