package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartParse(t *testing.T) {
	inputs := map[string]string{
		"strict":         `{"revenue": 100, "net_income": 12}`,
		"trailing comma": `{"revenue": 100, "net_income": 12,}`,
		"single quotes":  `{'revenue': 100, 'net_income': 12}`,
	}
	for name, in := range inputs {
		var got map[string]float64
		require.NoError(t, SmartParse(in, &got), name)
		assert.Equal(t, map[string]float64{"revenue": 100, "net_income": 12}, got, name)
	}
}

func TestNormalizeJSON_Empty(t *testing.T) {
	_, err := NormalizeJSON("   ")
	assert.Error(t, err)
}

func TestSmartParse_StructuralMismatch(t *testing.T) {
	var got map[string]float64
	err := SmartParse(`{"revenue": "lots"}`, &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON_STRUCTURAL_ERROR")
}

func TestRenderMarkdownHTML_Table(t *testing.T) {
	html, err := RenderMarkdownHTML("# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<table>")
	assert.True(t, strings.Contains(html, "<td>1</td>"))
}
