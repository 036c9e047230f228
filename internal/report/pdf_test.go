package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	pdfBytes, err := Build(Summary{
		City: "Delhi",
		PM25: "110.5",
		CO:   "1.8",
		NO2:  "45.2",
		AQI:  "305",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"))
	assert.Greater(t, len(pdfBytes), 500)
}

func TestBuildPlaceholderValues(t *testing.T) {
	// The download endpoint substitutes placeholders when query
	// parameters are missing; the document must still render.
	pdfBytes, err := Build(Summary{City: "Unknown", PM25: "--", CO: "--", NO2: "--", AQI: "--"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdfBytes), "%PDF"))
}
