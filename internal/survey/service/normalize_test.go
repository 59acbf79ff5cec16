package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"  Survey   Number ": "survey number",
		"Total\u00a0Area":    "total area",
		"ICC/IPs\n(Group)":   "icc/ips (group)",
	}
	for in, want := range cases {
		got := NormalizeHeader(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.Equal(t, got, NormalizeHeader(got), "not idempotent for %q", in)
	}
}

func TestCompactHeader(t *testing.T) {
	assert.Equal(t, "municipalityies", CompactHeader(" Municipality/ies "))
	assert.Equal(t, "areaha", CompactHeader("Area (ha)"))
	assert.Equal(t, "", CompactHeader("\u2014"))
}

func TestSanitizeFieldName(t *testing.T) {
	assert.Equal(t, "Survey_No_", SanitizeFieldName("Survey No."))
	assert.Equal(t, "Total_Area__ha_", SanitizeFieldName(" Total  Area (ha)"))
	assert.Equal(t, "", SanitizeFieldName("   "))
}
