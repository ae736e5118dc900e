package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/token-ledger-system/internal/format"
)

func TestFormatGroupsDigits(t *testing.T) {
	tests := []struct {
		locale  string
		balance int64
		want    string
	}{
		{locale: "en-US", balance: 0, want: "0"},
		{locale: "en-US", balance: 999, want: "999"},
		{locale: "en-US", balance: 1000, want: "1,000"},
		{locale: "en-US", balance: 1234567, want: "1,234,567"},
		{locale: "de", balance: 1234567, want: "1.234.567"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.want, func(t *testing.T) {
			f, err := format.NewFormatter(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Format(tt.balance))
		})
	}
}

func TestNewFormatterRejectsMalformedLocale(t *testing.T) {
	_, err := format.NewFormatter("not a locale!!")
	assert.Error(t, err)
}
