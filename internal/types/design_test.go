//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignConfig_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   DesignConfig
		want DesignConfig
	}{
		{
			name: "zero value gets defaults",
			in:   DesignConfig{},
			want: DefaultDesign(),
		},
		{
			name: "valid values are kept",
			in: DesignConfig{
				Margins: 5, SectionSpacing: 1, PrimaryColor: "#000000", FontFamily: "Lato",
				FontSize: FontSizeLarge, LineHeight: 1.2, ColumnLayout: ColumnLayout50x50,
			},
			want: DesignConfig{
				Margins: 5, SectionSpacing: 1, PrimaryColor: "#000000", FontFamily: "Lato",
				FontSize: FontSizeLarge, LineHeight: 1.2, ColumnLayout: ColumnLayout50x50,
			},
		},
		{
			name: "out of range values are clamped",
			in: DesignConfig{
				Margins: 9, SectionSpacing: -3, FontSize: "huge", LineHeight: 4.5, ColumnLayout: 7,
			},
			want: DesignConfig{
				Margins: 5, SectionSpacing: 1, PrimaryColor: "#2563eb", FontFamily: "Inter",
				FontSize: FontSizeNormal, LineHeight: 2, ColumnLayout: ColumnLayout50x50,
			},
		},
		{
			name: "line height below one",
			in:   DesignConfig{LineHeight: 0.4},
			want: func() DesignConfig { d := DefaultDesign(); d.LineHeight = 1; return d }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalized()
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate(), "normalized designs always validate")
		})
	}
}

func TestDesignConfig_Validate(t *testing.T) {
	d := DefaultDesign()
	require.NoError(t, d.Validate())

	d.Margins = 6
	require.Error(t, d.Validate())

	d = DefaultDesign()
	d.PrimaryColor = "blue"
	require.Error(t, d.Validate())

	d = DefaultDesign()
	d.FontSize = "tiny"
	require.Error(t, d.Validate())
}
