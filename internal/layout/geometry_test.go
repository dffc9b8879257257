package layout

import (
	"testing"

	"github.com/jonathan/resume-layout/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestColumnWidths(t *testing.T) {
	tests := []struct {
		layout      int
		left, right float64
	}{
		{layout: types.ColumnLayout75x25, left: 750, right: 250},
		{layout: types.ColumnLayout65x35, left: 650, right: 350},
		{layout: types.ColumnLayout70x30, left: 700, right: 300},
		{layout: types.ColumnLayout50x50, left: 500, right: 500},
		{layout: 9, left: 650, right: 350},
		{layout: 0, left: 650, right: 350},
	}

	for _, tt := range tests {
		w := ColumnWidths(tt.layout, 1000)
		assert.InDelta(t, tt.left, w.Left, 1e-9, "layout %d", tt.layout)
		assert.InDelta(t, tt.right, w.Right, 1e-9, "layout %d", tt.layout)
		assert.InDelta(t, 1000, w.Left+w.Right, 1e-9, "columns fill the content width")
	}
}

func TestNewGeometry(t *testing.T) {
	geo := NewGeometry(types.DefaultDesign(), DefaultOptions())

	assert.Equal(t, 24.0, geo.Margin)
	assert.Equal(t, 746.0, geo.ContentWidth)
	assert.Equal(t, 1075.0, geo.Capacity)
	assert.InDelta(t, 484.9, geo.Columns.Left, 1e-9)
	assert.InDelta(t, 261.1, geo.Columns.Right, 1e-9)
	assert.Equal(t, 140.0, geo.TopOffset(0))
	assert.Equal(t, 16.0, geo.TopOffset(1))
	assert.Equal(t, 16.0, geo.TopOffset(7))
}

func TestNewGeometry_Margins(t *testing.T) {
	for margins := 1; margins <= 5; margins++ {
		d := types.DefaultDesign()
		d.Margins = margins
		geo := NewGeometry(d, DefaultOptions())
		assert.Equal(t, MarginPx(margins), geo.Margin)
		assert.Equal(t, DefaultPageHeight-2*MarginPx(margins), geo.Capacity)
	}
}

func TestOptionsKey(t *testing.T) {
	def := DefaultOptions()
	fallback := Options{PageWidth: -1, FirstPageHeaderOffset: -1, PageTopOffset: -1, MinUsefulHeight: -1}
	assert.Equal(t, def.Key(), fallback.Key(), "values that fall back key like the defaults")
	assert.NotEqual(t, def.Key(), Options{}.Key(), "zero offsets are honored")

	reordered := DefaultOptions()
	reordered.SplittableSections = []string{types.SectionEducation, types.SectionExperience, types.SectionExperience}
	assert.Equal(t, def.Key(), reordered.Key(), "splittable order and duplicates do not matter")

	changed := DefaultOptions()
	changed.MinUsefulHeight = 61
	assert.NotEqual(t, def.Key(), changed.Key())

	split := DefaultOptions()
	split.SplittableSections = []string{"custom-1"}
	assert.NotEqual(t, def.Key(), split.Key())
}

func TestOptionsNormalized(t *testing.T) {
	t.Run("zero options use defaults except offsets", func(t *testing.T) {
		o := Options{}.normalized()
		assert.Equal(t, DefaultPageWidth, o.PageWidth)
		assert.Equal(t, DefaultPageHeight, o.PageHeight)
		assert.Equal(t, 0.0, o.FirstPageHeaderOffset)
		assert.Equal(t, 0.0, o.PageTopOffset)
		assert.Equal(t, 0.0, o.MinUsefulHeight)
		assert.Equal(t, []string{types.SectionExperience, types.SectionEducation}, o.SplittableSections)
	})

	t.Run("negative values fall back", func(t *testing.T) {
		o := Options{
			PageWidth:             -1,
			PageHeight:            -1,
			FirstPageHeaderOffset: -1,
			PageTopOffset:         -1,
			MinUsefulHeight:       -1,
		}.normalized()
		assert.Equal(t, DefaultOptions().PageWidth, o.PageWidth)
		assert.Equal(t, DefaultFirstPageHeaderOffset, o.FirstPageHeaderOffset)
		assert.Equal(t, DefaultPageTopOffset, o.PageTopOffset)
		assert.Equal(t, DefaultMinUsefulHeight, o.MinUsefulHeight)
	})

	t.Run("custom splittable set", func(t *testing.T) {
		o := Options{SplittableSections: []string{"custom-1"}}.normalized()
		set := o.splittableSet()
		assert.True(t, set["custom-1"])
		assert.False(t, set[types.SectionExperience])
	})
}
