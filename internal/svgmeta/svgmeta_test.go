package svgmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	info, err := Inspect([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path d="M0 0"/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, "0 0 24 24", info.ViewBox)
	assert.True(t, info.Scalable())
}

func TestInspectWidthHeightOnly(t *testing.T) {
	info, err := Inspect([]byte(`<svg width="24" height="24"></svg>`))
	require.NoError(t, err)
	assert.Empty(t, info.ViewBox)
	assert.True(t, info.Scalable())
}

func TestInspectUnsizedSVG(t *testing.T) {
	info, err := Inspect([]byte(`<svg><rect/></svg>`))
	require.NoError(t, err)
	assert.False(t, info.Scalable())
}

func TestInspectRejectsNonSVGRoot(t *testing.T) {
	_, err := Inspect([]byte(`<html><svg/></html>`))
	assert.Error(t, err)
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte(`<svg `))
	assert.Error(t, err)
}
