package obstacle

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/wormvis/internal/fsutil"
	"github.com/banshee-data/wormvis/internal/trajectory"
	"github.com/banshee-data/wormvis/internal/vizerr"
)

func TestParse_SingleRow(t *testing.T) {
	field, err := Parse(strings.NewReader("0 0 10 5 1 1\n"), "objs.tsv")
	require.NoError(t, err)
	require.Equal(t, 1, field.Len())

	want := &Field{
		Boxes:   []Box{{Min: trajectory.Point{X: 0, Y: 0}, Max: trajectory.Point{X: 10, Y: 5}}},
		Vectors: []Vector{{1, 1}},
	}
	if diff := cmp.Diff(want, field); diff != "" {
		t.Errorf("field mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 10.0, field.Boxes[0].Width())
	assert.Equal(t, 5.0, field.Boxes[0].Height())
}

func TestParse_VectorsAreIndependent(t *testing.T) {
	field, err := Parse(strings.NewReader("0 0 1 1 7 8 9\n2 2 3 3\n"), "objs.tsv")
	require.NoError(t, err)
	require.Equal(t, 2, field.Len())

	assert.Equal(t, Vector{7, 8, 9}, field.Vectors[0])
	assert.Empty(t, field.Vectors[1])
}

func TestParse_Errors(t *testing.T) {
	for name, input := range map[string]string{
		"non-numeric":   "0 0 ten 5\n",
		"too few cols":  "0 0 10\n",
		"bad later row": "0 0 1 1\n0 0 1 x\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input), "objs.tsv")
			assert.ErrorIs(t, err, vizerr.ErrMalformedInput)
		})
	}
}

func TestParse_EmptyIsValid(t *testing.T) {
	field, err := Parse(strings.NewReader(""), "objs.tsv")
	require.NoError(t, err)
	assert.Equal(t, 0, field.Len())

	_, _, ok := field.Extent()
	assert.False(t, ok)
}

func TestExtent(t *testing.T) {
	field, err := Parse(strings.NewReader("0 0 10 5 1 1\n-3 2 4 8\n"), "objs.tsv")
	require.NoError(t, err)

	xr, yr, ok := field.Extent()
	require.True(t, ok)
	assert.Equal(t, [2]float64{-3, 10}, xr)
	assert.Equal(t, [2]float64{0, 8}, yr)
}

func TestLoad(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/data/collision_objs.tsv", []byte("0 0 10 5 1 1\n"))

	field, err := Load(mfs, "/data/collision_objs.tsv")
	require.NoError(t, err)
	assert.Equal(t, 1, field.Len())

	_, err = Load(mfs, "/data/nope.tsv")
	assert.Error(t, err)
}
