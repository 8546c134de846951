package deck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoRegionPVTDeck = `TABDIMS
 1* 2 /

-- water and oil densities per PVT region
DENSITY
 860.0 1001.0 0.9 /
 900.0 1000.0 1.1 /

PVTW
 327.3 1.03 4.51e-5 0.25 0.0 /
 327.3 1.03 4.51e-5 0.25 0.0 /
`

func TestParseTwoRegionDeck(t *testing.T) {
	d, err := Parse(twoRegionPVTDeck)
	require.NoError(t, err)

	require.Equal(t, []string{"TABDIMS", "DENSITY", "PVTW"}, d.Keywords())

	tabdims, ok := d.Section("TABDIMS")
	require.True(t, ok)
	require.Len(t, tabdims.Records, 1)
	assert.True(t, tabdims.Records[0][0][0].IsDefault())
	assert.Equal(t, 2.0, ItemFloat(tabdims.Records[0], NTPVTItem, 1))

	density, ok := d.Section("DENSITY")
	require.True(t, ok)
	require.Len(t, density.Records, 2)
	assert.Equal(t, 860.0, density.Records[0][0][0].Float(0))
	assert.Equal(t, 1000.0, density.Records[1][1][0].Float(0))
}

func TestParseDataLayoutKeyword(t *testing.T) {
	text := `TABDIMS
 2 /

SWOF
 0.1 0.0 1.0 0.0
 0.5 0.5 0.5 0.0
 1.0 1.0 0.0 0.0 /
 0.2 0.0 1.0 0.0
 1.0 1.0 0.0 0.0 /
`
	d, err := Parse(text)
	require.NoError(t, err)

	swof, ok := d.Section("SWOF")
	require.True(t, ok)
	require.Len(t, swof.Records, 2)
	// Data layout packs the whole table into one item per record.
	require.Len(t, swof.Records[0], 1)
	assert.Len(t, swof.Records[0].Scalars(), 12)
	assert.Len(t, swof.Records[1].Scalars(), 8)
}

func TestParseRepeatCounts(t *testing.T) {
	text := `TABDIMS
 3*4 2* 7 /
`
	d, err := Parse(text)
	require.NoError(t, err)

	rec := d.Sections()[0].Records[0]
	require.Len(t, rec, 6)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 4.0, rec[i][0].Float(0))
	}
	assert.True(t, rec[3][0].IsDefault())
	assert.True(t, rec[4][0].IsDefault())
	assert.Equal(t, 7.0, rec[5][0].Float(0))
}

func TestParseTrailingDataFailsStrictly(t *testing.T) {
	text := `TABDIMS
 1* 1 /

DENSITY
 860.0 1001.0 0.9 /
 900.0 1000.0 1.1 /
`
	_, err := Parse(text)
	var countErr *RecordCountError
	require.ErrorAs(t, err, &countErr)
	assert.True(t, countErr.Trailing)
	assert.Equal(t, "DENSITY", countErr.Keyword)
}

func TestParseShortReadFailsStrictly(t *testing.T) {
	text := `TABDIMS
 1* 3 /

DENSITY
 860.0 1001.0 0.9 /
 900.0 1000.0 1.1 /
`
	_, err := Parse(text)
	var countErr *RecordCountError
	require.ErrorAs(t, err, &countErr)
	assert.False(t, countErr.Trailing)
	assert.Equal(t, 3, countErr.Want)
	assert.Equal(t, 2, countErr.Got)
}

func TestParseSizedKeywordWithoutSizing(t *testing.T) {
	text := `DENSITY
 860.0 1001.0 0.9 /
`
	_, err := Parse(text)
	var sizeErr *MissingSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, "TABDIMS", sizeErr.Sizing)
}

func TestParseSkipsUnknownKeywords(t *testing.T) {
	text := `NOECHO
TABDIMS
 1* 1 /

DENSITY
 860.0 1001.0 0.9 /
`
	d, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, d.Has("NOECHO"))
	assert.True(t, d.Has("DENSITY"))
}

func TestParseRejectsDataOutsideKeyword(t *testing.T) {
	_, err := Parse(" 1.0 2.0 /\n")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestParseCommentsAndSlashTrailers(t *testing.T) {
	text := `TABDIMS
 1* 2 / trailing words are commentary
DENSITY
 860.0 1001.0 0.9 / region one
 900.0 1000.0 1.1 / region two
`
	d, err := Parse(text)
	require.NoError(t, err)
	density, _ := d.Section("DENSITY")
	require.Len(t, density.Records, 2)
}

func TestItemFloatDefaultsPastRecordEnd(t *testing.T) {
	d, err := Parse("TABDIMS\n 2 /\n")
	require.NoError(t, err)
	rec := d.Sections()[0].Records[0]
	assert.Equal(t, 2.0, ItemFloat(rec, NTSFUNItem, 1))
	// NTPVT was never supplied; a record terminated early defaults it.
	assert.Equal(t, 1.0, ItemFloat(rec, NTPVTItem, 1))
}
