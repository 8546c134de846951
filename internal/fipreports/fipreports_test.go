package fipreports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentlyLine = " :CURRENTLY IN PLACE       :     21091398.                    21091398.:       4590182. :           -0.    483594842.     483594842."

const outflowLine = " :OUTFLOW TO REGION   1    :       143128.                      143128.:       -161400. :            0.      3017075.       3017075."

const reportBlock = `                                                =================================
                                                : FIPZON  REPORT REGION    2    :
                                                :     PAV =        139.76  BARSA:
                                                :     PORV=     27777509.   RM3 :
                           :--------------- OIL    SM3  ---------------:-- WAT    SM3  -:--------------- GAS    SM3  ---------------:
                           :     LIQUID         VAPOUR         TOTAL   :       TOTAL    :       FREE      DISSOLVED         TOTAL   :
 :-------------------------:-------------------------------------------:----------------:-------------------------------------------:
 :CURRENTLY IN PLACE       :     21091398.                    21091398.:       4590182. :           -0.    483594842.     483594842.
 :-------------------------:-------------------------------------------:----------------:-------------------------------------------:
 :OUTFLOW TO OTHER REGIONS :        76266.                       76266.:         75906. :            0.      1818879.       1818879.
 :OUTFLOW THROUGH WELLS    :                                         0.:             0. :                                         0.
 :MATERIAL BALANCE ERROR.  :                                         0.:             0. :                                         0.
 :-------------------------:-------------------------------------------:----------------:-------------------------------------------:
 :ORIGINALLY IN PLACE      :     21136892.                    21136892.:       4641214. :            0.    484657561.     484657561.
 :-------------------------:-------------------------------------------:----------------:-------------------------------------------:
 :OUTFLOW TO REGION   1    :       143128.                      143128.:       -161400. :            0.      3017075.       3017075.
 :OUTFLOW TO REGION   3    :       -66862.                      -66862.:        198900. :           -0.     -1198195.      -1198195.
 :OUTFLOW TO REGION   8    :            0.                           0.:         38405. :            0.            0.             0.
 ====================================================================================================================================
`

func TestParseLineCurrentlyInPlace(t *testing.T) {
	row, err := parseLine(currentlyLine)
	require.NoError(t, err)
	require.NotNil(t, row)

	assert.Equal(t, CurrentlyInPlace, row.Kind)
	assert.Nil(t, row.ToRegion)

	require.NotNil(t, row.LiquidOil)
	assert.Equal(t, 21091398.0, *row.LiquidOil)
	assert.Nil(t, row.VapourOil)
	require.NotNil(t, row.TotalOil)
	assert.Equal(t, 21091398.0, *row.TotalOil)

	assert.Equal(t, 4590182.0, row.TotalWater)

	require.NotNil(t, row.FreeGas)
	assert.Equal(t, -0.0, *row.FreeGas)
	require.NotNil(t, row.DissolvedGas)
	assert.Equal(t, 483594842.0, *row.DissolvedGas)
	require.NotNil(t, row.TotalGas)
	assert.Equal(t, 483594842.0, *row.TotalGas)
}

func TestParseLineOutflowToRegion(t *testing.T) {
	row, err := parseLine(outflowLine)
	require.NoError(t, err)
	require.NotNil(t, row)

	assert.Equal(t, OutflowToRegion, row.Kind)
	require.NotNil(t, row.ToRegion)
	assert.Equal(t, 1, *row.ToRegion)
}

func TestParseLineSingleTokenFields(t *testing.T) {
	line := " :OUTFLOW THROUGH WELLS    :                                         0.:             0. :                                         0."
	row, err := parseLine(line)
	require.NoError(t, err)
	require.NotNil(t, row)

	assert.Equal(t, OutflowThroughWells, row.Kind)
	assert.Nil(t, row.LiquidOil)
	assert.Nil(t, row.VapourOil)
	require.NotNil(t, row.TotalOil)
	assert.Equal(t, 0.0, *row.TotalOil)
	assert.Nil(t, row.FreeGas)
	require.NotNil(t, row.TotalGas)
}

func TestParseLineIgnoresOtherRows(t *testing.T) {
	row, err := parseLine(" :     PAV =        139.76  BARSA:")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestParseFullBlock(t *testing.T) {
	text := "  REPORT   1     1 JLY 2000\n" + reportBlock
	rows, diag, err := Parse(strings.NewReader(text), "FIPZON")
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, 8, diag.RowsEmitted)
	assert.Equal(t, 1, diag.BlocksSeen)
	assert.Empty(t, diag.Dropped)

	wantDate := time.Date(2000, time.July, 1, 0, 0, 0, 0, time.UTC)
	for _, row := range rows {
		require.NotNil(t, row.Date)
		assert.Equal(t, wantDate, *row.Date)
		assert.Equal(t, "FIPZON", row.FIPName)
		assert.Equal(t, 2, row.Region)
	}

	assert.Equal(t, CurrentlyInPlace, rows[0].Kind)
	assert.Equal(t, RowKind("OUTFLOW TO OTHER REGIONS"), rows[1].Kind)
	assert.Equal(t, OutflowThroughWells, rows[2].Kind)
	assert.Equal(t, MaterialBalanceError, rows[3].Kind)
	assert.Equal(t, OriginallyInPlace, rows[4].Kind)
	for i, wantTo := range []int{1, 3, 8} {
		row := rows[5+i]
		assert.Equal(t, OutflowToRegion, row.Kind)
		require.NotNil(t, row.ToRegion)
		assert.Equal(t, wantTo, *row.ToRegion)
	}
}

func TestParseOtherFIPNameSeesNothing(t *testing.T) {
	rows, diag, err := Parse(strings.NewReader(reportBlock), "FIPNUM")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, diag.BlocksSeen)
}

// A close marker followed by a new block header must not leak the previous
// region index into rows seen before the new header.
func TestParseRegionDoesNotLeakAcrossBlocks(t *testing.T) {
	text := strings.Join([]string{
		"                                                : FIPNUM  REPORT REGION    2    :",
		currentlyLine,
		" ====================================================================================================================================",
		currentlyLine, // outside any block: must not emit
		"                                                : FIPNUM  REPORT REGION    5    :",
		currentlyLine,
		"",
	}, "\n")

	rows, _, err := Parse(strings.NewReader(text), "FIPNUM")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Region)
	assert.Equal(t, 5, rows[1].Region)
}

func TestParseDropsMalformedRowAndContinues(t *testing.T) {
	malformed := " :CURRENTLY IN PLACE       :  1. 2. 3. 4.:       4590182. :           -0.    483594842.     483594842."
	text := strings.Join([]string{
		"                                                : FIPNUM  REPORT REGION    1    :",
		malformed,
		currentlyLine,
		"",
	}, "\n")

	rows, diag, err := Parse(strings.NewReader(text), "FIPNUM")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, diag.Dropped, 1)
	assert.Contains(t, diag.Dropped[0].Line, "1. 2. 3. 4.")
}

func TestParseRowsWithoutDateOrHeaderAreDegenerate(t *testing.T) {
	text := strings.Join([]string{
		"                                                : FIPNUM  REPORT REGION    4    :",
		currentlyLine,
		"",
	}, "\n")
	rows, _, err := Parse(strings.NewReader(text), "FIPNUM")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Date)
	assert.Equal(t, 4, rows[0].Region)
}

func TestValidateFIPName(t *testing.T) {
	assert.NoError(t, ValidateFIPName("FIPNUM"))
	assert.NoError(t, ValidateFIPName("FIPZON"))
	assert.Error(t, ValidateFIPName("REGIONS"))
	assert.Error(t, ValidateFIPName("FIPTOOLONG"))
}

func TestTableRendersRows(t *testing.T) {
	text := "  REPORT   1     1 JAN 2000\n" + reportBlock
	rows, _, err := Parse(strings.NewReader(text), "FIPZON")
	require.NoError(t, err)

	table := Table(rows)
	assert.Equal(t, Columns, table.Columns())
	require.Equal(t, len(rows), table.Len())

	assert.Equal(t, "2000-01-01", table.Cell(0, "DATE").String())
	assert.Equal(t, "FIPZON", table.Cell(0, "FIPNAME").String())
	assert.Equal(t, "CURRENTLY IN PLACE", table.Cell(0, "DATATYPE").String())
	// The vapour column is missing for this phase configuration, not zero.
	assert.True(t, table.Cell(0, "ASSOCIATEDOIL_GAS").IsNull())
	assert.Equal(t, "", table.Cell(0, "ASSOCIATEDOIL_GAS").String())

	to, ok := table.Cell(5, "TO_REGION").Float64()
	require.True(t, ok)
	assert.Equal(t, 1.0, to)
}
