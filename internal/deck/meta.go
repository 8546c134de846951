package deck

// Layout describes how a keyword's values map onto records.
type Layout int

const (
	// LayoutItems keywords carry one value per item, one logical row per
	// record (DENSITY, PVTW, ROCK, TABDIMS).
	LayoutItems Layout = iota
	// LayoutData keywords pack a whole table flat into a single item per
	// record; the record must be reshaped by column count downstream
	// (SWOF, PVDG and friends).
	LayoutData
)

// SizeRef points at the field inside a sizing keyword's first record that
// declares the record count for a dependent keyword.
type SizeRef struct {
	Keyword string
	Item    int
}

// Item positions of the table dimension counts inside TABDIMS.
const (
	NTSFUNItem = 0 // number of saturation-function regions
	NTPVTItem  = 1 // number of PVT regions
)

// Meta describes how the parser reads one keyword's section.
type Meta struct {
	Name    string
	Layout  Layout
	Records int      // fixed record count; 0 means 1 unless Sized is set
	Sized   *SizeRef // record count declared elsewhere in the deck
}

var (
	ntpvt  = SizeRef{Keyword: "TABDIMS", Item: NTPVTItem}
	ntsfun = SizeRef{Keyword: "TABDIMS", Item: NTSFUNItem}
)

// builtins is the keyword-table subset the parser understands. Keywords not
// listed here are skipped tolerantly.
var builtins = map[string]Meta{
	"TABDIMS": {Name: "TABDIMS", Layout: LayoutItems, Records: 1},

	// PVT region keywords, sized by TABDIMS NTPVT.
	"DENSITY": {Name: "DENSITY", Layout: LayoutItems, Sized: &ntpvt},
	"PVTW":    {Name: "PVTW", Layout: LayoutItems, Sized: &ntpvt},
	"ROCK":    {Name: "ROCK", Layout: LayoutItems, Sized: &ntpvt},
	"PVTO":    {Name: "PVTO", Layout: LayoutData, Sized: &ntpvt},
	"PVTG":    {Name: "PVTG", Layout: LayoutData, Sized: &ntpvt},
	"PVDG":    {Name: "PVDG", Layout: LayoutData, Sized: &ntpvt},
	"PVDO":    {Name: "PVDO", Layout: LayoutData, Sized: &ntpvt},

	// Saturation-function keywords, sized by TABDIMS NTSFUN.
	"SWOF":  {Name: "SWOF", Layout: LayoutData, Sized: &ntsfun},
	"SGOF":  {Name: "SGOF", Layout: LayoutData, Sized: &ntsfun},
	"SLGOF": {Name: "SLGOF", Layout: LayoutData, Sized: &ntsfun},
	"SWFN":  {Name: "SWFN", Layout: LayoutData, Sized: &ntsfun},
	"SGFN":  {Name: "SGFN", Layout: LayoutData, Sized: &ntsfun},
	"SOF2":  {Name: "SOF2", Layout: LayoutData, Sized: &ntsfun},
	"SOF3":  {Name: "SOF3", Layout: LayoutData, Sized: &ntsfun},
}

// MetaFor returns the parser metadata for a keyword, if it is part of the
// supported subset.
func MetaFor(name string) (Meta, bool) {
	m, ok := builtins[name]
	return m, ok
}
