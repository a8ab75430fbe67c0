// Package cosmic reads COSMIC structural-variant and copy-number exports.
package cosmic

// COSMIC column names read as structured fields.
const (
	ColGRCh            = "GRCh"
	ColChromFrom       = "Chrom From"
	ColLocationFromMin = "Location From min"
	ColLocationFromMax = "Location From max"
	ColStrandFrom      = "Strand From"
	ColChromTo         = "Chrom To"
	ColLocationToMin   = "Location To min"
	ColLocationToMax   = "Location To max"
	ColStrandTo        = "Strand To"
	ColMutationType    = "Mutation Type"
	ColSegment         = "Chromosome:G_Start..G_Stop"
)

// ReservedColumns are the columns consumed by the converter. Every other
// column is copied into INFO.
var ReservedColumns = map[string]bool{
	ColGRCh:            true,
	ColChromFrom:       true,
	ColLocationFromMin: true,
	ColLocationFromMax: true,
	ColStrandFrom:      true,
	ColChromTo:         true,
	ColLocationToMin:   true,
	ColLocationToMax:   true,
	ColStrandTo:        true,
	ColMutationType:    true,
	ColSegment:         true,
}

// breakpointColumns must all be present in a breakpoint export.
var breakpointColumns = []string{
	ColGRCh,
	ColChromFrom,
	ColLocationFromMin,
	ColLocationFromMax,
	ColStrandFrom,
	ColChromTo,
	ColLocationToMin,
	ColLocationToMax,
	ColStrandTo,
	ColMutationType,
}

// Format identifies the layout of a COSMIC export.
type Format int

const (
	// FormatBreakpoint rows describe two breakends with strands and a mutation type.
	FormatBreakpoint Format = iota
	// FormatSegment rows describe a copy-number segment in a single
	// "chrom:start..stop" column.
	FormatSegment
)

func (f Format) String() string {
	switch f {
	case FormatSegment:
		return "segment"
	default:
		return "breakpoint"
	}
}
