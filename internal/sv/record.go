// Package sv derives VCF structural-variant records from COSMIC rows.
package sv

import "github.com/inodb/cosmic-sv2vcf/internal/cosmic"

// Type is the symbolic SV type written in ALT and SVTYPE.
type Type string

// SV types.
const (
	TypeDeletion    Type = "DEL"
	TypeInsertion   Type = "INS"
	TypeDuplication Type = "DUP"
	TypeInversion   Type = "INV"
	TypeBreakend    Type = "BND"
	TypeCopyNumber  Type = "SCNA"
)

// Connection is the breakend connection type written in CT, e.g. "3to5"
// joins the 3' end of the first breakpoint to the 5' end of the second.
type Connection string

// Connection types. ConnectionNone means CT is omitted.
const (
	ConnectionNone Connection = ""
	Connection3to5 Connection = "3to5"
	Connection5to3 Connection = "5to3"
	Connection3to3 Connection = "3to3"
	Connection5to5 Connection = "5to5"
	ConnectionNtoN Connection = "NtoN"
)

// Record is a structural variant ready to be written as a VCF line.
type Record struct {
	Chrom1     string
	Pos1       int64
	Chrom2     string
	Pos2       int64
	Type       Type
	Connection Connection

	// Info holds the pass-through INFO values keyed by derived INFO key,
	// in source column order. Values are space-stripped and non-empty.
	Info *cosmic.OrderedMap[string, string]
}
