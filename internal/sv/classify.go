package sv

// COSMIC mutation type strings.
const (
	MutIntraDeletion    = "intrachromosomal deletion"
	MutIntraInsertion   = "intrachromosomal insertion"
	MutIntraTandemDup   = "intrachromosomal tandem duplication"
	MutIntraInversion   = "intrachromosomal inversion"
	MutIntraInverted    = "intrachromosomal with inverted orientation"
	MutIntraNonInverted = "intrachromosomal with non-inverted orientation"
	MutIntraUnknown     = "Intrachromosomal unknown type"
	MutInterUnknown     = "Interchromosomal unknown type"
)

// intrachromosomal maps same-chromosome mutation types to SV type and
// connection. Inversions resolve their connection from the strand.
var intrachromosomal = map[string]struct {
	svType Type
	ct     Connection
}{
	MutIntraDeletion:    {TypeDeletion, Connection3to5},
	MutIntraInsertion:   {TypeInsertion, ConnectionNtoN},
	MutIntraTandemDup:   {TypeDuplication, Connection5to3},
	MutIntraInversion:   {TypeInversion, ConnectionNone},
	MutIntraInverted:    {TypeInversion, ConnectionNone},
	MutIntraNonInverted: {TypeDeletion, Connection3to5},
	MutIntraUnknown:     {TypeDeletion, Connection3to5},
}

// breakendConnections maps the strand pair of a translocation to its connection.
var breakendConnections = map[string]Connection{
	"+to+": Connection3to5,
	"-to-": Connection5to3,
	"+to-": Connection3to3,
	"-to+": Connection5to5,
}

// Classify resolves the SV type and connection for a breakpoint pair.
// strand is "<first>to<second>" for the canonical breakend order.
// ok is false when the mutation type is not recognized.
func Classify(sameChrom bool, mutationType, strand string) (svType Type, ct Connection, ok bool) {
	if !sameChrom {
		if mutationType != MutInterUnknown {
			return "", ConnectionNone, false
		}
		// Unlisted strand pairs keep the BND type without CT.
		return TypeBreakend, breakendConnections[strand], true
	}

	entry, ok := intrachromosomal[mutationType]
	if !ok {
		return "", ConnectionNone, false
	}
	if entry.svType == TypeInversion {
		if strand == "+to+" || strand == "+to-" {
			return TypeInversion, Connection3to3, true
		}
		return TypeInversion, Connection5to5, true
	}
	return entry.svType, entry.ct, true
}
