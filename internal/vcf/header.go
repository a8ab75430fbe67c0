package vcf

import "fmt"

// Info is an INFO field declaration.
type Info struct {
	ID          string
	Number      string
	Type        string
	Description string
}

// String renders the declaration as a ##INFO header line.
func (i Info) String() string {
	return fmt.Sprintf("##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">",
		i.ID, i.Number, i.Type, i.Description)
}

// Header holds the header of a VCF file.
type Header struct {
	meta    []string        // ## lines in file order
	chrom   string          // #CHROM line
	contigs *Contigs        // declared contigs
	infos   map[string]bool // declared INFO IDs, including added ones
	added   []Info          // INFO fields registered after reading

	warnings []string // declarations vcfgo could not parse
}

// MetaLines returns the ## lines read from the file.
func (h *Header) MetaLines() []string {
	return h.meta
}

// ChromLine returns the #CHROM column header line.
func (h *Header) ChromLine() string {
	return h.chrom
}

// Warnings returns one message per contig or INFO line that could not be
// parsed. Those lines are still written to the output unchanged.
func (h *Header) Warnings() []string {
	return h.warnings
}

// Contigs returns the contigs declared in the header, in file order.
func (h *Header) Contigs() *Contigs {
	return h.contigs
}

// HasInfo reports whether an INFO field with the given ID is declared.
func (h *Header) HasInfo(id string) bool {
	return h.infos[id]
}

// AddInfo registers a new INFO field. It returns false and leaves the
// header unchanged when the ID is already declared.
func (h *Header) AddInfo(info Info) bool {
	if h.infos[info.ID] {
		return false
	}
	h.infos[info.ID] = true
	h.added = append(h.added, info)
	return true
}

// AddedInfos returns the INFO fields registered with AddInfo, in order.
func (h *Header) AddedInfos() []Info {
	return h.added
}

// Clone returns a copy of the header that can be extended independently.
func (h *Header) Clone() *Header {
	c := &Header{
		meta:     append([]string(nil), h.meta...),
		chrom:    h.chrom,
		contigs:  h.contigs,
		infos:    make(map[string]bool, len(h.infos)),
		added:    append([]Info(nil), h.added...),
		warnings: h.warnings,
	}
	for id := range h.infos {
		c.infos[id] = true
	}
	return c
}
