package vcf

import "github.com/samber/lo"

// Contigs is the ordered list of contig names declared by a VCF header.
// The ordinal of a contig is its position in the header; a name declared
// twice keeps its first position.
type Contigs struct {
	names []string
	index map[string]int
}

// NewContigs builds a contig list from names in header order.
func NewContigs(names []string) *Contigs {
	uniq := lo.Uniq(names)
	index := make(map[string]int, len(uniq))
	for i, name := range uniq {
		index[name] = i
	}
	return &Contigs{names: uniq, index: index}
}

// Index returns the ordinal of the named contig.
func (c *Contigs) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Contains reports whether the contig is declared.
func (c *Contigs) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Names returns the contig names in header order.
func (c *Contigs) Names() []string {
	return c.names
}

// Len returns the number of distinct contigs.
func (c *Contigs) Len() int {
	return len(c.names)
}
