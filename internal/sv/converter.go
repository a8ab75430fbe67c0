package sv

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/cosmic-sv2vcf/internal/cosmic"
	"github.com/inodb/cosmic-sv2vcf/internal/vcf"
)

// Options controls chromosome naming.
type Options struct {
	// ChrPrefix is prepended to chromosome names of rows whose GRCh
	// column equals PrefixBuild.
	ChrPrefix   string
	PrefixBuild string
}

// DefaultOptions returns the naming used by COSMIC: GRCh38 rows are
// matched against "chr"-prefixed contigs.
func DefaultOptions() Options {
	return Options{ChrPrefix: "chr", PrefixBuild: "38"}
}

// Stats counts conversion outcomes.
type Stats struct {
	Rows          int
	Converted     int
	UnknownContig int // dropped: an endpoint is not a reference contig
	UnknownType   int // dropped: mutation type not in the decision table
	ByType        map[Type]int
}

// Converter turns COSMIC rows into SV records.
type Converter struct {
	contigs *vcf.Contigs
	keys    *cosmic.KeyMap
	opts    Options
	logger  *zap.Logger
	stats   Stats
}

// NewConverter creates a converter that accepts endpoints on the given
// contigs and copies the pass-through columns named by keys into INFO.
func NewConverter(contigs *vcf.Contigs, keys *cosmic.KeyMap, opts Options) *Converter {
	return &Converter{
		contigs: contigs,
		keys:    keys,
		opts:    opts,
		logger:  zap.NewNop(),
		stats:   Stats{ByType: make(map[Type]int)},
	}
}

// SetLogger sets the logger for warning and debug messages.
func (c *Converter) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Stats returns the outcome counts so far.
func (c *Converter) Stats() Stats {
	return c.stats
}

// Convert derives the SV record for a row. It returns nil, nil when the
// row is dropped because of an unknown contig or mutation type.
func (c *Converter) Convert(row *cosmic.Row) (*Record, error) {
	c.stats.Rows++

	var (
		rec *Record
		err error
	)
	if row.Format == cosmic.FormatSegment {
		rec, err = c.convertSegment(row)
	} else {
		rec = c.convertBreakpoint(row)
	}
	if err != nil || rec == nil {
		return nil, err
	}

	rec.Info = c.passThrough(row)
	c.stats.Converted++
	c.stats.ByType[rec.Type]++
	return rec, nil
}

// chrom applies the build-dependent chromosome prefix.
func (c *Converter) chrom(build, name string) string {
	if build == c.opts.PrefixBuild {
		return c.opts.ChrPrefix + name
	}
	return name
}

// convertSegment handles copy-number segments ("chrom:start..stop").
func (c *Converter) convertSegment(row *cosmic.Row) (*Record, error) {
	name, coords, _ := strings.Cut(row.Segment, ":")
	chrom := c.chrom(row.GRCh, name)
	if !c.contigs.Contains(chrom) {
		c.dropUnknownContig(row, chrom)
		return nil, nil
	}

	start, end, err := parseRange(coords)
	if err != nil {
		return nil, &cosmic.ParseError{
			Line:    row.Line,
			Message: fmt.Sprintf("invalid %s %q: %v", cosmic.ColSegment, row.Segment, err),
		}
	}
	if start < 1 {
		start = 1
	}
	if start > end {
		start, end = end, start
	}

	return &Record{
		Chrom1: chrom,
		Pos1:   start,
		Chrom2: chrom,
		Pos2:   end,
		Type:   TypeCopyNumber,
	}, nil
}

// parseRange parses "start..stop" or "start-stop".
func parseRange(coords string) (int64, int64, error) {
	parts := strings.Split(strings.ReplaceAll(coords, "..", "-"), "-")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("expected start..stop")
	}
	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	end, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// convertBreakpoint handles breakpoint pairs. Each breakend sits at the
// midpoint of its location range.
func (c *Converter) convertBreakpoint(row *cosmic.Row) *Record {
	chr1 := c.chrom(row.GRCh, row.ChromFrom)
	chr2 := c.chrom(row.GRCh, row.ChromTo)
	start := (row.LocationFromMin + row.LocationFromMax) / 2
	end := (row.LocationToMin + row.LocationToMax) / 2

	idx1, ok := c.contigs.Index(chr1)
	if !ok {
		c.dropUnknownContig(row, chr1)
		return nil
	}
	idx2, ok := c.contigs.Index(chr2)
	if !ok {
		c.dropUnknownContig(row, chr2)
		return nil
	}

	var strand string
	if (idx1 == idx2 && start <= end) || idx1 > idx2 {
		strand = row.StrandFrom + "to" + row.StrandTo
	} else {
		chr1, chr2 = chr2, chr1
		start, end = end, start
		strand = row.StrandTo + "to" + row.StrandFrom
	}

	sameChrom := idx1 == idx2
	svType, ct, ok := Classify(sameChrom, row.MutationType, strand)
	if !ok {
		c.stats.UnknownType++
		msg := "unknown interchromosomal mutation type"
		if sameChrom {
			msg = "unknown intrachromosomal mutation type"
		}
		c.logger.Warn(msg,
			zap.Int("line", row.Line),
			zap.String("mutation_type", row.MutationType))
		return nil
	}

	return &Record{
		Chrom1:     chr1,
		Pos1:       start,
		Chrom2:     chr2,
		Pos2:       end,
		Type:       svType,
		Connection: ct,
	}
}

func (c *Converter) dropUnknownContig(row *cosmic.Row, chrom string) {
	c.stats.UnknownContig++
	c.logger.Debug("skipping row on unknown contig",
		zap.Int("line", row.Line),
		zap.String("chrom", chrom))
}

// passThrough collects the non-empty pass-through values of a row keyed by
// INFO key. Spaces are removed from values.
func (c *Converter) passThrough(row *cosmic.Row) *cosmic.OrderedMap[string, string] {
	info := cosmic.NewOrderedMap[string, string](c.keys.Len())
	for col, key := range c.keys.All() {
		v, _ := row.Fields.Get(col)
		v = strings.ReplaceAll(v, " ", "")
		if v != "" {
			info.Set(key, v)
		}
	}
	return info
}
