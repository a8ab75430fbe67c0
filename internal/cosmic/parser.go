package cosmic

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brentp/xopen"
)

// Row is one record of a COSMIC export.
type Row struct {
	Line   int    // 1-based line number in the source file
	Format Format // layout of the export the row came from
	GRCh   string // genome build, e.g. "37" or "38"

	// Breakpoint exports
	ChromFrom       string
	LocationFromMin int64
	LocationFromMax int64
	StrandFrom      string
	ChromTo         string
	LocationToMin   int64
	LocationToMax   int64
	StrandTo        string
	MutationType    string

	// Segment exports: the raw "chrom:start..stop" value
	Segment string

	// Fields holds every non-reserved column in header order.
	Fields *OrderedMap[string, string]
}

// columnIndices holds the indices of the reserved columns, -1 when absent.
type columnIndices struct {
	GRCh            int
	ChromFrom       int
	LocationFromMin int
	LocationFromMax int
	StrandFrom      int
	ChromTo         int
	LocationToMin   int
	LocationToMax   int
	StrandTo        int
	MutationType    int
	Segment         int
}

// Parser reads rows from a tab-separated COSMIC export.
type Parser struct {
	reader     *xopen.Reader
	lineNumber int
	columns    []string
	indices    columnIndices
	format     Format
}

// NewParser creates a parser for the given file.
// Supports both plain and gzipped files, and '-' for stdin.
func NewParser(path string) (*Parser, error) {
	rdr, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("open cosmic file: %w", err)
	}

	p := &Parser{reader: rdr}
	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// readLine returns the next line without its terminator, or io.EOF.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// parseHeader reads the column header line and resolves column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.readLine()
		if err != nil {
			if err == io.EOF {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			return fmt.Errorf("read header: %w", err)
		}

		if line == "" {
			continue
		}

		p.columns = splitFields(line)
		return p.parseColumnIndices()
	}
}

// parseColumnIndices locates the reserved columns and picks the export format.
func (p *Parser) parseColumnIndices() error {
	p.indices = columnIndices{
		GRCh:            -1,
		ChromFrom:       -1,
		LocationFromMin: -1,
		LocationFromMax: -1,
		StrandFrom:      -1,
		ChromTo:         -1,
		LocationToMin:   -1,
		LocationToMax:   -1,
		StrandTo:        -1,
		MutationType:    -1,
		Segment:         -1,
	}

	for i, col := range p.columns {
		switch col {
		case ColGRCh:
			p.indices.GRCh = i
		case ColChromFrom:
			p.indices.ChromFrom = i
		case ColLocationFromMin:
			p.indices.LocationFromMin = i
		case ColLocationFromMax:
			p.indices.LocationFromMax = i
		case ColStrandFrom:
			p.indices.StrandFrom = i
		case ColChromTo:
			p.indices.ChromTo = i
		case ColLocationToMin:
			p.indices.LocationToMin = i
		case ColLocationToMax:
			p.indices.LocationToMax = i
		case ColStrandTo:
			p.indices.StrandTo = i
		case ColMutationType:
			p.indices.MutationType = i
		case ColSegment:
			p.indices.Segment = i
		}
	}

	if p.indices.GRCh == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("required column '%s' not found in header", ColGRCh),
		}
	}

	if p.indices.Segment >= 0 {
		p.format = FormatSegment
		return nil
	}

	p.format = FormatBreakpoint
	present := make(map[string]bool, len(p.columns))
	for _, col := range p.columns {
		present[col] = true
	}
	for _, col := range breakpointColumns {
		if !present[col] {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column '%s' not found in header", col),
			}
		}
	}
	return nil
}

// Next reads the next row.
// Returns nil, nil when there are no more rows.
func (p *Parser) Next() (*Row, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		if line == "" {
			continue
		}
		return p.parseLine(line)
	}
}

// splitFields splits a tab-separated line and removes CSV-style quoting:
// a field wrapped in double quotes loses them and "" inside it becomes ".
func splitFields(line string) []string {
	fields := strings.Split(line, "\t")
	for i, f := range fields {
		if len(f) >= 2 && f[0] == '"' && f[len(f)-1] == '"' {
			fields[i] = strings.ReplaceAll(f[1:len(f)-1], `""`, `"`)
		}
	}
	return fields
}

// parseLine parses a single data line. Missing trailing fields read as empty.
func (p *Parser) parseLine(line string) (*Row, error) {
	fields := splitFields(line)
	field := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	row := &Row{
		Line:   p.lineNumber,
		Format: p.format,
		GRCh:   field(p.indices.GRCh),
		Fields: NewOrderedMap[string, string](len(p.columns)),
	}

	for i, col := range p.columns {
		if !ReservedColumns[col] {
			row.Fields.Set(col, field(i))
		}
	}

	if p.format == FormatSegment {
		row.Segment = field(p.indices.Segment)
		return row, nil
	}

	row.ChromFrom = field(p.indices.ChromFrom)
	row.StrandFrom = field(p.indices.StrandFrom)
	row.ChromTo = field(p.indices.ChromTo)
	row.StrandTo = field(p.indices.StrandTo)
	row.MutationType = field(p.indices.MutationType)

	locations := []struct {
		col string
		idx int
		dst *int64
	}{
		{ColLocationFromMin, p.indices.LocationFromMin, &row.LocationFromMin},
		{ColLocationFromMax, p.indices.LocationFromMax, &row.LocationFromMax},
		{ColLocationToMin, p.indices.LocationToMin, &row.LocationToMin},
		{ColLocationToMax, p.indices.LocationToMax, &row.LocationToMax},
	}
	for _, loc := range locations {
		v, err := strconv.ParseInt(strings.TrimSpace(field(loc.idx)), 10, 64)
		if err != nil {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("invalid %s: %q", loc.col, field(loc.idx)),
			}
		}
		*loc.dst = v
	}

	return row, nil
}

// Columns returns the header columns in file order.
func (p *Parser) Columns() []string {
	return p.columns
}

// Format returns the detected export format.
func (p *Parser) Format() Format {
	return p.format
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.reader != nil {
		return p.reader.Close()
	}
	return nil
}

// ParseError represents an error during COSMIC parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cosmic parse error at line %d: %s", e.Line, e.Message)
}
