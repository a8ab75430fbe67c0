// Package vcf reads the header of a reference VCF file: its meta-information
// lines, the declared contigs and INFO fields.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brentp/vcfgo"
	"github.com/brentp/xopen"
)

// ReadHeader reads the header of the VCF file at path.
// Supports plain and gzipped VCF files, and '-' for stdin.
// Only the header is consumed; variant records are never read.
func ReadHeader(path string) (*Header, error) {
	rdr, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}
	defer rdr.Close()

	return ParseHeader(rdr)
}

// ParseHeader reads VCF header lines from r up to and including the #CHROM line.
func ParseHeader(r io.Reader) (*Header, error) {
	br := bufio.NewReader(r)
	h := &Header{infos: make(map[string]bool)}
	lineNumber := 0

	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read header: %w", err)
		}
		if line == "" && err == io.EOF {
			break
		}
		lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			h.meta = append(h.meta, line)
		} else if strings.HasPrefix(line, "#CHROM") {
			h.chrom = line
			h.index()
			return h, nil
		} else if line != "" {
			return nil, &ParseError{
				Line:    lineNumber,
				Message: "expected #CHROM header line",
			}
		}

		if err == io.EOF {
			break
		}
	}

	return nil, &ParseError{
		Line:    lineNumber,
		Message: "no #CHROM header line found",
	}
}

const (
	contigPrefix = "##contig="
	infoPrefix   = "##INFO="

	// Framing lines around the declarations handed to vcfgo.
	declFileFormat = "##fileformat=VCFv4.2"
	declChromLine  = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"
)

// index resolves the contig and INFO declarations of the collected header
// lines. Other meta lines are never validated. A declaration vcfgo rejects
// is recorded as a warning and its ID is taken from the raw line.
func (h *Header) index() {
	var decls []string
	for _, line := range h.meta {
		if strings.HasPrefix(line, contigPrefix) || strings.HasPrefix(line, infoPrefix) {
			decls = append(decls, line)
		}
	}

	var names []string
	if hdr, err := readDeclarations(decls); err == nil {
		for _, contig := range hdr.Contigs {
			if id := contig["ID"]; id != "" {
				names = append(names, id)
			}
		}
		for id := range hdr.Infos {
			h.infos[id] = true
		}
	} else {
		// Resolve line by line so a bad declaration only affects itself.
		for _, line := range decls {
			id, err := readDeclaration(line)
			if err != nil {
				h.warnings = append(h.warnings, fmt.Sprintf("%s: %v", line, err))
			}
			if id == "" {
				continue
			}
			if strings.HasPrefix(line, contigPrefix) {
				names = append(names, id)
			} else {
				h.infos[id] = true
			}
		}
	}
	h.contigs = NewContigs(names)
}

// readDeclarations parses contig and INFO lines with vcfgo. A panic inside
// vcfgo is returned as an error.
func readDeclarations(lines []string) (hdr *vcfgo.Header, err error) {
	defer func() {
		if r := recover(); r != nil {
			hdr, err = nil, fmt.Errorf("vcfgo: %v", r)
		}
	}()

	var b strings.Builder
	b.WriteString(declFileFormat + "\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(declChromLine + "\n")

	rdr, err := vcfgo.NewReader(strings.NewReader(b.String()), true)
	if rdr == nil {
		return nil, err
	}
	return rdr.Header, err
}

// readDeclaration returns the ID declared by a single contig or INFO line.
func readDeclaration(line string) (string, error) {
	hdr, err := readDeclarations([]string{line})
	if err != nil {
		return declaredID(line), err
	}
	if strings.HasPrefix(line, contigPrefix) {
		if len(hdr.Contigs) == 1 {
			return hdr.Contigs[0]["ID"], nil
		}
	} else {
		for id := range hdr.Infos {
			return id, nil
		}
	}
	return declaredID(line), fmt.Errorf("declaration not recognized")
}

// declaredID extracts the ID= value from a structured meta line such as
// ##contig=<ID=1,length=249250621>.
func declaredID(line string) string {
	_, body, ok := strings.Cut(line, "=<")
	if !ok {
		return ""
	}
	body = strings.TrimSuffix(body, ">")
	for _, field := range strings.Split(body, ",") {
		key, val, ok := strings.Cut(field, "=")
		if ok && strings.TrimSpace(key) == "ID" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// ParseError represents an error during VCF header parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
