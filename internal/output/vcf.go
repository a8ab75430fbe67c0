// Package output writes converted structural variants as VCF text.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/cosmic-sv2vcf/internal/sv"
	"github.com/inodb/cosmic-sv2vcf/internal/vcf"
)

// WriteHeader writes the header lines with the added INFO lines inserted
// before #CHROM.
func WriteHeader(w io.Writer, h *vcf.Header) error {
	bw := bufio.NewWriter(w)
	for _, line := range h.MetaLines() {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	for _, info := range h.AddedInfos() {
		if _, err := bw.WriteString(info.String() + "\n"); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString(h.ChromLine() + "\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteHeaderFile creates path and writes only the header to it.
func WriteHeaderFile(path string, h *vcf.Header) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := WriteHeader(f, h); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	return f.Close()
}

// BodyWriter writes SV records as VCF data lines.
type BodyWriter struct {
	w    *bufio.Writer
	file *os.File
}

// NewBodyWriter creates a writer for records on w.
func NewBodyWriter(w io.Writer) *BodyWriter {
	return &BodyWriter{w: bufio.NewWriter(w)}
}

// AppendBody opens path for appending records after an existing header.
func AppendBody(path string) (*BodyWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	bw := NewBodyWriter(f)
	bw.file = f
	return bw, nil
}

// Write writes one record line.
func (bw *BodyWriter) Write(rec *sv.Record) error {
	_, err := bw.w.WriteString(FormatRecord(rec))
	return err
}

// Flush flushes buffered lines to the underlying writer.
func (bw *BodyWriter) Flush() error {
	return bw.w.Flush()
}

// Close flushes and closes the underlying file, if it was opened by
// AppendBody. Calling Close again is a no-op.
func (bw *BodyWriter) Close() error {
	err := bw.w.Flush()
	if bw.file != nil {
		if cerr := bw.file.Close(); err == nil {
			err = cerr
		}
		bw.file = nil
	}
	return err
}

// FormatRecord renders a record as a newline-terminated VCF line with a
// symbolic ALT, e.g. "1\t100\t.\tN\t<DEL>\t.\tPASS\tCHR2=1;POS2=900;SVTYPE=DEL;CT=3to5".
func FormatRecord(rec *sv.Record) string {
	var lb strings.Builder
	lb.Grow(128)

	lb.WriteString(rec.Chrom1)
	lb.WriteByte('\t')
	lb.WriteString(strconv.FormatInt(rec.Pos1, 10))
	lb.WriteString("\t.\tN\t<")
	lb.WriteString(string(rec.Type))
	lb.WriteString(">\t.\tPASS\t")
	lb.WriteString(FormatInfo(rec))
	lb.WriteByte('\n')
	return lb.String()
}

// FormatInfo renders the INFO column of a record.
func FormatInfo(rec *sv.Record) string {
	var b strings.Builder
	b.WriteString("CHR2=")
	b.WriteString(rec.Chrom2)
	b.WriteString(";POS2=")
	b.WriteString(strconv.FormatInt(rec.Pos2, 10))
	b.WriteString(";SVTYPE=")
	b.WriteString(string(rec.Type))
	if rec.Connection != sv.ConnectionNone {
		b.WriteString(";CT=")
		b.WriteString(string(rec.Connection))
	}
	if rec.Info != nil {
		for key, val := range rec.Info.All() {
			b.WriteByte(';')
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(val)
		}
	}
	return b.String()
}
