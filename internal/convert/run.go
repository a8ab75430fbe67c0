// Package convert runs a COSMIC to VCF conversion end to end.
package convert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/cosmic-sv2vcf/internal/cosmic"
	"github.com/inodb/cosmic-sv2vcf/internal/duckdb"
	"github.com/inodb/cosmic-sv2vcf/internal/output"
	"github.com/inodb/cosmic-sv2vcf/internal/sv"
	"github.com/inodb/cosmic-sv2vcf/internal/vcf"
)

// storeBatchSize is the number of records buffered before writing to DuckDB.
const storeBatchSize = 1000

// Options configures a conversion run.
type Options struct {
	VCFPath   string // reference VCF providing contigs and header
	BreakPath string // COSMIC export, plain or gzipped
	OutPath   string // output VCF
	DBPath    string // optional DuckDB file receiving the records
	Naming    sv.Options
}

// recordInfos declares the INFO keys every record carries.
var recordInfos = []vcf.Info{
	{ID: "CHR2", Number: "1", Type: "String", Description: "Chromosome of the second breakend"},
	{ID: "POS2", Number: "1", Type: "Integer", Description: "Position of the second breakend"},
	{ID: "SVTYPE", Number: "1", Type: "String", Description: "Type of structural variant"},
	{ID: "CT", Number: "1", Type: "String", Description: "Paired-end signature induced connection type"},
}

// Run converts opts.BreakPath into opts.OutPath. The header is written
// first; a duplicate derived INFO key fails the run before the output file
// is created.
func Run(ctx context.Context, opts Options, logger *zap.Logger) (sv.Stats, error) {
	header, err := vcf.ReadHeader(opts.VCFPath)
	if err != nil {
		return sv.Stats{}, err
	}
	logger.Info("loaded reference header",
		zap.String("vcf", opts.VCFPath),
		zap.Int("contigs", header.Contigs().Len()))
	for _, w := range header.Warnings() {
		logger.Warn("unparsed header declaration", zap.String("detail", w))
	}

	keys, err := discoverSchema(opts.BreakPath)
	if err != nil {
		return sv.Stats{}, err
	}
	for _, col := range keys.Skipped() {
		logger.Warn("column not copied to INFO: its key is written by the converter",
			zap.String("column", col),
			zap.String("key", cosmic.DeriveKey(col)))
	}

	out := header.Clone()
	for _, info := range recordInfos {
		out.AddInfo(info)
	}
	for col, key := range keys.All() {
		if !out.AddInfo(vcf.Info{ID: key, Number: "1", Type: "String", Description: col}) {
			logger.Debug("INFO key already declared in reference header", zap.String("key", key))
		}
	}
	if err := output.WriteHeaderFile(opts.OutPath, out); err != nil {
		return sv.Stats{}, err
	}

	var store *duckdb.Store
	if opts.DBPath != "" {
		store, err = openStore(opts)
		if err != nil {
			return sv.Stats{}, err
		}
		defer store.Close()
	}

	conv := sv.NewConverter(header.Contigs(), keys, opts.Naming)
	conv.SetLogger(logger)

	if err := convertRows(ctx, opts, conv, store); err != nil {
		return conv.Stats(), err
	}

	stats := conv.Stats()
	logger.Info("conversion complete",
		zap.Int("rows", stats.Rows),
		zap.Int("written", stats.Converted),
		zap.Int("unknown_contig", stats.UnknownContig),
		zap.Int("unknown_type", stats.UnknownType))
	for svType, n := range stats.ByType {
		logger.Debug("records by type", zap.String("svtype", string(svType)), zap.Int("count", n))
	}
	return stats, nil
}

// discoverSchema reads the export's header and derives the INFO key mapping.
func discoverSchema(path string) (*cosmic.KeyMap, error) {
	p, err := cosmic.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return cosmic.BuildKeyMap(p.Columns())
}

func openStore(opts Options) (*duckdb.Store, error) {
	store, err := duckdb.Open(opts.DBPath)
	if err != nil {
		return nil, err
	}
	// The store holds one conversion at a time.
	if err := store.ClearRecords(); err != nil {
		store.Close()
		return nil, err
	}
	for role, path := range map[string]string{"vcf": opts.VCFPath, "break": opts.BreakPath} {
		fp, err := duckdb.StatFile(path)
		if err != nil {
			// stdin has no fingerprint
			continue
		}
		if err := store.WriteInput(role, fp); err != nil {
			store.Close()
			return nil, err
		}
	}
	return store, nil
}

// convertRows streams the export a second time, appending one line per
// converted row to the output.
func convertRows(ctx context.Context, opts Options, conv *sv.Converter, store *duckdb.Store) error {
	p, err := cosmic.NewParser(opts.BreakPath)
	if err != nil {
		return err
	}
	defer p.Close()

	body, err := output.AppendBody(opts.OutPath)
	if err != nil {
		return err
	}
	defer body.Close()

	var batch []*sv.Record
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, err := p.Next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}

		rec, err := conv.Convert(row)
		if err != nil {
			return err
		}
		if rec == nil {
			continue
		}

		if err := body.Write(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}

		if store != nil {
			batch = append(batch, rec)
			if len(batch) >= storeBatchSize {
				if err := store.WriteRecords(batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}

	if store != nil {
		if err := store.WriteRecords(batch); err != nil {
			return err
		}
	}
	return body.Close()
}
