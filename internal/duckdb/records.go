package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/cosmic-sv2vcf/internal/output"
	"github.com/inodb/cosmic-sv2vcf/internal/sv"
)

// StoredRecord is a row of the sv_records table.
type StoredRecord struct {
	Chrom1 string
	Pos1   int64
	Chrom2 string
	Pos2   int64
	SVType string
	CT     string
	Info   string // full INFO column as written to the VCF
}

// WriteRecords batch-inserts SV records using the Appender API.
func (s *Store) WriteRecords(records []*sv.Record) error {
	if len(records) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "sv_records")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range records {
		if err := appender.AppendRow(
			r.Chrom1, r.Pos1, r.Chrom2, r.Pos2,
			string(r.Type), string(r.Connection), output.FormatInfo(r),
		); err != nil {
			return fmt.Errorf("append sv record: %w", err)
		}
	}

	return appender.Flush()
}

// ClearRecords removes all stored records and the input fingerprints of the
// conversion that produced them.
func (s *Store) ClearRecords() error {
	for _, table := range []string{"sv_records", "conversion_inputs"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// CountByType returns the number of stored records per SV type.
func (s *Store) CountByType() (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT svtype, count(*) FROM sv_records GROUP BY svtype`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var svType string
		var n int64
		if err := rows.Scan(&svType, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[svType] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// RecordsByChrom returns the records with either breakend on chrom,
// ordered by first breakend position.
func (s *Store) RecordsByChrom(chrom string) ([]StoredRecord, error) {
	rows, err := s.db.Query(`SELECT
		chrom1, pos1, chrom2, pos2, svtype, ct, info
		FROM sv_records
		WHERE chrom1=? OR chrom2=?
		ORDER BY pos1, pos2`, chrom, chrom)
	if err != nil {
		return nil, fmt.Errorf("query by chrom: %w", err)
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var r StoredRecord
		if err := rows.Scan(&r.Chrom1, &r.Pos1, &r.Chrom2, &r.Pos2, &r.SVType, &r.CT, &r.Info); err != nil {
			return nil, fmt.Errorf("scan sv record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sv records: %w", err)
	}
	return records, nil
}
