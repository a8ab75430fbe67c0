package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// WriteInput records an input file of the conversion under a role
// such as "vcf" or "break".
func (s *Store) WriteInput(role string, fp FileFingerprint) error {
	_, err := s.db.Exec(`INSERT INTO conversion_inputs VALUES (?, ?, ?, ?)`,
		role, fp.Path, fp.Size, fp.ModTime)
	if err != nil {
		return fmt.Errorf("write input %s: %w", role, err)
	}
	return nil
}

// Inputs returns the recorded input files keyed by role.
func (s *Store) Inputs() (map[string]FileFingerprint, error) {
	rows, err := s.db.Query(`SELECT role, path, size, mod_time FROM conversion_inputs`)
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}
	defer rows.Close()

	inputs := make(map[string]FileFingerprint)
	for rows.Next() {
		var role string
		var fp FileFingerprint
		if err := rows.Scan(&role, &fp.Path, &fp.Size, &fp.ModTime); err != nil {
			return nil, fmt.Errorf("scan input: %w", err)
		}
		inputs[role] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inputs: %w", err)
	}
	return inputs, nil
}
