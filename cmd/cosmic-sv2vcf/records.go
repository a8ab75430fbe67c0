package main

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/inodb/cosmic-sv2vcf/internal/duckdb"
)

func newRecordsCmd() *cobra.Command {
	var (
		dbPath string
		chrom  string
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "Query records stored by convert --db",
		Long: `Query the DuckDB file written by "convert --db".

Without --chrom, prints the number of stored records per SVTYPE. With --chrom,
prints every record with a breakend on that chromosome, ordered by position.`,
		Example: `  cosmic-sv2vcf records --db cosmic.duckdb
  cosmic-sv2vcf records --db cosmic.duckdb --chrom chr7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return &usageError{fmt.Errorf("--db is required")}
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if chrom == "" {
				counts, err := store.CountByType()
				if err != nil {
					return err
				}
				types := lo.Keys(counts)
				slices.Sort(types)
				for _, t := range types {
					fmt.Fprintf(out, "%s\t%d\n", t, counts[t])
				}
				return nil
			}

			records, err := store.RecordsByChrom(chrom)
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(out, "%s\t%d\t%s\t%d\t%s\t%s\n", r.Chrom1, r.Pos1, r.Chrom2, r.Pos2, r.SVType, r.Info)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB file written by convert --db (required)")
	cmd.Flags().StringVar(&chrom, "chrom", "", "only records with a breakend on this chromosome")

	return cmd
}
