package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/cosmic-sv2vcf/internal/convert"
	"github.com/inodb/cosmic-sv2vcf/internal/sv"
)

const convertExample = `  cosmic-sv2vcf -v ref.vcf.gz -b CosmicBreakpointsExport.tsv.gz -o cosmic.sv.vcf
  cosmic-sv2vcf convert -v ref.vcf.gz -b CosmicCompleteCNA.tsv.gz -o cosmic.cna.vcf --db cosmic.duckdb
  cosmic-sv2vcf convert -v ref.vcf -b breaks.tsv -o out.vcf --prefix-build 37`

func newConvertCmd() *cobra.Command {
	var opts convert.Options

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a COSMIC SV or CNA export to VCF",
		Long: `Convert a COSMIC breakpoint or copy-number export to VCF.

The reference VCF supplies the valid contigs and the header scaffold. Every
COSMIC column that is not consumed by the conversion is copied into INFO under
its name with spaces removed, upper-cased.`,
		Example: convertExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts)
		},
	}
	addConvertFlags(cmd, &opts)

	return cmd
}

// addConvertFlags registers the conversion flags on cmd. The root command
// carries them too, so "convert" can be omitted.
func addConvertFlags(cmd *cobra.Command, opts *convert.Options) {
	cmd.Flags().StringVarP(&opts.VCFPath, "vcf", "v", "", "input VCF file (required)")
	cmd.Flags().StringVarP(&opts.BreakPath, "break", "b", "", "COSMIC breakpoint or CNA export, optionally gzipped (required)")
	cmd.Flags().StringVarP(&opts.OutPath, "out", "o", "", "output VCF file (required)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "also store converted records in this DuckDB file, replacing its contents")
	cmd.Flags().String(keyChrPrefix, "chr", "prefix added to chromosome names of prefixed-build rows")
	cmd.Flags().String(keyPrefixBuild, "38", "GRCh build whose chromosome names get the prefix")
}

func runConvert(cmd *cobra.Command, opts convert.Options) error {
	for _, f := range []struct{ name, value string }{
		{"vcf", opts.VCFPath},
		{"break", opts.BreakPath},
		{"out", opts.OutPath},
	} {
		if f.value == "" {
			return &usageError{fmt.Errorf("--%s is required", f.name)}
		}
	}

	// Bound here rather than at construction: root and convert both define
	// these flags and only the executing command's values count.
	viper.BindPFlag(keyChrPrefix, cmd.Flags().Lookup(keyChrPrefix))
	viper.BindPFlag(keyPrefixBuild, cmd.Flags().Lookup(keyPrefixBuild))

	logger, err := newLogger(viper.GetString(keyLogLevel))
	if err != nil {
		return &usageError{err}
	}
	defer logger.Sync() //nolint:errcheck

	opts.Naming = sv.Options{
		ChrPrefix:   viper.GetString(keyChrPrefix),
		PrefixBuild: viper.GetString(keyPrefixBuild),
	}

	_, err = convert.Run(cmd.Context(), opts, logger)
	return err
}
