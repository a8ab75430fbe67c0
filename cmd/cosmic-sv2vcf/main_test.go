package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRef = "##fileformat=VCFv4.2\n" +
	"##contig=<ID=1>\n" +
	"##contig=<ID=chr1>\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

const testBreaks = "Sample name\tGRCh\tChrom From\tLocation From min\tLocation From max\tStrand From\tChrom To\tLocation To min\tLocation To max\tStrand To\tMutation Type\n" +
	"PD1\t37\t1\t100\t100\t+\t1\t900\t900\t+\tintrachromosomal deletion\n" +
	"PD2\t38\t1\t100\t100\t+\t1\t900\t900\t+\tintrachromosomal deletion\n"

// execute runs the root command with a fresh viper state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupFiles(t *testing.T) (dir, ref, breaks string) {
	t.Helper()
	dir = t.TempDir()
	ref = filepath.Join(dir, "ref.vcf")
	breaks = filepath.Join(dir, "breaks.tsv")
	require.NoError(t, os.WriteFile(ref, []byte(testRef), 0644))
	require.NoError(t, os.WriteFile(breaks, []byte(testBreaks), 0644))
	return dir, ref, breaks
}

func readBody(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var body []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if !strings.HasPrefix(line, "#") {
			body = append(body, line)
		}
	}
	return body
}

func TestConvertCommand(t *testing.T) {
	dir, ref, breaks := setupFiles(t)
	out := filepath.Join(dir, "out.vcf")

	_, err := execute(t, "convert",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--log-level", "error",
		"-v", ref, "-b", breaks, "-o", out)
	require.NoError(t, err)

	body := readBody(t, out)
	require.Len(t, body, 2)
	assert.True(t, strings.HasPrefix(body[0], "1\t100\t.\tN\t<DEL>"))
	assert.True(t, strings.HasPrefix(body[1], "chr1\t100\t.\tN\t<DEL>"))
}

func TestRootCommand_ConvertsWithoutSubcommand(t *testing.T) {
	dir, ref, breaks := setupFiles(t)
	out := filepath.Join(dir, "out.vcf")

	_, err := execute(t, "--log-level", "error", "-v", ref, "-b", breaks, "-o", out, "--prefix-build", "37")
	require.NoError(t, err)

	body := readBody(t, out)
	require.Len(t, body, 2)
	assert.True(t, strings.HasPrefix(body[0], "chr1\t"))
	assert.True(t, strings.HasPrefix(body[1], "1\t"))
}

func TestRootCommand_NoFlagsShowsHelp(t *testing.T) {
	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--break")
}

func TestRecordsCommand(t *testing.T) {
	dir, ref, breaks := setupFiles(t)
	db := filepath.Join(dir, "sv.duckdb")

	_, err := execute(t, "convert", "--log-level", "error",
		"-v", ref, "-b", breaks, "-o", filepath.Join(dir, "out.vcf"), "--db", db)
	require.NoError(t, err)

	out, err := execute(t, "records", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "DEL\t2\n", out)

	out, err = execute(t, "records", "--db", db, "--chrom", "chr1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "chr1\t100\tchr1\t900\tDEL\t"))

	_, err = execute(t, "records")
	var usage *usageError
	require.ErrorAs(t, err, &usage)
}

func TestConvertCommand_PrefixBuildFromConfig(t *testing.T) {
	dir, ref, breaks := setupFiles(t)
	out := filepath.Join(dir, "out.vcf")
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("prefix-build: \"37\"\nlog-level: error\n"), 0644))

	_, err := execute(t, "convert", "--config", cfg, "-v", ref, "-b", breaks, "-o", out)
	require.NoError(t, err)

	body := readBody(t, out)
	require.Len(t, body, 2)
	assert.True(t, strings.HasPrefix(body[0], "chr1\t"))
	assert.True(t, strings.HasPrefix(body[1], "1\t"))
}

func TestConvertCommand_MissingFlag(t *testing.T) {
	_, ref, breaks := setupFiles(t)

	_, err := execute(t, "convert", "-v", ref, "-b", breaks)
	var usage *usageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), "--out is required")
}

func TestConvertCommand_BadLogLevel(t *testing.T) {
	dir, ref, breaks := setupFiles(t)

	_, err := execute(t, "convert", "--log-level", "loud",
		"-v", ref, "-b", breaks, "-o", filepath.Join(dir, "out.vcf"))
	var usage *usageError
	require.ErrorAs(t, err, &usage)
}

func TestConfigSetGet(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "config", "set", "prefix-build", "37", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Set prefix-build = 37")

	out, err = execute(t, "config", "get", "prefix-build", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "37\n", out)

	_, err = execute(t, "config", "set", "colour", "blue", "--config", cfg)
	var usage *usageError
	require.ErrorAs(t, err, &usage)
}

func TestConfigShow(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("chr-prefix: Chr\n"), 0644))

	out, err := execute(t, "config", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "chr-prefix: Chr")
}

func TestConfigHelpListsKeys(t *testing.T) {
	out, err := execute(t, "config", "--help")
	require.NoError(t, err)
	for _, key := range []string{keyChrPrefix, keyPrefixBuild, keyLogLevel, "COSMIC_SV2VCF_"} {
		assert.Contains(t, out, key)
	}
}
