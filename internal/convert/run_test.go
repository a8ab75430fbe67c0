package convert

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/cosmic-sv2vcf/internal/cosmic"
	"github.com/inodb/cosmic-sv2vcf/internal/duckdb"
	"github.com/inodb/cosmic-sv2vcf/internal/sv"
)

const refVCF = "##fileformat=VCFv4.2\n" +
	"##contig=<ID=chr1,length=248956422>\n" +
	"##contig=<ID=chr2,length=242193529>\n" +
	"##contig=<ID=chr3,length=198295559>\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

const breaksHeader = "Sample name\tGRCh\tChrom From\tLocation From min\tLocation From max\tStrand From\tChrom To\tLocation To min\tLocation To max\tStrand To\tMutation Type\tPrimary site\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if strings.HasSuffix(name, ".gz") {
		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		return path
	}
	_, err = f.WriteString(content)
	require.NoError(t, err)
	return path
}

func testOptions(t *testing.T, breaks string) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		VCFPath:   writeFile(t, dir, "ref.vcf", refVCF),
		BreakPath: writeFile(t, dir, "breaks.tsv.gz", breaks),
		OutPath:   filepath.Join(dir, "out.vcf"),
		Naming:    sv.DefaultOptions(),
	}
}

// bodyLines returns the non-header lines of the output file.
func bodyLines(t *testing.T, path string) []string {
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

func TestRun_Breakpoints(t *testing.T) {
	breaks := breaksHeader +
		"PD1 a\t38\t1\t100\t200\t+\t1\t5000\t5002\t-\tintrachromosomal deletion\tbreast\n" +
		"PD2\t38\t2\t900\t900\t+\t1\t10\t10\t+\tInterchromosomal unknown type\t\n" +
		"PD3\t38\t7\t1\t1\t+\t7\t9\t9\t+\tintrachromosomal deletion\tlung\n" +
		"PD4\t38\t3\t1\t1\t+\t3\t9\t9\t+\tintrachromosomal fold-back\tlung\n"
	opts := testOptions(t, breaks)

	stats, err := Run(context.Background(), opts, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 2, stats.Converted)
	assert.Equal(t, 1, stats.UnknownContig)
	assert.Equal(t, 1, stats.UnknownType)

	body := bodyLines(t, opts.OutPath)
	require.Len(t, body, 2)
	assert.Equal(t, "chr1\t150\t.\tN\t<DEL>\t.\tPASS\tCHR2=chr1;POS2=5001;SVTYPE=DEL;CT=3to5;SAMPLENAME=PD1a;PRIMARYSITE=breast", body[0])
	assert.Equal(t, "chr2\t900\t.\tN\t<BND>\t.\tPASS\tCHR2=chr1;POS2=10;SVTYPE=BND;CT=3to5;SAMPLENAME=PD2", body[1])
}

func TestRun_HeaderDeclaresInfo(t *testing.T) {
	opts := testOptions(t, breaksHeader)

	stats, err := Run(context.Background(), opts, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, stats.Rows)

	data, err := os.ReadFile(opts.OutPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	var infos []string
	for _, line := range lines {
		if strings.HasPrefix(line, "##INFO=<ID=") {
			id := strings.TrimPrefix(line, "##INFO=<ID=")
			infos = append(infos, id[:strings.IndexByte(id, ',')])
		}
	}
	assert.Equal(t, []string{"CHR2", "POS2", "SVTYPE", "CT", "SAMPLENAME", "PRIMARYSITE"}, infos)
	assert.Contains(t, string(data), `Description="Sample name">`)
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "#CHROM"))
}

func TestRun_DuplicateKeyAbortsBeforeOutput(t *testing.T) {
	breaks := strings.Replace(breaksHeader, "Primary site", "Sample Name", 1) +
		"PD1\t38\t1\t100\t200\t+\t1\t5000\t5002\t-\tintrachromosomal deletion\tx\n"
	opts := testOptions(t, breaks)

	_, err := Run(context.Background(), opts, zap.NewNop())
	var dup *cosmic.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "SAMPLENAME", dup.Key)

	_, err = os.Stat(opts.OutPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_RecordKeyColumnSkipped(t *testing.T) {
	breaks := strings.Replace(breaksHeader, "Primary site", "SV Type", 1) +
		"PD1\t38\t1\t100\t200\t+\t1\t5000\t5002\t-\tintrachromosomal deletion\tcomplex\n"
	opts := testOptions(t, breaks)

	core, logs := observer.New(zapcore.WarnLevel)
	_, err := Run(context.Background(), opts, zap.New(core))
	require.NoError(t, err)

	body := bodyLines(t, opts.OutPath)
	require.Len(t, body, 1)
	assert.Equal(t, "chr1\t150\t.\tN\t<DEL>\t.\tPASS\tCHR2=chr1;POS2=5001;SVTYPE=DEL;CT=3to5;SAMPLENAME=PD1", body[0])

	entries := logs.FilterField(zap.String("column", "SV Type")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SVTYPE", entries[0].ContextMap()["key"])
}

func TestRun_InvalidLocationFails(t *testing.T) {
	breaks := breaksHeader +
		"PD1\t38\t1\tNA\t200\t+\t1\t5000\t5002\t-\tintrachromosomal deletion\tbreast\n"
	opts := testOptions(t, breaks)

	_, err := Run(context.Background(), opts, zap.NewNop())
	var perr *cosmic.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestRun_Segments(t *testing.T) {
	segments := "ID_SAMPLE\tGRCh\tChromosome:G_Start..G_Stop\tMUT_TYPE\n" +
		"1001\t38\t3:0..5000\tgain\n" +
		"1002\t37\t3:10..20\tloss\n"
	opts := testOptions(t, segments)

	stats, err := Run(context.Background(), opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Converted)
	assert.Equal(t, 1, stats.UnknownContig)

	body := bodyLines(t, opts.OutPath)
	require.Len(t, body, 1)
	assert.Equal(t, "chr3\t1\t.\tN\t<SCNA>\t.\tPASS\tCHR2=chr3;POS2=5000;SVTYPE=SCNA;ID_SAMPLE=1001;MUT_TYPE=gain", body[0])
}

func TestRun_WithStore(t *testing.T) {
	breaks := breaksHeader +
		"PD1\t38\t1\t100\t200\t+\t1\t5000\t5002\t-\tintrachromosomal deletion\tbreast\n" +
		"PD2\t38\t1\t100\t200\t+\t1\t5000\t5002\t-\tintrachromosomal tandem duplication\tbreast\n"
	opts := testOptions(t, breaks)
	opts.DBPath = filepath.Join(t.TempDir(), "sv.duckdb")

	_, err := Run(context.Background(), opts, zap.NewNop())
	require.NoError(t, err)

	store, err := duckdb.Open(opts.DBPath)
	require.NoError(t, err)
	defer store.Close()

	counts, err := store.CountByType()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"DEL": 1, "DUP": 1}, counts)

	inputs, err := store.Inputs()
	require.NoError(t, err)
	assert.Equal(t, opts.BreakPath, inputs["break"].Path)
	assert.Equal(t, opts.VCFPath, inputs["vcf"].Path)
}

func TestRun_WithStoreRerun(t *testing.T) {
	breaks := breaksHeader +
		"PD1\t38\t1\t100\t200\t+\t1\t5000\t5002\t-\tintrachromosomal deletion\tbreast\n"
	opts := testOptions(t, breaks)
	opts.DBPath = filepath.Join(t.TempDir(), "sv.duckdb")

	for range 2 {
		_, err := Run(context.Background(), opts, zap.NewNop())
		require.NoError(t, err)
	}

	store, err := duckdb.Open(opts.DBPath)
	require.NoError(t, err)
	defer store.Close()

	counts, err := store.CountByType()
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"DEL": 1}, counts)

	var inputRows int
	require.NoError(t, store.DB().QueryRow(`SELECT count(*) FROM conversion_inputs`).Scan(&inputRows))
	assert.Equal(t, 2, inputRows)
}

func TestRun_Cancelled(t *testing.T) {
	breaks := breaksHeader +
		"PD1\t38\t1\t100\t200\t+\t1\t5000\t5002\t-\tintrachromosomal deletion\tbreast\n"
	opts := testOptions(t, breaks)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, opts, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, bodyLines(t, opts.OutPath))
}

func TestRun_MissingReference(t *testing.T) {
	opts := testOptions(t, breaksHeader)
	opts.VCFPath = filepath.Join(t.TempDir(), "missing.vcf")

	_, err := Run(context.Background(), opts, zap.NewNop())
	assert.Error(t, err)
}
