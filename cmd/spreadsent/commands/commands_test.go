package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spreadsent/pkg/batch"
	"github.com/Sumatoshi-tech/spreadsent/pkg/persist"
)

const timelinesJSON = `{
	"spreader": ["This news is out of this world!!! 😀", "", "I hate fake news"],
	"reader": ["Good day", "so happy :)"]
}`

func TestRequireFlags(t *testing.T) {
	t.Parallel()

	require.NoError(t, requireFlags("in", "a.json", "out", "b.json"))
	require.NoError(t, requireFlags())

	err := requireFlags("in", "a.json", "out", "")
	require.ErrorIs(t, err, ErrMissingFlag)
	assert.Contains(t, err.Error(), "--out")
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	var g GlobalOptions

	tests := []struct {
		cmd   func(*GlobalOptions) *cobra.Command
		flags []string
	}{
		{NewRunCommand, []string{"in", "out-dir", "codec"}},
		{NewPreprocessCommand, []string{"in", "out"}},
		{NewScoreCommand, []string{"in", "out"}},
		{NewAggregateCommand, []string{"in", "out"}},
		{NewReportCommand, []string{"scores", "aggregates", "labels", "format", "top"}},
	}

	for _, tt := range tests {
		cmd := tt.cmd(&g)

		for _, name := range tt.flags {
			assert.NotNil(t, cmd.Flags().Lookup(name), "%s: missing --%s", cmd.Name(), name)
		}
	}

	convert, _, err := NewLexiconCommand(&g).Find([]string{"convert"})
	require.NoError(t, err)

	for _, name := range []string{"in", "out", "container", "index"} {
		assert.NotNil(t, convert.Flags().Lookup(name), "convert: missing --%s", name)
	}

	lookup, _, err := NewLexiconCommand(&g).Find([]string{"lookup"})
	require.NoError(t, err)

	for _, name := range []string{"in", "prefix", "format"} {
		assert.NotNil(t, lookup.Flags().Lookup(name), "lookup: missing --%s", name)
	}
}

func TestMissingFlagsFailBeforeSetup(t *testing.T) {
	t.Parallel()

	_, err := execute(t, NewRunCommand, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, ErrMissingFlag)

	_, err = execute(t, NewReportCommand)
	require.ErrorIs(t, err, ErrMissingFlag)
}

func TestRunCommand(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, "")
	in := filepath.Join(dir, "timelines.json")
	write(t, in, timelinesJSON)

	outDir := filepath.Join(dir, "out")

	out, err := execute(t, NewRunCommand, "--config", configPath, "--in", in, "--out-dir", outDir, "--codec", "lz4")
	require.NoError(t, err)
	assert.Contains(t, out, "run: 2 entities, 4 units scored, 1 empty, 0 skipped")
	assert.Contains(t, out, "aggregates.json.lz4")

	res, err := batch.NewOutputs(persist.NewLZ4Codec()).Load(outDir)
	require.NoError(t, err)

	assert.Len(t, res.Corpus["spreader"], 3)
	assert.Empty(t, res.Corpus["spreader"][1])
	assert.Contains(t, res.Corpus["spreader"][0], "out of this world")
	assert.Equal(t, 0.0, res.Scores["spreader"]["2"])
	assert.Len(t, res.Scores["reader"], 2)

	for entity, intensity := range res.Aggregates {
		assert.GreaterOrEqual(t, intensity, 0.0, entity)
		assert.LessOrEqual(t, intensity, 1.0, entity)
	}
}

func TestStagedPipelineMatchesRun(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, "output:\n  codec: gob\n")
	in := filepath.Join(dir, "timelines.json")
	write(t, in, timelinesJSON)

	ngrams := filepath.Join(dir, "ngrams.gob")
	scores := filepath.Join(dir, "scores.json")
	aggregates := filepath.Join(dir, "aggregates.json")

	_, err := execute(t, NewPreprocessCommand, "--config", configPath, "--in", in, "--out", ngrams)
	require.NoError(t, err)

	_, err = execute(t, NewScoreCommand, "--config", configPath, "--in", ngrams, "--out", scores)
	require.NoError(t, err)

	_, err = execute(t, NewAggregateCommand, "--config", configPath, "--in", scores, "--out", aggregates, "-q")
	require.NoError(t, err)

	outDir := filepath.Join(dir, "run")

	_, err = execute(t, NewRunCommand, "--config", configPath, "--in", in, "--out-dir", outDir, "-q")
	require.NoError(t, err)

	run, err := batch.NewOutputs(persist.NewGobCodec()).Load(outDir)
	require.NoError(t, err)

	var staged batch.Aggregates
	require.NoError(t, batch.LoadSnapshot(aggregates, nil, &staged))
	assert.Equal(t, run.Aggregates, staged)

	var stagedScores batch.Scores
	require.NoError(t, batch.LoadSnapshot(scores, nil, &stagedScores))
	assert.Equal(t, run.Scores, stagedScores)
}

func TestReportCommand(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, "")

	scores := filepath.Join(dir, "scores.json")
	require.NoError(t, batch.SaveSnapshot(scores, nil, sampleScores()))

	labels := filepath.Join(dir, "labels.json")
	write(t, labels, `{"alice": "fake", "bob": "real"}`)

	out, err := execute(t, NewReportCommand, "--config", configPath,
		"--scores", scores, "--labels", labels, "--format", "json", "--top", "2")
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Entities, 2)
	assert.Equal(t, "alice", report.Entities[0].Entity)
	assert.Len(t, report.Labels, 3)
}

func TestLexiconConvertCommand(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t, "")
	out := filepath.Join(dir, "senticnet.json")

	stdout, err := execute(t, NewLexiconCommand, "convert", "--config", configPath,
		"--in", filepath.Join(dir, "senticnet.py"), "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "5 entries, 1 lines skipped")

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var table map[string][]any
	require.NoError(t, json.Unmarshal(data, &table))
	assert.Len(t, table, 5)
	assert.Equal(t, "-0.6", table["fake_news"][7])
}

func TestLexiconLookupCommand(t *testing.T) {
	t.Parallel()

	_, configPath := workspace(t, "")

	stdout, err := execute(t, NewLexiconCommand, "lookup", "--config", configPath,
		"--format", "json", "fake news", "absent")
	require.NoError(t, err)

	var rows []ConceptRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 2)

	assert.Equal(t, "fake_news", rows[0].Term)
	assert.True(t, rows[0].Found)
	require.NotNil(t, rows[0].Polarity)
	assert.InDelta(t, -0.6, *rows[0].Polarity, 1e-9)
	assert.Equal(t, "lie", rows[0].Record[4])

	assert.Equal(t, "absent", rows[1].Term)
	assert.False(t, rows[1].Found)
	assert.Nil(t, rows[1].Polarity)
}

func TestLexiconLookupCommandPrefix(t *testing.T) {
	t.Parallel()

	_, configPath := workspace(t, "")

	stdout, err := execute(t, NewLexiconCommand, "lookup", "--config", configPath, "--prefix", "out of")
	require.NoError(t, err)
	assert.Contains(t, stdout, "out_of_this_world")
	assert.NotContains(t, stdout, "fake_news")

	_, err = execute(t, NewLexiconCommand, "lookup", "--config", configPath)
	require.ErrorIs(t, err, ErrMissingFlag)
}

func TestRunCommandMissingLexicons(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "spreadsent.yaml")
	write(t, configPath, "logging:\n  level: error\n")

	in := filepath.Join(dir, "timelines.json")
	write(t, in, timelinesJSON)

	_, err := execute(t, NewRunCommand, "--config", configPath, "--in", in, "--out-dir", filepath.Join(dir, "out"))
	require.Error(t, err)
}
