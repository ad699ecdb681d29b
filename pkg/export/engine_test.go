package export

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dna-hq/netexport/pkg/network"
)

type recorded struct {
	networkType, format, status string
}

type fakeRecorder struct {
	mu       sync.Mutex
	exports  []recorded
	filtered int
	edges    int
}

func (r *fakeRecorder) RecordExport(networkType, format, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exports = append(r.exports, recorded{networkType, format, status})
}

func (r *fakeRecorder) RecordFiltered(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filtered += n
}

func (r *fakeRecorder) RecordNetwork(_ string, _, _, edges int, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = edges
}

func TestEngine_TwoModeToFile(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}
	engine := NewEngine(WithOutputDir(dir), WithRecorder(rec))

	setting := &ExportSetting{
		NetworkType:   TwoModeNetwork,
		StatementType: 1,
		Variable1:     "organization",
		Variable2:     "concept",
		Output:        "nets/affiliation",
	}
	setting.ApplyDefaults(FormatCSV)

	res, err := engine.Run(context.Background(), fixtureSnapshot(), setting)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Statements)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 2, res.Columns)
	assert.Equal(t, 3, res.Edges)
	assert.Equal(t, filepath.Join(dir, "nets", "affiliation.csv"), res.OutputPath)
	require.NotNil(t, res.Network)
	assert.Equal(t, network.TwoMode, res.Network.Mode())

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, ";Tax;Health\nOrg1;1;1\nOrg2;1;0\n", string(data))

	assert.Equal(t, []recorded{{"twoMode", "csv", StatusSuccess}}, rec.exports)
	assert.Equal(t, 3, rec.filtered)
	assert.Equal(t, 3, rec.edges)
}

func TestEngine_OneModeToStdout(t *testing.T) {
	var out bytes.Buffer
	engine := NewEngine(WithStdout(&out))

	setting := &ExportSetting{
		NetworkType:   OneModeNetwork,
		StatementType: 1,
		Variable1:     "organization",
		Variable2:     "concept",
		Qualifier:     "agreement",
	}
	setting.ApplyDefaults(FormatDL)

	res, err := engine.Run(context.Background(), fixtureSnapshot(), setting)
	require.NoError(t, err)

	assert.Empty(t, res.OutputPath)
	assert.True(t, strings.HasPrefix(out.String(), "dl n=2 format=fullmatrix\n"))
	assert.True(t, strings.HasSuffix(out.String(), "data:\n0 1\n1 0\n"))
}

func TestEngine_EventList(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(WithOutputDir(dir))

	setting := &ExportSetting{NetworkType: EventList, StatementType: 1, Output: "events"}
	setting.ApplyDefaults(FormatGraphML)

	res, err := engine.Run(context.Background(), fixtureSnapshot(), setting)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "events.csv"), res.OutputPath)
	assert.Nil(t, res.Network)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "\n"))
}

func TestEngine_EmptyEventList(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}
	engine := NewEngine(WithOutputDir(dir), WithRecorder(rec))

	setting := &ExportSetting{
		NetworkType:   EventList,
		StatementType: 1,
		Output:        "sub/events",
		Start:         date("2030-01-01 00:00:00"),
	}
	setting.ApplyDefaults(FormatCSV)

	_, err := engine.Run(context.Background(), fixtureSnapshot(), setting)
	assert.ErrorIs(t, err, ErrNoStatementSelected)

	_, statErr := os.Stat(filepath.Join(dir, "sub"))
	assert.True(t, os.IsNotExist(statErr), "no output may be created")
	assert.Equal(t, []recorded{{"eventList", "csv", StatusEmpty}}, rec.exports)
}

func TestEngine_EmptyEventListLogsWarning(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := NewEngine(WithOutputDir(t.TempDir()), WithLogger(logger))

	setting := &ExportSetting{
		NetworkType:   EventList,
		StatementType: 1,
		Output:        "events",
		Start:         date("2030-01-01 00:00:00"),
	}
	setting.ApplyDefaults(FormatCSV)

	_, err := engine.Run(context.Background(), fixtureSnapshot(), setting)
	require.ErrorIs(t, err, ErrNoStatementSelected)

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "no statements selected")
	assert.NotContains(t, out, "level=ERROR")
}

func TestEngine_UnsetFormatWritesCSV(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}
	engine := NewEngine(WithOutputDir(dir), WithRecorder(rec))

	setting := &ExportSetting{
		NetworkType:   TwoModeNetwork,
		StatementType: 1,
		Variable1:     "organization",
		Variable2:     "concept",
		Output:        "plain",
	}

	res, err := engine.Run(context.Background(), fixtureSnapshot(), setting)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plain.csv"), res.OutputPath)
	assert.Equal(t, FormatCSV, res.Format)
	assert.FileExists(t, res.OutputPath)
	assert.Equal(t, "csv", rec.exports[0].format)
}

func TestEngine_EmptyNetwork(t *testing.T) {
	var out bytes.Buffer
	rec := &fakeRecorder{}
	engine := NewEngine(WithStdout(&out), WithRecorder(rec))

	setting := &ExportSetting{
		NetworkType:   TwoModeNetwork,
		StatementType: 1,
		Variable1:     "person",
		Variable2:     "concept",
		ExcludeValues: map[string][]string{"concept": {"Tax", "Health"}},
	}
	setting.ApplyDefaults(FormatCSV)

	res, err := engine.Run(context.Background(), fixtureSnapshot(), setting)
	require.NoError(t, err)

	assert.Zero(t, res.Statements)
	rows, cols := res.Network.Matrix().Shape()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.Zero(t, res.Network.EdgeList().Len())
	assert.Equal(t, []recorded{{"twoMode", "csv", StatusEmpty}}, rec.exports)
}

func TestEngine_InvalidSetting(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}
	engine := NewEngine(WithOutputDir(dir), WithRecorder(rec))

	setting := &ExportSetting{
		NetworkType:   OneModeNetwork,
		StatementType: 1,
		Variable1:     "person",
		Variable2:     "concept",
		Pattern:       Subtract,
		Output:        "net",
	}
	setting.ApplyDefaults(FormatCSV)

	_, err := engine.Run(context.Background(), fixtureSnapshot(), setting)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, ErrPatternNotImplemented)
	assert.Zero(t, rec.filtered, "nothing is filtered before validation passes")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
	assert.Equal(t, []recorded{{"oneMode", "csv", StatusError}}, rec.exports)
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	setting := &ExportSetting{NetworkType: EventList, StatementType: 1, Output: "events"}
	setting.ApplyDefaults(FormatCSV)

	_, err := NewEngine(WithOutputDir(t.TempDir())).Run(ctx, fixtureSnapshot(), setting)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_RunsAreSerialized(t *testing.T) {
	dir := t.TempDir()
	rec := &fakeRecorder{}
	engine := NewEngine(WithOutputDir(dir), WithRecorder(rec))
	snap := fixtureSnapshot()

	var wg sync.WaitGroup
	runIDs := make([]string, 8)
	for i := range runIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			setting := &ExportSetting{
				NetworkType:   TwoModeNetwork,
				StatementType: 1,
				Variable1:     "person",
				Variable2:     "organization",
				Output:        "net",
			}
			setting.ApplyDefaults(FormatGraphML)
			res, err := engine.Run(context.Background(), snap, setting)
			assert.NoError(t, err)
			runIDs[i] = res.RunID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range runIDs {
		assert.False(t, seen[id], "run ids must be unique")
		seen[id] = true
	}
	assert.Len(t, rec.exports, 8)
	assert.Equal(t, 24, rec.filtered)
}

func TestEngine_CreateFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	setting := &ExportSetting{
		NetworkType:   TwoModeNetwork,
		StatementType: 1,
		Variable1:     "person",
		Variable2:     "concept",
		Output:        filepath.Join(blocker, "net"),
	}
	setting.ApplyDefaults(FormatCSV)

	_, err := NewEngine().Run(context.Background(), fixtureSnapshot(), setting)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "mkdir", ioErr.Op)
}
