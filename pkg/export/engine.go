package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"dna-hq/netexport/pkg/corpus"
	"dna-hq/netexport/pkg/network"
	"dna-hq/netexport/pkg/telemetry/logging"
)

// Run status values reported to the Recorder.
const (
	StatusSuccess = "success"
	StatusEmpty   = "empty"
	StatusError   = "error"
)

// Recorder receives measurements from export runs. *metrics.Collector
// implements it.
type Recorder interface {
	RecordExport(networkType, format, status string, duration time.Duration)
	RecordFiltered(n int)
	RecordNetwork(networkType string, rows, cols, edges int, twoMode bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordExport(string, string, string, time.Duration) {}
func (nopRecorder) RecordFiltered(int)                                 {}
func (nopRecorder) RecordNetwork(string, int, int, int, bool)          {}

// Result describes a finished export run.
type Result struct {
	RunID       string        `json:"run_id"`
	NetworkType NetworkType   `json:"network_type"`
	Format      Format        `json:"format"`
	Statements  int           `json:"statements"`
	Rows        int           `json:"rows,omitempty"`
	Columns     int           `json:"columns,omitempty"`
	Edges       int           `json:"edges,omitempty"`
	OutputPath  string        `json:"output_path,omitempty"`
	Duration    time.Duration `json:"duration_ns"`

	// Network is the built network; nil for event lists.
	Network *network.Network `json:"-"`
}

// Engine runs exports: validate, filter, build or tabulate, write. Runs are
// serialized; a second Run waits for the first to finish.
type Engine struct {
	mu sync.Mutex

	recorder  Recorder
	outputDir string
	stdout    io.Writer
	eventList *EventListExporter
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder sets the metrics recorder. Nil disables recording.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r == nil {
			r = nopRecorder{}
		}
		e.recorder = r
	}
}

// WithOutputDir makes relative output paths resolve against dir.
func WithOutputDir(dir string) Option {
	return func(e *Engine) { e.outputDir = dir }
}

// WithStdout sets where networks go when a setting names no output file.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithLogger replaces the engine's component logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		recorder:  nopRecorder{},
		stdout:    os.Stdout,
		eventList: NewEventListExporter(),
		logger:    slog.Default().With("component", "export.engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs one export of snap according to setting.
//
// A setting that does not validate against the snapshot yields a
// *ConfigurationError before anything is filtered or written. Network
// exports with no matching statements produce an empty network (and an
// empty output file) with a warning; event lists with no matching
// statements fail with ErrNoStatementSelected and create no file.
func (e *Engine) Run(ctx context.Context, snap *corpus.Snapshot, setting *ExportSetting) (res *Result, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	res = &Result{
		RunID:       uuid.NewString(),
		NetworkType: setting.NetworkType,
		Format:      setting.Format.orDefault(),
	}

	ctx = logging.WithRunID(ctx, res.RunID)
	ctx = logging.WithNetworkType(ctx, string(setting.NetworkType))
	if st, ok := snap.StatementType(setting.StatementType); ok {
		ctx = logging.WithStatementType(ctx, st.Label)
	}
	logger := logging.FromContext(ctx, e.logger)

	status := StatusSuccess
	defer func() {
		res.Duration = time.Since(start)
		switch {
		case errors.Is(err, ErrNoStatementSelected):
			status = StatusEmpty
		case err != nil:
			status = StatusError
		}
		e.recorder.RecordExport(string(setting.NetworkType), string(res.Format), status, res.Duration)
		if errors.Is(err, ErrNoStatementSelected) {
			logger.Warn("no statements selected, nothing exported", "error", err, "duration", res.Duration)
			return
		}
		if err != nil {
			logger.Error("export failed", "error", err, "duration", res.Duration)
			return
		}
		logger.Info("export finished",
			"statements", res.Statements,
			"output", res.OutputPath,
			"duration", res.Duration,
		)
	}()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := setting.Validate(snap); err != nil {
		return res, err
	}

	filtered := Filter(snap.Statements(), snap, setting)
	res.Statements = len(filtered)
	e.recorder.RecordFiltered(len(filtered))
	logger.Debug("statements filtered", "total", snap.Len(), "selected", len(filtered))

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if setting.NetworkType == EventList {
		if _, err := e.eventList.Validate(filtered, snap); err != nil {
			return res, err
		}
		path := e.resolve(setting.OutputFile())
		if err := e.prepareDir(path); err != nil {
			return res, err
		}
		if err := e.eventList.ExportFile(path, filtered, snap); err != nil {
			return res, err
		}
		res.OutputPath = path
		return res, nil
	}

	if len(filtered) == 0 {
		status = StatusEmpty
		logger.Warn("no statements matched the export setting, writing an empty network")
	}

	n, err := e.build(filtered, setting)
	if err != nil {
		return res, err
	}
	res.Network = n

	m := n.Matrix()
	res.Rows, res.Columns = m.Rows(), m.Cols()
	res.Edges = n.EdgeList().Len()
	e.recorder.RecordNetwork(string(setting.NetworkType), res.Rows, res.Columns, res.Edges, n.Mode() == network.TwoMode)

	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.OutputPath, err = e.writeNetwork(n, setting)
	return res, err
}

func (e *Engine) build(statements []corpus.Statement, setting *ExportSetting) (*network.Network, error) {
	q := setting.Qualification()
	if setting.NetworkType == OneModeNetwork {
		return OneMode(statements, setting.Variable1, setting.Variable2, q, setting.Pattern)
	}
	return Affiliation(statements, setting.Variable1, setting.Variable2, q)
}

// writeNetwork writes n to the setting's output file, or to stdout when the
// setting names none. It returns the path written.
func (e *Engine) writeNetwork(n *network.Network, setting *ExportSetting) (path string, err error) {
	w, err := WriterFor(setting.Format)
	if err != nil {
		return "", err
	}

	if setting.Output == "" {
		return "", w.Write(e.stdout, n)
	}

	path = e.resolve(setting.OutputFile())
	if err := e.prepareDir(path); err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", NewIOError("create", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = NewIOError("close", path, closeErr)
		}
	}()

	if err := w.Write(f, n); err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return path, err
	}
	return path, nil
}

func (e *Engine) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || e.outputDir == "" {
		return path
	}
	return filepath.Join(e.outputDir, path)
}

func (e *Engine) prepareDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewIOError("mkdir", dir, fmt.Errorf("creating output directory: %w", err))
	}
	return nil
}
