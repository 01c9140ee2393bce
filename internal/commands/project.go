package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/fiscal/internal/accounts"
	"github.com/cleared-dev/fiscal/internal/config"
	"github.com/cleared-dev/fiscal/internal/depreciation"
	"github.com/cleared-dev/fiscal/internal/importer"
	"github.com/cleared-dev/fiscal/internal/logger"
	"github.com/cleared-dev/fiscal/internal/model"
	"github.com/cleared-dev/fiscal/internal/report"
)

const (
	configFile   = "fiscal.yaml"
	scheduleFile = "assets/depreciation-schedule.csv"
)

// globalOptions are the persistent flags of the root command.
type globalOptions struct {
	repo      string
	format    string
	logLevel  string
	logFormat string
}

// project is a loaded fiscal project directory.
type project struct {
	root     string
	cfg      *config.Config
	chart    *accounts.Service
	engine   *report.Engine
	schedule depreciation.Schedule
	log      zerolog.Logger
}

func loadProject(opts *globalOptions) (*project, error) {
	root, err := filepath.Abs(opts.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, configFile))
	if err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level, logCfg.Format = cfg.Logging.Level, cfg.Logging.Format
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		logCfg.Format = opts.logFormat
	}
	if err := logger.Setup(logCfg); err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	log := logger.WithComponent("cli")

	chart, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}
	if missing := chart.Missing(cfg.Accounts); len(missing) > 0 {
		return nil, fmt.Errorf("chart of accounts lacks configured codes %v", missing)
	}

	engine, err := report.NewEngine(cfg, logger.WithComponent("report"))
	if err != nil {
		return nil, err
	}

	schedule, err := loadSchedule(filepath.Join(root, scheduleFile))
	if err != nil {
		return nil, err
	}

	return &project{root: root, cfg: cfg, chart: chart, engine: engine, schedule: schedule, log: log}, nil
}

func loadSchedule(path string) (depreciation.Schedule, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening schedule: %w", err)
	}
	defer f.Close()
	s, err := depreciation.ReadSchedule(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", scheduleFile, err)
	}
	return s, nil
}

// transactions imports every CSV of the import directory with the parser
// named by format.
func (p *project) transactions(format string) ([]model.Transaction, error) {
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	txs, err := importer.Load(p.root, parser, p.log)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Int("transactions", len(txs)).Msg("transactions loaded")
	return txs, nil
}

// annotate resolves the tax rule of every transaction and logs the
// transactions whose tax input or stored rate is wrong.
func (p *project) annotate(txs []model.Transaction) []model.Transaction {
	annotated, warnings := p.engine.Annotate(txs)
	for _, w := range warnings {
		p.log.Warn().Err(w).Msg("tax rule annotation")
	}
	return annotated
}
