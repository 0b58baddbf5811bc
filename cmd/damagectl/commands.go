package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/damage-assessment-api/internal/config"
	"github.com/damage-assessment-api/internal/observability"
	"github.com/damage-assessment-api/internal/pkg/logger"
	"github.com/damage-assessment-api/internal/repository/cache"
	"github.com/damage-assessment-api/internal/repository/geojson"
	"github.com/damage-assessment-api/internal/usecase"
)

// errProblemsFound - validate нашёл проблемы в данных
var errProblemsFound = errors.New("dataset problems found")

type rootOptions struct {
	envFile     string
	dataDir     string
	buildings   string
	hexagons    string
	categoryKey string
	hexagonKey  string
	logLevel    string
	pretty      bool
}

// app - всё, что нужно подкомандам; собирается в PersistentPreRunE
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	damage     *usecase.DamageUseCase
	validation *usecase.ValidationUseCase
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:          "damagectl",
		Short:        "Offline damage statistics over the GeoJSON datasets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "env file with API settings")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory with the datasets (overrides DATA_DIR)")
	flags.StringVar(&opts.buildings, "buildings", "", "buildings file name (overrides BUILDINGS_FILE)")
	flags.StringVar(&opts.hexagons, "hexagons", "", "hexagons file name (overrides HEXAGONS_FILE)")
	flags.StringVar(&opts.categoryKey, "category-attr", "", "damage category attribute (overrides CATEGORY_ATTRIBUTE)")
	flags.StringVar(&opts.hexagonKey, "id-attr", "", "hexagon id attribute (overrides HEXAGON_ID_ATTRIBUTE)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level, logs go to stderr")
	flags.BoolVar(&opts.pretty, "pretty", false, "indent JSON output")

	root.AddCommand(
		newSummaryCmd(a, opts),
		newHexagonCmd(a, opts),
		newValidateCmd(a, opts),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.LoadFrom(opts.envFile)
	if err != nil {
		return err
	}
	if opts.dataDir != "" {
		cfg.Data.Dir = opts.dataDir
	}
	if opts.buildings != "" {
		cfg.Data.BuildingsFile = opts.buildings
	}
	if opts.hexagons != "" {
		cfg.Data.HexagonsFile = opts.hexagons
	}
	if opts.categoryKey != "" {
		cfg.Data.CategoryAttribute = opts.categoryKey
	}
	if opts.hexagonKey != "" {
		cfg.Data.HexagonIDAttribute = opts.hexagonKey
	}

	log, err := logger.NewTo(opts.logLevel, "stderr")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	// метрики CLI никуда не экспортируются
	metrics := observability.NewMetricsWithRegistry(prometheus.NewRegistry())
	store := geojson.NewStore(geojson.StoreConfig{
		BuildingsPath: cfg.BuildingsPath(),
		HexagonsPath:  cfg.HexagonsPath(),
		Mode:          geojson.ModeReload,
	}, geojson.NewLoader(log), metrics, log)

	damageCfg := usecase.DamageConfig{
		CategoryAttribute:  cfg.Data.CategoryAttribute,
		HexagonIDAttribute: cfg.Data.HexagonIDAttribute,
		MaxConcurrentScans: 1,
	}

	a.cfg = cfg
	a.log = log
	a.damage = usecase.NewDamageUseCase(store, cache.NewNoopCacheRepository(), metrics, log, damageCfg)
	a.validation = usecase.NewValidationUseCase(store, log, damageCfg)
	return nil
}

func newSummaryCmd(a *app, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the damage category histogram over all buildings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := a.damage.GetDamageSummary(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary, opts.pretty)
		},
	}
}

func newHexagonCmd(a *app, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hexagon <id>",
		Short: "Print the damage breakdown of buildings within one hexagon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.damage.GetHexagonStats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stats, opts.pretty)
		},
	}
}

func newValidateCmd(a *app, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check both datasets for schema and value problems",
		Long: "Loads both datasets and reports a missing category or id attribute,\n" +
			"non-integer category values, duplicate hexagon ids and hexagons\n" +
			"that are not polygons. Exits with code 1 when problems are found.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := a.validation.Validate(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), issues, opts.pretty); err != nil {
				return err
			}
			if issues.HasProblems() {
				return errProblemsFound
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
