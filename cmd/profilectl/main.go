package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dataprofiler/adapters/embedding"
	"dataprofiler/adapters/pattern"
	"dataprofiler/adapters/pii"
	"dataprofiler/adapters/postgresmirror"
	"dataprofiler/adapters/profiler"
	"dataprofiler/adapters/query"
	"dataprofiler/adapters/registrydb"
	"dataprofiler/adapters/scoring"
	"dataprofiler/adapters/store"
	"dataprofiler/adapters/validation"
	"dataprofiler/domain/profile"
	"dataprofiler/domain/signature"
	"dataprofiler/domain/source"
	"dataprofiler/internal"
	"dataprofiler/internal/config"
	"dataprofiler/internal/errors"
	"dataprofiler/ports"
)

// toolkit bundles the adapters a subcommand needs, built fresh per
// invocation from the current environment.
type toolkit struct {
	cfg      *config.Config
	logger   *internal.Logger
	profiler ports.Profiler
	store    *store.Store
	registry *registrydb.Store
	mirror   *postgresmirror.Mirror
}

func newToolkit(ctx context.Context) (*toolkit, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewDefaultLogger()

	queryAdapter := query.NewInMemoryAdapter()
	patternDetector := pattern.NewDetector()
	piiDetector := pii.NewDetector(nil)
	prof := profiler.New(queryAdapter, patternDetector, piiDetector, logger.With("profiler"))

	profileStore, err := store.New(cfg.Store.RootDir, logger.With("store"))
	if err != nil {
		return nil, fmt.Errorf("open profile store: %w", err)
	}

	embedder, err := newEmbeddingService(cfg.Registry, logger.With("embedding"))
	if err != nil {
		return nil, err
	}
	registry, err := registrydb.Open(ctx, cfg.Registry.DBPath, embedder, logger.With("registrydb"))
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}

	var mirror *postgresmirror.Mirror
	if cfg.Postgres.URL != "" {
		mirror, err = postgresmirror.Open(ctx, cfg.Postgres.URL)
		if err != nil {
			logger.Warn("profile mirror unavailable: %v", err)
			mirror = nil
		}
	}

	return &toolkit{cfg: cfg, logger: logger, profiler: prof, store: profileStore, registry: registry, mirror: mirror}, nil
}

func (k *toolkit) Close(ctx context.Context) {
	if k.registry != nil {
		_ = k.registry.Close(ctx)
	}
	if k.mirror != nil {
		_ = k.mirror.Close()
	}
}

func newEmbeddingService(cfg config.RegistryConfig, logger *internal.Logger) (ports.EmbeddingService, error) {
	budget := time.Duration(cfg.EmbeddingInitMS) * time.Millisecond
	if cfg.EmbeddingKind != "learned" {
		return embedding.New(nil, budget, logger), nil
	}
	factory := func(ctx context.Context) (ports.EmbeddingService, error) {
		backend := embedding.NewLearnedBackend(os.Getenv("LEARNED_EMBEDDING_ENDPOINT"), 0)
		if _, err := backend.Embed(ctx, "warmup"); err != nil {
			return nil, err
		}
		return backend, nil
	}
	return embedding.New(factory, budget, logger), nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "profilectl",
		Short: "Profile, store, and compare dataset profiles",
	}

	rootCmd.AddCommand(
		newProfileCmd(),
		newScoreCmd(),
		newDriftCmd(),
		newSearchCmd(),
		newPruneCmd(),
		newPinCmd(),
		newReconcileCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newProfileCmd() *cobra.Command {
	var fastMode bool
	var sampleSize int
	var noIndex bool

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Profile a CSV/XLSX/JSON/log/markdown file and store the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), args[0], fastMode, sampleSize, noIndex)
		},
	}
	cmd.Flags().BoolVar(&fastMode, "fast", false, "skip dataset-level pattern detection")
	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "row cap for value sampling (0 = unlimited)")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "skip registry indexing for search")
	return cmd
}

func runProfile(ctx context.Context, path string, fastMode bool, sampleSize int, noIndex bool) error {
	kit, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer kit.Close(ctx)

	kind, err := detectKind(path)
	if err != nil {
		return err
	}

	fileSize, err := query.FileSize(path)
	if err != nil {
		return err
	}

	contentHash, err := store.HashFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("source: %s (%s)\n", path, humanBytes(fileSize))
	if cached, ok, err := kit.registry.GetCachedProfile(ctx, path, contentHash); err == nil && ok {
		fmt.Printf("using cached profile for %s (unchanged since last run)\n", path)
		printSummary(path, cached)
		return nil
	}

	opts := source.Options{FastMode: fastMode, SampleSize: sampleSize, MaxTopK: kit.cfg.Profiling.MaxTopK}
	if sampleSize == 0 {
		opts.SampleSize = kit.cfg.Profiling.SampleSize
	}

	started := time.Now()
	dataProfile, err := kit.profiler.Profile(ctx, source.Descriptor{Kind: kind, Locator: path}, opts)
	if err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}
	fmt.Printf("profiled %s in %s\n", path, time.Since(started).Round(time.Millisecond))
	printSummary(path, dataProfile)

	info, err := kit.store.Store(ctx, dataProfile, signatureInfoFor(path, contentHash, fileSize))
	if err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	fmt.Printf("stored as %s (schema %s)\n", info.ID, info.SchemaHash)

	if kit.mirror != nil {
		if err := kit.mirror.Upsert(ctx, info); err != nil {
			kit.logger.Warn("mirror upsert failed: %v", err)
		}
	}

	if !noIndex {
		if err := kit.registry.UpsertProfile(ctx, path, contentHash, fileSize, dataProfile); err != nil {
			kit.logger.Warn("registry upsert failed: %v", err)
		}
		if err := kit.registry.UpsertEmbeddings(ctx, path, dataProfile); err != nil {
			kit.logger.Warn("registry embedding failed: %v", err)
		}
	}

	return nil
}

func printSummary(path string, p *profile.DataProfile) {
	fmt.Printf("  %s rows x %d columns\n", humanRows(p.RowCount), p.ColumnCount)
	for _, c := range p.Columns {
		fmt.Printf("  - %-24s %-10s null=%.1f%% unique=%.1f%%\n", c.Name, c.InferredType, c.NullPercent, c.UniquePercent)
	}
	for _, a := range p.Alerts {
		fmt.Printf("  ! %s: %s\n", a.Severity, a.Message)
	}
}

func signatureInfoFor(path, contentHash string, fileSize int64) signature.StoredProfileInfo {
	return signature.StoredProfileInfo{
		SourcePath:  path,
		FileName:    filepath.Base(path),
		ContentHash: contentHash,
		FileSize:    fileSize,
	}
}

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [profile-id]",
		Short: "Run the anomaly scorer against a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runScore(ctx context.Context, id string) error {
	kit, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer kit.Close(ctx)

	p, _, err := kit.store.Load(ctx, id)
	if err != nil {
		return err
	}

	result, err := scoring.NewScorer().Score(ctx, p)
	if err != nil {
		return err
	}

	fmt.Printf("overall score: %.2f (%s)\n", result.OverallScore, result.Interpretation)
	fmt.Printf("  data quality: %.2f  null rate: %.2f  outliers: %.2f\n", result.Components.DataQuality, result.Components.NullRate, result.Components.Outliers)
	fmt.Printf("  distribution: %.2f  cardinality: %.2f  schema: %.2f\n", result.Components.Distribution, result.Components.Cardinality, result.Components.Schema)
	for _, rec := range result.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
	return nil
}

func newDriftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drift [baseline-id] [current-id]",
		Short: "Compare a profile against a stored baseline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrift(cmd.Context(), args[0], args[1])
		},
	}
	return cmd
}

func runDrift(ctx context.Context, baselineID, currentID string) error {
	kit, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer kit.Close(ctx)

	baseline, _, err := kit.store.Load(ctx, baselineID)
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	current, _, err := kit.store.Load(ctx, currentID)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}

	result, err := validation.NewService().Drift(ctx, baseline, current)
	if err != nil {
		return err
	}

	fmt.Printf("drift score: %.3f\n", result.DriftScore)
	for col, delta := range result.ColumnDrifts {
		fmt.Printf("  %s: %.3f\n", col, delta)
	}
	return nil
}

func newSearchCmd() *cobra.Command {
	var topK int
	cmd := &cobra.Command{
		Use:   "search [query text]",
		Short: "Search the embedded registry for matching profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), strings.Join(args, " "), topK)
		},
	}
	cmd.Flags().IntVar(&topK, "top-k", 5, "number of results to return")
	return cmd
}

func runSearch(ctx context.Context, text string, topK int) error {
	kit, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer kit.Close(ctx)

	hits, err := kit.registry.Search(ctx, text, topK)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for i, h := range hits {
		fmt.Printf("%d. %s (%s) score=%.3f — %s\n", i+1, h.FilePath, h.Kind, h.Score, h.Label)
	}
	return nil
}

func newPruneCmd() *cobra.Command {
	var keepPerSchema int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove stale profiles, keeping the most recent per schema plus pinned baselines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context(), keepPerSchema)
		},
	}
	cmd.Flags().IntVar(&keepPerSchema, "keep-per-schema", 0, "override PROFILE_STORE_KEEP_PER_SCHEMA")
	return cmd
}

func runPrune(ctx context.Context, keepPerSchema int) error {
	kit, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer kit.Close(ctx)

	if keepPerSchema <= 0 {
		keepPerSchema = kit.cfg.Store.KeepPerSchema
	}
	removed, err := kit.store.Prune(ctx, keepPerSchema)
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d profile(s)\n", len(removed))
	for _, id := range removed {
		fmt.Printf("  - %s\n", id)
		if kit.mirror != nil {
			if err := kit.mirror.Delete(ctx, id); err != nil {
				kit.logger.Warn("mirror delete failed for %s: %v", id, err)
			}
		}
	}
	return nil
}

func newPinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin [profile-id]",
		Short: "Pin a profile as its schema's baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPin(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runPin(ctx context.Context, id string) error {
	kit, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer kit.Close(ctx)

	if err := kit.store.PinBaseline(ctx, id); err != nil {
		return err
	}
	fmt.Printf("pinned %s as baseline\n", id)
	return nil
}

func newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Re-index profile blobs orphaned by a corrupted store index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context())
		},
	}
	return cmd
}

func runReconcile(ctx context.Context) error {
	kit, err := newToolkit(ctx)
	if err != nil {
		return err
	}
	defer kit.Close(ctx)

	recovered, err := kit.store.Reconcile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("recovered %d orphaned profile(s)\n", len(recovered))
	for _, id := range recovered {
		fmt.Printf("  - %s\n", id)
	}
	return nil
}

func detectKind(path string) (source.Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return source.KindCSV, nil
	case ".xlsx":
		return source.KindXLSX, nil
	case ".json", ".jsonl", ".ndjson":
		return source.KindJSON, nil
	case ".log":
		return source.KindLog, nil
	case ".md", ".markdown":
		return source.KindMarkdown, nil
	default:
		return "", errors.UnsupportedFormat(filepath.Ext(path))
	}
}

func humanBytes(n int64) string { return humanize.Bytes(uint64(n)) }

func humanRows(n int64) string { return humanize.Comma(n) }
