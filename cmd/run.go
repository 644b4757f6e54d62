package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"fabric-sync/core/collect"
	"fabric-sync/core/config"
	"fabric-sync/core/database"
	"fabric-sync/core/export"
	"fabric-sync/core/logger"
	"fabric-sync/core/pipeline"
	"fabric-sync/core/reconcile"
	"fabric-sync/core/registry"
	"fabric-sync/core/storage"
	"fabric-sync/feature/pipelines"
	"fabric-sync/feature/runs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the run command
	runDryRun  bool
	runApply   bool
	runCleanup bool
	runTargets string
	runYes     bool
)

// runCmd executes a stored pipeline.
var runCmd = &cobra.Command{
	Use:   "run <pipeline>",
	Short: "Execute a pipeline (dry-run by default)",
	Long: `Execute a stored pipeline against the configured device targets.

Runs are previews unless --apply is given; a dry run reports every change
the registry would see without mutating anything.

Examples:
  # Preview only (dry-run)
  fabric-sync run nightly

  # Apply changes (with interactive confirmation)
  fabric-sync run nightly --apply

  # Apply with auto-confirm (non-interactive)
  fabric-sync run nightly --apply --yes

  # Apply and delete registry objects absent from the collected state
  fabric-sync run nightly --apply --cleanup --yes

  # Narrow the run to two devices
  fabric-sync run nightly --targets sw1,sw2`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Force dry-run (overrides --apply)")
	runCmd.Flags().BoolVar(&runApply, "apply", false, "Apply changes to the registry")
	runCmd.Flags().BoolVar(&runCleanup, "cleanup", false, "Delete registry objects absent from the collected state")
	runCmd.Flags().StringVar(&runTargets, "targets", "", "Comma-separated device names to narrow the run")
	runCmd.Flags().BoolVar(&runYes, "yes", false, "Auto-confirm an apply (non-interactive)")

	RootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	dryRun := !runApply || runDryRun

	// An apply needs confirmation before anything touches the registry.
	if !dryRun && !confirmApply() {
		logg.Warn("Run cancelled by user. No changes were made.")
		return nil
	}

	svc, err := buildRunService(cfg, logg)
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		DryRun:     dryRun,
		Cleanup:    runCleanup,
		Targets:    splitTargetList(runTargets),
		OnProgress: printStepProgress,
	}

	logg.Info("Starting pipeline run",
		zap.String("pipeline", args[0]),
		zap.Bool("dry_run", dryRun),
		zap.Bool("cleanup", runCleanup))

	result, err := svc.Run(ctx, args[0], opts)
	if err != nil {
		return err
	}

	printRunReport(result)

	if result.Status == pipeline.RunFailed {
		if result.FailedStep != "" {
			return fmt.Errorf("run failed at step %q: %s", result.FailedStep, result.Error)
		}
		return fmt.Errorf("run failed: %s", result.Error)
	}
	return nil
}

// buildRunService wires the same pipeline machinery the server uses.
func buildRunService(cfg *config.Config, logg *zap.Logger) (*pipelines.Service, error) {
	// Object storage backs export uploads; optional.
	var objects storage.Client
	if cfg.Storage.Bucket != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		objects = client
	}
	exporter := export.NewService(cfg.Export, objects, cfg.Storage.Bucket, logg)

	collectors := collect.NewRegistry(cfg.Collect, logg)

	targets, err := collect.LoadTargets(cfg.Collect.TargetsFile)
	if err != nil {
		logg.Warn("Device targets unavailable, run will see no devices", zap.Error(err))
	}

	var engine pipeline.SyncEngine
	if cfg.Registry.Configured() {
		engine = reconcile.NewEngine(registry.NewClient(cfg.Registry, logg), logg)
	} else {
		logg.Warn("Registry not configured, sync steps will fail")
	}

	// Connect to Database (Optional)
	var recorder pipelines.RunRecorder
	if db, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed, run will not be recorded", zap.Error(err))
	} else if store, err := runs.NewStore(db, logg); err != nil {
		logg.Warn("Run history disabled", zap.Error(err))
	} else {
		recorder = store
	}

	store := pipeline.NewStore(cfg.Pipelines.Dir, collectors.Known())
	executor := pipeline.NewExecutor(pipeline.Deps{
		Collectors: collectors,
		Targets:    targets,
		Engine:     engine,
		Exporter:   exporter,
		Logger:     logg,
	})

	return pipelines.NewService(store, executor, collectors.Known(), recorder, logg), nil
}

// printStepProgress renders step transitions as they happen.
func printStepProgress(stepID string, status pipeline.StepStatus, result *pipeline.StepResult) {
	switch {
	case status == pipeline.StatusRunning:
		fmt.Printf("→ %s...\n", stepID)
	case result == nil:
		// Final calls always carry a result; nothing to render otherwise.
	case result.Status == pipeline.StatusSkipped:
		fmt.Printf("- %s skipped (%s)\n", stepID, result.Reason)
	case result.Status == pipeline.StatusFailed:
		fmt.Printf("✗ %s failed: %s\n", stepID, result.Error)
	default:
		fmt.Printf("✓ %s completed in %s\n", stepID, result.Duration.Round(time.Millisecond))
	}
}

// printRunReport prints the rendered run report to the console.
func printRunReport(result *pipeline.RunResult) {
	mode := "apply"
	if result.DryRun {
		mode = "dry-run"
	}

	fmt.Println("\n--- Pipeline Run Report ---")
	fmt.Printf("Pipeline:   %s\n", result.PipelineID)
	fmt.Printf("Run ID:     %s\n", result.RunID)
	fmt.Printf("Mode:       %s\n", mode)
	fmt.Printf("Status:     %s\n", result.Status)
	fmt.Printf("Duration:   %s\n", result.TotalDuration.Round(time.Millisecond))
	if result.Error != "" {
		fmt.Printf("Error:      %s\n", result.Error)
	}

	for _, step := range result.Steps {
		fmt.Printf("\nStep %s [%s]\n", step.StepID, step.Status)
		if step.Reason != "" {
			fmt.Printf("  reason: %s\n", step.Reason)
		}
		if step.Error != "" {
			fmt.Printf("  error: %s\n", step.Error)
		}
		printStepData(step.Data)
	}
	fmt.Println("---------------------------")
}

// maxDetailLines caps the per-step change listing in console reports.
const maxDetailLines = 10

func printStepData(data map[string]any) {
	if len(data) == 0 {
		return
	}

	if created, ok := data["created"]; ok {
		fmt.Printf("  created=%v updated=%v deleted=%v skipped=%v failed=%v\n",
			created, data["updated"], data["deleted"], data["skipped"], data["failed"])
	}
	if records, ok := data["records"]; ok {
		fmt.Printf("  records=%v entities=%v\n", records, data["entities"])
	}
	if failures, ok := data["errors"].([]string); ok {
		for _, failure := range failures {
			fmt.Printf("  device error: %s\n", failure)
		}
	}
	if destination, ok := data["destination"]; ok {
		fmt.Printf("  wrote %v rows to %v\n", data["count"], destination)
		if object, ok := data["object"]; ok {
			fmt.Printf("  uploaded as %v\n", object)
		}
	}

	details, ok := data["details"].([]reconcile.Detail)
	if !ok {
		return
	}
	shown := len(details)
	if shown > maxDetailLines {
		shown = maxDetailLines
	}
	for _, detail := range details[:shown] {
		line := fmt.Sprintf("  %s %s", detail.Action, detail.Key)
		if len(detail.Fields) > 0 {
			line += " (" + strings.Join(detail.Fields, ", ") + ")"
		}
		if detail.Error != "" {
			line += " error: " + detail.Error
		}
		fmt.Println(line)
	}
	if len(details) > shown {
		fmt.Printf("  ... %d more changes\n", len(details)-shown)
	}
}

// confirmApply prompts the user for confirmation or honors the --yes flag.
func confirmApply() bool {
	if runYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to apply changes to the registry: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}

// splitTargetList parses the comma-separated --targets flag.
func splitTargetList(raw string) []string {
	if raw == "" {
		return nil
	}
	var targets []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			targets = append(targets, trimmed)
		}
	}
	return targets
}
