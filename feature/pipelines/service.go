package pipelines

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"fabric-sync/core/pipeline"
	"fabric-sync/feature/pipelines/models"
)

// ErrPipelineDisabled is returned when a run is requested for a pipeline
// whose enabled flag is off.
var ErrPipelineDisabled = errors.New("pipeline is disabled")

// RunRecorder persists finished runs. Implementations must be safe for
// concurrent use.
type RunRecorder interface {
	Record(ctx context.Context, result *pipeline.RunResult) error
}

// Service manages pipeline definitions and runs.
type Service struct {
	store      *pipeline.Store
	executor   *pipeline.Executor
	collectors []string
	recorder   RunRecorder
	logger     *zap.Logger
	group      singleflight.Group
}

// NewService creates a new pipeline service. collectors is the known
// collector set used for validation reports; recorder may be nil when run
// history is disabled.
func NewService(store *pipeline.Store, executor *pipeline.Executor, collectors []string, recorder RunRecorder, logger *zap.Logger) *Service {
	return &Service{
		store:      store,
		executor:   executor,
		collectors: collectors,
		recorder:   recorder,
		logger:     logger,
	}
}

// List returns a summary for every stored pipeline.
func (s *Service) List() ([]models.Summary, error) {
	stored, err := s.store.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]models.Summary, 0, len(stored))
	for _, p := range stored {
		summaries = append(summaries, models.Summary{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Enabled:      p.Enabled,
			StepCount:    len(p.Steps),
			EnabledSteps: len(p.EnabledSteps()),
			Valid:        len(pipeline.Validate(p, s.collectors)) == 0,
		})
	}

	return summaries, nil
}

// Get returns the full definition by id or name.
func (s *Service) Get(idOrName string) (pipeline.Pipeline, error) {
	return s.store.Get(idOrName)
}

// Validate checks a stored pipeline and returns the report.
func (s *Service) Validate(idOrName string) (models.ValidationReport, error) {
	p, err := s.store.Get(idOrName)
	if err != nil {
		return models.ValidationReport{}, err
	}

	problems := pipeline.Validate(p, s.collectors)
	return models.ValidationReport{
		ID:       p.ID,
		Valid:    len(problems) == 0,
		Problems: problems,
	}, nil
}

// Create validates and persists a definition. The store refuses invalid ones.
func (s *Service) Create(p pipeline.Pipeline) error {
	if err := s.store.Save(p); err != nil {
		return err
	}

	s.logger.Info("Pipeline saved",
		zap.String("pipeline", p.ID),
		zap.Int("steps", len(p.Steps)))
	return nil
}

// Delete removes a stored definition.
func (s *Service) Delete(idOrName string) error {
	return s.store.Delete(idOrName)
}

// Run executes a pipeline and records the outcome. Identical concurrent
// requests share one execution; the result is always returned, run failures
// live inside it.
func (s *Service) Run(ctx context.Context, idOrName string, opts pipeline.RunOptions) (*pipeline.RunResult, error) {
	p, err := s.store.Get(idOrName)
	if err != nil {
		return nil, err
	}
	if !p.Enabled {
		return nil, fmt.Errorf("%w: %q", ErrPipelineDisabled, p.ID)
	}

	value, err, shared := s.group.Do(runKey(p.ID, opts), func() (any, error) {
		result := s.executor.Run(ctx, p, opts)
		s.record(ctx, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	result := value.(*pipeline.RunResult)
	if shared {
		s.logger.Info("Joined in-flight run",
			zap.String("pipeline", p.ID),
			zap.String("run_id", result.RunID))
	}
	return result, nil
}

// runKey dedups runs only when pipeline, mode and target filter all match.
func runKey(id string, opts pipeline.RunOptions) string {
	targets := append([]string(nil), opts.Targets...)
	sort.Strings(targets)
	return fmt.Sprintf("%s|dry_run=%t|cleanup=%t|targets=%s",
		id, opts.DryRun, opts.Cleanup, strings.Join(targets, ","))
}

func (s *Service) record(ctx context.Context, result *pipeline.RunResult) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, result); err != nil {
		s.logger.Warn("Run history write failed",
			zap.String("run_id", result.RunID),
			zap.Error(err))
	}
}
