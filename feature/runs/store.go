package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fabric-sync/core/database"
	"fabric-sync/core/pipeline"
	"fabric-sync/feature/runs/models"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("run not found")

// requiredColumns lists what the runs table must carry. AutoMigrate creates
// them all; VerifySchema flags hand-managed schemas that drifted.
var requiredColumns = []string{
	"id",
	"pipeline_id",
	"status",
	"dry_run",
	"started_at",
	"duration_ms",
	"failed_step",
	"error",
	"steps",
}

const defaultListLimit = 50

// Store persists pipeline runs.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore migrates the runs table and returns a store backed by db.
func NewStore(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if err := db.AutoMigrate(&models.Run{}); err != nil {
		return nil, fmt.Errorf("migrate runs table: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Record persists one finished run.
func (s *Store) Record(ctx context.Context, result *pipeline.RunResult) error {
	steps, err := json.Marshal(result.Steps)
	if err != nil {
		return fmt.Errorf("encode step results: %w", err)
	}

	run := models.Run{
		ID:         result.RunID,
		PipelineID: result.PipelineID,
		Status:     result.Status,
		DryRun:     result.DryRun,
		StartedAt:  result.StartedAt,
		DurationMS: result.TotalDuration.Milliseconds(),
		FailedStep: result.FailedStep,
		Error:      result.Error,
		Steps:      string(steps),
	}

	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// List returns recent runs, newest first. An empty pipelineID matches every
// pipeline.
func (s *Store) List(ctx context.Context, pipelineID string, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if pipelineID != "" {
		query = query.Where("pipeline_id = ?", pipelineID)
	}

	var runs []models.Run
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// Get returns one run by id.
func (s *Store) Get(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run

	err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	return &run, nil
}

// VerifySchema returns the columns missing from the runs table, empty when
// the schema is complete. Inspection failures are logged and treated as
// complete so startup never blocks on a permissions quirk.
func (s *Store) VerifySchema() []string {
	columns, err := database.GetTableColumns(s.db, models.Run{}.TableName())
	if err != nil {
		s.logger.Warn("Runs table inspection failed", zap.Error(err))
		return nil
	}

	present := make(map[string]bool, len(columns))
	for _, column := range columns {
		present[column.Field] = true
	}

	var missing []string
	for _, name := range requiredColumns {
		if !present[name] {
			missing = append(missing, name)
		}
	}

	return missing
}
