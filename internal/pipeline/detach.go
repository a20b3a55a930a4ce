package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fablecast/internal/logging"
	"fablecast/internal/services"
)

const defaultStageTimeout = 10 * time.Minute

// stageTimeout bounds every external-facing stage run. Expiry fails only that
// stage; nothing else is rolled back.
func (o *Orchestrator) stageTimeout() time.Duration {
	if o.cfg != nil && o.cfg.Workflow.StageTimeoutSeconds > 0 {
		return time.Duration(o.cfg.Workflow.StageTimeoutSeconds) * time.Second
	}
	return defaultStageTimeout
}

// detach launches a stage on a background context and returns a correlation
// id immediately. Callers observe the outcome by re-reading entity status.
func (o *Orchestrator) detach(stage string, run func(ctx context.Context) error) string {
	correlationID := uuid.NewString()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.stageTimeout())
		defer cancel()
		ctx = services.WithRequestID(services.WithStage(ctx, stage), correlationID)

		if err := run(ctx); err != nil {
			logging.WithContext(ctx, o.logger).Error("detached stage failed", logging.Error(err))
		}
	}()
	return correlationID
}

// TriggerParse starts Parse detached and returns a correlation id.
func (o *Orchestrator) TriggerParse(documentID int64) string {
	return o.detach("parse", func(ctx context.Context) error {
		return o.Parse(ctx, documentID)
	})
}

// TriggerAnalyze starts Analyze detached and returns a correlation id.
func (o *Orchestrator) TriggerAnalyze(documentID int64) string {
	return o.detach("analyze", func(ctx context.Context) error {
		return o.Analyze(ctx, documentID)
	})
}

// TriggerSegment starts Segment detached and returns a correlation id.
func (o *Orchestrator) TriggerSegment(chapterID int64) string {
	return o.detach("segment", func(ctx context.Context) error {
		return o.Segment(ctx, chapterID)
	})
}

// TriggerGenerate starts Generate detached and returns a correlation id.
func (o *Orchestrator) TriggerGenerate(chapterID int64) string {
	return o.detach("generate", func(ctx context.Context) error {
		return o.Generate(ctx, chapterID)
	})
}

// TriggerProduce chains the whole production run for a document: parse,
// analyze, then segment and generate every chapter in order. Each stage gets
// its own timeout; a chapter failure does not stop the remaining chapters.
func (o *Orchestrator) TriggerProduce(documentID int64) string {
	correlationID := uuid.NewString()
	go o.produce(documentID, correlationID)
	return correlationID
}

func (o *Orchestrator) produce(documentID int64, correlationID string) {
	runStage := func(stage string, run func(ctx context.Context) error) error {
		ctx, cancel := context.WithTimeout(context.Background(), o.stageTimeout())
		defer cancel()
		ctx = services.WithRequestID(services.WithStage(ctx, stage), correlationID)
		return run(ctx)
	}

	if err := runStage("parse", func(ctx context.Context) error {
		return o.Parse(ctx, documentID)
	}); err != nil {
		o.logger.Error("production halted at parse",
			logging.Int64(logging.FieldDocumentID, documentID),
			logging.String(logging.FieldCorrelationID, correlationID),
			logging.Error(err))
		return
	}

	if err := runStage("analyze", func(ctx context.Context) error {
		return o.Analyze(ctx, documentID)
	}); err != nil {
		o.logger.Error("production halted at analyze",
			logging.Int64(logging.FieldDocumentID, documentID),
			logging.String(logging.FieldCorrelationID, correlationID),
			logging.Error(err))
		return
	}

	listCtx, cancel := context.WithTimeout(context.Background(), o.stageTimeout())
	chapters, err := o.store.ChaptersByDocument(listCtx, documentID)
	cancel()
	if err != nil {
		o.logger.Error("production could not list chapters",
			logging.Int64(logging.FieldDocumentID, documentID),
			logging.String(logging.FieldCorrelationID, correlationID),
			logging.Error(err))
		return
	}

	for _, chapter := range chapters {
		chapterID := chapter.ID
		if err := runStage("segment", func(ctx context.Context) error {
			return o.Segment(ctx, chapterID)
		}); err != nil {
			o.logger.Error("chapter segmentation failed",
				logging.Int64(logging.FieldChapterID, chapterID),
				logging.String(logging.FieldCorrelationID, correlationID),
				logging.Error(err))
			continue
		}
		if err := runStage("generate", func(ctx context.Context) error {
			return o.Generate(ctx, chapterID)
		}); err != nil {
			o.logger.Error("chapter generation failed",
				logging.Int64(logging.FieldChapterID, chapterID),
				logging.String(logging.FieldCorrelationID, correlationID),
				logging.Error(err))
		}
	}
}
