package verdicts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/quadrant-labs/quadrant/internal/engine"
	"github.com/quadrant-labs/quadrant/internal/llm"
	"github.com/quadrant-labs/quadrant/internal/notes"
	"github.com/quadrant-labs/quadrant/internal/prompts"
	"github.com/quadrant-labs/quadrant/internal/workflow"
	"github.com/quadrant-labs/quadrant/pkg/pagination"
	"github.com/quadrant-labs/quadrant/pkg/repository"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

var validCategories = []string{
	engine.CategoryProjects,
	engine.CategoryAreas,
	engine.CategoryResources,
	engine.CategoryArchives,
	engine.CategoryUnclassified,
}

type repo struct {
	db           *sql.DB
	rt           *workflow.Runtime
	notes        notes.System
	logger       *slog.Logger
	pagination   pagination.Config
	modelName    string
	providerName string
}

// New creates a verdict repository implementing the System interface.
// It internally constructs the decision pipeline and workflow runtime from
// the provided dependencies.
func New(
	db *sql.DB,
	agent *gaconfig.AgentConfig,
	engineCfg engine.Config,
	logger *slog.Logger,
	pagination pagination.Config,
	noteSys notes.System,
) (System, error) {
	completer := llm.New(agent)

	classifyPrompt, err := workflow.ComposePrompt(prompts.StageClassify)
	if err != nil {
		return nil, fmt.Errorf("compose classify prompt: %w", err)
	}

	pipeline, err := engine.NewPipeline(&engineCfg, completer, classifyPrompt, logger)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	rt := &workflow.Runtime{
		Pipeline:  pipeline,
		Completer: completer,
		Retriever: noteSys,
		Config:    engineCfg,
		Logger:    logger.With("workflow", "classify"),
	}

	return &repo{
		db:           db,
		rt:           rt,
		notes:        noteSys,
		logger:       logger.With("system", "verdicts"),
		pagination:   pagination,
		modelName:    agent.Model.Name,
		providerName: agent.Provider.Name,
	}, nil
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) ResolverStatistics() engine.ResolverStatistics {
	return r.rt.Pipeline.Resolver().Statistics()
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Verdict], error) {
	page.Normalize(r.pagination)

	where, args := filters.where(page.Search)

	countQ := "SELECT COUNT(*) FROM verdicts" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count verdicts: %w", err)
	}

	pageQ := fmt.Sprintf(
		"SELECT %s FROM verdicts%s ORDER BY %s LIMIT $%d OFFSET $%d",
		verdictColumns, where, orderClause(page.Sort), len(args)+1, len(args)+2,
	)
	pageArgs := append(args, page.PageSize, page.Offset())

	items, err := repository.QueryMany(ctx, r.db, pageQ, pageArgs, scanVerdict)
	if err != nil {
		return nil, fmt.Errorf("query verdicts: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Verdict, error) {
	q := fmt.Sprintf("SELECT %s FROM verdicts WHERE id = $1", verdictColumns)

	v, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanVerdict)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) FindByNote(ctx context.Context, noteID uuid.UUID) (*Verdict, error) {
	q := fmt.Sprintf("SELECT %s FROM verdicts WHERE note_id = $1", verdictColumns)

	v, err := repository.QueryOne(ctx, r.db, q, []any{noteID}, scanVerdict)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

// Classify runs the classification workflow over a note's content and
// persists the resulting verdict. Re-classifying a note replaces its prior
// verdict and clears any human validation; the note moves to review status
// either way.
func (r *repo) Classify(ctx context.Context, noteID uuid.UUID) (*Verdict, error) {
	note, content, err := r.notes.Content(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("load note %s: %w", noteID, err)
	}

	result, err := workflow.Execute(ctx, r.rt, content, note.Filename, note.UsageStats(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("classify note %s: %w", noteID, err)
	}

	verdict := result.Verdict

	tagsJSON, err := json.Marshal(orEmpty(verdict.KeywordTags))
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	keywordsJSON, err := json.Marshal(orEmpty(result.Keywords))
	if err != nil {
		return nil, fmt.Errorf("marshal keywords: %w", err)
	}

	upsertQ := fmt.Sprintf(`
		INSERT INTO verdicts(
			note_id, category, confidence, action, method,
			conflict_detected, requires_review, tags, keywords,
			reasoning, model_name, provider_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (note_id) DO UPDATE SET
			category = EXCLUDED.category,
			confidence = EXCLUDED.confidence,
			action = EXCLUDED.action,
			method = EXCLUDED.method,
			conflict_detected = EXCLUDED.conflict_detected,
			requires_review = EXCLUDED.requires_review,
			tags = EXCLUDED.tags,
			keywords = EXCLUDED.keywords,
			reasoning = EXCLUDED.reasoning,
			classified_at = NOW(),
			model_name = EXCLUDED.model_name,
			provider_name = EXCLUDED.provider_name,
			validated_by = NULL,
			validated_at = NULL
		RETURNING %s`, verdictColumns)

	upsertArgs := []any{
		noteID,
		verdict.Category,
		verdict.Confidence,
		verdict.Action,
		verdict.Method,
		verdict.ConflictDetected,
		verdict.RequiresReview,
		tagsJSON,
		keywordsJSON,
		verdict.Reasoning,
		r.modelName,
		r.providerName,
	}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Verdict, error) {
		saved, err := repository.QueryOne(ctx, tx, upsertQ, upsertArgs, scanVerdict)
		if err != nil {
			return Verdict{}, fmt.Errorf("upsert verdict: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE notes SET status = $1, updated_at = NOW() WHERE id = $2",
			notes.StatusReview, noteID,
		); err != nil {
			return Verdict{}, fmt.Errorf("update note status: %w", err)
		}

		return saved, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("note classified",
		"id", v.ID,
		"note_id", noteID,
		"category", v.Category,
		"confidence", v.Confidence,
		"action", v.Action,
		"retries", result.RetryCount,
	)
	return &v, nil
}

// Validate marks a verdict as human-confirmed and transitions the note from
// review to organized.
func (r *repo) Validate(ctx context.Context, id uuid.UUID, cmd ValidateCommand) (*Verdict, error) {
	validateQ := fmt.Sprintf(`
		UPDATE verdicts
		SET validated_by = $1, validated_at = NOW(), requires_review = FALSE
		WHERE id = $2
		RETURNING %s`, verdictColumns)

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Verdict, error) {
		saved, err := repository.QueryOne(ctx, tx, validateQ, []any{cmd.ValidatedBy, id}, scanVerdict)
		if err != nil {
			return Verdict{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if err := r.organizeNote(ctx, tx, saved.NoteID); err != nil {
			return Verdict{}, err
		}

		return saved, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("verdict validated",
		"id", v.ID,
		"validated_by", cmd.ValidatedBy,
	)
	return &v, nil
}

// Override manually replaces a verdict's category and reasoning. The method
// is recorded as a user decision with full confidence, and the note moves
// from review to organized.
func (r *repo) Override(ctx context.Context, id uuid.UUID, cmd OverrideCommand) (*Verdict, error) {
	if !slices.Contains(validCategories, cmd.Category) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, cmd.Category)
	}

	overrideQ := fmt.Sprintf(`
		UPDATE verdicts
		SET category = $1, reasoning = $2, method = 'user', confidence = 1.0,
			conflict_detected = FALSE, requires_review = FALSE,
			validated_by = $3, validated_at = NOW()
		WHERE id = $4
		RETURNING %s`, verdictColumns)

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Verdict, error) {
		saved, err := repository.QueryOne(ctx, tx, overrideQ,
			[]any{cmd.Category, cmd.Reasoning, cmd.UpdatedBy, id},
			scanVerdict,
		)
		if err != nil {
			return Verdict{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if err := r.organizeNote(ctx, tx, saved.NoteID); err != nil {
			return Verdict{}, err
		}

		return saved, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("verdict overridden",
		"id", v.ID,
		"category", v.Category,
		"updated_by", cmd.UpdatedBy,
	)
	return &v, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM verdicts WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("verdict deleted", "id", id)
	return nil
}

func (r *repo) organizeNote(ctx context.Context, tx *sql.Tx, noteID uuid.UUID) error {
	if err := repository.ExecExpectOne(
		ctx, tx,
		"UPDATE notes SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		notes.StatusOrganized, noteID, notes.StatusReview,
	); err != nil {
		return ErrInvalidStatus
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
