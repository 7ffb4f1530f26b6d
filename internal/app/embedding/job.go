package embedding

import (
	"context"
	"fmt"

	"backend/internal/apperr"
	"backend/internal/jobs"

	"go.uber.org/zap"
)

// upsertJob keeps one message's embedding in sync with its current
// content. Enqueued with zero delay on every create and content edit.
type upsertJob struct {
	svc     Service
	ref     MessageRef
	content string
}

func NewUpsertJob(svc Service, ref MessageRef, content string) jobs.Job {
	return &upsertJob{svc: svc, ref: ref, content: content}
}

func (j *upsertJob) Name() string { return "embedding_upsert" }

func (j *upsertJob) Run(ctx context.Context) error {
	err := j.svc.Upsert(ctx, j.ref, j.content)
	if apperr.IsNotFound(err) {
		// Message deleted between enqueue and execution; nothing to
		// keep in sync.
		return nil
	}
	return err
}

type deleteJob struct {
	svc Service
	ref MessageRef
}

func NewDeleteJob(svc Service, ref MessageRef) jobs.Job {
	return &deleteJob{svc: svc, ref: ref}
}

func (j *deleteJob) Name() string { return "embedding_delete" }

func (j *deleteJob) Run(ctx context.Context) error {
	return j.svc.Delete(ctx, j.ref)
}

// backfillJob walks messages that predate the embedding index (or were
// written by an older model generation) and enqueues upkeep for each,
// a batch per run.
type backfillJob struct {
	svc      Service
	messages ChannelMessages
	dms      DirectMessages
	sched    jobs.Scheduler
	batch    int
	logger   *zap.SugaredLogger
}

func NewBackfillJob(
	svc Service,
	messages ChannelMessages,
	dms DirectMessages,
	sched jobs.Scheduler,
	batch int,
	logger *zap.Logger,
) jobs.Job {
	if batch < 1 {
		batch = 100
	}
	return &backfillJob{
		svc:      svc,
		messages: messages,
		dms:      dms,
		sched:    sched,
		batch:    batch,
		logger:   logger.Sugar(),
	}
}

func (j *backfillJob) Name() string { return "embedding_backfill" }

func (j *backfillJob) Run(ctx context.Context) error {
	missing, err := j.svc.MissingRefs(j.batch)
	if err != nil {
		return fmt.Errorf("failed to list messages without embeddings: %w", err)
	}
	outdated, err := j.svc.OutdatedRefs(j.batch)
	if err != nil {
		return fmt.Errorf("failed to list outdated embeddings: %w", err)
	}

	enqueued := 0
	for _, ref := range append(missing, outdated...) {
		content, err := j.contentFor(ref)
		if err != nil {
			continue
		}
		j.sched.RunAfter(0, NewUpsertJob(j.svc, ref, content))
		enqueued++
	}

	j.logger.Infow("Embedding backfill pass", "missing", len(missing), "outdated", len(outdated), "enqueued", enqueued)
	return nil
}

func (j *backfillJob) contentFor(ref MessageRef) (string, error) {
	switch ref.Kind {
	case KindChannelMessage:
		m, err := j.messages.GetByID(ref.ID)
		if err != nil {
			return "", err
		}
		return m.Content, nil
	case KindDirectMessage:
		m, err := j.dms.GetByID(ref.ID)
		if err != nil {
			return "", err
		}
		return m.Content, nil
	}
	return "", apperr.Validation("unknown message kind %q", ref.Kind)
}
