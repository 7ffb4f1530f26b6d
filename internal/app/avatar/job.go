package avatar

import (
	"context"

	"backend/internal/jobs"

	"go.uber.org/zap"
)

type respondJob struct {
	svc    Service
	in     MentionInput
	logger *zap.SugaredLogger
}

func NewRespondJob(svc Service, in MentionInput, logger *zap.Logger) jobs.Job {
	return &respondJob{svc: svc, in: in, logger: logger.Sugar()}
}

func (j *respondJob) Name() string { return "avatar_respond" }

func (j *respondJob) Run(ctx context.Context) error {
	res, err := j.svc.Respond(ctx, j.in)
	if err != nil {
		return err
	}
	if res.Outcome != OutcomeReplied {
		j.logger.Debugw("Avatar run skipped", "outcome", res.Outcome.String(), "reason", res.Reason, "kind", j.in.Ref.Kind, "id", j.in.Ref.ID)
	}
	return nil
}
