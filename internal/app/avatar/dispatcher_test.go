package avatar

import (
	"sync"
	"testing"
	"time"

	"backend/internal/app/message"
	"backend/internal/jobs"
	"backend/internal/utils"

	"go.uber.org/zap"
)

type recordingScheduler struct {
	mu   sync.Mutex
	jobs []jobs.Job
}

func (r *recordingScheduler) RunAfter(delay time.Duration, job jobs.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
}

func (r *recordingScheduler) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		out[i] = j.Name()
	}
	return out
}

func waitForJobs(t *testing.T, sched *recordingScheduler, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if names := sched.names(); len(names) >= n {
			return names
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d jobs, got %v", n, sched.names())
	return nil
}

func dispatcherFixture(t *testing.T) (*utils.EventBus, *recordingScheduler) {
	t.Helper()
	bus := utils.NewEventBus()
	sched := &recordingScheduler{}
	d := NewDispatcher(nil, nil, sched, zap.NewNop())
	d.Register(bus)
	go bus.Run()
	t.Cleanup(bus.Close)
	return bus, sched
}

func TestDispatcherEnqueuesUpsertAndRespond(t *testing.T) {
	bus, sched := dispatcherFixture(t)

	bus.Publish(message.EventCreated, message.Event{Message: &message.Message{
		ID: 1, ChannelID: 7, AuthorID: 2,
		Content: "@alice's avatar what's new?",
	}})

	names := waitForJobs(t, sched, 2)
	if names[0] != "embedding_upsert" || names[1] != "avatar_respond" {
		t.Errorf("jobs = %v", names)
	}
}

func TestDispatcherPlainMessageOnlyEmbeds(t *testing.T) {
	bus, sched := dispatcherFixture(t)

	bus.Publish(message.EventCreated, message.Event{Message: &message.Message{
		ID: 1, ChannelID: 7, AuthorID: 2,
		Content: "no mention here",
	}})

	names := waitForJobs(t, sched, 1)
	if len(names) != 1 || names[0] != "embedding_upsert" {
		t.Errorf("jobs = %v", names)
	}
}

func TestDispatcherSkipsAvatarMessages(t *testing.T) {
	bus, sched := dispatcherFixture(t)

	bus.Publish(message.EventCreated, message.Event{Message: &message.Message{
		ID: 1, ChannelID: 7, AuthorID: 1,
		Content:         "@bob's avatar hello back",
		IsAvatarMessage: true,
	}})
	// A trailing plain message proves delivery happened.
	bus.Publish(message.EventCreated, message.Event{Message: &message.Message{
		ID: 2, ChannelID: 7, AuthorID: 2,
		Content: "plain",
	}})

	names := waitForJobs(t, sched, 1)
	for _, n := range names {
		if n == "avatar_respond" {
			t.Errorf("avatar job dispatched for an avatar-authored message: %v", names)
		}
	}
}

func TestDispatcherEditOnlyEmbeds(t *testing.T) {
	bus, sched := dispatcherFixture(t)

	bus.Publish(message.EventEdited, message.Event{Message: &message.Message{
		ID: 1, ChannelID: 7, AuthorID: 2,
		Content: "@alice's avatar edited mention",
	}})

	names := waitForJobs(t, sched, 1)
	if len(names) != 1 || names[0] != "embedding_upsert" {
		t.Errorf("jobs = %v", names)
	}
}

func TestDispatcherDeleteEnqueuesRemoval(t *testing.T) {
	bus, sched := dispatcherFixture(t)

	bus.Publish(message.EventDeleted, message.Event{Message: &message.Message{
		ID: 1, ChannelID: 7, AuthorID: 2, Content: "bye",
	}})

	names := waitForJobs(t, sched, 1)
	if names[0] != "embedding_delete" {
		t.Errorf("jobs = %v", names)
	}
}
