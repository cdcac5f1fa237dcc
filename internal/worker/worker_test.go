package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/documents"
	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/tasks"
	"github.com/JaimeStill/scribe/internal/worker"
	"github.com/JaimeStill/scribe/pkg/lifecycle"
)

type fakeTasks struct {
	queue   []*tasks.Task
	deleted []uuid.UUID
	err     error
}

func (f *fakeTasks) Claim(context.Context) (*tasks.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.queue) == 0 {
		return nil, nil
	}
	t := f.queue[0]
	f.queue = f.queue[1:]
	t.Status = tasks.StatusProcessing
	return t, nil
}

func (f *fakeTasks) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeDocuments struct {
	docs        map[uuid.UUID]*documents.Document
	claimErr    error
	transitions []documents.Status
}

func (f *fakeDocuments) Find(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, documents.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeDocuments) Claim(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	d := f.docs[id]
	if d.Status != documents.StatusPending {
		return nil, documents.ErrNotPending
	}
	d.Status = documents.StatusProcessing
	f.transitions = append(f.transitions, d.Status)
	cp := *d
	return &cp, nil
}

func (f *fakeDocuments) Complete(_ context.Context, id uuid.UUID, status documents.Status) error {
	d := f.docs[id]
	if d.Status != documents.StatusProcessing {
		return documents.ErrNotProcessing
	}
	d.Status = status
	f.transitions = append(f.transitions, status)
	return nil
}

type fakeProcessor struct {
	fn    func() error
	calls int
	got   tasks.Settings
}

func (f *fakeProcessor) Process(_ context.Context, _ documents.Document, settings tasks.Settings) error {
	f.calls++
	f.got = settings
	if f.fn == nil {
		return nil
	}
	return f.fn()
}

type fixture struct {
	tasks *fakeTasks
	docs  *fakeDocuments
	proc  *fakeProcessor
	svc   *worker.Service
	doc   *documents.Document
}

func newFixture() *fixture {
	doc := &documents.Document{
		ID:     uuid.New(),
		Format: formats.Xliff,
		Status: documents.StatusPending,
	}
	f := &fixture{
		tasks: &fakeTasks{},
		docs:  &fakeDocuments{docs: map[uuid.UUID]*documents.Document{doc.ID: doc}},
		proc:  &fakeProcessor{},
		doc:   doc,
	}
	f.svc = worker.New(
		f.tasks, f.docs, f.proc, time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		worker.WithClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
	)
	return f
}

func (f *fixture) enqueue(t *testing.T, p tasks.Payload) uuid.UUID {
	t.Helper()
	raw, err := p.Encode()
	if err != nil {
		t.Fatal(err)
	}
	return f.enqueueRaw(raw)
}

func (f *fixture) enqueueRaw(raw string) uuid.UUID {
	id := uuid.New()
	f.tasks.queue = append(f.tasks.queue, &tasks.Task{ID: id, Payload: raw, Status: tasks.StatusPending})
	return id
}

func (f *fixture) payload() tasks.Payload {
	return tasks.Payload{
		Type:       formats.Xliff,
		DocumentID: f.doc.ID,
		Settings:   &tasks.Settings{SimilarityThreshold: 0.9},
	}
}

func (f *fixture) assertDeleted(t *testing.T, id uuid.UUID) {
	t.Helper()
	if len(f.tasks.deleted) != 1 || f.tasks.deleted[0] != id {
		t.Errorf("deleted = %v, want [%s]", f.tasks.deleted, id)
	}
}

func TestRunOnceEmptyQueue(t *testing.T) {
	f := newFixture()

	ran, err := f.svc.RunOnce(context.Background())
	if ran || err != nil {
		t.Errorf("RunOnce() = %v, %v, want false, nil", ran, err)
	}
}

func TestRunOnceHappyPath(t *testing.T) {
	f := newFixture()
	id := f.enqueue(t, f.payload())

	ran, err := f.svc.RunOnce(context.Background())
	if !ran || err != nil {
		t.Fatalf("RunOnce() = %v, %v, want true, nil", ran, err)
	}

	want := []documents.Status{documents.StatusProcessing, documents.StatusDone}
	if len(f.docs.transitions) != 2 || f.docs.transitions[0] != want[0] || f.docs.transitions[1] != want[1] {
		t.Errorf("transitions = %v, want %v", f.docs.transitions, want)
	}
	if f.proc.got.SimilarityThreshold != 0.9 {
		t.Errorf("settings = %+v", f.proc.got)
	}
	f.assertDeleted(t, id)
}

func TestRunOnceProcessingFailure(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr error
	}{
		{"error", func() error { return errBoom }, errBoom},
		{"panic", func() error { panic("nil map") }, worker.ErrPanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.proc.fn = tt.fn
			id := f.enqueue(t, f.payload())

			ran, err := f.svc.RunOnce(context.Background())
			if !ran || !errors.Is(err, tt.wantErr) {
				t.Fatalf("RunOnce() = %v, %v, want true, %v", ran, err, tt.wantErr)
			}
			if f.doc.Status != documents.StatusError {
				t.Errorf("document status = %s, want error", f.doc.Status)
			}
			f.assertDeleted(t, id)
		})
	}
}

var errBoom = errors.New("extraction failed")

func TestRunOnceRejectedTasks(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fixture) uuid.UUID
		wantErr error
	}{
		{
			name: "missing document id",
			setup: func(f *fixture) uuid.UUID {
				return f.enqueueRaw(`{"type":"xliff","settings":{"similarity_threshold":1}}`)
			},
			wantErr: tasks.ErrInvalidPayload,
		},
		{
			name: "unparsable payload",
			setup: func(f *fixture) uuid.UUID {
				return f.enqueueRaw(`not json`)
			},
			wantErr: tasks.ErrInvalidPayload,
		},
		{
			name: "unknown document",
			setup: func(f *fixture) uuid.UUID {
				p := f.payload()
				p.DocumentID = uuid.New()
				raw, _ := p.Encode()
				return f.enqueueRaw(raw)
			},
			wantErr: documents.ErrNotFound,
		},
		{
			name: "document not pending",
			setup: func(f *fixture) uuid.UUID {
				f.doc.Status = documents.StatusDone
				raw, _ := f.payload().Encode()
				return f.enqueueRaw(raw)
			},
			wantErr: documents.ErrNotPending,
		},
		{
			name: "format mismatch",
			setup: func(f *fixture) uuid.UUID {
				p := f.payload()
				p.Type = formats.Txt
				raw, _ := p.Encode()
				return f.enqueueRaw(raw)
			},
			wantErr: worker.ErrFormatMismatch,
		},
		{
			name: "claimed by another worker",
			setup: func(f *fixture) uuid.UUID {
				f.docs.claimErr = documents.ErrNotPending
				raw, _ := f.payload().Encode()
				return f.enqueueRaw(raw)
			},
			wantErr: documents.ErrNotPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			id := tt.setup(f)
			before := f.doc.Status

			ran, err := f.svc.RunOnce(context.Background())
			if !ran || !errors.Is(err, tt.wantErr) {
				t.Fatalf("RunOnce() = %v, %v, want true, %v", ran, err, tt.wantErr)
			}
			if len(f.docs.transitions) != 0 {
				t.Errorf("document transitions = %v, want none", f.docs.transitions)
			}
			if f.doc.Status != before {
				t.Errorf("document status = %s, want %s", f.doc.Status, before)
			}
			if f.proc.calls != 0 {
				t.Errorf("processor calls = %d, want 0", f.proc.calls)
			}
			f.assertDeleted(t, id)
		})
	}
}

func TestRunOnceClaimError(t *testing.T) {
	f := newFixture()
	f.tasks.err = errors.New("connection refused")

	ran, err := f.svc.RunOnce(context.Background())
	if ran || err == nil {
		t.Errorf("RunOnce() = %v, %v, want false and an error", ran, err)
	}
}

func TestRunDrainsQueueAndSleeps(t *testing.T) {
	f := newFixture()
	other := &documents.Document{ID: uuid.New(), Format: formats.Txt, Status: documents.StatusPending}
	f.docs.docs[other.ID] = other

	f.enqueue(t, f.payload())
	f.enqueue(t, tasks.Payload{Type: formats.Txt, DocumentID: other.ID, Settings: &tasks.Settings{SimilarityThreshold: 1}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var waits []time.Duration
	svc := worker.New(
		f.tasks, f.docs, f.proc, 3*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		worker.WithSleep(func(ctx context.Context, d time.Duration) error {
			waits = append(waits, d)
			cancel()
			return ctx.Err()
		}),
	)

	svc.Run(ctx)

	if f.proc.calls != 2 {
		t.Errorf("processor calls = %d, want 2", f.proc.calls)
	}
	if len(f.tasks.deleted) != 2 {
		t.Errorf("deleted = %d, want 2", len(f.tasks.deleted))
	}
	if len(waits) != 1 || waits[0] != 3*time.Second {
		t.Errorf("waits = %v, want [3s]", waits)
	}
	if f.doc.Status != documents.StatusDone || other.Status != documents.StatusDone {
		t.Errorf("statuses = %s, %s, want done", f.doc.Status, other.Status)
	}
}

func TestStartFinishesTaskBeforeShutdown(t *testing.T) {
	f := newFixture()
	f.enqueue(t, f.payload())

	started := make(chan struct{})
	var finished atomic.Bool
	f.proc.fn = func() error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}

	lc := lifecycle.New()

	var finishedAtClose atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		finishedAtClose.Store(finished.Load())
	})

	if err := f.svc.Start(lc); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	lc.WaitForStartup()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("task was never processed")
	}

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if !finishedAtClose.Load() {
		t.Error("resources closed before the task in flight finished")
	}
	if f.doc.Status != documents.StatusDone {
		t.Errorf("status = %s, want done", f.doc.Status)
	}
}
