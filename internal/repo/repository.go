package repo

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/reptrack/internal/model"
	"github.com/roach88/reptrack/internal/store"
)

var _ Backend = (*store.Store)(nil)

// DefaultWorkers is the worker count used when Options.Workers is not set.
const DefaultWorkers = 4

// ErrClosed resolves futures submitted after Close.
var ErrClosed = errors.New("repository closed")

// Backend is the synchronous operation set a Repository runs on its
// workers. *store.Store implements it.
type Backend interface {
	InsertSession(ctx context.Context, sess model.Session) (int64, error)
	UpsertDaily(ctx context.Context, dp model.DailyProgress) error
	UpsertProfile(ctx context.Context, p model.Profile) error
	UpdateProfileName(ctx context.Context, name string) error
	SetProfileXP(ctx context.Context, totalXP int64) error
	DeleteSession(ctx context.Context, id int64) (int64, error)

	ListSessions(ctx context.Context) ([]model.Session, error)
	GetSession(ctx context.Context, id int64) (model.Session, bool, error)
	CountSessions(ctx context.Context) (int64, error)
	SumRepsForExercise(ctx context.Context, exercise string) (model.Total, error)
	SumTotalXP(ctx context.Context) (model.Total, error)
	GetDaily(ctx context.Context, date string) (model.DailyProgress, bool, error)
	RecentDaily(ctx context.Context, limit int) ([]model.DailyProgress, error)
	GetProfile(ctx context.Context) (model.Profile, bool, error)

	ClearAll(ctx context.Context) (store.MaintenanceReport, error)
}

// Options configures a Repository.
type Options struct {
	// Workers bounds how many operations run at once. Defaults to
	// DefaultWorkers.
	Workers int
}

// Repository runs Backend operations on a bounded worker pool.
//
// Thread-safety: every method may be called from any goroutine.
type Repository struct {
	backend Backend
	queue   *jobQueue
	group   errgroup.Group
}

// New starts a Repository over backend. Call Close to stop its workers.
func New(backend Backend, opts Options) *Repository {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	r := &Repository{
		backend: backend,
		queue:   newJobQueue(),
	}
	for i := 0; i < workers; i++ {
		r.group.Go(func() error {
			r.work()
			return nil
		})
	}
	return r
}

// work runs jobs until the queue is closed and drained.
func (r *Repository) work() {
	for {
		j, ok, done := r.queue.TryDequeue()
		if done {
			return
		}
		if ok {
			j()
			continue
		}
		<-r.queue.Wait()
	}
}

// Close stops accepting operations, finishes the queued ones and waits for
// the workers to exit. It is safe to call more than once.
func (r *Repository) Close() error {
	r.queue.Close()
	return r.group.Wait()
}

// Pending returns how many operations are queued and not yet started.
func (r *Repository) Pending() int {
	return r.queue.Len()
}

// submit queues fn and returns its future.
func submit[T any](r *Repository, ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	var zero T

	ok := r.queue.Enqueue(func() {
		if err := ctx.Err(); err != nil {
			f.resolve(zero, err)
			return
		}
		v, err := fn(context.WithoutCancel(ctx))
		f.resolve(v, err)
	})
	if !ok {
		f.resolve(zero, ErrClosed)
	}
	return f
}

// InsertSession queues a strict insert; the future yields the new id.
func (r *Repository) InsertSession(ctx context.Context, sess model.Session) *Future[int64] {
	return submit(r, ctx, func(ctx context.Context) (int64, error) {
		return r.backend.InsertSession(ctx, sess)
	})
}

// UpsertDaily queues a replace of the progress row for dp.Date.
func (r *Repository) UpsertDaily(ctx context.Context, dp model.DailyProgress) *Future[struct{}] {
	return submit(r, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.backend.UpsertDaily(ctx, dp)
	})
}

// UpsertProfile queues a replace of the profile slot.
func (r *Repository) UpsertProfile(ctx context.Context, p model.Profile) *Future[struct{}] {
	return submit(r, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.backend.UpsertProfile(ctx, p)
	})
}

// UpdateProfileName queues a rename that keeps the stored XP.
func (r *Repository) UpdateProfileName(ctx context.Context, name string) *Future[struct{}] {
	return submit(r, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.backend.UpdateProfileName(ctx, name)
	})
}

// SetProfileXP queues an XP update that keeps the stored name.
func (r *Repository) SetProfileXP(ctx context.Context, totalXP int64) *Future[struct{}] {
	return submit(r, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.backend.SetProfileXP(ctx, totalXP)
	})
}

// DeleteSession queues a delete; the future yields the affected row count.
func (r *Repository) DeleteSession(ctx context.Context, id int64) *Future[int64] {
	return submit(r, ctx, func(ctx context.Context) (int64, error) {
		return r.backend.DeleteSession(ctx, id)
	})
}

func (r *Repository) ListSessions(ctx context.Context) *Future[[]model.Session] {
	return submit(r, ctx, r.backend.ListSessions)
}

func (r *Repository) GetSession(ctx context.Context, id int64) *Future[Optional[model.Session]] {
	return submit(r, ctx, func(ctx context.Context) (Optional[model.Session], error) {
		sess, found, err := r.backend.GetSession(ctx, id)
		return Optional[model.Session]{Value: sess, Found: found}, err
	})
}

func (r *Repository) CountSessions(ctx context.Context) *Future[int64] {
	return submit(r, ctx, r.backend.CountSessions)
}

func (r *Repository) SumRepsForExercise(ctx context.Context, exercise string) *Future[model.Total] {
	return submit(r, ctx, func(ctx context.Context) (model.Total, error) {
		return r.backend.SumRepsForExercise(ctx, exercise)
	})
}

func (r *Repository) SumTotalXP(ctx context.Context) *Future[model.Total] {
	return submit(r, ctx, r.backend.SumTotalXP)
}

func (r *Repository) GetDaily(ctx context.Context, date string) *Future[Optional[model.DailyProgress]] {
	return submit(r, ctx, func(ctx context.Context) (Optional[model.DailyProgress], error) {
		dp, found, err := r.backend.GetDaily(ctx, date)
		return Optional[model.DailyProgress]{Value: dp, Found: found}, err
	})
}

func (r *Repository) RecentDaily(ctx context.Context, limit int) *Future[[]model.DailyProgress] {
	return submit(r, ctx, func(ctx context.Context) ([]model.DailyProgress, error) {
		return r.backend.RecentDaily(ctx, limit)
	})
}

func (r *Repository) GetProfile(ctx context.Context) *Future[Optional[model.Profile]] {
	return submit(r, ctx, func(ctx context.Context) (Optional[model.Profile], error) {
		p, found, err := r.backend.GetProfile(ctx)
		return Optional[model.Profile]{Value: p, Found: found}, err
	})
}

// ClearAll queues the full clear plus checkpoint and compaction.
func (r *Repository) ClearAll(ctx context.Context) *Future[store.MaintenanceReport] {
	return submit(r, ctx, r.backend.ClearAll)
}
