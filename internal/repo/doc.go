// Package repo exposes the store's operations asynchronously.
//
// A Repository owns a fixed pool of workers that drain a FIFO job queue.
// Every operation returns a *Future immediately; the caller's goroutine
// never waits on SQLite unless it chooses to Await.
//
// Cancellation model:
//   - Await(ctx) returns ctx.Err() as soon as ctx is done; the caller stops
//     waiting but the operation is not interrupted.
//   - A job that has started runs with context.WithoutCancel, so its
//     transaction always either commits or rolls back on its own terms.
//   - A job whose context is already done when a worker picks it up is not
//     started and resolves to ctx.Err().
//
// No timeouts are applied; callers that want one pass a context with a
// deadline to Await.
package repo
