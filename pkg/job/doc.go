// Package job provides the work-queue boundary for campaign delivery,
// built on River (a Postgres-native job queue).
//
// Delivery tasks are enqueued as jobs with at-least-once execution
// semantics; the at-most-once delivery guarantee comes entirely from the
// delivery record store, never from the queue. The package offers:
//
//   - Manager: enqueueing plus worker processing, with named queues,
//     bounded retries, and periodic (cron) tasks for re-triggering
//     recurring campaigns.
//   - Enqueuer: insert-only client for processes that dispatch jobs but
//     run no workers.
//   - Transactional enqueueing (EnqueueTx), so a campaign job becomes
//     visible only when the surrounding application transaction commits.
//
// # Task definition
//
// Tasks are structs with Name() and Handle() methods; registration uses
// structural typing, no interface import needed:
//
//	task, _ := delivery.NewTask(store, transport)
//
//	manager, _ := job.NewManager(pool,
//	    job.WithTask(task),
//	    job.WithQueue("email", 10),
//	)
//
//	_ = manager.Enqueue(ctx, delivery.TaskName, payload,
//	    job.MaxAttempts(delivery.MaxAttempts),
//	)
package job
