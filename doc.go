// Package courier delivers transactional and campaign email with an
// at-most-once guarantee per (campaign, recipient) pair.
//
// A campaign is composed once — template rendered to HTML, CSS inlined,
// recipients attached — and then submitted as a background job. Before
// anything reaches the transport, every recipient's durable delivery
// record is created and locked; recipients already marked sent are
// skipped. The guarantee holds across concurrent workers and retried
// invocations because the record store serializes senders per pair.
//
// # Usage
//
//	pool, _ := db.Connect(ctx, dbCfg)
//	_ = db.Migrate(ctx, pool, migrations.FS, dbCfg.MigrationsTable, log)
//
//	transport := resend.New(resendCfg)
//	store := delivery.NewPostgresStore(pool)
//
//	c, err := courier.New(store, transport, templatesFS, courier.Config{},
//		courier.WithLogger(log),
//		courier.WithReporter(logger.SentryReporter{}),
//	)
//	if err != nil {
//		return err
//	}
//
//	manager, _ := job.NewManager(pool, job.WithTask(c.Task()))
//	c.SetSubmitter(manager)
//
//	msg, err := c.NewMessage("invite-2026-09", "You're invited", "invite.md", data)
//	if err != nil {
//		return err // configuration or rendering problem, never a delivery one
//	}
//	msg.AddRecipient("alice@example.com", "Alice")
//	msg.AddRecipient("bob@example.com", "")
//
//	if err := msg.Send(ctx); err != nil { // async; SendSync runs inline
//		return err
//	}
//
// Callers only ever observe configuration and usage errors
// synchronously. Delivery failures are absorbed inside the task and
// reported through the error reporter side-channel; re-running a
// campaign with the same key retries exactly the recipients that were
// never marked sent.
package courier
