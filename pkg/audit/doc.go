// Package audit records authorization decisions to an append-only sink.
//
// Every guard decision produces one Event: who asked, inside which tenant,
// for which permission, and whether the call was allowed. Deny events
// additionally carry a reason category so operators can tell outages
// (resolution_error) apart from access-control activity (permission_denied,
// tenant_unresolved, unauthenticated) - a distinction that is deliberately
// absent from the HTTP responses themselves.
//
// Auditing is fire-and-forget. The guard writes through an AsyncSink,
// which queues the event and returns immediately; a slow or failing audit
// backend can drop records (counted) but can never block or fail a
// request.
//
// Sinks: MemorySink (tests), MongoSink (operational store), S3Sink
// (batched JSON-lines archival), NoopSink. Compose with NewAsyncSink:
//
//	mongoSink, _ := audit.NewMongoSink(db, "")
//	sink := audit.NewAsyncSink(mongoSink, audit.AsyncOptions{})
//	defer sink.Close(ctx)
package audit
