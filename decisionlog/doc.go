// Package decisionlog records authorization decisions for audit trails and
// debugging denied requests.
//
// A Recorder stamps each decision with an id and timestamp, enriches it from
// the request context, and hands it to a Store. Stores are pluggable: the
// in-memory store suits tests and short-lived tooling, the OpenSearch store
// suits production audit trails, and AsyncStore wraps any of them so request
// latency never depends on the audit backend.
//
//	store := decisionlog.NewMemoryStore(1000)
//	recorder := decisionlog.NewRecorder(store,
//		decisionlog.WithSubjectExtractor(func(ctx context.Context) (string, bool) {
//			return userIDFromContext(ctx)
//		}),
//	)
//
//	recorder.Denied(ctx, decisionlog.DecisionPermissions,
//		[]string{"posts.edit"}, []string{"posts.edit"}, []string{"viewer"})
//
// Recording is best effort: a failed write is reported to the caller but
// decisions themselves never depend on the log.
package decisionlog
