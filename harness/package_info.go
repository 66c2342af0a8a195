// Package harness builds test subjects: documents loaded into an isolated frame whose readiness
// a test can wait for and whose global scope it can reach into.
//
// A Builder is configured with the resource to load and, optionally, a container to attach the
// frame to and an inline style. BuildSubject produces exactly one Subject, already attached and
// with its readiness handlers bound:
//
//	b := harness.NewBuilder(document, harness.NewHTTPOracle(baseURL, nil, logger), logger)
//	if err := b.UsingResource("/fixtures/ok.json"); err != nil {
//		return err
//	}
//	subject, err := b.BuildSubject()
//	...
//	result, err := subject.ExecuteFunction(ctx, func() interface{} {
//		app, _ := subject.GetChildContext("app")
//		return app
//	})
//
// All errors returned by this package wrap one of the sentinel errors below and can be
// matched with errors.Is.
package harness
