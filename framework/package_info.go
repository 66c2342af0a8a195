// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. The test harness runs an HTTP listener that can expose any number of mock endpoints.
// Documents loaded by test subjects are served from these endpoints, so the harness can see
// every request a subject makes.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the HTTP handlers for mock endpoints and a domain-specific test API on top of the test
// context.
package framework
