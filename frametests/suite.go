package frametests

import (
	"github.com/frameharness/frame-harness/framework"
)

// RunTestSuite runs every contract test against the subjects it builds from fixtures. If no
// fixtures are given, a built-in placeholder document is used.
func RunTestSuite(
	harness *framework.TestHarness,
	config SuiteConfig,
	fixtures []Fixture,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	if len(fixtures) == 0 {
		fixtures = []Fixture{placeholderFixture()}
	}
	env := &environment{
		harness:      harness,
		fixtures:     fixtures,
		waitTimeout:  config.WaitTimeout,
		pollInterval: config.PollInterval,
	}
	if env.waitTimeout <= 0 {
		env.waitTimeout = DefaultWaitTimeout
	}
	if env.pollInterval <= 0 {
		env.pollInterval = DefaultPollInterval
	}

	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := newTestScope(c, env)

		t.Run("builder", DoBuilderTests)
		t.Run("lifecycle", DoLifecycleTests)
		t.Run("global scope", DoGlobalScopeTests)
		t.Run("teardown", DoTeardownTests)
	})
}
