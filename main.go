package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/frameharness/frame-harness/framework"
	"github.com/frameharness/frame-harness/frametests"
	"github.com/frameharness/frame-harness/logging"

	"go.uber.org/zap"
)

const (
	defaultHost = "localhost"
	defaultPort = 8111
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}
	os.Exit(run(params))
}

func run(params commandParams) int {
	mainDebugLogger := logging.NullLogger()
	if params.debugAll {
		zapLogger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create debug logger: %s\n", err)
			return 1
		}
		defer func() { _ = zapLogger.Sync() }()
		mainDebugLogger = logging.NewZapLogger(zapLogger)
	}

	config, err := loadConfig(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		return 1
	}
	fixtures, err := frametests.LoadFixtures(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fixture error: %s\n", err)
		return 1
	}

	harness, err := framework.NewTestHarness(params.host, params.port, mainDebugLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Test harness error: %s\n", err)
		return 1
	}
	defer func() { _ = harness.Close() }()

	fmt.Printf("Loaded %d fixture(s) from %s\n", len(fixtures), config.FixturesDir)
	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := frametests.RunTestSuite(harness, config, fixtures, params.filters.AsFilter, testLogger)

	fmt.Println()
	framework.PrintResults(os.Stdout, results)
	if !results.OK() {
		fmt.Println()
		fmt.Println("To rerun a failed test:")
		for _, f := range results.Failures {
			fmt.Printf("  %s\n", params.rerunCommand(os.Args[0], f.TestID))
		}
		return 1
	}
	return 0
}

func loadConfig(params commandParams) (frametests.SuiteConfig, error) {
	var config frametests.SuiteConfig
	if params.configFile != "" {
		c, err := frametests.LoadSuiteConfig(params.configFile)
		if err != nil {
			return config, err
		}
		config = c
	} else {
		config = frametests.DefaultSuiteConfig()
	}
	if params.fixturesDir != "" {
		config.FixturesDir = params.fixturesDir
	}
	if params.waitTimeout > 0 {
		config.WaitTimeout = params.waitTimeout
	}
	if params.pollInterval > 0 {
		config.PollInterval = params.pollInterval
	}
	return config, nil
}

// testIDPattern returns a regex that matches id and each of its ancestors, since a filter that
// excludes a parent test also excludes its subtests.
func testIDPattern(id framework.TestID) string {
	if len(id.Path) == 0 {
		return ""
	}
	var inner string
	for i := len(id.Path) - 1; i > 0; i-- {
		inner = "(/" + regexp.QuoteMeta(id.Path[i]) + inner + ")?"
	}
	return "^" + regexp.QuoteMeta(id.Path[0]) + inner + "$"
}
