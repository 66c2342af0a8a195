package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frameharness/frame-harness/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	fixturesDir  string
	configFile   string
	port         int
	host         string
	filters      framework.RegexFilters
	waitTimeout  time.Duration
	pollInterval time.Duration
	debug        bool
	debugAll     bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.fixturesDir, "fixtures", "", "directory containing fixture documents")
	fs.StringVar(&c.configFile, "config", "", "TOML suite configuration file")
	fs.StringVar(&c.host, "host", defaultHost, "external hostname of the test harness")
	fs.IntVar(&c.port, "port", defaultPort, "port that the test harness will listen on (0 for any)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.DurationVar(&c.waitTimeout, "timeout", 0, "how long a test waits for a subject (overrides config)")
	fs.DurationVar(&c.pollInterval, "poll", 0, "how often subjects check their wait condition (overrides config)")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if c.fixturesDir == "" && c.configFile == "" {
		fmt.Fprintln(os.Stderr, "-fixtures or -config is required")
		fs.Usage()
		return false
	}
	if c.waitTimeout < 0 || c.pollInterval < 0 {
		fmt.Fprintln(os.Stderr, "-timeout and -poll must not be negative")
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand returns a command line that repeats this run for a single test.
func (c *commandParams) rerunCommand(program string, id framework.TestID) string {
	var b commandBuilder
	b.add(program)
	if c.configFile != "" {
		b.add("-config", c.configFile)
	}
	if c.fixturesDir != "" {
		b.add("-fixtures", c.fixturesDir)
	}
	if c.host != defaultHost {
		b.add("-host", c.host)
	}
	if c.port != defaultPort {
		b.add("-port", strconv.Itoa(c.port))
	}
	if c.waitTimeout > 0 {
		b.add("-timeout", c.waitTimeout.String())
	}
	if c.pollInterval > 0 {
		b.add("-poll", c.pollInterval.String())
	}
	b.add("-run", testIDPattern(id))
	if c.debug || c.debugAll {
		b.add("-debug")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
