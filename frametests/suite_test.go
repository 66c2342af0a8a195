package frametests

import (
	"strings"
	"testing"
	"time"

	"github.com/frameharness/frame-harness/docdef"
	"github.com/frameharness/frame-harness/framework"
	"github.com/frameharness/frame-harness/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type recordingTestLogger struct {
	errors []string
}

func (r *recordingTestLogger) TestStarted(framework.TestID) {}

func (r *recordingTestLogger) TestError(id framework.TestID, err error) {
	r.errors = append(r.errors, id.String()+": "+err.Error())
}

func (r *recordingTestLogger) TestFinished(framework.TestID, bool, logging.CapturedOutput) {}

func (r *recordingTestLogger) TestSkipped(framework.TestID, string) {}

func startTestHarness(t *testing.T) *framework.TestHarness {
	h, err := framework.NewTestHarness("localhost", 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestSuitePassesAgainstFixtures(t *testing.T) {
	h := startTestHarness(t)
	fixtures := []Fixture{
		{
			Name: "app",
			Document: docdef.Document{
				Title: "app",
				Globals: map[string]ldvalue.Value{
					"app":     ldvalue.ObjectBuild().Set("version", ldvalue.String("1.0")).Build(),
					"counter": ldvalue.Int(3),
				},
				LoadDelayMS: ldvalue.NewOptionalInt(10),
			},
			Style:   "width: 100px",
			Missing: []string{"nothing"},
		},
	}
	config := SuiteConfig{WaitTimeout: time.Second * 5, PollInterval: time.Millisecond * 20}
	logger := &recordingTestLogger{}

	results := RunTestSuite(h, config, fixtures, nil, logger)

	assert.True(t, results.OK(), "failures:\n%s", strings.Join(logger.errors, "\n"))
	assert.NotEmpty(t, results.Tests)
}

func TestSuiteUsesPlaceholderWithoutFixtures(t *testing.T) {
	h := startTestHarness(t)
	config := SuiteConfig{PollInterval: time.Millisecond * 20}
	filters := framework.RegexFilters{}
	require.NoError(t, filters.MustNotMatch.Set("^(builder|lifecycle|teardown)"))
	logger := &recordingTestLogger{}

	results := RunTestSuite(h, config, nil, filters.AsFilter, logger)

	assert.True(t, results.OK(), "failures:\n%s", strings.Join(logger.errors, "\n"))
	var ran []string
	for _, r := range results.Tests {
		ran = append(ran, r.TestID.String())
	}
	assert.Contains(t, ran, "global scope/placeholder/defined names are visible")
}
