package docdef

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	d, err := Parse([]byte(`{"title":"ok","globals":{"foo":42,"app":{"name":"x"}},"loadDelayMs":150}`))
	require.NoError(t, err)

	assert.Equal(t, "ok", d.Title)
	assert.Equal(t, 42, d.Globals["foo"].IntValue())
	assert.Equal(t, "x", d.Globals["app"].GetByKey("name").StringValue())
	assert.Equal(t, 150*time.Millisecond, d.LoadDelay())
}

func TestParseDocumentWithoutDelay(t *testing.T) {
	d, err := Parse([]byte(`{"globals":{}}`))
	require.NoError(t, err)
	assert.False(t, d.LoadDelayMS.IsDefined())
	assert.Equal(t, time.Duration(0), d.LoadDelay())
}

func TestParseRejectsNonObject(t *testing.T) {
	_, err := Parse([]byte(`"just a string"`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	for _, p := range []struct {
		base, ref, expected string
	}{
		{"http://localhost:8111/endpoints/1", "/fixtures/ok.json", "http://localhost:8111/fixtures/ok.json"},
		{"http://localhost:8111/endpoints/", "ok.json", "http://localhost:8111/endpoints/ok.json"},
		{"http://localhost:8111", "http://other/x", "http://other/x"},
		{"", "/fixtures/ok.json", "/fixtures/ok.json"},
	} {
		t.Run(p.base+" "+p.ref, func(t *testing.T) {
			actual, err := Resolve(p.base, p.ref)
			require.NoError(t, err)
			assert.Equal(t, p.expected, actual)
		})
	}
}
