package doctor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCheck returns a fixed result.
type stubCheck struct {
	name     string
	category string
	result   CheckResult
	runs     int
}

func (s *stubCheck) Name() string     { return s.name }
func (s *stubCheck) Category() string { return s.category }
func (s *stubCheck) Run(ctx context.Context) CheckResult {
	s.runs++
	return s.result
}

func TestCheckStatusString(t *testing.T) {
	tests := []struct {
		status CheckStatus
		want   string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestCheckResultJSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "x", Status: StatusWarn, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","status":"warn","message":"m"}`, string(data))
}

func TestRunAllKeepsOrder(t *testing.T) {
	first := &stubCheck{name: "a", result: CheckResult{Name: "a", Status: StatusPass}}
	second := &stubCheck{name: "b", result: CheckResult{Name: "b", Status: StatusFail}}

	results := RunAll(context.Background(), []Check{first, second})

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "b", results[1].Name)
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, second.runs)
}

func TestResultAggregates(t *testing.T) {
	tests := []struct {
		name        string
		statuses    []CheckStatus
		hasFailures bool
		hasIssues   bool
		summary     string
	}{
		{"all pass", []CheckStatus{StatusPass, StatusPass}, false, false, "Everything looks good"},
		{"one warning", []CheckStatus{StatusPass, StatusWarn}, false, true, "1 issue found"},
		{"warn and fail", []CheckStatus{StatusWarn, StatusFail, StatusPass}, true, true, "2 issues found"},
		{"empty", nil, false, false, "Everything looks good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]CheckResult, len(tt.statuses))
			for i, s := range tt.statuses {
				results[i] = CheckResult{Status: s}
			}

			assert.Equal(t, tt.hasFailures, HasFailures(results))
			assert.Equal(t, tt.hasIssues, HasIssues(results))
			assert.Equal(t, tt.summary, Summary(results))
		})
	}
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]CheckResult{
		{Status: StatusPass}, {Status: StatusPass}, {Status: StatusFail},
	})
	assert.Equal(t, 2, counts[StatusPass])
	assert.Equal(t, 0, counts[StatusWarn])
	assert.Equal(t, 1, counts[StatusFail])
}

func TestCheckStatusTextRoundTrip(t *testing.T) {
	for _, s := range []CheckStatus{StatusPass, StatusWarn, StatusFail} {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got CheckStatus
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}

	var bad CheckStatus
	assert.Error(t, bad.UnmarshalText([]byte("maybe")))
}
