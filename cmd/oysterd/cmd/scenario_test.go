package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/oyster-market/oyster/app"
	markettypes "github.com/oyster-market/oyster/x/market/types"
)

func runScenario(t *testing.T, path string) (*Runner, []StepResult) {
	t.Helper()
	initSDKConfig()

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	runner, err := NewRunner(log.NewNopLogger(), scenario)
	require.NoError(t, err)

	results, err := runner.Run()
	require.NoError(t, err)
	require.Len(t, results, len(scenario.Steps))
	return runner, results
}

func TestLoadScenario(t *testing.T) {
	scenario, err := LoadScenario("testdata/timelock.yaml")
	require.NoError(t, err)

	require.Equal(t, int64(1700000000), scenario.StartTime)
	require.Equal(t, "ops", scenario.Admin)
	require.Equal(t, markettypes.RevisionModeTimelock, scenario.Market.RateRevisionMode)
	require.Equal(t, uint64(60), scenario.Market.LockWaitTime)
	require.Equal(t, uint64(10000), scenario.Accounts["alice"]["uusdc"])
	require.Len(t, scenario.Steps, 8)

	defaulted, err := LoadScenario("testdata/notice.yaml")
	require.NoError(t, err)
	require.Equal(t, "admin", defaulted.Admin)

	_, err = LoadScenario("testdata/missing.yaml")
	require.Error(t, err)
}

func TestRunNoticeScenario(t *testing.T) {
	runner, results := runScenario(t, "testdata/notice.yaml")

	require.Equal(t, "job=1", results[1].Result)
	require.Equal(t, "now=1700000100", results[2].Result)
	require.Equal(t, "paid=100 fully_paid=true", results[3].Result)
	require.Equal(t, uint64(1700000100), results[3].Time)
	require.Contains(t, results[4].Result, "balance=1400")

	// only the owner may withdraw
	require.NotEmpty(t, results[5].Err)
	require.Equal(t, "mallory", results[5].Actor)

	// close pays the ten second notice window before refunding
	require.Equal(t, "refunded=1390", results[6].Result)
	require.Equal(t, "1890uusdc", results[7].Result)
	require.Equal(t, "110uusdc", results[8].Result)

	ledger := runner.Ledger()
	require.NoError(t, ledger.AssertInvariants())
	require.False(t, ledger.MarketKeeper.HasOpenJobs(ledger.Context()))
	provider, err := ledger.MarketKeeper.GetProvider(ledger.Context(), app.ActorAddress("bob"))
	require.NoError(t, err)
	require.Equal(t, "https://cp.bob.example", provider.Cp)
}

func TestRunTimelockScenario(t *testing.T) {
	runner, results := runScenario(t, "testdata/timelock.yaml")

	require.Equal(t, "unlock_time=1700000060", results[1].Result)

	require.NotEmpty(t, results[2].Err)
	require.Contains(t, results[2].Result, "rate=1000000000000")

	require.Empty(t, results[4].Err)
	require.Contains(t, results[4].Result, "rate=2000000000000")
	require.Contains(t, results[4].Result, "balance=4940")

	require.NotEmpty(t, results[5].Err)
	require.Empty(t, results[6].Err)
	require.Equal(t, `unknown action "rewind"`, results[7].Err)

	market, err := runner.Ledger().MarketKeeper.GetMarket(runner.Ledger().Context())
	require.NoError(t, err)
	require.Equal(t, app.ActorAddress("ops").String(), market.Admin)
	require.Equal(t, uint64(1), market.NoticePeriod)
}

func TestWriteResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, []StepResult{
		{Step: 1, Action: "advance", Time: 10, Result: "now=10"},
		{Step: 2, Action: "job_close", Actor: "alice", Time: 10, Err: "job_close: not found"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var second StepResult
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "alice", second.Actor)
	require.Equal(t, "job_close: not found", second.Err)
	require.NotContains(t, lines[0], "actor")
}
