package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/oyster-market/oyster/app"
	markettypes "github.com/oyster-market/oyster/x/market/types"
	sharedkeeper "github.com/oyster-market/oyster/x/shared/keeper"
	timelocktypes "github.com/oyster-market/oyster/x/timelock/types"
)

// Scenario is a scripted sequence of ledger operations.
type Scenario struct {
	StartTime int64                        `mapstructure:"start_time"`
	Admin     string                       `mapstructure:"admin"`
	Market    ScenarioMarket               `mapstructure:"market"`
	Accounts  map[string]map[string]uint64 `mapstructure:"accounts"`
	Steps     []map[string]interface{}     `mapstructure:"steps"`
}

// ScenarioMarket overrides the default market configuration.
type ScenarioMarket struct {
	TokenDenom       string `mapstructure:"token_denom"`
	CreditDenom      string `mapstructure:"credit_denom"`
	NoticePeriod     uint64 `mapstructure:"notice_period"`
	RateRevisionMode string `mapstructure:"rate_revision_mode"`
	LockWaitTime     uint64 `mapstructure:"lock_wait_time"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Actor  string `json:"actor,omitempty"`
	Time   uint64 `json:"time"`
	Result string `json:"result"`
	Err    string `json:"error,omitempty"`
}

// LoadScenario decodes a YAML (or JSON) scenario file.
func LoadScenario(path string) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	var scenario Scenario
	if err := v.Unmarshal(&scenario); err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", path, err)
	}
	if scenario.Admin == "" {
		scenario.Admin = "admin"
	}
	return &scenario, nil
}

// genesis builds the ledger genesis of the scenario.
func (s *Scenario) genesis() (app.GenesisState, error) {
	genesis := app.NewDefaultGenesisState()

	marketGenesis := markettypes.DefaultGenesis()
	marketGenesis.Market.Admin = app.ActorAddress(s.Admin).String()
	if s.Market.TokenDenom != "" {
		marketGenesis.Market.TokenDenom = s.Market.TokenDenom
	}
	marketGenesis.Market.CreditDenom = s.Market.CreditDenom
	if s.Market.NoticePeriod != 0 {
		marketGenesis.Market.NoticePeriod = s.Market.NoticePeriod
	}
	if s.Market.RateRevisionMode != "" {
		marketGenesis.Market.RateRevisionMode = s.Market.RateRevisionMode
	}
	bz, err := json.Marshal(marketGenesis)
	if err != nil {
		return nil, err
	}
	genesis[markettypes.ModuleName] = bz

	timelockGenesis := timelocktypes.DefaultGenesis()
	if s.Market.LockWaitTime != 0 {
		timelockGenesis.WaitTimes = append(timelockGenesis.WaitTimes, timelocktypes.WaitTime{
			Selector: markettypes.RateLockSelector,
			WaitTime: s.Market.LockWaitTime,
		})
	}
	bz, err = json.Marshal(timelockGenesis)
	if err != nil {
		return nil, err
	}
	genesis[timelocktypes.ModuleName] = bz

	return genesis, nil
}

// Runner replays a scenario against a fresh ledger.
type Runner struct {
	scenario *Scenario
	ledger   *app.Ledger
	logger   log.Logger
}

// NewRunner creates the ledger of a scenario and funds its accounts.
func NewRunner(logger log.Logger, scenario *Scenario) (*Runner, error) {
	genesis, err := scenario.genesis()
	if err != nil {
		return nil, err
	}

	ledger, err := app.NewLedger(logger, time.Unix(scenario.StartTime, 0), genesis)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(scenario.Accounts))
	for name := range scenario.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		coins := sdk.NewCoins()
		for denom, amount := range scenario.Accounts[name] {
			coins = coins.Add(sdk.NewCoin(denom, math.NewIntFromUint64(amount)))
		}
		if coins.IsZero() {
			continue
		}
		if err := ledger.Fund(app.ActorAddress(name), coins); err != nil {
			return nil, fmt.Errorf("fund %s: %w", name, err)
		}
	}

	return &Runner{scenario: scenario, ledger: ledger, logger: logger}, nil
}

// Ledger returns the ledger the runner drives.
func (r *Runner) Ledger() *app.Ledger {
	return r.ledger
}

// Run executes every step in order. A failing step is recorded and the run
// continues; a broken invariant stops it.
func (r *Runner) Run() ([]StepResult, error) {
	results := make([]StepResult, 0, len(r.scenario.Steps))
	for i, step := range r.scenario.Steps {
		action := cast.ToString(step["action"])
		actor := cast.ToString(step["actor"])

		result := StepResult{
			Step:   i + 1,
			Action: action,
			Actor:  actor,
		}
		out, err := r.apply(action, actor, step)
		result.Time = uint64(r.ledger.BlockTime().Unix())
		result.Result = out
		if err != nil {
			result.Err = err.Error()
			r.logger.Info("scenario step failed", "step", i+1, "action", action, "err", err)
		}
		results = append(results, result)

		if err := r.ledger.AssertInvariants(); err != nil {
			return results, fmt.Errorf("after step %d (%s): %w", i+1, action, err)
		}
	}
	return results, nil
}

func (r *Runner) apply(action, actor string, step map[string]interface{}) (string, error) {
	ctx := r.ledger.Context()
	sender := app.ActorAddress(actor).String()
	ms := r.ledger.MarketMsgServer

	jobIndex := func() (uint64, error) { return cast.ToUint64E(step["job"]) }

	switch action {
	case "advance":
		seconds, err := cast.ToUint64E(step["seconds"])
		if err != nil {
			return "", fmt.Errorf("seconds: %w", err)
		}
		r.ledger.AdvanceTime(sharedkeeper.SecondsToDuration(seconds))
		return fmt.Sprintf("now=%d", r.ledger.BlockTime().Unix()), nil

	case "job_open":
		rate, err := cast.ToUint64E(step["rate"])
		if err != nil {
			return "", fmt.Errorf("rate: %w", err)
		}
		balance, err := cast.ToUint64E(step["balance"])
		if err != nil {
			return "", fmt.Errorf("balance: %w", err)
		}
		res, err := ms.JobOpen(ctx, &markettypes.MsgJobOpen{
			Owner:    sender,
			Metadata: cast.ToString(step["metadata"]),
			Provider: app.ActorAddress(cast.ToString(step["provider"])).String(),
			Rate:     rate,
			Balance:  balance,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("job=%d", res.JobIndex), nil

	case "job_settle":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		res, err := ms.JobSettle(ctx, &markettypes.MsgJobSettle{Sender: sender, JobIndex: idx})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("paid=%d fully_paid=%t", res.Amount, res.FullyPaid), nil

	case "job_deposit":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		amount, err := cast.ToUint64E(step["amount"])
		if err != nil {
			return "", fmt.Errorf("amount: %w", err)
		}
		_, err = ms.JobDeposit(ctx, &markettypes.MsgJobDeposit{Sender: sender, JobIndex: idx, Amount: amount})
		return r.describeJob(ctx, idx), err

	case "job_withdraw":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		amount, err := cast.ToUint64E(step["amount"])
		if err != nil {
			return "", fmt.Errorf("amount: %w", err)
		}
		_, err = ms.JobWithdraw(ctx, &markettypes.MsgJobWithdraw{Owner: sender, JobIndex: idx, Amount: amount})
		return r.describeJob(ctx, idx), err

	case "job_close":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		res, err := ms.JobClose(ctx, &markettypes.MsgJobClose{Owner: sender, JobIndex: idx})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("refunded=%d", res.Refunded), nil

	case "job_revise_rate":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		rate, err := cast.ToUint64E(step["rate"])
		if err != nil {
			return "", fmt.Errorf("rate: %w", err)
		}
		_, err = ms.JobReviseRate(ctx, &markettypes.MsgJobReviseRate{Owner: sender, JobIndex: idx, NewRate: rate})
		return r.describeJob(ctx, idx), err

	case "job_revise_rate_initiate":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		rate, err := cast.ToUint64E(step["rate"])
		if err != nil {
			return "", fmt.Errorf("rate: %w", err)
		}
		res, err := ms.JobReviseRateInitiate(ctx, &markettypes.MsgJobReviseRateInitiate{Owner: sender, JobIndex: idx, NewRate: rate})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("unlock_time=%d", res.UnlockTime), nil

	case "job_revise_rate_cancel":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		_, err = ms.JobReviseRateCancel(ctx, &markettypes.MsgJobReviseRateCancel{Owner: sender, JobIndex: idx})
		return r.describeJob(ctx, idx), err

	case "job_revise_rate_finalize":
		idx, err := jobIndex()
		if err != nil {
			return "", fmt.Errorf("job: %w", err)
		}
		_, err = ms.JobReviseRateFinalize(ctx, &markettypes.MsgJobReviseRateFinalize{Owner: sender, JobIndex: idx})
		return r.describeJob(ctx, idx), err

	case "provider_add":
		_, err := ms.ProviderAdd(ctx, &markettypes.MsgProviderAdd{Provider: sender, Cp: cast.ToString(step["cp"])})
		return "", err

	case "provider_remove":
		_, err := ms.ProviderRemove(ctx, &markettypes.MsgProviderRemove{Provider: sender})
		return "", err

	case "provider_update_with_cp":
		_, err := ms.ProviderUpdateWithCp(ctx, &markettypes.MsgProviderUpdateWithCp{Provider: sender, NewCp: cast.ToString(step["cp"])})
		return "", err

	case "set_credit_allowance":
		limit, err := cast.ToUint64E(step["limit"])
		if err != nil {
			return "", fmt.Errorf("limit: %w", err)
		}
		_, err = ms.SetCreditAllowance(ctx, &markettypes.MsgSetCreditAllowance{Owner: sender, Limit: limit})
		return "", err

	case "update_notice_period":
		period, err := cast.ToUint64E(step["notice_period"])
		if err != nil {
			return "", fmt.Errorf("notice_period: %w", err)
		}
		_, err = ms.UpdateNoticePeriod(ctx, &markettypes.MsgUpdateNoticePeriod{Admin: sender, NoticePeriod: period})
		return "", err

	case "update_rate_revision_mode":
		_, err := ms.UpdateRateRevisionMode(ctx, &markettypes.MsgUpdateRateRevisionMode{Admin: sender, Mode: cast.ToString(step["mode"])})
		return "", err

	case "update_lock_wait_time":
		waitTime, err := cast.ToUint64E(step["wait_time"])
		if err != nil {
			return "", fmt.Errorf("wait_time: %w", err)
		}
		_, err = ms.UpdateLockWaitTime(ctx, &markettypes.MsgUpdateLockWaitTime{
			Admin:    sender,
			Selector: markettypes.RateLockSelector,
			WaitTime: waitTime,
		})
		return "", err

	case "balance":
		denom := cast.ToString(step["denom"])
		if denom == "" {
			market, err := r.ledger.MarketKeeper.GetMarket(ctx)
			if err != nil {
				return "", err
			}
			denom = market.TokenDenom
		}
		return r.ledger.Balance(app.ActorAddress(actor), denom).String(), nil

	default:
		return "", fmt.Errorf("unknown action %q", action)
	}
}

func (r *Runner) describeJob(ctx context.Context, jobIndex uint64) string {
	job, err := r.ledger.MarketKeeper.GetJob(ctx, jobIndex)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("rate=%d balance=%d credit=%d last_settled=%d", job.Rate, job.Balance, job.CreditBalance, job.LastSettled)
}

// WriteResults prints step results as JSON lines.
func WriteResults(w io.Writer, results []StepResult) error {
	enc := json.NewEncoder(w)
	for _, result := range results {
		if err := enc.Encode(result); err != nil {
			return err
		}
	}
	return nil
}
