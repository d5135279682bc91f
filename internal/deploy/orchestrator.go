package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/deploy/ledger"
	"github.com/archway-warp/warp-cli/internal/logger"
	"github.com/archway-warp/warp-cli/internal/ux"
)

// DefaultSettleDelay is waited after storing when the manifest has a single step, giving the
// node time to index the code before it is instantiated.
const DefaultSettleDelay = 4500 * time.Millisecond

type (
	LedgerStore interface {
		Load() (*ledger.Ledger, error)
		Save(*ledger.Ledger) error
	}

	Clock interface {
		Now() time.Time
		Sleep(ctx context.Context, d time.Duration) error
	}

	Options struct {
		ChainID          string
		AccountID        string
		MakeLabelsUnique bool
		StrictTemplates  bool
		SettleDelay      time.Duration
		Password         string
	}

	Action string

	// Outcome is what happened to one step during a run.
	Outcome struct {
		StepID          string
		Contract        string
		CodeID          string
		ContractAddress string
		Action          Action
		TxHash          string
	}

	Report struct {
		Account  string
		Outcomes []Outcome
	}

	Orchestrator struct {
		client  chain.Client
		store   LedgerStore
		clock   Clock
		printer *ux.Printer
		logger  *slog.Logger
	}
)

const (
	ActionStored       Action = "stored"
	ActionInstantiated Action = "instantiated"
	ActionMigrated     Action = "migrated"
)

func NewOrchestrator(client chain.Client, store LedgerStore, clock Clock, printer *ux.Printer) *Orchestrator {
	return &Orchestrator{
		client:  client,
		store:   store,
		clock:   clock,
		printer: printer,
		logger:  logger.Named("orchestrator"),
	}
}

// Run stores every step, then instantiates new contracts or migrates the ones already in the
// ledger for opts.ChainID. The ledger is saved only when every transaction succeeded.
func (o *Orchestrator) Run(ctx context.Context, steps []configs.DeployStep, opts Options) (Report, error) {
	book, err := o.store.Load()
	if err != nil {
		return Report{}, err
	}

	key, err := o.client.KeyInfo(ctx, opts.AccountID, opts.Password)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read key '%s': %w", opts.AccountID, err)
	}
	report := Report{Account: key.Address}
	o.printer.Println("Deploying from: %s", key.Address)

	run, err := o.storeAll(ctx, steps, opts, &report)
	if err != nil {
		return report, err
	}

	if len(run) == 1 && opts.SettleDelay > 0 {
		o.logger.Debug("Waiting for the single stored contract to settle", "delay", opts.SettleDelay)
		if err := o.clock.Sleep(ctx, opts.SettleDelay); err != nil {
			return report, err
		}
	}

	network := book.Network(opts.ChainID)
	if err := o.instantiateAll(ctx, steps, run, network, key.Address, opts, &report); err != nil {
		if saveErr := o.saveOnFault(book, err); saveErr != nil {
			return report, saveErr
		}
		return report, err
	}

	if err := o.store.Save(book); err != nil {
		return report, err
	}
	return report, nil
}

func (o *Orchestrator) storeAll(ctx context.Context, steps []configs.DeployStep, opts Options, report *Report) (tasks, error) {
	o.printer.Header("Uploading contracts to the chain...")

	run := make(tasks, 0, len(steps))
	for _, step := range steps {
		o.printer.Step("%s", step.Contract)

		tx, err := o.client.StoreContract(ctx, step.Contract, opts.AccountID, opts.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to store '%s': %w", step.Contract, err)
		}
		codeID, err := chain.ExtractCodeID(tx)
		if err != nil {
			return nil, fmt.Errorf("failed to read code id of '%s': %w", step.Contract, err)
		}

		o.printer.Done("(%s) - CODE: %s", tx.TxHash, codeID)
		o.logger.Info("Stored contract", "step", step.ID, "code_id", codeID, "tx", tx.TxHash)

		run = append(run, &Task{Step: step, CodeID: codeID})
		report.Outcomes = append(report.Outcomes, Outcome{
			StepID:   step.ID,
			Contract: step.Contract,
			CodeID:   codeID,
			Action:   ActionStored,
			TxHash:   tx.TxHash,
		})
	}

	return run, nil
}

func (o *Orchestrator) instantiateAll(
	ctx context.Context,
	steps []configs.DeployStep,
	run tasks,
	network map[string]string,
	account string,
	opts Options,
	report *Report,
) error {
	o.printer.Header("Instantiating uploaded contracts...")
	resolve := ResolverFor(opts.StrictTemplates)

	for _, step := range steps {
		if step.StoreOnly {
			o.printer.Step("%s (store only, skipping)", step.Contract)
			continue
		}

		task, ok := run.find(step.ID)
		if !ok {
			o.logger.Error("No task recorded for step", "step", step.ID)
			return fmt.Errorf("%w: '%s'", ErrTaskNotFound, step.ID)
		}
		outcome := report.outcome(step.ID)

		if existing, deployed := network[step.ID]; deployed {
			o.printer.Step("%s (migrating %s)", step.Contract, existing)

			msg := resolve(step.MigrateMessage(), run, account)
			tx, err := o.client.MigrateContract(ctx, chain.MigrateRequest{
				ContractAddress: existing,
				CodeID:          task.CodeID,
				From:            opts.AccountID,
				Msg:             msg,
			}, opts.Password)
			if err != nil {
				return fmt.Errorf("failed to migrate '%s': %w", step.ID, err)
			}

			task.ContractAddress = existing
			outcome.ContractAddress = existing
			outcome.Action = ActionMigrated
			outcome.TxHash = tx.TxHash
			o.printer.Done("(%s) - %s", existing, msg)
			o.logger.Info("Migrated contract", "step", step.ID, "address", existing, "code_id", task.CodeID)
			continue
		}

		o.printer.Step("%s", step.Contract)

		msg := resolve(step.InitMsg, run, account)
		tx, err := o.client.InstantiateContract(ctx, chain.InstantiateRequest{
			CodeID: task.CodeID,
			From:   opts.AccountID,
			Admin:  account,
			Label:  o.label(step, opts.MakeLabelsUnique),
			Msg:    msg,
			Coins:  step.Coins,
		}, opts.Password)
		if err != nil {
			return fmt.Errorf("failed to instantiate '%s': %w", step.ID, err)
		}

		address, err := chain.ExtractContractAddress(tx)
		if err != nil {
			return fmt.Errorf("failed to read contract address of '%s': %w", step.ID, err)
		}

		task.ContractAddress = address
		network[step.ID] = address
		outcome.ContractAddress = address
		outcome.Action = ActionInstantiated
		outcome.TxHash = tx.TxHash
		o.printer.Done("(%s) - %s", address, msg)
		o.logger.Info("Instantiated contract", "step", step.ID, "address", address)
	}

	return nil
}

func (o *Orchestrator) label(step configs.DeployStep, unique bool) string {
	if !unique {
		return step.Label
	}
	return step.Label + "-" + strconv.FormatInt(o.clock.Now().Unix(), 10)
}

// saveOnFault persists what was resolved before an internal consistency fault. Transaction
// failures leave the ledger untouched.
func (o *Orchestrator) saveOnFault(book *ledger.Ledger, cause error) error {
	if !isTaskNotFound(cause) {
		return nil
	}
	if err := o.store.Save(book); err != nil {
		return fmt.Errorf("%w (ledger save also failed: %v)", cause, err)
	}
	return nil
}

func (r *Report) outcome(stepID string) *Outcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].StepID == stepID {
			return &r.Outcomes[i]
		}
	}
	r.Outcomes = append(r.Outcomes, Outcome{StepID: stepID})
	return &r.Outcomes[len(r.Outcomes)-1]
}

// Rows renders the report for a summary table.
func (r Report) Rows() [][]string {
	rows := make([][]string, 0, len(r.Outcomes))
	for _, outcome := range r.Outcomes {
		rows = append(rows, []string{outcome.StepID, outcome.CodeID, outcome.ContractAddress, string(outcome.Action)})
	}
	return rows
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
