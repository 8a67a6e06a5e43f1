package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hibobby/mhxy-skill-tools/internal/storage"
)

type Dispatcher struct {
	store  *storage.Store
	logger *slog.Logger
}

func NewDispatcher(store *storage.Store, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{store: store, logger: logger}
}

// Dispatch runs one named operation against the store. The payload is a
// JSON object; an empty payload is treated as {}. Storage errors propagate
// unchanged, argument errors are raised before any storage access.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, payload []byte) (any, error) {
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}

	requestID := uuid.NewString()
	d.logger.DebugContext(ctx, "dispatch", "request_id", requestID, "operation", operation)

	result, err := d.run(ctx, operation, payload)
	if err != nil {
		d.logger.DebugContext(ctx, "dispatch failed", "request_id", requestID, "operation", operation, "error", err.Error())
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) run(ctx context.Context, operation string, payload []byte) (any, error) {
	switch operation {
	case "db_init":
		// The schema is initialized when the store opens; kept so older
		// front-ends can still issue the call.
		return nil, nil

	case "add_account":
		var args addAccountArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		return d.store.Accounts.Create(ctx, args.Name, args.School, args.Level, args.Experience)

	case "update_account":
		var args updateAccountArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		id, err := args.id()
		if err != nil {
			return nil, err
		}
		return nil, d.store.Accounts.Update(ctx, id, args.Name, args.School, args.Level, args.Experience)

	case "delete_account":
		var args idArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		id, err := args.id()
		if err != nil {
			return nil, err
		}
		return nil, d.store.Accounts.Delete(ctx, id)

	case "get_all_accounts":
		return d.store.Accounts.List(ctx)

	case "add_master_skill":
		return d.addSkill(ctx, d.store.MasterSkills, payload)
	case "update_master_skill":
		return d.updateSkill(ctx, d.store.MasterSkills, payload)
	case "delete_master_skill":
		return d.deleteByID(payload, func(id int64) error { return d.store.MasterSkills.Delete(ctx, id) })
	case "get_master_skills":
		return d.listSkills(ctx, d.store.MasterSkills, payload)

	case "add_assist_skill":
		return d.addSkill(ctx, d.store.AssistSkills, payload)
	case "update_assist_skill":
		return d.updateSkill(ctx, d.store.AssistSkills, payload)
	case "delete_assist_skill":
		return d.deleteByID(payload, func(id int64) error { return d.store.AssistSkills.Delete(ctx, id) })
	case "get_assist_skills":
		return d.listSkills(ctx, d.store.AssistSkills, payload)

	case "add_cultivation":
		var args cultivationArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		accountID, err := args.accountID()
		if err != nil {
			return nil, err
		}
		return d.store.Cultivations.Create(ctx, storage.Cultivation{
			AccountID:    accountID,
			Name:         stringOrEmpty(args.Name),
			Type:         args.Type,
			Mode:         args.Mode,
			CurrentExp:   args.currentExp(),
			CurrentLevel: args.currentLevel(),
			TargetLevel:  args.targetLevel(),
		})

	case "update_cultivation":
		var args cultivationArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		id, err := args.id()
		if err != nil {
			return nil, err
		}
		return nil, d.store.Cultivations.Update(ctx, id, args.Name, args.Mode, args.currentExp(), args.currentLevel(), args.targetLevel())

	case "delete_cultivation":
		return d.deleteByID(payload, func(id int64) error { return d.store.Cultivations.Delete(ctx, id) })

	case "get_cultivations":
		var args accountScopedArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		accountID, err := args.accountID()
		if err != nil {
			return nil, err
		}
		return d.store.Cultivations.ListByAccount(ctx, accountID)

	case "add_spend_log":
		var args addSpendLogArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		accountID, err := args.accountID()
		if err != nil {
			return nil, err
		}
		return d.store.Spends.Record(ctx, accountID, args.Amount, args.Date, args.Note)

	case "get_spend_logs":
		var args getSpendLogsArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		filter := storage.SpendFilter{
			AccountID: firstInt64(args.AccountID, args.AccountIDAlt),
			Start:     args.Start,
			End:       args.End,
		}
		return d.store.Spends.List(ctx, filter)

	case "get_spend_summary_daily":
		var args spendSummaryDailyArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		return d.store.Spends.DailySummary(ctx, args.Start, args.End)

	case "get_spend_summary_monthly":
		var args spendSummaryMonthlyArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		return d.store.Spends.MonthlySummary(ctx, args.Year)

	case "add_change_log":
		var args addChangeLogArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		accountID, err := args.accountID()
		if err != nil {
			return nil, err
		}
		return d.store.ChangeLogs.Create(ctx, storage.ChangeLog{
			AccountID:              accountID,
			Category:               args.Category,
			Name:                   args.Name,
			FromLevel:              firstInt(args.FromLevel, args.FromLevelAlt),
			ToLevel:                firstInt(args.ToLevel, args.ToLevelAlt),
			FromExp:                firstInt(args.FromExp, args.FromExpAlt),
			ToExp:                  firstInt(args.ToExp, args.ToExpAlt),
			ConsumedExp:            int64OrZero(firstInt64(args.ConsumedExp, args.ConsumedExpAlt)),
			ConsumedMoney:          int64OrZero(firstInt64(args.ConsumedMoney, args.ConsumedMoneyAlt)),
			ConsumedGang:           int64OrZero(firstInt64(args.ConsumedGang, args.ConsumedGangAlt)),
			ConsumedCultivationExp: int64OrZero(firstInt64(args.ConsumedCultivationExp, args.ConsumedCultivationExpAlt)),
			Date:                   args.Date,
		})

	case "get_change_logs":
		var args accountScopedArgs
		if err := decode(payload, &args); err != nil {
			return nil, err
		}
		accountID, err := args.accountID()
		if err != nil {
			return nil, err
		}
		return d.store.ChangeLogs.ListByAccount(ctx, accountID)
	}

	return nil, fmt.Errorf("unknown operation %q", operation)
}

func (d *Dispatcher) addSkill(ctx context.Context, repo storage.SkillRepository, payload []byte) (any, error) {
	var args skillArgs
	if err := decode(payload, &args); err != nil {
		return nil, err
	}
	accountID, err := args.accountID()
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, accountID, args.skillName(), args.currentLevel(), args.targetLevel())
}

func (d *Dispatcher) updateSkill(ctx context.Context, repo storage.SkillRepository, payload []byte) (any, error) {
	var args updateSkillArgs
	if err := decode(payload, &args); err != nil {
		return nil, err
	}
	id, err := args.id()
	if err != nil {
		return nil, err
	}
	current := intOrZero(firstInt(args.CurrentLevel, args.CurrentLevelAlt))
	target := intOrZero(firstInt(args.TargetLevel, args.TargetLevelAlt))
	return nil, repo.UpdateLevels(ctx, id, current, target)
}

func (d *Dispatcher) listSkills(ctx context.Context, repo storage.SkillRepository, payload []byte) (any, error) {
	var args accountScopedArgs
	if err := decode(payload, &args); err != nil {
		return nil, err
	}
	accountID, err := args.accountID()
	if err != nil {
		return nil, err
	}
	return repo.ListByAccount(ctx, accountID)
}

func (d *Dispatcher) deleteByID(payload []byte, remove func(id int64) error) (any, error) {
	var args idArgs
	if err := decode(payload, &args); err != nil {
		return nil, err
	}
	id, err := args.id()
	if err != nil {
		return nil, err
	}
	return nil, remove(id)
}

func decode(payload []byte, into any) error {
	if err := json.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("decode arguments: %w", err)
	}
	return nil
}
