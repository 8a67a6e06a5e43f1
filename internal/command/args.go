package command

import (
	"errors"
	"fmt"
)

// Two generations of the front-end disagree on compound-word argument
// spelling, so every such argument is declared under both its snake_case
// and camelCase names. The snake form wins when both are present.

var ErrMissingAccountID = errors.New("missing account_id")

func firstInt64(values ...*int64) *int64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func int64OrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

type idArgs struct {
	ID *int64 `json:"id"`
}

func (a idArgs) id() (int64, error) {
	if a.ID == nil {
		return 0, fmt.Errorf("missing id")
	}
	return *a.ID, nil
}

type accountScopedArgs struct {
	AccountID    *int64 `json:"account_id"`
	AccountIDAlt *int64 `json:"accountId"`
}

func (a accountScopedArgs) accountID() (int64, error) {
	if v := firstInt64(a.AccountID, a.AccountIDAlt); v != nil {
		return *v, nil
	}
	return 0, ErrMissingAccountID
}

type addAccountArgs struct {
	Name       string `json:"name"`
	School     string `json:"school"`
	Level      int    `json:"level"`
	Experience int64  `json:"experience"`
}

type updateAccountArgs struct {
	idArgs
	addAccountArgs
}

type skillArgs struct {
	accountScopedArgs
	SkillName       *string `json:"skill_name"`
	SkillNameAlt    *string `json:"skillName"`
	CurrentLevel    *int    `json:"current_level"`
	CurrentLevelAlt *int    `json:"currentLevel"`
	TargetLevel     *int    `json:"target_level"`
	TargetLevelAlt  *int    `json:"targetLevel"`
}

func (a skillArgs) skillName() string {
	return stringOrEmpty(firstString(a.SkillName, a.SkillNameAlt))
}

func (a skillArgs) currentLevel() int {
	return intOrZero(firstInt(a.CurrentLevel, a.CurrentLevelAlt))
}

func (a skillArgs) targetLevel() int {
	return intOrZero(firstInt(a.TargetLevel, a.TargetLevelAlt))
}

type updateSkillArgs struct {
	idArgs
	CurrentLevel    *int `json:"current_level"`
	CurrentLevelAlt *int `json:"currentLevel"`
	TargetLevel     *int `json:"target_level"`
	TargetLevelAlt  *int `json:"targetLevel"`
}

type cultivationArgs struct {
	accountScopedArgs
	idArgs
	Name            *string `json:"name"`
	Type            string  `json:"type"`
	Mode            string  `json:"mode"`
	CurrentExp      *int    `json:"current_exp"`
	CurrentExpAlt   *int    `json:"currentExp"`
	CurrentLevel    *int    `json:"current_level"`
	CurrentLevelAlt *int    `json:"currentLevel"`
	TargetLevel     *int    `json:"target_level"`
	TargetLevelAlt  *int    `json:"targetLevel"`
}

func (a cultivationArgs) currentExp() int {
	return intOrZero(firstInt(a.CurrentExp, a.CurrentExpAlt))
}

func (a cultivationArgs) currentLevel() int {
	return intOrZero(firstInt(a.CurrentLevel, a.CurrentLevelAlt))
}

func (a cultivationArgs) targetLevel() int {
	return intOrZero(firstInt(a.TargetLevel, a.TargetLevelAlt))
}

type addSpendLogArgs struct {
	accountScopedArgs
	Amount int64   `json:"amount"`
	Date   string  `json:"date"`
	Note   *string `json:"note"`
}

type getSpendLogsArgs struct {
	accountScopedArgs
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type spendSummaryDailyArgs struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type spendSummaryMonthlyArgs struct {
	Year int `json:"year"`
}

type addChangeLogArgs struct {
	accountScopedArgs
	Category                  string `json:"category"`
	Name                      string `json:"name"`
	FromLevel                 *int   `json:"from_level"`
	FromLevelAlt              *int   `json:"fromLevel"`
	ToLevel                   *int   `json:"to_level"`
	ToLevelAlt                *int   `json:"toLevel"`
	FromExp                   *int   `json:"from_exp"`
	FromExpAlt                *int   `json:"fromExp"`
	ToExp                     *int   `json:"to_exp"`
	ToExpAlt                  *int   `json:"toExp"`
	ConsumedExp               *int64 `json:"consumed_exp"`
	ConsumedExpAlt            *int64 `json:"consumedExp"`
	ConsumedMoney             *int64 `json:"consumed_money"`
	ConsumedMoneyAlt          *int64 `json:"consumedMoney"`
	ConsumedGang              *int64 `json:"consumed_gang"`
	ConsumedGangAlt           *int64 `json:"consumedGang"`
	ConsumedCultivationExp    *int64 `json:"consumed_cultivation_exp"`
	ConsumedCultivationExpAlt *int64 `json:"consumedCultivationExp"`
	Date                      string `json:"date"`
}
