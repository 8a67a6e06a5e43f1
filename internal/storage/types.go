package storage

// Account is a tracked player profile. Gold is maintained incrementally by
// SpendRepository.Record and is never recomputed from the ledger; it may go
// negative.
type Account struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	School     string `json:"school"`
	Level      int    `json:"level"`
	Experience int64  `json:"experience"`
	Gold       int64  `json:"gold"`
}

// Skill is a trainable ability scoped to an account and a kind
// (master or assist). SkillName is unique per account within its kind.
type Skill struct {
	ID           int64  `json:"id"`
	AccountID    int64  `json:"account_id"`
	SkillName    string `json:"skill_name"`
	CurrentLevel int    `json:"current_level"`
	TargetLevel  int    `json:"target_level"`
}

// Cultivation is a longer-running training track. An account may hold any
// number of tracks of the same type.
type Cultivation struct {
	ID           int64  `json:"id"`
	AccountID    int64  `json:"account_id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Mode         string `json:"mode"`
	CurrentExp   int    `json:"current_exp"`
	CurrentLevel int    `json:"current_level"`
	TargetLevel  int    `json:"target_level"`
}

// SpendLog is an append-only record of a gold-balance-affecting event.
// Date is a lexicographically sortable "YYYY-MM-DD" string; CreatedAt is
// assigned by the database.
type SpendLog struct {
	ID        int64   `json:"id"`
	AccountID int64   `json:"account_id"`
	Amount    int64   `json:"amount"`
	Date      string  `json:"date"`
	Note      *string `json:"note"`
	CreatedAt string  `json:"created_at"`
}

// SpendSummary is one aggregation bucket: an exact date for daily summaries,
// a "YYYY-MM" prefix for monthly ones.
type SpendSummary struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// ChangeLog is an append-only audit record of a progression change and the
// resources it consumed. Category is free-form, conventionally one of
// "master", "assist" or "cultivation".
type ChangeLog struct {
	ID                     int64  `json:"id"`
	AccountID              int64  `json:"account_id"`
	Category               string `json:"category"`
	Name                   string `json:"name"`
	FromLevel              *int   `json:"from_level"`
	ToLevel                *int   `json:"to_level"`
	FromExp                *int   `json:"from_exp"`
	ToExp                  *int   `json:"to_exp"`
	ConsumedExp            int64  `json:"consumed_exp"`
	ConsumedMoney          int64  `json:"consumed_money"`
	ConsumedGang           int64  `json:"consumed_gang"`
	ConsumedCultivationExp int64  `json:"consumed_cultivation_exp"`
	Date                   string `json:"date"`
	CreatedAt              string `json:"created_at"`
}
