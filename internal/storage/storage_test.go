package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestRecordSpendMaintainsGoldBalance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := mustCreateAccount(t, store, "lin")
	second := mustCreateAccount(t, store, "yu")

	spends := []struct {
		account int64
		amount  int64
	}{
		{first, 100},
		{second, 30},
		{first, -40},
		{first, 250},
		{second, 70},
	}

	var lastID int64
	for _, spend := range spends {
		id, err := store.Spends.Record(ctx, spend.account, spend.amount, "2024-03-05", nil)
		require.NoError(t, err)
		require.Greater(t, id, lastID, "identifiers must be strictly increasing")
		lastID = id
	}

	require.Equal(t, int64(-310), mustGold(t, store, first))
	require.Equal(t, int64(-100), mustGold(t, store, second))

	logs, err := store.Spends.List(ctx, SpendFilter{AccountID: &first})
	require.NoError(t, err)
	require.Len(t, logs, 3)
}

func TestRecordSpendRollsBackOnMissingAccount(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Spends.Record(ctx, 999, 100, "2024-03-05", nil)
	require.Error(t, err)

	logs, err := store.Spends.List(ctx, SpendFilter{})
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestRecordSpendAllowsOverdraft(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")

	_, err := store.Spends.Record(ctx, account, 1_000_000, "2024-03-05", nil)
	require.NoError(t, err)
	require.Equal(t, int64(-1_000_000), mustGold(t, store, account))
}

func TestAccountUpdateNeverTouchesGold(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")
	_, err := store.Spends.Record(ctx, account, 500, "2024-03-05", nil)
	require.NoError(t, err)

	require.NoError(t, store.Accounts.Update(ctx, account, "lin2", "shaolin", 100, 2000))
	require.Equal(t, int64(-500), mustGold(t, store, account))
}

func TestDeleteAccountCascades(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")

	_, err := store.MasterSkills.Create(ctx, account, "sword", 10, 120)
	require.NoError(t, err)
	_, err = store.AssistSkills.Create(ctx, account, "tailoring", 10, 120)
	require.NoError(t, err)
	_, err = store.Cultivations.Create(ctx, Cultivation{AccountID: account, Type: "attack_res"})
	require.NoError(t, err)
	_, err = store.Spends.Record(ctx, account, 100, "2024-03-05", nil)
	require.NoError(t, err)
	_, err = store.ChangeLogs.Create(ctx, ChangeLog{AccountID: account, Category: "master", Name: "sword", Date: "2024-03-05"})
	require.NoError(t, err)

	require.NoError(t, store.Accounts.Delete(ctx, account))

	skills, err := store.MasterSkills.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Empty(t, skills)

	skills, err = store.AssistSkills.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Empty(t, skills)

	tracks, err := store.Cultivations.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Empty(t, tracks)

	logs, err := store.Spends.List(ctx, SpendFilter{AccountID: &account})
	require.NoError(t, err)
	require.Empty(t, logs)

	entries, err := store.ChangeLogs.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSkillNameUniquePerAccountAndKind(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := mustCreateAccount(t, store, "lin")
	second := mustCreateAccount(t, store, "yu")

	_, err := store.MasterSkills.Create(ctx, first, "sword", 10, 120)
	require.NoError(t, err)

	// Same name, same account, same kind: rejected.
	_, err = store.MasterSkills.Create(ctx, first, "sword", 0, 0)
	require.Error(t, err)

	// Same name under the other kind, or another account: accepted.
	_, err = store.AssistSkills.Create(ctx, first, "sword", 0, 0)
	require.NoError(t, err)
	_, err = store.MasterSkills.Create(ctx, second, "sword", 0, 0)
	require.NoError(t, err)
}

func TestSkillListOrderedByID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")
	for _, name := range []string{"c", "a", "b"} {
		_, err := store.MasterSkills.Create(ctx, account, name, 0, 0)
		require.NoError(t, err)
	}

	skills, err := store.MasterSkills.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Len(t, skills, 3)
	require.Equal(t, []string{"c", "a", "b"}, []string{skills[0].SkillName, skills[1].SkillName, skills[2].SkillName})
}

func TestSpendListOrderedByDateThenIDDescending(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")

	dates := []string{"2024-03-05", "2024-04-01", "2024-03-05", "2024-02-10"}
	ids := make([]int64, len(dates))
	for i, date := range dates {
		id, err := store.Spends.Record(ctx, account, 10, date, nil)
		require.NoError(t, err)
		ids[i] = id
	}

	logs, err := store.Spends.List(ctx, SpendFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 4)
	require.Equal(t, ids[1], logs[0].ID) // 2024-04-01
	require.Equal(t, ids[2], logs[1].ID) // later insert on 2024-03-05 first
	require.Equal(t, ids[0], logs[2].ID)
	require.Equal(t, ids[3], logs[3].ID) // 2024-02-10
}

func TestSpendListFiltersByDateRange(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")
	for _, date := range []string{"2024-02-28", "2024-03-01", "2024-03-31", "2024-04-01"} {
		_, err := store.Spends.Record(ctx, account, 10, date, nil)
		require.NoError(t, err)
	}

	start, end := "2024-03-01", "2024-03-31"
	logs, err := store.Spends.List(ctx, SpendFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "2024-03-31", logs[0].Date)
	require.Equal(t, "2024-03-01", logs[1].Date)
}

func TestSpendSummaries(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")

	spends := []struct {
		amount int64
		date   string
	}{
		{100, "2024-03-05"},
		{50, "2024-03-05"},
		{20, "2024-04-01"},
	}
	for _, spend := range spends {
		_, err := store.Spends.Record(ctx, account, spend.amount, spend.date, nil)
		require.NoError(t, err)
	}

	daily, err := store.Spends.DailySummary(ctx, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Equal(t, []SpendSummary{{Date: "2024-03-05", Total: 150}}, daily)

	monthly, err := store.Spends.MonthlySummary(ctx, 2024)
	require.NoError(t, err)
	require.Equal(t, []SpendSummary{
		{Date: "2024-03", Total: 150},
		{Date: "2024-04", Total: 20},
	}, monthly)

	monthly, err = store.Spends.MonthlySummary(ctx, 2023)
	require.NoError(t, err)
	require.Empty(t, monthly)
}

func TestCultivationDefaultsAndDuplicateTypes(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")

	_, err := store.Cultivations.Create(ctx, Cultivation{AccountID: account, Type: "attack_res"})
	require.NoError(t, err)
	_, err = store.Cultivations.Create(ctx, Cultivation{AccountID: account, Type: "attack_res", Mode: "3w"})
	require.NoError(t, err)

	tracks, err := store.Cultivations.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	require.Equal(t, "", tracks[0].Name)
	require.Equal(t, "2w", tracks[0].Mode)
	require.Equal(t, "3w", tracks[1].Mode)
}

func TestCultivationUpdateKeepsNameWhenOmitted(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")
	id, err := store.Cultivations.Create(ctx, Cultivation{AccountID: account, Name: "defense", Type: "attack_res"})
	require.NoError(t, err)

	require.NoError(t, store.Cultivations.Update(ctx, id, nil, "3w", 500, 6, 21))

	tracks, err := store.Cultivations.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, "defense", tracks[0].Name)
	require.Equal(t, "3w", tracks[0].Mode)
	require.Equal(t, 500, tracks[0].CurrentExp)

	newName := "speed"
	require.NoError(t, store.Cultivations.Update(ctx, id, &newName, "3w", 500, 6, 21))

	tracks, err = store.Cultivations.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Equal(t, "speed", tracks[0].Name)
}

func TestCultivationListAgainstPreNameSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mhxy.db")

	// Initialize only up to the migration preceding the name column, the
	// schema an older build would still be running against.
	store, err := open(path, DefaultMigrations()[:3])
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO accounts(name, school, level, experience) VALUES('lin', 'datang', 89, 1000)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO cultivations(account_id, type, mode, current_exp, current_level, target_level) VALUES(1, 'attack_res', '3w', 100, 5, 20)`)
	require.NoError(t, err)
	closeNoErr(t, db)

	tracks, err := store.Cultivations.ListByAccount(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, "", tracks[0].Name)
	require.Equal(t, "attack_res", tracks[0].Type)
	require.Equal(t, "3w", tracks[0].Mode)
	require.Equal(t, 100, tracks[0].CurrentExp)
}

func TestChangeLogListNewestFirst(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	account := mustCreateAccount(t, store, "lin")

	fromLevel, toLevel := 10, 12
	first, err := store.ChangeLogs.Create(ctx, ChangeLog{
		AccountID:   account,
		Category:    "master",
		Name:        "sword",
		FromLevel:   &fromLevel,
		ToLevel:     &toLevel,
		ConsumedExp: 1200,
		Date:        "2024-03-05",
	})
	require.NoError(t, err)
	second, err := store.ChangeLogs.Create(ctx, ChangeLog{
		AccountID: account,
		Category:  "cultivation",
		Name:      "defense",
		Date:      "2024-03-06",
	})
	require.NoError(t, err)

	entries, err := store.ChangeLogs.ListByAccount(ctx, account)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, second, entries[0].ID)
	require.Equal(t, first, entries[1].ID)

	require.Nil(t, entries[0].FromLevel)
	require.Equal(t, int64(0), entries[0].ConsumedExp)
	require.NotNil(t, entries[1].FromLevel)
	require.Equal(t, 10, *entries[1].FromLevel)
	require.Equal(t, int64(1200), entries[1].ConsumedExp)
	require.NotEmpty(t, entries[0].CreatedAt)
}

func TestUpdateMissingRowsReturnNotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, store.Accounts.Update(ctx, 42, "x", "y", 1, 1), ErrNotFound)
	require.ErrorIs(t, store.Accounts.Delete(ctx, 42), ErrNotFound)
	require.ErrorIs(t, store.MasterSkills.UpdateLevels(ctx, 42, 1, 1), ErrNotFound)
	require.ErrorIs(t, store.Cultivations.Delete(ctx, 42), ErrNotFound)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "mhxy.db"))
	require.NoError(t, err)
	return store
}

func mustCreateAccount(t *testing.T, store *Store, name string) int64 {
	t.Helper()
	id, err := store.Accounts.Create(context.Background(), name, "datang", 89, 1000)
	require.NoError(t, err)
	return id
}

func mustGold(t *testing.T, store *Store, accountID int64) int64 {
	t.Helper()
	accounts, err := store.Accounts.List(context.Background())
	require.NoError(t, err)
	for _, account := range accounts {
		if account.ID == accountID {
			return account.Gold
		}
	}
	t.Fatalf("account %d not found", accountID)
	return 0
}
