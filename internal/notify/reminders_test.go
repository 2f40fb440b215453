package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/memoryschool/portal/internal/models"
)

func TestRemindAfter(t *testing.T) {
	t.Setenv("REMIND_AFTER", "")
	require.Equal(t, 24*time.Hour, remindAfter())

	t.Setenv("REMIND_AFTER", "30m")
	require.Equal(t, 30*time.Minute, remindAfter())

	t.Setenv("REMIND_AFTER", "garbage")
	require.Equal(t, 24*time.Hour, remindAfter())

	t.Setenv("REMIND_AFTER", "-1h")
	require.Equal(t, 24*time.Hour, remindAfter())
}

func TestRunReminders_WindowAndDedup(t *testing.T) {
	t.Setenv("REMIND_AFTER", "24h")
	gdb := openTestDB(t)
	require.NoError(t, gdb.AutoMigrate(&models.Client{}, &models.Order{}))

	now := time.Date(2026, 3, 10, 12, 0, 30, 0, time.UTC)
	tick := now.Truncate(time.Minute)

	client := models.Client{UserID: "u-1", CPF: "123.456.789-00", ParentName: "Ana Clara Silva", Phone: "(11) 99999-9999", Email: "ana@x.com"}
	require.NoError(t, gdb.Create(&client).Error)

	// inside [tick-24h, tick-24h+1m): due this tick
	due := models.Order{ClientID: client.ID, ContractID: "ct-1", Status: "pending", Code: "ORD-AAAAAAA1"}
	due.CreatedAt = tick.Add(-24 * time.Hour).Add(10 * time.Second)
	require.NoError(t, gdb.Create(&due).Error)

	// just before the window: a previous tick's job
	early := models.Order{ClientID: client.ID, ContractID: "ct-1", Status: "pending", Code: "ORD-AAAAAAA2"}
	early.CreatedAt = tick.Add(-24 * time.Hour).Add(-time.Second)
	require.NoError(t, gdb.Create(&early).Error)

	// exactly at the window end: the next tick's job
	late := models.Order{ClientID: client.ID, ContractID: "ct-1", Status: "pending", Code: "ORD-AAAAAAA3"}
	late.CreatedAt = tick.Add(-24 * time.Hour).Add(time.Minute)
	require.NoError(t, gdb.Create(&late).Error)

	p := &fakeProvider{}
	d := NewDispatcher(gdb, p)

	runReminders(gdb, d, "http://x/dash", now)
	require.Equal(t, 1, p.calls, "only the order inside the window fires")
	require.Equal(t, "11999999999", p.gotPhone)
	require.Contains(t, p.gotMsg, "Olá, Ana!")

	// rerun of the same tick: the log row suppresses a second send
	runReminders(gdb, d, "http://x/dash", now)
	require.Equal(t, 1, p.calls)
}

func TestRunReminders_SkipsCanceled(t *testing.T) {
	t.Setenv("REMIND_AFTER", "24h")
	gdb := openTestDB(t)
	require.NoError(t, gdb.AutoMigrate(&models.Client{}, &models.Order{}))

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tick := now.Truncate(time.Minute)

	client := models.Client{UserID: "u-1", CPF: "123.456.789-00", ParentName: "Ana Silva", Phone: "11999999999", Email: "ana@x.com"}
	require.NoError(t, gdb.Create(&client).Error)

	canceled := models.Order{ClientID: client.ID, ContractID: "ct-1", Status: "canceled", Code: "ORD-BBBBBBB1"}
	canceled.CreatedAt = tick.Add(-24 * time.Hour).Add(5 * time.Second)
	require.NoError(t, gdb.Create(&canceled).Error)

	p := &fakeProvider{}
	runReminders(gdb, NewDispatcher(gdb, p), "http://x/dash", now)
	require.Zero(t, p.calls)
}

// A guardian already welcomed via a different formatting of the same phone is
// still reminded once; dedup keys on the digits-only phone plus the reminder
// template, not on the welcome message.
func TestRunReminders_WelcomeDoesNotSuppressReminder(t *testing.T) {
	t.Setenv("REMIND_AFTER", "24h")
	gdb := openTestDB(t)
	require.NoError(t, gdb.AutoMigrate(&models.Client{}, &models.Order{}))

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tick := now.Truncate(time.Minute)

	client := models.Client{UserID: "u-1", CPF: "123.456.789-00", ParentName: "Ana Silva", Phone: "(11) 99999-9999", Email: "ana@x.com"}
	require.NoError(t, gdb.Create(&client).Error)

	order := models.Order{ClientID: client.ID, ContractID: "ct-1", Status: "pending", Code: "ORD-CCCCCCC1"}
	order.CreatedAt = tick.Add(-24 * time.Hour)
	require.NoError(t, gdb.Create(&order).Error)

	p := &fakeProvider{}
	d := NewDispatcher(gdb, p)
	require.NoError(t, d.Send(context.Background(), "Ana", client.Phone, "http://x/dash", TypeWelcome))
	require.Equal(t, 1, p.calls)

	runReminders(gdb, d, "http://x/dash", now)
	require.Equal(t, 2, p.calls, "welcome log must not suppress the reminder")
}
