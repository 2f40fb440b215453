package notify

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/memoryschool/portal/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.NotificationLog{}))
	return gdb
}

type fakeProvider struct {
	err      error
	calls    int
	gotPhone string
	gotMsg   string
}

func (f *fakeProvider) Send(_ context.Context, phone, message string) error {
	f.calls++
	f.gotPhone, f.gotMsg = phone, message
	return f.err
}

func TestDispatcherSend(t *testing.T) {
	gdb := openTestDB(t)
	p := &fakeProvider{}
	d := NewDispatcher(gdb, p)

	err := d.Send(context.Background(), "Ana", "(11) 99999-9999", "http://x/dash", TypeWelcome)
	require.NoError(t, err)
	require.Equal(t, 1, p.calls)
	require.Equal(t, "11999999999", p.gotPhone, "provider receives digits only")
	require.Contains(t, p.gotMsg, "Olá, Ana!")

	var logs []models.NotificationLog
	require.NoError(t, gdb.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "11999999999", logs[0].Phone)
	require.Equal(t, TypeWelcome, logs[0].MessageType)
	require.True(t, logs[0].Delivered)
}

func TestDispatcherSend_MissingFields(t *testing.T) {
	p := &fakeProvider{}
	d := NewDispatcher(openTestDB(t), p)

	for _, args := range [][4]string{
		{"", "11999999999", "http://x", TypeWelcome},
		{"Ana", "", "http://x", TypeWelcome},
		{"Ana", "11999999999", "", TypeWelcome},
		{"Ana", "11999999999", "http://x", ""},
	} {
		err := d.Send(context.Background(), args[0], args[1], args[2], args[3])
		require.ErrorIs(t, err, ErrMissingFields)
	}
	require.Zero(t, p.calls)
}

// An unknown template fails before any delivery attempt and is not logged.
func TestDispatcherSend_UnknownTemplate(t *testing.T) {
	gdb := openTestDB(t)
	p := &fakeProvider{}
	d := NewDispatcher(gdb, p)

	err := d.Send(context.Background(), "Ana", "11999999999", "http://x", "promo_blast")
	require.ErrorIs(t, err, ErrUnknownTemplate)
	require.Zero(t, p.calls)

	var count int64
	require.NoError(t, gdb.Model(&models.NotificationLog{}).Count(&count).Error)
	require.Zero(t, count)
}

// Delivery failure is returned to the caller but still recorded.
func TestDispatcherSend_DeliveryFailureLogged(t *testing.T) {
	gdb := openTestDB(t)
	p := &fakeProvider{err: errors.New("gateway 503")}
	d := NewDispatcher(gdb, p)

	err := d.Send(context.Background(), "Ana", "11999999999", "http://x", TypeWelcome)
	require.Error(t, err)
	require.Contains(t, err.Error(), "gateway 503")

	var logs []models.NotificationLog
	require.NoError(t, gdb.Find(&logs).Error)
	require.Len(t, logs, 1)
	require.False(t, logs[0].Delivered)
}

func TestLogProvider(t *testing.T) {
	var got string
	p := &LogProvider{Logf: func(format string, args ...any) { got = format }}
	require.NoError(t, p.Send(context.Background(), "11999999999", "oi"))
	require.Contains(t, got, "simulating whatsapp message")
}
