package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminIds(t *testing.T) {
	tests := []struct {
		input    string
		expected []int64
		wantErr  bool
	}{
		{"", []int64{}, false},
		{"42", []int64{42}, false},
		{"1,2,3", []int64{1, 2, 3}, false},
		{"1, 2 ;3", []int64{1, 2, 3}, false},
		{"1,abc", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ids, err := ParseAdminIds(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("BOT_ADMIN_IDS", "10,20")
	t.Setenv("BOT_MANAGER_CONTACT", "@sb_manager")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.Telegram.Token)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []int64{10, 20}, cfg.Bot.AdminIds)
	assert.Equal(t, "@sb_manager", cfg.Bot.ManagerContact)
	assert.Equal(t, 8, cfg.Bot.Workers)
	assert.True(t, cfg.Bot.IsAdmin(20))
	assert.False(t, cfg.Bot.IsAdmin(30))
}

func TestLoadAdminIdSeparators(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("DATABASE_DRIVER", "memory")

	for _, raw := range []string{"10 20", "10;20", "10, 20"} {
		t.Run(raw, func(t *testing.T) {
			t.Setenv("BOT_ADMIN_IDS", raw)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, []int64{10, 20}, cfg.Bot.AdminIds)
		})
	}

	t.Setenv("BOT_ADMIN_IDS", "10;x")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Telegram: TelegramConfig{Token: "t"},
		Database: DatabaseConfig{Driver: "postgres"},
		Bot:      BotConfig{Workers: 1},
	}
	assert.Error(t, cfg.Validate(), "postgres without dsn")

	cfg.Database.DSN = "postgres://localhost/shop"
	assert.NoError(t, cfg.Validate())

	cfg.PriceLookup.DiscountPercent = 100
	assert.Error(t, cfg.Validate())
}
