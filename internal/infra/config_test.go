package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3200, cfg.APIPort)
	assert.Equal(t, time.Hour, cfg.OddsCacheTTL)
	assert.Equal(t, 2, cfg.ScoresDaysFrom)
	assert.Equal(t, 4, cfg.SettlementWorkers)
	assert.Equal(t, []string{"basketball_nba", "americanfootball_nfl", "baseball_mlb"}, cfg.SportKeys)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SPORT_KEYS", "icehockey_nhl,soccer_epl")
	t.Setenv("ODDS_CACHE_TTL", "30m")
	t.Setenv("API_PORT", "8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"icehockey_nhl", "soccer_epl"}, cfg.SportKeys)
	assert.Equal(t, 30*time.Minute, cfg.OddsCacheTTL)
	assert.Equal(t, 8080, cfg.APIPort)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{JWTSecret: "change-me-in-production", SportKeys: []string{"basketball_nba"}}
	assert.Error(t, cfg.Validate(), "default secret rejected")

	cfg.AllowInsecureDefaults = true
	assert.NoError(t, cfg.Validate(), "insecure defaults allowed for local dev")

	cfg = &Config{
		JWTSecret:  "short",
		SportKeys:  []string{"basketball_nba"},
		OddsAPIKey: "k",
	}
	assert.Error(t, cfg.Validate(), "short secret rejected")

	cfg.JWTSecret = "a-sufficiently-long-production-secret!!"
	assert.NoError(t, cfg.Validate())

	cfg.OddsAPIKey = ""
	assert.Error(t, cfg.Validate(), "missing odds api key rejected")

	cfg.SportKeys = nil
	assert.Error(t, cfg.Validate(), "empty sport list rejected")
}

func TestConfigDSN(t *testing.T) {
	cfg := &Config{
		PGHost: "db", PGPort: 5433, PGUser: "u", PGPassword: "p", PGDatabase: "book",
	}
	assert.Equal(t, "postgres://u:p@db:5433/book?sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://explicit"
	assert.Equal(t, "postgres://explicit", cfg.DSN())
}
