package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

const baseYAML = `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: sponsormatch
    user: matcher
  elasticsearch:
    addresses:
      - http://localhost:9200
  redis:
    address: localhost:6379
workers:
  generate-matches:
    enabled: true
    max_jobs_active: 2
  list-matches:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Loading Tests
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "sponsormatch-workers", cfg.App.Name)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 25, cfg.Database.Postgres.MaxConnections)
	assert.Equal(t, 10, cfg.Database.Redis.PoolSize)
	assert.Equal(t, 3000, cfg.Database.Redis.IOTimeout)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, 600000, cfg.Matching.EntityCacheTTL)
	assert.Equal(t, "matches", cfg.Matching.SearchIndex)
	assert.Equal(t, 100, cfg.Matching.SearchMaxSize)
	assert.True(t, cfg.Matching.MigrationsEnabled())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 1.0, cfg.Observability.SampleRatio)

	gm := cfg.Workers["generate-matches"]
	assert.Equal(t, 2, gm.MaxJobsActive)
	assert.Equal(t, 30000, gm.Timeout)
	assert.Equal(t, 3, gm.MaxRetries)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")
	body := `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: sponsormatch
    user: matcher
    password: ${TEST_PG_PASSWORD}
  elasticsearch:
    url: http://localhost:9200
  redis:
    address: localhost:6379
matching:
  run_migrations: false
`

	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Database.Elasticsearch.GetAddresses())
	assert.False(t, cfg.Matching.MigrationsEnabled())
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name: "missing redis",
			body: `
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: db
    user: u
  elasticsearch:
    url: http://localhost:9200
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "sns enabled without topic",
			body: baseYAML + `
integrations:
  aws:
    region: eu-west-1
    sns:
      enabled: true
`,
			wantErr: "events_topic_arn is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// ==========================
// Helper Tests
// ==========================

func TestGetWorkerConfig_FallsBackToCamundaLimits(t *testing.T) {
	cfg := &Config{
		Camunda: CamundaConfig{MaxJobsActive: 7, Timeout: 20000},
		Workers: map[string]WorkerConfig{
			"list-matches": {Enabled: false, MaxJobsActive: 1},
		},
	}

	assert.False(t, GetWorkerConfig(cfg, "list-matches").Enabled)
	def := GetWorkerConfig(cfg, "unknown")
	assert.True(t, def.Enabled)
	assert.Equal(t, 7, def.MaxJobsActive)
	assert.Equal(t, 20000, def.Timeout)

	assert.False(t, IsWorkerEnabled(cfg, "list-matches"))
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", p.GetDSN())
}
