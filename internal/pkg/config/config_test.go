package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(newViper(), "development")

	assert.Equal(t, "stockpile-products", cfg.Inventory.Namespace)
	assert.Equal(t, DriverRedis, cfg.Inventory.PersistenceDriver)
	assert.Equal(t, 1500*time.Millisecond, cfg.Inventory.HighlightTimeout)
	assert.Equal(t, SuggestKeyword, cfg.Suggest.Provider)
	assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, cfg.Asynq.Queues)
	assert.NoError(t, cfg.Validate())
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	t.Setenv("INVENTORY_NAMESPACE", "test-products")
	t.Setenv("INVENTORY_PERSISTENCE", "POSTGRES")
	t.Setenv("INVENTORY_HIGHLIGHT_TIMEOUT", "3s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SUGGEST_RATE_LIMIT", "0.5")
	t.Setenv("DB_MAX_CONNECTIONS", "40")

	cfg := FromViper(newViper(), "staging")

	assert.Equal(t, "test-products", cfg.Inventory.Namespace)
	assert.Equal(t, DriverPostgres, cfg.Inventory.PersistenceDriver)
	assert.Equal(t, 3*time.Second, cfg.Inventory.HighlightTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.InDelta(t, 0.5, cfg.Suggest.RateLimit, 0.0001)
	assert.Equal(t, int32(40), cfg.Database.MaxConnections)
	assert.Equal(t, "staging", cfg.App.Environment)
}

func TestBasicValidator(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError string
	}{
		{
			name:   "defaults_are_valid",
			mutate: func(c *Config) {},
		},
		{
			name:      "missing_namespace",
			mutate:    func(c *Config) { c.Inventory.Namespace = "" },
			wantError: "Inventory.Namespace",
		},
		{
			name:      "unknown_driver",
			mutate:    func(c *Config) { c.Inventory.PersistenceDriver = "floppy" },
			wantError: "unknown inventory persistence driver",
		},
		{
			name: "s3_requires_bucket",
			mutate: func(c *Config) {
				c.Inventory.PersistenceDriver = DriverS3
				c.AWS.S3Bucket = ""
			},
			wantError: "s3 bucket",
		},
		{
			name: "file_requires_data_dir",
			mutate: func(c *Config) {
				c.Inventory.PersistenceDriver = DriverFile
				c.Inventory.DataDir = ""
			},
			wantError: "inventory data dir",
		},
		{
			name: "postgres_connection_bounds",
			mutate: func(c *Config) {
				c.Inventory.PersistenceDriver = DriverPostgres
				c.Database.MinConnections = 20
				c.Database.MaxConnections = 5
			},
			wantError: "max_connections",
		},
		{
			name: "http_suggester_requires_url",
			mutate: func(c *Config) {
				c.Suggest.Provider = SuggestHTTP
				c.Suggest.URL = "not a url"
			},
			wantError: "suggest url",
		},
		{
			name: "http_suggester_with_url",
			mutate: func(c *Config) {
				c.Suggest.Provider = SuggestHTTP
				c.Suggest.URL = "https://suggest.example/api/category"
			},
		},
		{
			name:      "non_positive_rate_limit",
			mutate:    func(c *Config) { c.Security.RateLimitRequests = 0 },
			wantError: "rate_limit_requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := FromViper(newViper(), "test")
			tt.mutate(cfg)

			err := (&BasicValidator{}).Validate(cfg)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProductionValidator(t *testing.T) {
	cfg := FromViper(newViper(), "production")
	cfg.Security.SecureHeaders = true
	cfg.Security.AllowedOrigins = []string{"https://stockpile.example"}

	assert.NoError(t, (&ProductionValidator{}).Validate(cfg))

	cfg.Security.AllowedOrigins = []string{"*"}
	assert.ErrorContains(t, (&ProductionValidator{}).Validate(cfg), "wildcard origin")

	cfg.Security.AllowedOrigins = []string{"https://stockpile.example"}
	cfg.Inventory.PersistenceDriver = DriverMemory
	assert.ErrorContains(t, (&ProductionValidator{}).Validate(cfg), "memory persistence")
}

type fakeSecretsAPI struct {
	calls  int
	secret *string
	err    error
}

func (f *fakeSecretsAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.secret}, nil
}

func TestAWSSecretsManager(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("caches_fetched_secret", func(t *testing.T) {
		api := &fakeSecretsAPI{secret: aws.String(`{"DB_PASSWORD":"s3cret","SUGGEST_API_KEY":"key"}`)}
		sm := NewAWSSecretsManagerWithClient(api, "stockpile/prod", logger)

		val, err := sm.GetSecret(ctx, SecretDBPassword)
		require.NoError(t, err)
		assert.Equal(t, "s3cret", val)

		val, err = sm.GetSecret(ctx, SecretSuggestAPIKey)
		require.NoError(t, err)
		assert.Equal(t, "key", val)
		assert.Equal(t, 1, api.calls)

		require.NoError(t, sm.RefreshSecrets(ctx))
		assert.Equal(t, 2, api.calls)
	})

	t.Run("missing_key", func(t *testing.T) {
		api := &fakeSecretsAPI{secret: aws.String(`{}`)}
		sm := NewAWSSecretsManagerWithClient(api, "stockpile/prod", logger)

		_, err := sm.GetSecret(ctx, SecretDBPassword)
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("client_error", func(t *testing.T) {
		api := &fakeSecretsAPI{err: errors.New("access denied")}
		sm := NewAWSSecretsManagerWithClient(api, "stockpile/prod", logger)

		_, err := sm.GetSecrets(ctx, []string{SecretDBPassword})
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("invalid_json", func(t *testing.T) {
		api := &fakeSecretsAPI{secret: aws.String(`not-json`)}
		sm := NewAWSSecretsManagerWithClient(api, "stockpile/prod", logger)

		_, err := sm.GetSecrets(ctx, []string{SecretDBPassword})
		assert.ErrorContains(t, err, "failed to parse secret JSON")
	})
}

func TestApplySecrets(t *testing.T) {
	t.Setenv(SecretDBPassword, "from-env")
	t.Setenv(SecretRedisPassword, "redis-env")
	t.Setenv(SecretSuggestAPIKey, "")

	cfg := FromViper(newViper(), "test")
	cfg.Suggest.APIKey = "keep-me"

	require.NoError(t, ApplySecrets(context.Background(), cfg, NewEnvSecretsManager()))

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "redis-env", cfg.Redis.Password)
	assert.Equal(t, "redis-env", cfg.Asynq.RedisPassword)
	assert.Equal(t, "keep-me", cfg.Suggest.APIKey)
}
