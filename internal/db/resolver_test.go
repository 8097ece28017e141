package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgset/internal/config"
	"github.com/vvka-141/pgset/pkg/pgset"
)

func TestResolveConnection_ConnectionStringFlag(t *testing.T) {
	cfg, err := ResolveConnection("postgresql://u@db:5433/app", &ConnFlags{Database: "other"}, &EnvVars{PGPASSWORD: "secret"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "other", cfg.Database)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "prefer", cfg.SSLMode)
	assert.Equal(t, pgset.AuthMethodStandard, cfg.AuthMethod)
}

func TestResolveConnection_ConflictingFlags(t *testing.T) {
	_, err := ResolveConnection("postgresql://db/app", &ConnFlags{Host: "other"}, nil, nil)
	assert.True(t, errors.Is(err, pgset.ErrInvalidConfig))
}

func TestResolveConnection_EnvConnectionString(t *testing.T) {
	env := &EnvVars{ConnectionString: "postgresql://envhost/envdb?sslmode=disable"}

	cfg, err := ResolveConnection("", nil, env, nil)
	require.NoError(t, err)
	assert.Equal(t, "envhost", cfg.Host)
	assert.Equal(t, "envdb", cfg.Database)
	assert.Equal(t, "disable", cfg.SSLMode)

	// granular server flags win over the environment connection string
	cfg, err = ResolveConnection("", &ConnFlags{Host: "flaghost"}, env, nil)
	require.NoError(t, err)
	assert.Equal(t, "flaghost", cfg.Host)
}

func TestResolveConnection_GranularPrecedence(t *testing.T) {
	project := &config.ProjectConfig{Connection: config.ConnectionConfig{
		Host: "yamlhost", Port: 7000, Username: "yamluser", Database: "yamldb", SSLMode: "verify-full",
	}}

	cfg, err := ResolveConnection("", &ConnFlags{Port: 6000}, &EnvVars{PGHOST: "envhost", PGPORT: "6500"}, project)
	require.NoError(t, err)

	assert.Equal(t, "envhost", cfg.Host)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "yamluser", cfg.Username)
	assert.Equal(t, "yamldb", cfg.Database)
	assert.Equal(t, "verify-full", cfg.SSLMode)
}

func TestResolveConnection_Defaults(t *testing.T) {
	cfg, err := ResolveConnection("", nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "postgres", cfg.Database)
	assert.Equal(t, "prefer", cfg.SSLMode)
}

func TestResolveConnection_InvalidPGPORT(t *testing.T) {
	_, err := ResolveConnection("", nil, &EnvVars{PGPORT: "five"}, nil)
	assert.True(t, errors.Is(err, pgset.ErrInvalidConfig))
}

func TestResolveConnection_CloudAuth(t *testing.T) {
	env := &EnvVars{AWSRegion: "us-east-1", AzureTenantID: "tenant", AzureClientSecret: "s3cret"}

	cfg, err := ResolveConnection("", &ConnFlags{Auth: "aws"}, env, nil)
	require.NoError(t, err)
	assert.Equal(t, pgset.AuthMethodAWSIAM, cfg.AuthMethod)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)

	cfg, err = ResolveConnection("", &ConnFlags{Auth: "azure", AzureClientID: "client"}, env, nil)
	require.NoError(t, err)
	assert.Equal(t, pgset.AuthMethodAzureEntraID, cfg.AuthMethod)
	assert.Equal(t, "tenant", cfg.AzureTenantID)
	assert.Equal(t, "client", cfg.AzureClientID)
	assert.Equal(t, "s3cret", cfg.AzureClientSecret)

	project := &config.ProjectConfig{Connection: config.ConnectionConfig{AuthMethod: "google", GoogleInstance: "p:r:i"}}
	cfg, err = ResolveConnection("", nil, nil, project)
	require.NoError(t, err)
	assert.Equal(t, pgset.AuthMethodGoogleIAM, cfg.AuthMethod)
	assert.Equal(t, "p:r:i", cfg.GoogleInstance)

	_, err = ResolveConnection("", &ConnFlags{Auth: "ldap"}, nil, nil)
	assert.True(t, errors.Is(err, pgset.ErrInvalidConfig))
}
