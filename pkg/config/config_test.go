package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"main"}, cfg.Access.PrivilegedRoles)
	assert.Equal(t, []string{"main", "doctor"}, cfg.Access.PurchasePriceRoles)
	assert.Equal(t, "earliest", cfg.Inventory.BatchDatePolicy)
	assert.Equal(t, "10-M", cfg.RateLimit.Login)
	assert.Equal(t, cfg.App.Name, cfg.Issuer.Name, "el emisor del comprobante toma el nombre de la app")
}

func TestLoad_ListasDesdeEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("ACCESS_PURCHASE_PRICE_ROLES", " main , auditor ,")
	t.Setenv("DB_PORT", "6543")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"main", "auditor"}, cfg.Access.PurchasePriceRoles)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestLoad_SinSecretoFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_PoliticaDeFechaInvalida(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("INVENTORY_BATCH_DATE_POLICY", "random")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "crm", Password: "p@ss:w/rd", DBName: "crm", SSLMode: "disable"}
	assert.Equal(t, "postgres://crm:p%40ss%3Aw%2Frd@db:5432/crm?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
