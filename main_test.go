package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"foodhive/internal/models"
	"foodhive/internal/repositories"
	"foodhive/internal/services"
	"foodhive/pkg/config"
	"foodhive/pkg/metrics"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	cfg.StoreDriver = config.DriverMemory
	cfg.RabbitMQURL = ""
	return cfg
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, serviceName)
	docs := repositories.NewMockDocumentStore()
	store := services.NewProductStore(docs, nil, m)
	return newApp(testConfig(t), store, services.NewShoppingList(docs, nil), reg, m, zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, config.DriverMemory, body["store"])
	assert.Equal(t, false, body["messaging"])
}

func TestProductRoundTripAndMetrics(t *testing.T) {
	app := setupApp(t)

	jsonBody, err := json.Marshal(map[string]interface{}{
		"name":     "Fresh Apple",
		"category": "Fruits",
		"addDate":  "2025-04-02",
		"expDate":  "2025-04-10",
		"quantity": 3,
		"weight":   map[string]string{"magnitude": "0.5", "unit": "kg"},
		"note":     "Organic apples",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var created models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/"+created.ID, nil), -1)
	require.NoError(t, err)
	var fetched models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, models.NewDate(2025, time.April, 10), fetched.ExpDate)
	assert.Equal(t, "0.5kg", fetched.Weight.String())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `foodhive_product_saves_total{outcome="success"} 1`)
	assert.Contains(t, string(raw), "foodhive_http_requests_total")
}

func TestOpenDocumentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		cfg := testConfig(t)
		docs, closeStore, err := openDocumentStore(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &repositories.MockDocumentStore{}, docs)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.StoreDriver = config.DriverSQLite
		cfg.DatabaseDSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

		docs, closeStore, err := openDocumentStore(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &repositories.GORMDocumentStore{}, docs)

		id, err := docs.Create(ctx, services.ProductsCollection, map[string]interface{}{"name": "Milk"})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("unsupported", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.StoreDriver = "redis"
		_, _, err := openDocumentStore(ctx, cfg, zap.NewNop())
		assert.Error(t, err)
	})
}
