package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-assistant-backend/config"
	"fleet-assistant-backend/internal/api"
	"fleet-assistant-backend/internal/assistant"
	"fleet-assistant-backend/internal/chat"
	"fleet-assistant-backend/internal/db"
	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/notification"
	"fleet-assistant-backend/internal/reminder"
	"fleet-assistant-backend/internal/resolver"
	"fleet-assistant-backend/internal/source"
	"fleet-assistant-backend/internal/store"
)

// backend serves the dashboard collections the way the real API does:
// Indonesian field names, an envelope for some collections and a bare array for others.
func backend(t *testing.T, fetches *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(fetches, 1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/armada":
			w.Write([]byte(`{"data": [
				{"id": 7, "nama_armada": "Hino 500", "plat_nomor": "B 9000 XY", "kapasitas": "8 ton", "status": "tersedia"},
				{"id": 8, "nama_armada": "Fuso", "plat_nomor": "B 1234 CD"}
			]}`))
		case "/invoices":
			w.Write([]byte(`[
				{"id": 1, "no_invoice": "INC-2024-001", "nama_pelanggan": "PT Maju", "tanggal": "2024-01-05", "total_bayar": 3000000,
				 "items": [{"armada_id": 7, "tanggal_berangkat": "2024-01-06"}, {"armada_id": 8, "tanggal_berangkat": "2024-01-07"}]},
				{"id": 2, "no_invoice": "INC-2024-002", "nama_pelanggan": "CV Jaya", "tanggal": "10-02-2024", "total_bayar": "2000000", "armada_id": 7}
			]`))
		case "/expenses":
			w.Write([]byte(`{"data": [{"id": "e1", "no_expense": "EXP-2024-001", "tanggal": "2024-02-01", "jumlah": 1500000}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func chatRoundTrip(t *testing.T, router http.Handler, sessionID, message string) assistant.Reply {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"session_id": sessionID, "message": message})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/assistant/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out assistant.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// TestAssistantOverHTTP drives the chat endpoint against a fake dashboard
// backend and a fake remote assistant.
func TestAssistantOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()

	var fetches int32
	upstream := backend(t, &fetches)
	defer upstream.Close()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply": "Halo! Ada yang bisa dibantu?"}`))
	}))
	defer remote.Close()

	src := source.NewHTTPSource(config.SourceConfig{
		BaseURL:      upstream.URL,
		VehiclesPath: "/armada",
		InvoicesPath: "/invoices",
		ExpensesPath: "/expenses",
		Timeout:      5 * time.Second,
	}, logger)
	res := resolver.New(src, resolver.WithLogger(logger))
	bot := assistant.New(res, chat.NewClient(config.ChatConfig{BaseURL: remote.URL, Timeout: 5 * time.Second}),
		assistant.WithLogger(logger))

	handler := api.NewHandler(bot, res, nil, nil, logger)
	router := api.NewRouter(handler, config.ServerConfig{RateLimitPerSec: 100, RateLimitBurst: 100, CacheTTLSeconds: 10}, logger)

	got := chatRoundTrip(t, router, "s1", "armada paling sering digunakan?")
	assert.Equal(t, assistant.SourceFleet, got.Source)
	assert.Equal(t, "Armada paling sering digunakan: Hino 500 (B 9000 XY) dengan 2x penggunaan.", got.Text)

	// follow-up inherits the fleet context from the session
	got = chatRoundTrip(t, router, "s1", "kalau yang paling jarang?")
	assert.Equal(t, assistant.SourceFleet, got.Source)
	assert.Equal(t, "Armada paling jarang digunakan: Fuso (B 1234 CD) dengan 1x penggunaan.", got.Text)

	got = chatRoundTrip(t, router, "s1", "total pemasukan tahun 2024")
	assert.Equal(t, assistant.SourceTransaction, got.Source)
	assert.Equal(t, "Total pemasukan tahun 2024: Rp 5.000.000 (2 transaksi)", got.Text)

	got = chatRoundTrip(t, router, "s2", "halo, apa kabar?")
	assert.Equal(t, assistant.SourceRemote, got.Source)
	assert.Equal(t, "Halo! Ada yang bisa dibantu?", got.Text)

	// vehicles+invoices for the fleet view, invoices+expenses for the ledger; both stay cached
	assert.EqualValues(t, 4, atomic.LoadInt32(&fetches))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/transactions/summary?year=2024", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Difference decimal.Decimal `json:"difference"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.True(t, decimal.NewFromInt(3_500_000).Equal(summary.Difference))
}

// TestDatabaseSourceAndReminders reads records from sqlite and checks that a
// departure due today reaches the subscription following that vehicle.
func TestDatabaseSourceAndReminders(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	gormDB, err := db.Init(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}, logger)
	require.NoError(t, err)
	s := store.NewGormStore(gormDB)

	today := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRecords(ctx,
		[]model.Vehicle{{ID: "7", Name: "Hino 500", Plate: "B 9000 XY"}, {ID: "8", Name: "Fuso"}},
		[]model.Invoice{{
			Number: "INC-2024-010", Customer: "PT Maju", Date: "2024-03-01", Total: decimal.NewFromInt(1_000_000),
			Items: []model.LineItem{{VehicleID: "7", StartDate: "2024-03-02", EndDate: "2024-03-05"}},
		}},
		nil,
	))
	require.NoError(t, s.SaveSubscription(ctx, model.PushSubscription{Endpoint: "https://push.example/a", P256DH: "k", Auth: "a"}, []string{"7"}))

	res := resolver.New(s, resolver.WithClock(func() time.Time { return today }))

	text, ok, err := res.ResolveFleet(ctx, "jadwal keberangkatan armada Hino 500", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, text, "1. Berangkat: 02-03-2024 | Armada: Hino 500 (B 9000 XY) | Invoice INC-2024-010 - PT Maju")

	pool := notification.NewWorkerPool(1, s, &webpush.Options{}, logger)
	reminders, err := reminder.NewService(config.ReminderConfig{Interval: time.Minute, Timezone: "UTC"}, res, pool, logger,
		reminder.WithClock(func() time.Time { return today }))
	require.NoError(t, err)

	// The pool is not started, so the queued job stays observable.
	dispatchCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.Equal(t, 1, reminders.CheckOnce(dispatchCtx))

	job := <-pool.Jobs()
	assert.Equal(t, "7", job.VehicleID)

	var payload reminder.Payload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "Armada Hino 500 (B 9000 XY) berangkat hari ini (Invoice INC-2024-010 - PT Maju).", payload.Body)

	subs, err := s.SubscriptionsForVehicle(ctx, job.VehicleID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example/a", subs[0].Endpoint)
}
