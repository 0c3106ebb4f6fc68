package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"fleet-assistant-backend/internal/model"
	"fleet-assistant-backend/internal/store"
)

// The store exposes only data operations, so a mock needs no database handle.
var _ store.Store = (*mockStore)(nil)

// mockStore is a mock implementation of the store.Store interface.
type mockStore struct {
	SaveSubscriptionFunc   func(ctx context.Context, sub model.PushSubscription, vehicleIDs []string) error
	SubscriptionFunc       func(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	DeleteSubscriptionFunc func(ctx context.Context, endpoint string) error
}

func (m *mockStore) Vehicles(ctx context.Context) ([]model.Vehicle, error) { return nil, nil }
func (m *mockStore) Invoices(ctx context.Context) ([]model.Invoice, error) { return nil, nil }
func (m *mockStore) Expenses(ctx context.Context) ([]model.Expense, error) { return nil, nil }
func (m *mockStore) SaveRecords(ctx context.Context, vehicles []model.Vehicle, invoices []model.Invoice, expenses []model.Expense) error {
	return nil
}
func (m *mockStore) SubscriptionsForVehicle(ctx context.Context, vehicleID string) ([]model.PushSubscription, error) {
	return nil, nil
}

func (m *mockStore) SaveSubscription(ctx context.Context, sub model.PushSubscription, vehicleIDs []string) error {
	return m.SaveSubscriptionFunc(ctx, sub, vehicleIDs)
}

func (m *mockStore) Subscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	return m.SubscriptionFunc(ctx, endpoint)
}

func (m *mockStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return m.DeleteSubscriptionFunc(ctx, endpoint)
}

func setupSubscriptionRouter(s store.Store, opts *webpush.Options) *gin.Engine {
	logger, _ := test.NewNullLogger()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(nil, nil, s, opts, logger)
	r.GET("/api/subscriptions", handler.GetSubscription)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.DELETE("/api/subscriptions", handler.DeleteSubscription)
	r.GET("/api/vapid_public_key", handler.GetVAPIDPublicKey)
	return r
}

func TestPutSubscription(t *testing.T) {
	t.Run("missing body", func(t *testing.T) {
		router := setupSubscriptionRouter(&mockStore{}, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
	})

	t.Run("saves keys and vehicles", func(t *testing.T) {
		var saved model.PushSubscription
		var vehicles []string
		router := setupSubscriptionRouter(&mockStore{
			SaveSubscriptionFunc: func(ctx context.Context, sub model.PushSubscription, vehicleIDs []string) error {
				saved, vehicles = sub, vehicleIDs
				return nil
			},
		}, nil)

		body := `{"endpoint":"https://push.example/a","p256dh":"key","auth":"secret","subscribed_vehicles":["7","8"]}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/subscriptions", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "https://push.example/a", saved.Endpoint)
		assert.Equal(t, "key", saved.P256DH)
		assert.Equal(t, []string{"7", "8"}, vehicles)
	})

	t.Run("store failure", func(t *testing.T) {
		router := setupSubscriptionRouter(&mockStore{
			SaveSubscriptionFunc: func(ctx context.Context, sub model.PushSubscription, vehicleIDs []string) error {
				return errors.New("db down")
			},
		}, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/subscriptions", bytes.NewBufferString(`{"endpoint":"e","p256dh":"k","auth":"a"}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetSubscription(t *testing.T) {
	endpoint := "https://push.example/send/abc%3D"
	router := setupSubscriptionRouter(&mockStore{
		SubscriptionFunc: func(ctx context.Context, got string) (*model.PushSubscription, error) {
			if got != endpoint {
				return nil, store.ErrNotFound
			}
			return &model.PushSubscription{
				Endpoint: got,
				Vehicles: []*model.Vehicle{{ID: "7"}, {ID: "8"}},
			}, nil
		},
	}, nil)

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantBody string
	}{
		{"raw endpoint is not decoded", "?endpoint=" + endpoint, http.StatusOK, `{"subscribed_vehicles":["7","8"]}`},
		{"unknown endpoint", "?endpoint=https://push.example/other", http.StatusNotFound, `{"error":"subscription not found"}`},
		{"missing endpoint", "", http.StatusBadRequest, `{"error":"endpoint is required"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/api/subscriptions"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestDeleteSubscription(t *testing.T) {
	var deleted string
	router := setupSubscriptionRouter(&mockStore{
		DeleteSubscriptionFunc: func(ctx context.Context, endpoint string) error {
			deleted = endpoint
			return nil
		},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/subscriptions", bytes.NewBufferString(`{"endpoint":"https://push.example/a"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://push.example/a", deleted)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/vapid_public_key", nil)
	setupSubscriptionRouter(&mockStore{}, &webpush.Options{VAPIDPublicKey: "pub"}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"pub"}`, w.Body.String())

	w = httptest.NewRecorder()
	setupSubscriptionRouter(&mockStore{}, nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
