package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	apikeydomain "github.com/greentruckerlabs/greentrucker/internal/apikey/domain"
	auditdomain "github.com/greentruckerlabs/greentrucker/internal/audit/domain"
	auditservice "github.com/greentruckerlabs/greentrucker/internal/audit/service"
	"github.com/greentruckerlabs/greentrucker/internal/authorization"
	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	billingrepo "github.com/greentruckerlabs/greentrucker/internal/billing/repository"
	billingservice "github.com/greentruckerlabs/greentrucker/internal/billing/service"
	"github.com/greentruckerlabs/greentrucker/internal/clock"
	"github.com/greentruckerlabs/greentrucker/internal/config"
	"github.com/greentruckerlabs/greentrucker/internal/events"
	inventorydomain "github.com/greentruckerlabs/greentrucker/internal/inventory/domain"
	inventoryrepo "github.com/greentruckerlabs/greentrucker/internal/inventory/repository"
	inventoryservice "github.com/greentruckerlabs/greentrucker/internal/inventory/service"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	paymentrepo "github.com/greentruckerlabs/greentrucker/internal/payment/repository"
	paymentservice "github.com/greentruckerlabs/greentrucker/internal/payment/service"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	pricingrepo "github.com/greentruckerlabs/greentrucker/internal/pricing/repository"
	pricingservice "github.com/greentruckerlabs/greentrucker/internal/pricing/service"
	scheduledomain "github.com/greentruckerlabs/greentrucker/internal/schedule/domain"
	schedulerepo "github.com/greentruckerlabs/greentrucker/internal/schedule/repository"
	scheduleservice "github.com/greentruckerlabs/greentrucker/internal/schedule/service"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	wasterepo "github.com/greentruckerlabs/greentrucker/internal/waste/repository"
	wasteservice "github.com/greentruckerlabs/greentrucker/internal/waste/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	keys   map[string]string // role -> plaintext key
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&pricingdomain.PricingEntry{},
		&wastedomain.WasteCollection{},
		&wastedomain.WasteItem{},
		&paymentdomain.PaymentRecord{},
		&billingdomain.BillingRecord{},
		&scheduledomain.ScheduleRequest{},
		&inventorydomain.InventoryItem{},
		&auditdomain.AuditLog{},
		&apikeydomain.APIKey{},
		&events.NotificationEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	clk := clock.New()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{RateLimit: 1000, RateLimitWindow: "1m"},
	}
	outbox := events.NewOutbox(db, node)

	enforcer, err := authorization.NewEnforcer(db)
	require.NoError(t, err)
	for _, p := range authorization.DefaultPolicies() {
		_, err := enforcer.AddPolicy(p[0], p[1], p[2])
		require.NoError(t, err)
	}
	for _, g := range authorization.DefaultGroupings() {
		_, err := enforcer.AddGroupingPolicy(g[0], g[1])
		require.NoError(t, err)
	}

	keys := make(map[string]string)
	for role, name := range map[string]string{
		authorization.RoleResident: "res-1",
		authorization.RoleStaff:    "depot staff",
		authorization.RoleAdmin:    "ops admin",
	} {
		plaintext, record, err := apikeydomain.Generate(node, name, role, time.Now())
		require.NoError(t, err)
		require.NoError(t, db.Create(record).Error)
		keys[role] = plaintext
	}

	server := NewServer(ServerParam{
		Config: cfg,
		Log:    log,
		DB:     db,
		PricingSvc: pricingservice.NewService(pricingservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk, Repo: pricingrepo.Provide(),
		}),
		WasteSvc: wasteservice.NewService(wasteservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk, Repo: wasterepo.Provide(),
		}),
		PaymentSvc: paymentservice.NewService(paymentservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk, Repo: paymentrepo.Provide(),
		}),
		BillingSvc: billingservice.NewService(billingservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk, Config: cfg, Outbox: outbox,
			Repo:        billingrepo.Provide(),
			WasteRepo:   wasterepo.Provide(),
			PricingRepo: pricingrepo.Provide(),
			PaymentRepo: paymentrepo.Provide(),
		}),
		ScheduleSvc: scheduleservice.NewService(scheduleservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk, Outbox: outbox, Repo: schedulerepo.Provide(),
		}),
		InventorySvc: inventoryservice.NewService(inventoryservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk, Repo: inventoryrepo.Provide(),
		}),
		AuditSvc: auditservice.NewService(auditservice.ServiceParam{
			DB: db, Log: log, GenID: node, Clock: clk,
		}),
		AuthzSvc: authorization.NewService(log, enforcer),
	})

	engine := gin.New()
	server.RegisterRoutes(engine)
	return &testEnv{engine: engine, db: db, keys: keys}
}

func (e *testEnv) do(t *testing.T, method, path, key string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func seedStatement(t *testing.T, env *testEnv, residentID string) {
	t.Helper()
	require.NoError(t, env.db.Create(&pricingdomain.PricingEntry{
		ID: 1, Item: "Food Waste", PricePerUnit: 3,
	}).Error)
	item, err := wastedomain.NewWasteItem(wastedomain.WasteTypeNonRecyclable, "Food Waste", 10)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&wastedomain.WasteCollection{
		ID:             2,
		CollectionID:   "COL-1",
		ResidentID:     residentID,
		CollectionDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:         wastedomain.CollectionStatusCollected,
		Garbage:        []wastedomain.WasteItem{item},
	}).Error)
}

func TestMissingAPIKeyRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/billing/statement", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownAPIKeyRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/billing/statement", "gt_12345_deadbeef", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResidentFetchesOwnStatement(t *testing.T) {
	env := newTestEnv(t)
	seedStatement(t, env, "res-1")

	rec := env.do(t, http.MethodGet, "/v1/billing/statement", env.keys[authorization.RoleResident], nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	assert.Equal(t, "res-1", data["residentId"])
	assert.InDelta(t, 30.0, data["outstandingBalance"], 0.001)
}

func TestStaffStatementNeedsResidentHeader(t *testing.T) {
	env := newTestEnv(t)
	seedStatement(t, env, "res-1")

	rec := env.do(t, http.MethodGet, "/v1/billing/statement", env.keys[authorization.RoleStaff], nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/billing/statement", env.keys[authorization.RoleStaff], nil, map[string]string{
		HeaderResident: "res-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "res-1", decodeData(t, rec)["residentId"])
}

func TestResidentCannotWritePricing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/pricing", env.keys[authorization.RoleResident], gin.H{
		"item": "Paper", "pricePerUnit": 1,
	}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminInheritsStaffGrants(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/pricing", env.keys[authorization.RoleAdmin], gin.H{
		"item": "Paper", "pricePerUnit": 1,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Paper", decodeData(t, rec)["item"])
}

func TestSettleEndpointIdempotency(t *testing.T) {
	env := newTestEnv(t)
	seedStatement(t, env, "res-1")
	headers := map[string]string{"Idempotency-Key": "pay-once"}

	rec := env.do(t, http.MethodPost, "/v1/billing/settle", env.keys[authorization.RoleResident], gin.H{
		"paymentMethod": "bank_transfer",
	}, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeData(t, rec)
	firstPayment, ok := first["payment"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 30.0, firstPayment["amount"], 0.001)

	rec = env.do(t, http.MethodPost, "/v1/billing/settle", env.keys[authorization.RoleResident], gin.H{
		"paymentMethod": "bank_transfer",
	}, headers)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	replay := decodeData(t, rec)
	replayPayment, ok := replay["payment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, firstPayment["paymentID"], replayPayment["paymentID"])
	assert.Equal(t, true, replay["replayed"])

	var count int64
	require.NoError(t, env.db.Model(&paymentdomain.PaymentRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSettleNothingOutstanding(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/billing/settle", env.keys[authorization.RoleResident], gin.H{
		"paymentMethod": "bank_transfer",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBillingRecordLifecycle(t *testing.T) {
	env := newTestEnv(t)

	record := gin.H{
		"billingId":     "BILL-100",
		"residentId":    "res-1",
		"garbageCost":   30,
		"totalPrice":    30,
		"paymentStatus": "Unpaid",
	}

	rec := env.do(t, http.MethodPost, "/v1/billing/records", env.keys[authorization.RoleResident], record, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/billing/records", env.keys[authorization.RoleStaff], record, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "BILL-100", decodeData(t, rec)["billingId"])

	rec = env.do(t, http.MethodPost, "/v1/billing/records", env.keys[authorization.RoleStaff], record, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/billing/records", env.keys[authorization.RoleStaff], gin.H{
		"billingId":     "BILL-101",
		"residentId":    "res-1",
		"totalPrice":    10,
		"paymentStatus": "Settled",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/v1/billing/records/BILL-100", env.keys[authorization.RoleStaff], gin.H{
		"paymentStatus": "Paid",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Paid", decodeData(t, rec)["paymentStatus"])

	rec = env.do(t, http.MethodDelete, "/v1/billing/records/BILL-100", env.keys[authorization.RoleAdmin], nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/billing/records/BILL-100", env.keys[authorization.RoleStaff], nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var audits int64
	require.NoError(t, env.db.Model(&auditdomain.AuditLog{}).Count(&audits).Error)
	assert.EqualValues(t, 3, audits)
}

func TestStatementCSVExport(t *testing.T) {
	env := newTestEnv(t)
	seedStatement(t, env, "res-1")

	rec := env.do(t, http.MethodGet, "/v1/billing/statement/export?format=csv", env.keys[authorization.RoleResident], nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Food Waste")
	assert.Contains(t, rec.Body.String(), "outstanding_balance")
}

func TestInventoryLifecycleAndAudit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/inventory", env.keys[authorization.RoleStaff], gin.H{
		"itemName":     "Compost Bin",
		"location":     "Central Depot",
		"regularPrice": 25,
		"quantity":     4,
		"condition":    8,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	slugValue, _ := decodeData(t, rec)["slug"].(string)
	require.NotEmpty(t, slugValue)

	rec = env.do(t, http.MethodGet, "/v1/inventory/"+slugValue, env.keys[authorization.RoleResident], nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/v1/inventory/"+slugValue, env.keys[authorization.RoleResident], nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var audits int64
	require.NoError(t, env.db.Model(&auditdomain.AuditLog{}).Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestScheduleCreateQueuesNotification(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/schedules", env.keys[authorization.RoleResident], gin.H{
		"customerName": "Jamie Ross",
		"category":     "Bulky Waste",
		"scheduleDate": "2026-09-10T00:00:00Z",
		"location":     "12 Hill Street",
		"email":        "jamie@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pending int64
	require.NoError(t, env.db.Model(&events.NotificationEvent{}).
		Where("event_type = ?", events.EventScheduleRequested).
		Count(&pending).Error)
	assert.EqualValues(t, 1, pending)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/readyz", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
