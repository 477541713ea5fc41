package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/procurement/internal/config"
	"github.com/MrJamesThe3rd/procurement/internal/database"
	"github.com/MrJamesThe3rd/procurement/internal/document"
	"github.com/MrJamesThe3rd/procurement/internal/export"
	apihttp "github.com/MrJamesThe3rd/procurement/internal/http"
	documentHandler "github.com/MrJamesThe3rd/procurement/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/procurement/internal/http/export"
	notificationHandler "github.com/MrJamesThe3rd/procurement/internal/http/notification"
	purchaseHandler "github.com/MrJamesThe3rd/procurement/internal/http/purchase"
	"github.com/MrJamesThe3rd/procurement/internal/http/respond"
	"github.com/MrJamesThe3rd/procurement/internal/metrics"
	"github.com/MrJamesThe3rd/procurement/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/procurement/internal/notification/store"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
	purchaseStore "github.com/MrJamesThe3rd/procurement/internal/purchase/store"
)

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, string, string, string, string) error {
	return errors.New("notification sink down")
}

func newServer(t *testing.T, notifier purchase.Notifier) (http.Handler, *notification.Service) {
	t.Helper()

	db := database.NewTestDB(t)
	m := metrics.New()

	notifications := notification.NewService(notificationStore.New(db, config.DriverSQLite))
	if notifier == nil {
		notifier = notifications
	}

	purchases := purchase.NewService(purchaseStore.New(db, config.DriverSQLite), m.InstrumentNotifier(notifier))

	router := apihttp.New(
		apihttp.Options{Name: "MDRRMO Procurement System API", Version: "1.0", CORSOrigins: []string{"*"}, Metrics: m},
		purchaseHandler.NewHandler(purchases, respond.NewValidator(), purchaseHandler.Limits{Default: 100, Max: 1000}),
		notificationHandler.NewHandler(notifications),
		exportHandler.NewHandler(export.NewService(purchases)),
		documentHandler.NewHandler(purchases, newRenderer(t)),
	)

	return router, notifications
}

func newRenderer(t *testing.T) *document.Renderer {
	t.Helper()

	r, err := document.New(document.Letterhead{
		Agency:      "LGU - Pioduran, Albay",
		Office:      "MDRRMO",
		RequestedBy: "NOEL F. ORDONA",
		ApprovedBy:  "EVANGELINE C. ARANDIA",
	})
	require.NoError(t, err)

	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

const validItem = `{"number": 1, "name": "Engine Oil 15W-40", "unit": "pc", "quantity": 4, "unitPrice": 450, "total": 1800}`

const validPurchase = `{
	"title": "Engine oil",
	"date": "2025-03-14",
	"department": "MDRRMO",
	"purpose": "Vehicle maintenance",
	"supplier1": {"name": "ONGSKIE AUTO SUPPLY", "address": "Pioduran, Albay"},
	"items": [` + validItem + `],
	"totalAmount": 1800
}`

func without(body, part string) string {
	return strings.Replace(body, part, "", 1)
}

func withItems(items string) string {
	return strings.Replace(validPurchase, `[`+validItem+`]`, items, 1)
}

type purchaseBody struct {
	ID           string  `json:"id"`
	PRNo         string  `json:"prNo"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	TotalAmount  float64 `json:"totalAmount"`
	UpdatedAt    *string `json:"updatedAt"`
	ApprovalInfo struct {
		ApprovedBy string `json:"approvedBy"`
	} `json:"approvalInfo"`
	Items []struct {
		UnitPrice float64 `json:"unitPrice"`
	} `json:"items"`
	Attachments []struct {
		ID string `json:"id"`
	} `json:"attachments"`
	AuditTrail []struct {
		Action string `json:"action"`
	} `json:"auditTrail"`
}

func TestInfo(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"MDRRMO Procurement System API","version":"1.0"}`, rec.Body.String())
}

func TestPurchaseLifecycle(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/purchases", validPurchase)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	created := decode[purchaseBody](t, rec)
	assert.Regexp(t, `^\d{4}-PR-001$`, created.PRNo)
	assert.Equal(t, "Pending", created.Status)
	assert.Equal(t, "Normal", created.Priority)
	assert.Equal(t, 1800.0, created.TotalAmount)
	assert.Nil(t, created.UpdatedAt)
	require.Len(t, created.AuditTrail, 1)
	assert.Equal(t, "created", created.AuditTrail[0].Action)
	assert.NotNil(t, created.Attachments)

	rec = do(t, h, http.MethodGet, "/api/purchases/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.PRNo, decode[purchaseBody](t, rec).PRNo)

	updatedBody := strings.Replace(validPurchase, `"Engine oil"`, `"Engine oil (4L)"`, 1)
	rec = do(t, h, http.MethodPut, "/api/purchases/"+created.ID, updatedBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[purchaseBody](t, rec)
	assert.Equal(t, "Engine oil (4L)", updated.Title)
	assert.Equal(t, created.PRNo, updated.PRNo)
	assert.NotNil(t, updated.UpdatedAt)
	assert.Len(t, updated.AuditTrail, 2)

	rec = do(t, h, http.MethodPatch, "/api/purchases/"+created.ID+"/status",
		`{"status":"Approved","approvedBy":"Mayor","comments":"ok"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[purchaseBody](t, rec)
	assert.Equal(t, "Approved", approved.Status)
	assert.Equal(t, "Mayor", approved.ApprovalInfo.ApprovedBy)
	assert.Equal(t, "approved", approved.AuditTrail[len(approved.AuditTrail)-1].Action)

	rec = do(t, h, http.MethodPost, "/api/purchases/"+created.ID+"/attachments",
		`{"filename":"quote.pdf","mimeType":"application/pdf","size":1024}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	withFile := decode[purchaseBody](t, rec)
	require.Len(t, withFile.Attachments, 1)

	rec = do(t, h, http.MethodDelete, "/api/purchases/"+created.ID+"/attachments/"+withFile.Attachments[0].ID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[purchaseBody](t, rec).Attachments)

	rec = do(t, h, http.MethodDelete, "/api/purchases/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Purchase deleted successfully","id":"`+created.ID+`"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/purchases/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/purchases/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPurchaseErrors(t *testing.T) {
	h, _ := newServer(t, nil)

	type testCase struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantDetail string
	}

	tests := []testCase{
		{name: "EmptyTitle", method: http.MethodPost, path: "/api/purchases", body: strings.Replace(validPurchase, `"Engine oil"`, `"  "`, 1), wantStatus: http.StatusBadRequest, wantDetail: "title: must not be empty"},
		{name: "NoItems", method: http.MethodPost, path: "/api/purchases", body: withItems(`[]`), wantStatus: http.StatusBadRequest, wantDetail: "items: at least one item is required"},
		{name: "MissingItems", method: http.MethodPost, path: "/api/purchases", body: without(validPurchase, `"items": [`+validItem+`],`), wantStatus: http.StatusBadRequest, wantDetail: "'items': this field is required"},
		{name: "MissingSupplier1", method: http.MethodPost, path: "/api/purchases", body: without(validPurchase, `"supplier1": {"name": "ONGSKIE AUTO SUPPLY", "address": "Pioduran, Albay"},`), wantStatus: http.StatusBadRequest, wantDetail: "'supplier1': this field is required"},
		{name: "MissingDate", method: http.MethodPost, path: "/api/purchases", body: without(validPurchase, `"date": "2025-03-14",`), wantStatus: http.StatusBadRequest, wantDetail: "'date': this field is required"},
		{name: "MissingDepartment", method: http.MethodPost, path: "/api/purchases", body: without(validPurchase, `"department": "MDRRMO",`), wantStatus: http.StatusBadRequest, wantDetail: "'department': this field is required"},
		{name: "MissingItemName", method: http.MethodPost, path: "/api/purchases", body: without(validPurchase, `"name": "Engine Oil 15W-40", `), wantStatus: http.StatusBadRequest, wantDetail: "'items[0].name': this field is required"},
		{name: "MissingItemUnit", method: http.MethodPost, path: "/api/purchases", body: without(validPurchase, `"unit": "pc", `), wantStatus: http.StatusBadRequest, wantDetail: "'items[0].unit': this field is required"},
		{name: "UpdateMissingSupplier1", method: http.MethodPut, path: "/api/purchases/nope", body: without(validPurchase, `"supplier1": {"name": "ONGSKIE AUTO SUPPLY", "address": "Pioduran, Albay"},`), wantStatus: http.StatusBadRequest, wantDetail: "'supplier1': this field is required"},
		{name: "NegativeQuantity", method: http.MethodPost, path: "/api/purchases", body: withItems(`[{"name":"x","unit":"pc","quantity":-1}]`), wantStatus: http.StatusBadRequest, wantDetail: "items[0].quantity"},
		{name: "BadPriority", method: http.MethodPost, path: "/api/purchases", body: strings.Replace(validPurchase, `"title"`, `"priority": "Whenever", "title"`, 1), wantStatus: http.StatusBadRequest, wantDetail: "priority"},
		{name: "MalformedJSON", method: http.MethodPost, path: "/api/purchases", body: `{`, wantStatus: http.StatusBadRequest, wantDetail: "invalid request body"},
		{name: "GetMissing", method: http.MethodGet, path: "/api/purchases/nope", wantStatus: http.StatusNotFound, wantDetail: "Purchase not found"},
		{name: "UpdateMissing", method: http.MethodPut, path: "/api/purchases/nope", body: validPurchase, wantStatus: http.StatusNotFound, wantDetail: "Purchase not found"},
		{name: "StatusMissing", method: http.MethodPatch, path: "/api/purchases/nope/status", body: `{"status":"Approved"}`, wantStatus: http.StatusNotFound},
		{name: "StatusEmpty", method: http.MethodPatch, path: "/api/purchases/nope/status", body: `{"status":""}`, wantStatus: http.StatusBadRequest},
		{name: "AttachmentOnMissing", method: http.MethodPost, path: "/api/purchases/nope/attachments", body: `{"filename":"a.pdf"}`, wantStatus: http.StatusNotFound},
		{name: "BadLimit", method: http.MethodGet, path: "/api/purchases?limit=abc", wantStatus: http.StatusBadRequest, wantDetail: "limit"},
		{name: "BadAmount", method: http.MethodGet, path: "/api/purchases?minAmount=lots", wantStatus: http.StatusBadRequest, wantDetail: "minAmount"},
		{name: "BadExportFormat", method: http.MethodGet, path: "/api/purchases/export?format=pdf", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decode[map[string]string](t, rec)
			assert.Contains(t, body["detail"], tt.wantDetail)
		})
	}
}

func TestCreateAcceptsFreeFormFields(t *testing.T) {
	h, _ := newServer(t, nil)

	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "FreeTextDate", body: strings.Replace(validPurchase, `"2025-03-14"`, `"March 14, 2025"`, 1)},
		{name: "NegativeTotalAmount", body: strings.Replace(validPurchase, `"totalAmount": 1800`, `"totalAmount": -5`, 1)},
		{name: "NegativeItemTotal", body: strings.Replace(validPurchase, `"total": 1800`, `"total": -1`, 1)},
		{name: "EmptySupplier1", body: strings.Replace(validPurchase, `{"name": "ONGSKIE AUTO SUPPLY", "address": "Pioduran, Albay"}`, `{}`, 1)},
		{name: "EmptyDateAndDepartment", body: strings.Replace(strings.Replace(validPurchase, `"2025-03-14"`, `""`, 1), `"MDRRMO"`, `""`, 1)},
		{name: "ItemWithoutNumber", body: without(validPurchase, `"number": 1, `)},
		{name: "LongTitle", body: strings.Replace(validPurchase, `"Engine oil"`, `"`+strings.Repeat("x", 501)+`"`, 1)},
		{name: "ArbitraryStatus", body: strings.Replace(validPurchase, `"title"`, `"status": "`+strings.Repeat("s", 80)+`", "title"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/purchases", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			id := decode[purchaseBody](t, rec).ID

			rec = do(t, h, http.MethodPut, "/api/purchases/"+id, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}

	rec := do(t, h, http.MethodPost, "/api/purchases", tests[0].body)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Date string `json:"date"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "March 14, 2025", got.Date)
}

func TestListAndStats(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodGet, "/api/purchases", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/purchases/stats/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":0,"approved":0,"pending":0,"denied":0,"completed":0,"forReview":0,"highPriority":0,"recentActivity":0,"totalAmount":0}`, rec.Body.String())

	var ids []string

	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/api/purchases", validPurchase)
		require.Equal(t, http.StatusOK, rec.Code)
		ids = append(ids, decode[purchaseBody](t, rec).ID)
	}

	rec = do(t, h, http.MethodPatch, "/api/purchases/"+ids[0]+"/status", `{"status":"Denied"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/purchases?status=Denied", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]purchaseBody](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/purchases?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]purchaseBody](t, rec), 2)

	rec = do(t, h, http.MethodGet, "/api/purchases?search=ENGINE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]purchaseBody](t, rec), 3)

	rec = do(t, h, http.MethodGet, "/api/purchases/stats/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[map[string]float64](t, rec)
	assert.Equal(t, 3.0, stats["total"])
	assert.Equal(t, 2.0, stats["pending"])
	assert.Equal(t, 1.0, stats["denied"])
	assert.Equal(t, 3600.0, stats["totalAmount"])
	assert.Equal(t, 3.0, stats["recentActivity"])
}

func TestNotificationFeed(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/purchases", validPurchase)
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[purchaseBody](t, rec)

	rec = do(t, h, http.MethodGet, "/api/notifications/unread-count", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "purchase_created", list[0]["type"])
	assert.Equal(t, created.ID, list[0]["purchaseId"])
	assert.Equal(t, false, list[0]["read"])

	id := list[0]["id"].(string)

	rec = do(t, h, http.MethodPatch, "/api/notifications/"+id+"/read", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/notifications/read-all", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/notifications/unread-count", "")
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/notifications/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/notifications/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/notifications/missing/read", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSurvivesNotificationFailure(t *testing.T) {
	h, _ := newServer(t, failingNotifier{})

	rec := do(t, h, http.MethodPost, "/api/purchases", validPurchase)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	created := decode[purchaseBody](t, rec)

	rec = do(t, h, http.MethodGet, "/api/purchases/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `procurement_notifications_total{result="error",type="purchase_created"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/api/purchases/{id}"`)
}

func TestExportImport(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/purchases", validPurchase)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/purchases/export", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ID,PR_No,PO_No,OBR_No,DV_No,Title"))

	exported := rec.Body.Bytes()

	rec = do(t, h, http.MethodGet, "/api/purchases/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "purchases.csv")
	require.NoError(t, err)
	_, err = fw.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/purchases/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"created":0,"updated":1,"errors":[]}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/purchases/import", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "text/plain")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportAppliesListFilters(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/purchases", validPurchase)
	require.Equal(t, http.StatusOK, rec.Code)

	boat := strings.NewReplacer(`"Engine oil"`, `"Rescue boat"`, `"totalAmount": 1800`, `"totalAmount": 250000, "priority": "Urgent"`).Replace(validPurchase)
	rec = do(t, h, http.MethodPost, "/api/purchases", boat)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	type testCase struct {
		name       string
		query      string
		wantStatus int
		want       []string
		wantNot    []string
	}

	tests := []testCase{
		{name: "NoFilter", query: "", wantStatus: http.StatusOK, want: []string{"Engine oil", "Rescue boat"}},
		{name: "Priority", query: "?priority=Urgent", wantStatus: http.StatusOK, want: []string{"Rescue boat"}, wantNot: []string{"Engine oil"}},
		{name: "PriorityAll", query: "?priority=all", wantStatus: http.StatusOK, want: []string{"Engine oil", "Rescue boat"}},
		{name: "MinAmount", query: "?minAmount=10000", wantStatus: http.StatusOK, want: []string{"Rescue boat"}, wantNot: []string{"Engine oil"}},
		{name: "MaxAmount", query: "?maxAmount=10000", wantStatus: http.StatusOK, want: []string{"Engine oil"}, wantNot: []string{"Rescue boat"}},
		{name: "BadMinAmount", query: "?minAmount=lots", wantStatus: http.StatusBadRequest, want: []string{"minAmount"}},
		{name: "BadMaxAmount", query: "?format=xlsx&maxAmount=none", wantStatus: http.StatusBadRequest, want: []string{"maxAmount"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/purchases/export"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			for _, s := range tt.want {
				assert.Contains(t, rec.Body.String(), s)
			}

			for _, s := range tt.wantNot {
				assert.NotContains(t, rec.Body.String(), s)
			}
		})
	}
}

func TestDocuments(t *testing.T) {
	h, _ := newServer(t, nil)

	rec := do(t, h, http.MethodPost, "/api/purchases", validPurchase)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[purchaseBody](t, rec)

	type testCase struct {
		name       string
		path       string
		wantStatus int
		want       []string
	}

	tests := []testCase{
		{
			name:       "PurchaseRequest",
			path:       "/api/purchases/" + created.ID + "/documents/pr",
			wantStatus: http.StatusOK,
			want:       []string{"PURCHASE REQUEST", "<strong>PR NO:</strong> " + created.PRNo, "Engine Oil 15W-40", "1,800.00", "NOEL F. ORDONA"},
		},
		{
			name:       "PurchaseOrder",
			path:       "/api/purchases/" + created.ID + "/documents/PO",
			wantStatus: http.StatusOK,
			want:       []string{"PURCHASE ORDER", "<strong>Supplier:</strong> ONGSKIE AUTO SUPPLY", "<strong>PR No.:</strong> " + created.PRNo},
		},
		{
			name:       "UnknownKind",
			path:       "/api/purchases/" + created.ID + "/documents/canvass",
			wantStatus: http.StatusNotFound,
			want:       []string{"unknown document kind"},
		},
		{
			name:       "UnknownPurchase",
			path:       "/api/purchases/missing/documents/pr",
			wantStatus: http.StatusNotFound,
			want:       []string{"Purchase not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			for _, s := range tt.want {
				assert.Contains(t, rec.Body.String(), s)
			}

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHealth(t *testing.T) {
	type testCase struct {
		name     string
		ping     func(context.Context) error
		wantCode int
		wantBody string
	}

	tests := []testCase{
		{name: "NoPing", wantCode: http.StatusOK, wantBody: "OK"},
		{name: "Healthy", ping: func(context.Context) error { return nil }, wantCode: http.StatusOK, wantBody: "OK"},
		{
			name:     "DatabaseDown",
			ping:     func(context.Context) error { return errors.New("connection refused") },
			wantCode: http.StatusServiceUnavailable,
			wantBody: "database unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := database.NewTestDB(t)
			notifications := notification.NewService(notificationStore.New(db, config.DriverSQLite))
			purchases := purchase.NewService(purchaseStore.New(db, config.DriverSQLite), nil)

			router := apihttp.New(
				apihttp.Options{CORSOrigins: []string{"*"}, Ping: tt.ping},
				purchaseHandler.NewHandler(purchases, respond.NewValidator(), purchaseHandler.Limits{Default: 10, Max: 10}),
				notificationHandler.NewHandler(notifications),
				exportHandler.NewHandler(export.NewService(purchases)),
				documentHandler.NewHandler(purchases, newRenderer(t)),
			)

			rec := do(t, router, http.MethodGet, "/health", "")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
