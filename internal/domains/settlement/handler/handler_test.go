package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agency-erp/internal/domains/settlement/model"
)

type stubService struct {
	syncErr  error
	syncReq  *model.SyncCollaboratorsRequest
	summary  *model.SettlementSummary
	listSeen model.ListFilter
}

func (s *stubService) SyncCollaborators(_ context.Context, projectID uuid.UUID, req model.SyncCollaboratorsRequest) ([]*model.SettlementDetail, error) {
	s.syncReq = &req
	if s.syncErr != nil {
		return nil, s.syncErr
	}
	out := make([]*model.SettlementDetail, 0, len(req.Collaborators))
	for _, c := range req.Collaborators {
		out = append(out, &model.SettlementDetail{Settlement: *c.ToSettlement(projectID)})
	}
	return out, nil
}

func (s *stubService) ListByProject(context.Context, uuid.UUID) ([]*model.SettlementDetail, error) {
	return nil, nil
}

func (s *stubService) List(_ context.Context, f model.ListFilter) ([]*model.SettlementDetail, error) {
	s.listSeen = f
	return nil, nil
}

func (s *stubService) GetByID(context.Context, uuid.UUID) (*model.SettlementDetail, error) {
	return nil, model.NewSettlementNotFoundError()
}

func (s *stubService) UpdateStatus(context.Context, uuid.UUID, model.UpdateStatusRequest) (*model.SettlementDetail, error) {
	return nil, errors.New("boom")
}

func (s *stubService) GetSummary(context.Context, model.ListFilter) (*model.SettlementSummary, error) {
	return s.summary, nil
}

func (s *stubService) ExportToExcel(context.Context, model.ListFilter) (*excelize.File, error) {
	return excelize.NewFile(), nil
}

func newRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSettlementHandler(svc)
	r.PUT("/projects/:id/collaborators", h.SyncCollaborators)
	r.GET("/projects/:id/settlements", h.ListByProject)
	r.GET("/settlements", h.List)
	r.GET("/settlements/summary", h.Summary)
	r.GET("/settlements/export", h.Export)
	r.GET("/settlements/:id", h.Get)
	r.PATCH("/settlements/:id/status", h.UpdateStatus)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestSyncCollaborators_NormalizesAndWraps(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)
	inf := uuid.NewString()

	w, env := do(r, http.MethodPut, "/projects/"+uuid.NewString()+"/collaborators",
		`{"collaborators":[{"influencerId":"`+inf+`","fee":400000,"paymentStatus":"REQUESTED","paymentDueDate":"2026-11-01"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		ProjectInfluencers []struct {
			InfluencerID  string `json:"influencerId"`
			PaymentStatus string `json:"paymentStatus"`
		} `json:"projectInfluencers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.ProjectInfluencers, 1)
	assert.Equal(t, inf, data.ProjectInfluencers[0].InfluencerID)
	assert.Equal(t, "in_progress", data.ProjectInfluencers[0].PaymentStatus)
}

func TestSyncCollaborators_ValidationNamesField(t *testing.T) {
	svc := &stubService{}
	r := newRouter(svc)

	w, env := do(r, http.MethodPut, "/projects/"+uuid.NewString()+"/collaborators",
		`{"collaborators":[{"influencerId":"`+uuid.NewString()+`","fee":-5}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, string(env.Error.Details), "fee")
	assert.Nil(t, svc.syncReq, "service must not be called")
}

func TestSyncCollaborators_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"project missing", model.NewProjectNotFoundError(), http.StatusNotFound, model.ErrCodeProjectNotFound},
		{"influencer missing", model.NewInfluencerNotFoundError(), http.StatusNotFound, model.ErrCodeInfluencerNotFound},
		{"tx failed", model.NewSyncFailedError(errors.New("deadlock")), http.StatusInternalServerError, model.ErrCodeSyncFailed},
		{"duplicate", model.NewSyncFailedError(model.ErrDuplicateInfluencer), http.StatusConflict, model.ErrCodeDuplicateEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubService{syncErr: tt.err})
			w, env := do(r, http.MethodPut, "/projects/"+uuid.NewString()+"/collaborators", `{"collaborators":[]}`)
			assert.Equal(t, tt.want, w.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestSyncCollaborators_BadProjectID(t *testing.T) {
	w, _ := do(newRouter(&stubService{}), http.MethodPut, "/projects/nope/collaborators", `{"collaborators":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummary_Shape(t *testing.T) {
	svc := &stubService{summary: &model.SettlementSummary{
		StatusTotals: model.StatusTotals{
			Pending:    model.StatusTotal{Amount: 500000, Count: 1},
			InProgress: model.StatusTotal{Amount: 400000, Count: 1},
		},
		InfluencerTotals: []model.InfluencerTotal{},
		ProjectTotals:    []model.ProjectTotal{},
	}}

	w, env := do(newRouter(svc), http.MethodGet, "/settlements/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data, "statusTotals")
	assert.Contains(t, data, "influencerTotals")
	assert.Contains(t, data, "projectTotals")
	assert.JSONEq(t,
		`{"pending":{"amount":500000,"count":1},"in_progress":{"amount":400000,"count":1},"completed":{"amount":0,"count":0}}`,
		string(data["statusTotals"]))
}

func TestList_ParsesFilter(t *testing.T) {
	svc := &stubService{}
	pid := uuid.New()

	w, _ := do(newRouter(svc), http.MethodGet, "/settlements?projectId="+pid.String()+"&status=REQUESTED&dueFrom=2026-10-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.listSeen.ProjectID)
	assert.Equal(t, pid, *svc.listSeen.ProjectID)
	require.NotNil(t, svc.listSeen.Status)
	assert.Equal(t, model.StatusInProgress, *svc.listSeen.Status)
	require.NotNil(t, svc.listSeen.DueFrom)

	w, _ = do(newRouter(svc), http.MethodGet, "/settlements?dueTo=soon", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAndUpdate_Errors(t *testing.T) {
	r := newRouter(&stubService{})

	w, env := do(r, http.MethodGet, "/settlements/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, model.ErrCodeSettlementNotFound, env.Error.Code)

	w, _ = do(r, http.MethodPatch, "/settlements/"+uuid.NewString()+"/status", `{"paymentStatus":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(r, http.MethodPatch, "/settlements/"+uuid.NewString()+"/status", `{"paymentStatus":"completed"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", env.Error.Message)
}

func TestExport_WritesWorkbook(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/settlements/export", nil)
	w := httptest.NewRecorder()
	newRouter(&stubService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "settlements_")
	assert.NotZero(t, w.Body.Len())
}
