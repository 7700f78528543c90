package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"notify-backend/internal/push/domain"
	"notify-backend/internal/push/scheduler"
	"notify-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubControl struct {
	report domain.CycleReport
	err    error
}

func (s stubControl) RunOnce(context.Context) (domain.CycleReport, error) {
	return s.report, s.err
}

func (s stubControl) Status() scheduler.Status {
	return scheduler.Status{State: scheduler.StateIdle}
}

func runBroadcast(t *testing.T, control BroadcastControl) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewPushHandler(nil, nil, nil, control)
	r := gin.New()
	r.POST("/run", h.RunBroadcast)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/run", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRunBroadcastStatus(t *testing.T) {
	tests := []struct {
		name    string
		control stubControl
		status  int
		code    string
		outcome string
	}{
		{
			name:    "completed",
			control: stubControl{report: domain.CycleReport{Outcome: domain.OutcomeCompleted, Attempted: 2}},
			status:  http.StatusOK,
			outcome: "completed",
		},
		{
			name:    "already running",
			control: stubControl{err: apperror.Conflict("broadcast cycle already running")},
			status:  http.StatusConflict,
			code:    string(apperror.KindConflict),
		},
		{
			name: "push not configured",
			control: stubControl{
				report: domain.CycleReport{Outcome: domain.OutcomeFailed},
				err:    apperror.Unavailable("push provider not configured"),
			},
			status:  http.StatusServiceUnavailable,
			code:    string(apperror.KindUnavailable),
			outcome: "failed",
		},
		{
			name: "store down",
			control: stubControl{
				report: domain.CycleReport{Outcome: domain.OutcomeFailed},
				err:    apperror.StoreUnavailable(errors.New("connection refused"), "resolve recipients"),
			},
			status:  http.StatusServiceUnavailable,
			code:    string(apperror.KindStoreUnavailable),
			outcome: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := runBroadcast(t, tt.control)
			assert.Equal(t, tt.status, status)
			if tt.code != "" {
				assert.Equal(t, tt.code, body["code"])
			}
			switch {
			case status == http.StatusOK:
				assert.Equal(t, tt.outcome, body["outcome"])
			case tt.outcome != "":
				report, ok := body["report"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, tt.outcome, report["outcome"])
			}
		})
	}
}
