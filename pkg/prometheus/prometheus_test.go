package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timechallenge/backend/internal/common"
)

func TestNewHandler(t *testing.T) {
	common.CountSubmission(common.SubmissionAccepted)

	w := httptest.NewRecorder()
	NewHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `attempt_submissions_total{result="accepted"}`)
}

func TestNewRegistry(t *testing.T) {
	common.CountSubmission(common.SubmissionConflict)

	families, err := NewRegistry().Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}

	require.True(t, names[common.AttemptSubmissionTotal])
	require.True(t, names["go_goroutines"])
}
