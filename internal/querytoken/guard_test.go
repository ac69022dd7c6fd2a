package querytoken

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/apiapp/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		header  string
		wantErr bool
	}{
		{name: "query match", target: "/?token=portalgun"},
		{name: "header match", target: "/", header: "portalgun"},
		{name: "query wins over header", target: "/?token=wrong", header: "portalgun", wantErr: true},
		{name: "mismatch", target: "/?token=jessica", wantErr: true},
		{name: "prefix only", target: "/?token=portal", wantErr: true},
		{name: "absent", target: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				r.Header.Set(ParamName, tt.header)
			}
			err := Check(r, DefaultToken)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidQueryToken)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCheck_EmptyExpectedFailsClosed(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?token=", nil)
	require.ErrorIs(t, Check(r, ""), common.ErrInvalidQueryToken)
}

func TestGuard(t *testing.T) {
	called := false
	h := Guard(DefaultToken)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?token=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid query token"}`, rec.Body.String())
	assert.False(t, called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?token=portalgun", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}
