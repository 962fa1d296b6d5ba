package testimonial

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealkit-service/internal/domain/testimonial"
	xerrors "mealkit-service/internal/pkg/errors"
	"mealkit-service/internal/pkg/response"
	"mealkit-service/internal/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	submitted *testimonial.CreateTestimonialRequest
	limit     int
	deletedID int64
	err       error
}

func (s *stubService) Submit(_ context.Context, req *testimonial.CreateTestimonialRequest) (*testimonial.Testimonial, error) {
	s.submitted = req
	if s.err != nil {
		return nil, s.err
	}
	return &testimonial.Testimonial{ID: 11, CustomerName: req.CustomerName, Message: req.Message, Rating: req.Rating}, nil
}

func (s *stubService) ListApproved(context.Context) ([]testimonial.Testimonial, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []testimonial.Testimonial{{ID: 1, CustomerName: "Sari", Rating: 5, IsApproved: true}}, nil
}

func (s *stubService) ListAll(_ context.Context, limit int) ([]testimonial.Testimonial, error) {
	s.limit = limit
	return nil, s.err
}

func (s *stubService) Approve(_ context.Context, id int64) (*testimonial.Testimonial, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &testimonial.Testimonial{ID: id, IsApproved: true}, nil
}

func (s *stubService) Delete(_ context.Context, id int64) error {
	s.deletedID = id
	return s.err
}

func init() {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterWithGin(); err != nil {
		panic(err)
	}
}

func newRouter(svc Service) *gin.Engine {
	h := NewTestimonialHandler(svc)

	r := gin.New()
	r.GET("/testimonials", h.ListApproved)
	r.POST("/testimonials", h.Submit)
	r.GET("/admin/testimonials", h.ListAll)
	r.PATCH("/admin/testimonials/:id/approve", h.Approve)
	r.DELETE("/admin/testimonials/:id", h.Delete)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestSubmit(t *testing.T) {
	valid := map[string]interface{}{
		"customerName": "Sari",
		"message":      "Fresh food every single day.",
		"rating":       5,
		"plan":         "diet",
	}

	t.Run("accepted for review", func(t *testing.T) {
		svc := &stubService{}
		w, resp := doJSON(newRouter(svc), http.MethodPost, "/testimonials", valid)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, resp.Success)
		require.NotNil(t, svc.submitted)
		assert.Equal(t, 5, svc.submitted.Rating)
		assert.Contains(t, w.Body.String(), `"isApproved":false`)
	})

	invalid := []struct {
		name  string
		field string
		value interface{}
	}{
		{"rating above five", "rating", 6},
		{"rating zero", "rating", 0},
		{"short message", "message", "too short"},
		{"unknown plan", "plan", "platinum"},
		{"missing name", "customerName", ""},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]interface{}{}
			for k, v := range valid {
				body[k] = v
			}
			body[tt.field] = tt.value

			svc := &stubService{}
			w, resp := doJSON(newRouter(svc), http.MethodPost, "/testimonials", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, resp.Success)
			assert.Nil(t, svc.submitted)
		})
	}
}

func TestListApproved(t *testing.T) {
	w, resp := doJSON(newRouter(&stubService{}), http.MethodGet, "/testimonials", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Contains(t, w.Body.String(), `"customerName":"Sari"`)
}

func TestListAll_Limit(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/admin/testimonials", 100},
		{"/admin/testimonials?limit=25", 25},
	}

	for _, tt := range tests {
		svc := &stubService{}
		w, _ := doJSON(newRouter(svc), http.MethodGet, tt.path, nil)
		assert.Equal(t, http.StatusOK, w.Code, tt.path)
		assert.Equal(t, tt.want, svc.limit, tt.path)
	}
}

func TestApprove(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		w, resp := doJSON(newRouter(&stubService{}), http.MethodPatch, "/admin/testimonials/3/approve", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "testimonial approved", resp.Message)
		assert.Contains(t, w.Body.String(), `"isApproved":true`)
	})

	t.Run("missing", func(t *testing.T) {
		svc := &stubService{err: xerrors.Wrapf(xerrors.ErrNotFound, "testimonial %d", 3)}
		w, resp := doJSON(newRouter(svc), http.MethodPatch, "/admin/testimonials/3/approve", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, resp.Success)
	})

	t.Run("bad id", func(t *testing.T) {
		w, resp := doJSON(newRouter(&stubService{}), http.MethodPatch, "/admin/testimonials/x/approve", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid testimonial ID", resp.Message)
	})
}

func TestDelete(t *testing.T) {
	svc := &stubService{}
	w, _ := doJSON(newRouter(svc), http.MethodDelete, "/admin/testimonials/12", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(12), svc.deletedID)
}
