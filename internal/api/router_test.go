package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	gotQuery string
	err      error
}

func (f *fakeService) result(template, raw string) (service.Result, error) {
	f.gotQuery = raw
	if f.err != nil {
		return service.Result{}, f.err
	}
	return service.Result{
		Template: template,
		Query:    news.NewQuery(raw),
		Articles: []news.Article{{Title: "Noticia", Link: "https://www.cubanet.org/noticias/n/"}},
		Images:   []string{"assets/logo.png"},
	}, nil
}

func (f *fakeService) Listing(context.Context) (service.Result, error) {
	return f.result(service.TemplateStories, "")
}

func (f *fakeService) Story(_ context.Context, raw string) (service.Result, error) {
	return f.result(service.TemplateStory, raw)
}

func (f *fakeService) Category(_ context.Context, raw string) (service.Result, error) {
	return f.result(service.TemplateTags, raw)
}

func (f *fakeService) Search(_ context.Context, raw string) (service.Result, error) {
	return f.result(service.TemplateTags, raw)
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewServer(svc).RegisterRoutes(r)
	return r
}

func get(t *testing.T, r *gin.Engine, target string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&fakeService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRoutesReturnResult(t *testing.T) {
	cases := []struct {
		target   string
		query    string
		template string
	}{
		{"/api/v1/news", "", service.TemplateStories},
		{"/api/v1/story?historia=noticias/presos", "noticias/presos", service.TemplateStory},
		{"/api/v1/category?query=Econom%C3%ADa", "Economía", service.TemplateTags},
		{"/api/v1/search?query=presos+pol%C3%ADticos", "presos políticos", service.TemplateTags},
	}
	for _, c := range cases {
		svc := &fakeService{}
		code, env := get(t, newTestRouter(svc), c.target)
		assert.Equal(t, http.StatusOK, code, c.target)
		assert.Equal(t, "ok", env.Code)
		assert.Equal(t, c.query, svc.gotQuery, c.target)

		var res service.Result
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, c.template, res.Template)
		assert.Equal(t, "Noticia", res.Articles[0].Title)
		assert.Equal(t, []string{"assets/logo.png"}, res.Images)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		target string
		err    error
		status int
		code   news.Kind
		header string
	}{
		{"/api/v1/story", news.ErrBlankQuery, http.StatusBadRequest, news.KindBlankQuery, "Búsqueda en blanco"},
		{"/api/v1/category", news.ErrBlankQuery, http.StatusBadRequest, news.KindBlankQuery, "Categoría en blanco"},
		{"/api/v1/story?historia=x", fmt.Errorf("article: %w", news.ErrArticleNotFound), http.StatusNotFound, news.KindArticleNotFound, "Artículo no encontrado"},
		{"/api/v1/category?query=nada", fmt.Errorf("category: %w", news.ErrNoResults), http.StatusNotFound, news.KindNoResults, "No hay resultados"},
		{"/api/v1/news", news.ErrUpstreamUnavailable, http.StatusServiceUnavailable, news.KindUpstreamUnavailable, "Servicio no disponible"},
		{"/api/v1/search?query=cuba", fmt.Errorf("fetch: %w", news.ErrUpstream), http.StatusBadGateway, news.KindUpstream, "Error temporal"},
		{"/api/v1/news", errors.New("unexpected"), http.StatusBadGateway, news.KindUpstream, "Error temporal"},
	}
	for _, c := range cases {
		code, env := get(t, newTestRouter(&fakeService{err: c.err}), c.target)
		assert.Equal(t, c.status, code, c.target)
		assert.Equal(t, string(c.code), env.Code, c.target)
		assert.Equal(t, c.header, env.Message, c.target)

		var data map[string]string
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, service.TemplateMessage, data["template"])
		assert.Equal(t, c.header, data["header"])
		assert.NotEmpty(t, data["text"])
	}
}
