package collector

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeSite 模拟上游站点：按路径返回固定内容并记录访问次数
type fakeSite struct {
	*httptest.Server
	mu    sync.Mutex
	pages map[string]page
	hits  map[string]int
}

type page struct {
	status      int
	contentType string
	body        string
	delay       time.Duration
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	s := &fakeSite{pages: make(map[string]page), hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *fakeSite) serve(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	s.mu.Lock()
	s.hits[key]++
	p, ok := s.pages[key]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	ct := p.contentType
	if ct == "" {
		ct = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", ct)
	status := p.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(p.body))
}

func (s *fakeSite) set(path string, p page) {
	s.mu.Lock()
	s.pages[path] = p
	s.mu.Unlock()
}

func (s *fakeSite) html(path, body string) {
	s.set(path, page{body: body})
}

func (s *fakeSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *fakeSite) options() Options {
	return Options{
		BaseURL: s.URL,
		FeedURL: s.URL + "/feed.xml",
		Timeout: 2 * time.Second,
	}
}

func htmlDoc(body string) string {
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\"></head><body>" + body + "</body></html>"
}

type teaser struct {
	title, path, desc string
}

func listingPage(teasers ...teaser) string {
	var b strings.Builder
	for _, t := range teasers {
		fmt.Fprintf(&b, `<div class="post-box"><h2><a href="%s" title="Vínculo Permanente a %s">%s</a></h2><div class="entry-content"><p>%s</p></div></div>`,
			t.path, t.title, t.title, t.desc)
	}
	return htmlDoc(b.String())
}

func articlePage(title, author, date string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<article><header>`)
	if title != "" {
		fmt.Fprintf(&b, `<h1 class="entry-title">%s</h1>`, title)
	}
	b.WriteString(`<div><p>Entradilla de la noticia con   espacios.</p></div>`)
	if author != "" {
		fmt.Fprintf(&b, `<span class="entry-author"><a href="/autor/x/">%s</a></span>`, author)
	}
	if date != "" {
		fmt.Fprintf(&b, `<time class="entry-date">%s</time>`, date)
	}
	b.WriteString(`</header><div class="entry-content">`)
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>  %s  </p>", p)
	}
	b.WriteString(`</div></article>`)
	return htmlDoc(b.String())
}
