package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const listingTemplate = `<html><body>
<div class="r-ent">
	<div class="title"><a href="/post/1">[標的] 台積電 2330 多</a></div>
	<div class="author">alice</div>
	<div class="date"> 8/25</div>
</div>
<div class="r-ent">
	<div class="title">(本文已被刪除) [bob]</div>
	<div class="author">-</div>
	<div class="date"> 8/25</div>
</div>
<div class="r-ent">
	<div class="title"><a href="/post/3">Re: [新聞] 外資賣超</a></div>
	<div class="author">carol</div>
	<div class="date"> 8/24</div>
</div>
<div class="r-ent">
	<div class="title"><a href="/post/4">[請益] 新手問題</a></div>
	<div class="author"></div>
	<div class="date"></div>
</div>
<div class="r-ent">
	<div class="title"><a href="/post/5">[心得] 對帳單 🚀</a></div>
	<div class="author">dave</div>
	<div class="date"> 8/23</div>
</div>
</body></html>`

const postTemplate = `<html><body>
<div id="main-content">
作者 alice 看板 Stock
標題 [標的] 台積電
<span class="article-meta">meta noise</span>
今天 護國神山 again 漲停 不意外!
<div class="push"><span>推 someone: 跟上</span></div>
<span class="f2">※ 發信站: 批踢踢實業坊</span>
</div>
</body></html>`

// newTestScraper wires a scraper at the given server with no-op sleeps.
func newTestScraper(srvURL string) *Scraper {
	f := NewFetcher(FetcherConfig{
		UserAgent:  "test-agent",
		MaxRetries: 3,
		RetryDelay: time.Second,
		Timeout:    2 * time.Second,
	})
	f.sleep = func(time.Duration) {}
	f.jitter = func() time.Duration { return 0 }
	return &Scraper{fetcher: f, baseURL: srvURL, boardURL: srvURL + "/bbs/Stock/index.html"}
}

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bbs/Stock/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingTemplate))
	})
	mux.HandleFunc("/post/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(postTemplate))
	})
	return httptest.NewServer(mux)
}

func TestListPostsReturnsCompleteRecords(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()

	s := newTestScraper(srv.URL)
	posts := s.ListPosts(context.Background(), "", 3)

	if len(posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(posts))
	}

	for i, p := range posts {
		if p.Title == "" || p.Link == "" || p.Author == "" || p.Date == "" || p.Content == "" {
			t.Errorf("Post %d has empty field: %+v", i, p)
		}
		if !strings.HasPrefix(p.Link, srv.URL) {
			t.Errorf("Post %d link %q not resolved against base origin", i, p.Link)
		}
	}

	// Document order preserved, deleted entry skipped
	if !strings.Contains(posts[0].Title, "台積電") {
		t.Errorf("Expected first post to be the 台積電 entry, got %q", posts[0].Title)
	}
	if !strings.Contains(posts[1].Title, "外資賣超") {
		t.Errorf("Expected deleted entry to be skipped, got %q", posts[1].Title)
	}
}

func TestListPostsSkipsEntriesWithoutTitleLink(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()

	s := newTestScraper(srv.URL)
	posts := s.ListPosts(context.Background(), "", 10)

	// 5 containers, 1 without a title link
	if len(posts) != 4 {
		t.Fatalf("Expected 4 posts (one deleted entry skipped), got %d", len(posts))
	}
}

func TestListPostsMissingAuthorAndDateDefaultNA(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()

	s := newTestScraper(srv.URL)
	posts := s.ListPosts(context.Background(), "", 10)

	var found bool
	for _, p := range posts {
		if strings.Contains(p.Title, "新手問題") {
			found = true
			// The slash in the "N/A" default is outside the sanitizer
			// allow-list, matching the source behavior.
			if p.Author != "NA" {
				t.Errorf("Expected sanitized N/A default for author, got %q", p.Author)
			}
			if p.Date != "NA" {
				t.Errorf("Expected sanitized N/A default for date, got %q", p.Date)
			}
		}
	}
	if !found {
		t.Fatal("Expected the authorless entry to be included")
	}
}

func TestListPostsZeroAndNegativeCount(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()

	s := newTestScraper(srv.URL)

	if posts := s.ListPosts(context.Background(), "", 0); len(posts) != 0 {
		t.Errorf("Expected no posts for count=0, got %d", len(posts))
	}
	if posts := s.ListPosts(context.Background(), "", -1); len(posts) != 0 {
		t.Errorf("Expected no posts for negative count, got %d", len(posts))
	}
}

func TestListPostsFetchFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := newTestScraper(srv.URL)
	posts := s.ListPosts(context.Background(), srv.URL+"/bbs/Stock/index.html", 5)

	if posts == nil {
		t.Fatal("Expected empty slice, not nil")
	}
	if len(posts) != 0 {
		t.Errorf("Expected 0 posts after fetch failure, got %d", len(posts))
	}
}

func TestContentExcludesNestedWrappers(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()

	s := newTestScraper(srv.URL)
	content := s.fetchContent(context.Background(), srv.URL+"/post/1")

	if !strings.Contains(content, "護國神山") {
		t.Errorf("Expected top-level body text, got %q", content)
	}
	for _, noise := range []string{"meta noise", "跟上", "批踢踢實業坊"} {
		if strings.Contains(content, noise) {
			t.Errorf("Expected nested wrapper text %q to be removed, got %q", noise, content)
		}
	}
}

func TestContentFetchFailureYieldsPlaceholderAndWarnings(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := newTestScraper(srv.URL)
	content := s.fetchContent(context.Background(), srv.URL+"/post/1")

	if content != placeholderFetchFailed {
		t.Errorf("Expected %q placeholder, got %q", placeholderFetchFailed, content)
	}
	if requests != 3 {
		t.Errorf("Expected 3 attempts before placeholder, got %d", requests)
	}
}

func TestContentContainerMissingYieldsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><div id='other'>text</div></body></html>"))
	}))
	defer srv.Close()

	s := newTestScraper(srv.URL)
	content := s.fetchContent(context.Background(), srv.URL+"/post/1")

	if content != placeholderContentNotFound {
		t.Errorf("Expected %q placeholder, got %q", placeholderContentNotFound, content)
	}
}

func TestListPostsManyWellFormedEntries(t *testing.T) {
	var listing strings.Builder
	listing.WriteString("<html><body>")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&listing, `<div class="r-ent">
			<div class="title"><a href="/post/%d">文章 %d</a></div>
			<div class="author">user%d</div>
			<div class="date"> 8/2%d</div>
		</div>`, i, i, i, i)
	}
	listing.WriteString("</body></html>")

	mux := http.NewServeMux()
	mux.HandleFunc("/index.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listing.String()))
	})
	mux.HandleFunc("/post/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(postTemplate))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newTestScraper(srv.URL)
	posts := s.ListPosts(context.Background(), srv.URL+"/index.html", 3)

	if len(posts) != 3 {
		t.Fatalf("Expected exactly 3 posts, got %d", len(posts))
	}
	for i, p := range posts {
		if !strings.Contains(p.Title, fmt.Sprintf("%d", i)) {
			t.Errorf("Expected document order preserved at %d, got title %q", i, p.Title)
		}
	}
}
