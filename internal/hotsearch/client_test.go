package hotsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouyitao000/productideaauto/internal/model"
)

func newTestClient(url string, maxTopics int) *Client {
	c := NewClient("test-key", maxTopics)
	c.weiboURL = url
	c.douyinURL = url
	return c
}

func TestFetchWeiboNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key param")
		}
		w.Write([]byte(`{"code":200,"msg":"success","result":{"list":[
			{"hotword":"话题A","hotwordnum":" 123万 ","hottag":"热"},
			{"hotword":"话题B","hotwordnum":"99万","hottag":""},
			{"hotword":"话题C","hotwordnum":"88万","hottag":"新"}
		]}}`))
	}))
	defer srv.Close()

	topics := newTestClient(srv.URL, 2).Fetch(context.Background(), model.PlatformWeibo, true)

	if len(topics) != 2 {
		t.Fatalf("topics = %d, want truncation to 2", len(topics))
	}
	want := model.Topic{Rank: 1, Title: "话题A", HotValue: "123万", Label: "热", Source: model.PlatformWeibo}
	if topics[0] != want {
		t.Errorf("topics[0] = %+v, want %+v", topics[0], want)
	}
	if topics[1].Rank != 2 {
		t.Errorf("topics[1].Rank = %d, want 2", topics[1].Rank)
	}
}

func TestFetchSkippedItemsKeepRanksConsecutive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"result":{"list":[
			{"hotword":"话题A","hotwordnum":"123万","hottag":"热"},
			{"hotword":"","hotwordnum":"1万","hottag":""},
			{"hotword":"话题C","hotwordnum":"88万","hottag":""}
		]}}`))
	}))
	defer srv.Close()

	topics := newTestClient(srv.URL, 5).Fetch(context.Background(), model.PlatformWeibo, true)

	if len(topics) != 2 {
		t.Fatalf("topics = %d, want 2 (empty title skipped)", len(topics))
	}
	// 跳过坏条目后 rank 不能留空号
	if topics[0].Rank != 1 || topics[1].Rank != 2 {
		t.Errorf("ranks = %d,%d, want consecutive 1,2", topics[0].Rank, topics[1].Rank)
	}
	if topics[1].Title != "话题C" {
		t.Errorf("topics[1].Title = %q, want 话题C", topics[1].Title)
	}
}

func TestFetchDouyinHotIndexScaling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"result":{"list":[
			{"word":"抖音话题","hotindex":12345678},
			{"word":"另一个","hotindex":"bad-value"}
		]}}`))
	}))
	defer srv.Close()

	topics := newTestClient(srv.URL, 5).Fetch(context.Background(), model.PlatformDouyin, true)

	if len(topics) != 2 {
		t.Fatalf("topics = %d, want 2", len(topics))
	}
	if topics[0].HotValue != "1234.6万" {
		t.Errorf("HotValue = %q, want 1234.6万", topics[0].HotValue)
	}
	if topics[0].Label != "" {
		t.Errorf("douyin label = %q, want empty", topics[0].Label)
	}
	// 解析不了的热度值原样保留
	if topics[1].HotValue != "bad-value" {
		t.Errorf("HotValue = %q, want raw value kept", topics[1].HotValue)
	}
}

func TestFetchFallsBackOnBusinessError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":230,"msg":"key error"}`))
	}))
	defer srv.Close()

	topics := newTestClient(srv.URL, 5).Fetch(context.Background(), model.PlatformWeibo, true)

	if len(topics) != 2 {
		t.Fatalf("fallback topics = %d, want 2", len(topics))
	}
	if topics[0].Title != "示例weibo话题1" {
		t.Errorf("fallback title = %q", topics[0].Title)
	}
}

func TestFetchFallsBackOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close() // 立即关掉，模拟连接失败

	topics := newTestClient(srv.URL, 5).Fetch(context.Background(), model.PlatformDouyin, true)

	if len(topics) != 2 {
		t.Fatalf("fallback topics = %d, want 2", len(topics))
	}
	for i, topic := range topics {
		if topic.Source != model.PlatformDouyin {
			t.Errorf("topics[%d].Source = %q, want douyin", i, topic.Source)
		}
		if topic.Rank != i+1 {
			t.Errorf("topics[%d].Rank = %d, want %d", i, topic.Rank, i+1)
		}
	}
}

func TestFetchMalformedPayloadFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	topics := newTestClient(srv.URL, 5).Fetch(context.Background(), model.PlatformWeibo, true)
	if len(topics) != 2 {
		t.Fatalf("fallback topics = %d, want 2", len(topics))
	}
}

func TestFetchExampleMode(t *testing.T) {
	topics := NewClient("", 5).Fetch(context.Background(), model.PlatformWeibo, false)
	if len(topics) != 2 {
		t.Fatalf("example topics = %d, want 2", len(topics))
	}
}
