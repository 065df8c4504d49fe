package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/logger"
)

func newBlogTestEnv() (*BlogService, *fakeBlogDAO) {
	blogDAO := newFakeBlogDAO()
	svc := NewBlogService(blogDAO, nil, nil, "blog-events", logger.GetLogger())
	return svc, blogDAO
}

func validCreateParams() *model.CreateBlogParams {
	return &model.CreateBlogParams{
		Title:   "Hello, World! A Go Story",
		Content: "Some content about Go.",
		Excerpt: "A short excerpt",
		Author:  "Tester",
		Tags:    []string{"go", "testing"},
		Status:  model.BlogStatusPublished,
	}
}

func TestCreateBlogDerivesSlugAndReadTime(t *testing.T) {
	svc, _ := newBlogTestEnv()

	params := validCreateParams()
	params.Content = strings.Repeat("word ", 450)

	blog, err := svc.CreateBlog(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	if blog.Slug != "hello-world-a-go-story" {
		t.Errorf("unexpected slug %q", blog.Slug)
	}
	// 450词，按每分钟200词向上取整
	if blog.ReadTime != 3 {
		t.Errorf("expected read time 3, got %d", blog.ReadTime)
	}
	if blog.Views != 0 {
		t.Errorf("expected zero views, got %d", blog.Views)
	}
}

func TestCreateBlogDefaults(t *testing.T) {
	svc, _ := newBlogTestEnv()

	params := validCreateParams()
	params.Status = ""
	params.Author = "  "

	blog, err := svc.CreateBlog(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}
	if blog.Status != model.BlogStatusPublished {
		t.Errorf("expected published status by default, got %q", blog.Status)
	}
	if blog.Author != model.DefaultAuthor {
		t.Errorf("expected default author %q, got %q", model.DefaultAuthor, blog.Author)
	}
}

func TestCreateBlogShortContentReadTime(t *testing.T) {
	svc, _ := newBlogTestEnv()

	params := validCreateParams()
	params.Content = "tiny"

	blog, err := svc.CreateBlog(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}
	if blog.ReadTime != 1 {
		t.Errorf("expected minimum read time 1, got %d", blog.ReadTime)
	}
}

func TestCreateBlogDuplicateTitle(t *testing.T) {
	svc, _ := newBlogTestEnv()

	if _, err := svc.CreateBlog(context.Background(), validCreateParams()); err != nil {
		t.Fatalf("first CreateBlog failed: %v", err)
	}
	_, err := svc.CreateBlog(context.Background(), validCreateParams())
	if !errors.Is(err, model.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateBlogValidation(t *testing.T) {
	svc, _ := newBlogTestEnv()

	tests := []struct {
		name   string
		mutate func(*model.CreateBlogParams)
	}{
		{"missing title", func(p *model.CreateBlogParams) { p.Title = "  " }},
		{"title too long", func(p *model.CreateBlogParams) { p.Title = strings.Repeat("t", model.MaxTitleLength+1) }},
		{"missing content", func(p *model.CreateBlogParams) { p.Content = "" }},
		{"missing excerpt", func(p *model.CreateBlogParams) { p.Excerpt = "" }},
		{"excerpt too long", func(p *model.CreateBlogParams) { p.Excerpt = strings.Repeat("e", model.MaxExcerptLength+1) }},
		{"author too long", func(p *model.CreateBlogParams) { p.Author = strings.Repeat("a", model.MaxAuthorLength+1) }},
		{"bad status", func(p *model.CreateBlogParams) { p.Status = "archived" }},
		{"title without alphanumerics", func(p *model.CreateBlogParams) { p.Title = "!!! ???" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validCreateParams()
			tt.mutate(params)
			if _, err := svc.CreateBlog(context.Background(), params); !errors.Is(err, model.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestGetBlogBySlugCountsViews(t *testing.T) {
	svc, _ := newBlogTestEnv()

	created, err := svc.CreateBlog(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	first, err := svc.GetBlogBySlug(context.Background(), created.Slug)
	if err != nil {
		t.Fatalf("GetBlogBySlug failed: %v", err)
	}
	second, err := svc.GetBlogBySlug(context.Background(), created.Slug)
	if err != nil {
		t.Fatalf("GetBlogBySlug failed: %v", err)
	}

	if first.Views != 1 || second.Views != 2 {
		t.Errorf("expected views 1 then 2, got %d then %d", first.Views, second.Views)
	}
}

func TestGetBlogBySlugHidesDrafts(t *testing.T) {
	svc, _ := newBlogTestEnv()

	params := validCreateParams()
	params.Status = model.BlogStatusDraft
	created, err := svc.CreateBlog(context.Background(), params)
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	if _, err := svc.GetBlogBySlug(context.Background(), created.Slug); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for draft, got %v", err)
	}
}

func TestListBlogsPublishedOnly(t *testing.T) {
	svc, _ := newBlogTestEnv()

	published := validCreateParams()
	if _, err := svc.CreateBlog(context.Background(), published); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	draft := validCreateParams()
	draft.Title = "Draft Post"
	draft.Status = model.BlogStatusDraft
	if _, err := svc.CreateBlog(context.Background(), draft); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	blogs, total, err := svc.ListBlogs(context.Background(), &model.ListBlogsParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if total != 1 || len(blogs) != 1 || blogs[0].Status != model.BlogStatusPublished {
		t.Errorf("expected only the published blog, got total=%d", total)
	}
}

func TestListBlogsTagAndSearchFilters(t *testing.T) {
	svc, _ := newBlogTestEnv()

	goPost := validCreateParams()
	goPost.Title = "Learning Go Concurrency"
	goPost.Tags = []string{"go"}
	if _, err := svc.CreateBlog(context.Background(), goPost); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	rustPost := validCreateParams()
	rustPost.Title = "Rust Ownership Basics"
	rustPost.Tags = []string{"rust"}
	if _, err := svc.CreateBlog(context.Background(), rustPost); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	byTag, total, err := svc.ListBlogs(context.Background(), &model.ListBlogsParams{Page: 1, Limit: 10, Tag: "go"})
	if err != nil {
		t.Fatalf("ListBlogs by tag failed: %v", err)
	}
	if total != 1 || len(byTag) != 1 || byTag[0].Title != "Learning Go Concurrency" {
		t.Error("expected only the go-tagged blog")
	}

	bySearch, total, err := svc.ListBlogs(context.Background(), &model.ListBlogsParams{Page: 1, Limit: 10, Search: "ownership"})
	if err != nil {
		t.Fatalf("ListBlogs by search failed: %v", err)
	}
	if total != 1 || len(bySearch) != 1 || bySearch[0].Title != "Rust Ownership Basics" {
		t.Error("expected only the matching blog")
	}
}

func TestListBlogsReadThroughCache(t *testing.T) {
	blogDAO := newFakeBlogDAO()
	cache := newFakeCache()
	svc := NewBlogService(blogDAO, cache, nil, "blog-events", logger.GetLogger())

	if _, err := svc.CreateBlog(context.Background(), validCreateParams()); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	params := &model.ListBlogsParams{Page: 1, Limit: 10}

	_, total, err := svc.ListBlogs(context.Background(), params)
	if err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected total 1, got %d", total)
	}

	// 绕过服务直接写库，缓存命中时看不到新博客
	direct := &model.Blog{
		Title:     "Direct Insert",
		Content:   "body",
		Excerpt:   "excerpt",
		Author:    "Tester",
		Status:    model.BlogStatusPublished,
		Slug:      "direct-insert",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := blogDAO.CreateBlog(context.Background(), direct); err != nil {
		t.Fatalf("direct insert failed: %v", err)
	}

	_, total, err = svc.ListBlogs(context.Background(), params)
	if err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected cached total 1, got %d", total)
	}

	// 经服务写入会清缓存，下次读取回源
	third := validCreateParams()
	third.Title = "Third Post"
	if _, err := svc.CreateBlog(context.Background(), third); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	_, total, err = svc.ListBlogs(context.Background(), params)
	if err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected fresh total 3 after invalidation, got %d", total)
	}
}

func TestUpdateBlogRegeneratesSlugAndReadTime(t *testing.T) {
	svc, _ := newBlogTestEnv()

	created, err := svc.CreateBlog(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	newTitle := "Renamed Post"
	newContent := strings.Repeat("word ", 401)
	updated, err := svc.UpdateBlog(context.Background(), created.ID.Hex(), &model.UpdateBlogParams{
		Title:   &newTitle,
		Content: &newContent,
	})
	if err != nil {
		t.Fatalf("UpdateBlog failed: %v", err)
	}

	if updated.Slug != "renamed-post" {
		t.Errorf("expected regenerated slug, got %q", updated.Slug)
	}
	if updated.ReadTime != 3 {
		t.Errorf("expected recomputed read time 3, got %d", updated.ReadTime)
	}
	// 未提供的字段保持原值
	if updated.Excerpt != created.Excerpt || updated.Author != created.Author {
		t.Error("expected untouched fields to keep their values")
	}
}

func TestUpdateBlogValidation(t *testing.T) {
	svc, _ := newBlogTestEnv()

	created, err := svc.CreateBlog(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	badStatus := "archived"
	if _, err := svc.UpdateBlog(context.Background(), created.ID.Hex(), &model.UpdateBlogParams{Status: &badStatus}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad status, got %v", err)
	}

	empty := "  "
	if _, err := svc.UpdateBlog(context.Background(), created.ID.Hex(), &model.UpdateBlogParams{Title: &empty}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank title, got %v", err)
	}

	if _, err := svc.UpdateBlog(context.Background(), "bad-id", &model.UpdateBlogParams{}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for malformed id, got %v", err)
	}
}

func TestDeleteBlogKeepsComments(t *testing.T) {
	svc, blogDAO := newBlogTestEnv()

	created, err := svc.CreateBlog(context.Background(), validCreateParams())
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	if err := svc.DeleteBlog(context.Background(), created.ID.Hex()); err != nil {
		t.Fatalf("DeleteBlog failed: %v", err)
	}
	if _, err := blogDAO.GetBlogByID(context.Background(), created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Error("expected blog to be gone")
	}
	if err := svc.DeleteBlog(context.Background(), created.ID.Hex()); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGetBlogStats(t *testing.T) {
	svc, _ := newBlogTestEnv()

	published := validCreateParams()
	created, err := svc.CreateBlog(context.Background(), published)
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	draft := validCreateParams()
	draft.Title = "Draft Stats Post"
	draft.Status = model.BlogStatusDraft
	if _, err := svc.CreateBlog(context.Background(), draft); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	// 两次浏览计入统计
	if _, err := svc.GetBlogBySlug(context.Background(), created.Slug); err != nil {
		t.Fatalf("GetBlogBySlug failed: %v", err)
	}
	if _, err := svc.GetBlogBySlug(context.Background(), created.Slug); err != nil {
		t.Fatalf("GetBlogBySlug failed: %v", err)
	}

	stats, err := svc.GetBlogStats(context.Background())
	if err != nil {
		t.Fatalf("GetBlogStats failed: %v", err)
	}
	if stats.TotalPosts != 2 || stats.PublishedPosts != 1 || stats.DraftPosts != 1 || stats.TotalViews != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestListAdminBlogsStatusFilter(t *testing.T) {
	svc, _ := newBlogTestEnv()

	if _, err := svc.CreateBlog(context.Background(), validCreateParams()); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}
	draft := validCreateParams()
	draft.Title = "Admin Draft"
	draft.Status = model.BlogStatusDraft
	if _, err := svc.CreateBlog(context.Background(), draft); err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}

	all, total, err := svc.ListAdminBlogs(context.Background(), &model.AdminListBlogsParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListAdminBlogs failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("expected both blogs, got total=%d", total)
	}

	drafts, total, err := svc.ListAdminBlogs(context.Background(), &model.AdminListBlogsParams{
		Page: 1, Limit: 10, Status: model.BlogStatusDraft,
	})
	if err != nil {
		t.Fatalf("ListAdminBlogs with filter failed: %v", err)
	}
	if total != 1 || len(drafts) != 1 || drafts[0].Status != model.BlogStatusDraft {
		t.Error("expected only the draft blog")
	}

	if _, _, err := svc.ListAdminBlogs(context.Background(), &model.AdminListBlogsParams{
		Page: 1, Limit: 10, Status: "bogus",
	}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bogus filter, got %v", err)
	}
}
