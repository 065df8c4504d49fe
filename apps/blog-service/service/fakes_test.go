package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-platform/apps/blog-service/model"
)

// 内存版DAO实现，行为对齐MongoDB实现的语义

type fakeBlogDAO struct {
	mu    sync.Mutex
	blogs map[primitive.ObjectID]*model.Blog
}

func newFakeBlogDAO() *fakeBlogDAO {
	return &fakeBlogDAO{blogs: make(map[primitive.ObjectID]*model.Blog)}
}

func (f *fakeBlogDAO) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeBlogDAO) CreateBlog(ctx context.Context, blog *model.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.blogs {
		if b.Slug == blog.Slug {
			return fmt.Errorf("%w: blog with this title already exists", model.ErrDuplicate)
		}
	}
	blog.ID = primitive.NewObjectID()
	f.blogs[blog.ID] = blog
	return nil
}

func (f *fakeBlogDAO) GetBlogByID(ctx context.Context, id primitive.ObjectID) (*model.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[id]
	if !ok {
		return nil, fmt.Errorf("%w: blog %s", model.ErrNotFound, id.Hex())
	}
	return blog, nil
}

func (f *fakeBlogDAO) GetPublishedBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.blogs {
		if b.Slug == slug && b.Status == model.BlogStatusPublished {
			b.Views++
			// 返回递增后的快照，与真实DAO的FindOneAndUpdate语义一致
			snapshot := *b
			return &snapshot, nil
		}
	}
	return nil, fmt.Errorf("%w: blog %s", model.ErrNotFound, slug)
}

func (f *fakeBlogDAO) ListBlogs(ctx context.Context, params *model.ListBlogsParams) ([]*model.Blog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.Blog, 0)
	for _, b := range f.blogs {
		if b.Status != model.BlogStatusPublished {
			continue
		}
		if params.Tag != "" && !containsTag(b.Tags, params.Tag) {
			continue
		}
		if params.Search != "" && !matchSearch(b, params.Search) {
			continue
		}
		matched = append(matched, b)
	}
	return pageBlogs(matched, params.Page, params.Limit)
}

func (f *fakeBlogDAO) ListAdminBlogs(ctx context.Context, params *model.AdminListBlogsParams) ([]*model.Blog, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.Blog, 0)
	for _, b := range f.blogs {
		if params.Status != "" && b.Status != params.Status {
			continue
		}
		matched = append(matched, b)
	}
	return pageBlogs(matched, params.Page, params.Limit)
}

func (f *fakeBlogDAO) UpdateBlog(ctx context.Context, blog *model.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blogs[blog.ID]; !ok {
		return fmt.Errorf("%w: blog %s", model.ErrNotFound, blog.ID.Hex())
	}
	for id, b := range f.blogs {
		if id != blog.ID && b.Slug == blog.Slug {
			return fmt.Errorf("%w: blog with this title already exists", model.ErrDuplicate)
		}
	}
	f.blogs[blog.ID] = blog
	return nil
}

func (f *fakeBlogDAO) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blogs[id]; !ok {
		return fmt.Errorf("%w: blog %s", model.ErrNotFound, id.Hex())
	}
	delete(f.blogs, id)
	return nil
}

func (f *fakeBlogDAO) GetStats(ctx context.Context) (*model.BlogStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &model.BlogStats{}
	for _, b := range f.blogs {
		stats.TotalPosts++
		stats.TotalViews += b.Views
		switch b.Status {
		case model.BlogStatusPublished:
			stats.PublishedPosts++
		case model.BlogStatusDraft:
			stats.DraftPosts++
		}
	}
	return stats, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func matchSearch(b *model.Blog, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(b.Title), s) ||
		strings.Contains(strings.ToLower(b.Content), s) ||
		strings.Contains(strings.ToLower(b.Excerpt), s)
}

func pageBlogs(blogs []*model.Blog, page, limit int64) ([]*model.Blog, int64, error) {
	sort.SliceStable(blogs, func(i, j int) bool {
		return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
	})
	total := int64(len(blogs))
	start := (page - 1) * limit
	if start >= total {
		return []*model.Blog{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return blogs[start:end], total, nil
}

type fakeCommentDAO struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*model.Comment
}

func newFakeCommentDAO() *fakeCommentDAO {
	return &fakeCommentDAO{comments: make(map[primitive.ObjectID]*model.Comment)}
}

func (f *fakeCommentDAO) EnsureIndexes(ctx context.Context) error { return nil }

func (f *fakeCommentDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeCommentDAO) GetComment(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
	}
	return comment, nil
}

func (f *fakeCommentDAO) ListTopLevelComments(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]*model.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.Comment, 0)
	for _, c := range f.comments {
		if c.BlogID == blogID && c.Status == model.CommentStatusApproved && c.ParentComment == nil {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if skip >= total {
		return []*model.Comment{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (f *fakeCommentDAO) GetCommentsByIDs(ctx context.Context, ids []primitive.ObjectID, status string) ([]*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*model.Comment, 0, len(ids))
	for _, id := range ids {
		c, ok := f.comments[id]
		if !ok {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

func (f *fakeCommentDAO) IncrementLikes(ctx context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return 0, fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
	}
	c.Likes++
	return c.Likes, nil
}

func (f *fakeCommentDAO) UpdateCommentStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
	}
	c.Status = status
	return c, nil
}

func (f *fakeCommentDAO) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentDAO) PushReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	parent, ok := f.comments[parentID]
	if !ok {
		return fmt.Errorf("%w: comment %s", model.ErrNotFound, parentID.Hex())
	}
	parent.Replies = append(parent.Replies, childID)
	return nil
}

func (f *fakeCommentDAO) PullReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	parent, ok := f.comments[parentID]
	if !ok {
		return fmt.Errorf("%w: comment %s", model.ErrNotFound, parentID.Hex())
	}
	replies := parent.Replies[:0]
	for _, id := range parent.Replies {
		if id != childID {
			replies = append(replies, id)
		}
	}
	parent.Replies = replies
	return nil
}

func (f *fakeCommentDAO) ListAdminComments(ctx context.Context, params *model.AdminListCommentsParams) ([]*model.Comment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.Comment, 0)
	for _, c := range f.comments {
		if params.Status != "" && c.Status != params.Status {
			continue
		}
		matched = append(matched, c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	start := (params.Page - 1) * params.Limit
	if start >= total {
		return []*model.Comment{}, total, nil
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return value, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	keys := make([]string, 0)
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type fakePasscodeDAO struct {
	passcodes map[string]bool
}

func newFakePasscodeDAO(passcodes ...string) *fakePasscodeDAO {
	f := &fakePasscodeDAO{passcodes: make(map[string]bool)}
	for _, p := range passcodes {
		f.passcodes[p] = true
	}
	return f
}

func (f *fakePasscodeDAO) Exists(ctx context.Context, passcode string) (bool, error) {
	return f.passcodes[passcode], nil
}
