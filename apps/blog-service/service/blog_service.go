package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"blog-platform/apps/blog-service/dao"
	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/kafka"
	"blog-platform/pkg/logger"
	"blog-platform/pkg/telemetry"
)

// BlogService 博客服务
type BlogService struct {
	blogDAO  dao.BlogDAO
	cache    Cache
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
}

// NewBlogService 创建博客服务实例
func NewBlogService(blogDAO dao.BlogDAO, cache Cache, producer *kafka.Producer, topic string, logger logger.Logger) *BlogService {
	return &BlogService{
		blogDAO:  blogDAO,
		cache:    cache,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// cachedBlogList 博客列表缓存条目
type cachedBlogList struct {
	Blogs []*model.Blog `json:"blogs"`
	Total int64         `json:"total"`
}

// ListBlogs 公开博客列表，只含已发布
func (s *BlogService) ListBlogs(ctx context.Context, params *model.ListBlogsParams) ([]*model.Blog, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.ListBlogs")
	defer span.End()

	page, limit := clampPage(params.Page, params.Limit, model.DefaultPageSize)
	params = &model.ListBlogsParams{
		Page:   page,
		Limit:  limit,
		Tag:    strings.TrimSpace(params.Tag),
		Search: strings.TrimSpace(params.Search),
	}

	span.SetAttributes(
		attribute.Int64("blog.page", page),
		attribute.Int64("blog.limit", limit),
		attribute.String("blog.tag", params.Tag),
	)

	cacheKey := fmt.Sprintf("%s%d:%d:%s:%s", model.BlogListCachePrefix, page, limit, params.Tag, params.Search)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached cachedBlogList
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return cached.Blogs, cached.Total, nil
			}
		}
	}

	blogs, total, err := s.blogDAO.ListBlogs(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list blogs")
		return nil, 0, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(&cachedBlogList{Blogs: blogs, Total: total}); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, model.CacheExpireSeconds*time.Second); err != nil {
				s.logger.Warn(ctx, "Failed to cache blog list", logger.F("error", err.Error()))
			}
		}
	}

	span.SetAttributes(attribute.Int64("blog.total", total))
	return blogs, total, nil
}

// GetBlogBySlug 按slug获取已发布博客并计一次浏览
func (s *BlogService) GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.GetBlogBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	span.SetAttributes(attribute.String("blog.slug", slug))

	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", model.ErrInvalidInput)
	}

	blog, err := s.blogDAO.GetPublishedBlogBySlug(ctx, slug)
	if err != nil {
		span.SetStatus(codes.Error, "blog not found")
		return nil, err
	}
	return blog, nil
}

// GetBlogByID 管理端按ID获取博客，任意状态
func (s *BlogService) GetBlogByID(ctx context.Context, blogID string) (*model.Blog, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.GetBlogByID")
	defer span.End()

	span.SetAttributes(attribute.String("blog.id", blogID))

	id, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid blog id", model.ErrInvalidInput)
	}
	return s.blogDAO.GetBlogByID(ctx, id)
}

// ListAdminBlogs 管理端博客列表，含草稿
func (s *BlogService) ListAdminBlogs(ctx context.Context, params *model.AdminListBlogsParams) ([]*model.Blog, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.ListAdminBlogs")
	defer span.End()

	if params.Status != "" && !model.ValidBlogStatus(params.Status) {
		return nil, 0, fmt.Errorf("%w: invalid status filter", model.ErrInvalidInput)
	}

	page, limit := clampPage(params.Page, params.Limit, model.AdminDefaultPageSize)
	params = &model.AdminListBlogsParams{Page: page, Limit: limit, Status: params.Status}

	span.SetAttributes(
		attribute.Int64("blog.page", page),
		attribute.Int64("blog.limit", limit),
	)

	blogs, total, err := s.blogDAO.ListAdminBlogs(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list blogs")
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int64("blog.total", total))
	return blogs, total, nil
}

// CreateBlog 创建博客，slug由标题派生，阅读时长由正文估算
func (s *BlogService) CreateBlog(ctx context.Context, params *model.CreateBlogParams) (*model.Blog, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.CreateBlog")
	defer span.End()

	span.SetAttributes(
		attribute.String("blog.title", params.Title),
		attribute.Int("blog.content_length", len(params.Content)),
	)

	if err := s.validateCreateBlogParams(params); err != nil {
		span.SetStatus(codes.Error, "invalid parameters")
		return nil, err
	}

	// 状态缺省为已发布，作者缺省为Admin
	status := params.Status
	if status == "" {
		status = model.BlogStatusPublished
	}
	author := strings.TrimSpace(params.Author)
	if author == "" {
		author = model.DefaultAuthor
	}

	title := strings.TrimSpace(params.Title)
	now := time.Now()
	blog := &model.Blog{
		Title:     title,
		Content:   params.Content,
		Excerpt:   strings.TrimSpace(params.Excerpt),
		Author:    author,
		Image:     params.Image,
		Tags:      normalizeTags(params.Tags),
		Status:    status,
		Slug:      model.Slugify(title),
		ReadTime:  model.CalculateReadTime(params.Content),
		Views:     0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if blog.Slug == "" {
		return nil, fmt.Errorf("%w: title must contain at least one alphanumeric character", model.ErrInvalidInput)
	}

	if err := s.blogDAO.CreateBlog(ctx, blog); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create blog")
		return nil, err
	}

	span.SetAttributes(attribute.String("blog.id", blog.ID.Hex()))

	s.clearBlogCache(ctx)
	s.publishBlogEvent(ctx, model.EventBlogCreated, blog)

	s.logger.Info(ctx, "Blog created successfully",
		logger.F("blogID", blog.ID.Hex()),
		logger.F("slug", blog.Slug),
		logger.F("status", blog.Status))

	return blog, nil
}

// UpdateBlog 更新博客，改标题重新派生slug，改正文重新估算阅读时长
func (s *BlogService) UpdateBlog(ctx context.Context, blogID string, params *model.UpdateBlogParams) (*model.Blog, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.UpdateBlog")
	defer span.End()

	span.SetAttributes(attribute.String("blog.id", blogID))

	id, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid blog id", model.ErrInvalidInput)
	}

	blog, err := s.blogDAO.GetBlogByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "blog not found")
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" || len(title) > model.MaxTitleLength {
			return nil, fmt.Errorf("%w: title must be between 1 and %d characters", model.ErrInvalidInput, model.MaxTitleLength)
		}
		blog.Title = title
		blog.Slug = model.Slugify(title)
		if blog.Slug == "" {
			return nil, fmt.Errorf("%w: title must contain at least one alphanumeric character", model.ErrInvalidInput)
		}
	}
	if params.Content != nil {
		if strings.TrimSpace(*params.Content) == "" {
			return nil, fmt.Errorf("%w: content is required", model.ErrInvalidInput)
		}
		blog.Content = *params.Content
		blog.ReadTime = model.CalculateReadTime(*params.Content)
	}
	if params.Excerpt != nil {
		excerpt := strings.TrimSpace(*params.Excerpt)
		if excerpt == "" || len(excerpt) > model.MaxExcerptLength {
			return nil, fmt.Errorf("%w: excerpt must be between 1 and %d characters", model.ErrInvalidInput, model.MaxExcerptLength)
		}
		blog.Excerpt = excerpt
	}
	if params.Author != nil {
		author := strings.TrimSpace(*params.Author)
		if author == "" || len(author) > model.MaxAuthorLength {
			return nil, fmt.Errorf("%w: author must be between 1 and %d characters", model.ErrInvalidInput, model.MaxAuthorLength)
		}
		blog.Author = author
	}
	if params.Image != nil {
		blog.Image = *params.Image
	}
	if params.Tags != nil {
		blog.Tags = normalizeTags(*params.Tags)
	}
	if params.Status != nil {
		if !model.ValidBlogStatus(*params.Status) {
			return nil, fmt.Errorf("%w: invalid status value", model.ErrInvalidInput)
		}
		blog.Status = *params.Status
	}
	blog.UpdatedAt = time.Now()

	if err := s.blogDAO.UpdateBlog(ctx, blog); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update blog")
		return nil, err
	}

	s.clearBlogCache(ctx)
	s.publishBlogEvent(ctx, model.EventBlogUpdated, blog)

	s.logger.Info(ctx, "Blog updated successfully",
		logger.F("blogID", blog.ID.Hex()),
		logger.F("slug", blog.Slug))

	return blog, nil
}

// DeleteBlog 删除博客。评论不做级联删除
func (s *BlogService) DeleteBlog(ctx context.Context, blogID string) error {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.DeleteBlog")
	defer span.End()

	span.SetAttributes(attribute.String("blog.id", blogID))

	id, err := primitive.ObjectIDFromHex(blogID)
	if err != nil {
		return fmt.Errorf("%w: invalid blog id", model.ErrInvalidInput)
	}

	blog, err := s.blogDAO.GetBlogByID(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "blog not found")
		return err
	}

	if err := s.blogDAO.DeleteBlog(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete blog")
		return err
	}

	s.clearBlogCache(ctx)
	s.publishBlogEvent(ctx, model.EventBlogDeleted, blog)

	s.logger.Info(ctx, "Blog deleted",
		logger.F("blogID", id.Hex()),
		logger.F("slug", blog.Slug))

	return nil
}

// GetBlogStats 管理端博客统计
func (s *BlogService) GetBlogStats(ctx context.Context) (*model.BlogStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.GetBlogStats")
	defer span.End()

	stats, err := s.blogDAO.GetStats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get blog stats")
		return nil, err
	}
	return stats, nil
}

// validateCreateBlogParams 参数验证
func (s *BlogService) validateCreateBlogParams(params *model.CreateBlogParams) error {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if len(title) > model.MaxTitleLength {
		return fmt.Errorf("%w: title cannot exceed %d characters", model.ErrInvalidInput, model.MaxTitleLength)
	}

	if strings.TrimSpace(params.Content) == "" {
		return fmt.Errorf("%w: content is required", model.ErrInvalidInput)
	}

	excerpt := strings.TrimSpace(params.Excerpt)
	if excerpt == "" {
		return fmt.Errorf("%w: excerpt is required", model.ErrInvalidInput)
	}
	if len(excerpt) > model.MaxExcerptLength {
		return fmt.Errorf("%w: excerpt cannot exceed %d characters", model.ErrInvalidInput, model.MaxExcerptLength)
	}

	// 作者可省略，缺省值在CreateBlog里补
	if author := strings.TrimSpace(params.Author); len(author) > model.MaxAuthorLength {
		return fmt.Errorf("%w: author cannot exceed %d characters", model.ErrInvalidInput, model.MaxAuthorLength)
	}

	if params.Status != "" && !model.ValidBlogStatus(params.Status) {
		return fmt.Errorf("%w: invalid status value", model.ErrInvalidInput)
	}

	return nil
}

// normalizeTags 去除空白标签并修剪空格
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			result = append(result, tag)
		}
	}
	return result
}

// clearBlogCache 清除博客列表缓存
func (s *BlogService) clearBlogCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys, err := s.cache.Keys(ctx, model.BlogListCachePrefix+"*")
	if err == nil && len(keys) > 0 {
		s.cache.Del(ctx, keys...)
	}
}

// publishBlogEvent 发布博客事件
func (s *BlogService) publishBlogEvent(ctx context.Context, eventType string, blog *model.Blog) {
	if s.producer == nil {
		return
	}

	go func() {
		event := map[string]interface{}{
			"type":      eventType,
			"blogId":    blog.ID.Hex(),
			"slug":      blog.Slug,
			"status":    blog.Status,
			"timestamp": time.Now().Unix(),
		}

		if err := s.producer.SendJSON(s.topic, blog.ID.Hex(), event); err != nil {
			s.logger.Error(context.Background(), "Failed to publish blog event",
				logger.F("eventType", eventType),
				logger.F("blogID", blog.ID.Hex()),
				logger.F("error", err.Error()))
		}
	}()
}
