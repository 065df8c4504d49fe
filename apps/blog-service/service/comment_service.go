package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
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

// CommentService 评论服务
type CommentService struct {
	commentDAO dao.CommentDAO
	blogDAO    dao.BlogDAO
	cache      Cache
	producer   *kafka.Producer
	topic      string
	logger     logger.Logger
}

// NewCommentService 创建评论服务实例
func NewCommentService(commentDAO dao.CommentDAO, blogDAO dao.BlogDAO, cache Cache, producer *kafka.Producer, topic string, logger logger.Logger) *CommentService {
	return &CommentService{
		commentDAO: commentDAO,
		blogDAO:    blogDAO,
		cache:      cache,
		producer:   producer,
		topic:      topic,
		logger:     logger,
	}
}

// CommentWithReplies 评论及其已通过的回复
type CommentWithReplies struct {
	Comment *model.Comment
	Replies []*model.Comment
}

// AdminComment 管理端评论及所属博客
type AdminComment struct {
	Comment *model.Comment
	Blog    *model.Blog
}

// CreateComment 创建评论，新评论总是进入待审核状态
func (s *CommentService) CreateComment(ctx context.Context, params *model.CreateCommentParams) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.CreateComment")
	defer span.End()

	span.SetAttributes(
		attribute.String("comment.blog_id", params.BlogID),
		attribute.Int("comment.content_length", len(params.Content)),
		attribute.Bool("comment.is_reply", params.ParentComment != ""),
	)

	if err := s.validateCreateCommentParams(params); err != nil {
		span.SetStatus(codes.Error, "invalid parameters")
		return nil, err
	}

	blogID, err := primitive.ObjectIDFromHex(params.BlogID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid blog id", model.ErrInvalidInput)
	}

	// 校验博客存在
	if _, err := s.blogDAO.GetBlogByID(ctx, blogID); err != nil {
		span.SetStatus(codes.Error, "blog not found")
		return nil, err
	}

	now := time.Now()
	comment := &model.Comment{
		BlogID:    blogID,
		Author:    strings.TrimSpace(params.Author),
		Email:     strings.ToLower(strings.TrimSpace(params.Email)),
		Content:   strings.TrimSpace(params.Content),
		Status:    model.CommentStatusPending,
		Replies:   []primitive.ObjectID{},
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 回复场景，父评论必须存在且属于同一博客
	var parentID *primitive.ObjectID
	if params.ParentComment != "" {
		pid, err := primitive.ObjectIDFromHex(params.ParentComment)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid parent comment id", model.ErrInvalidInput)
		}
		parent, err := s.commentDAO.GetComment(ctx, pid)
		if err != nil {
			span.SetStatus(codes.Error, "parent comment not found")
			return nil, err
		}
		if parent.BlogID != blogID {
			return nil, fmt.Errorf("%w: parent comment belongs to another blog", model.ErrInvalidInput)
		}
		parentID = &pid
		comment.ParentComment = parentID
	}

	if err := s.commentDAO.CreateComment(ctx, comment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create comment")
		return nil, err
	}

	// 回复挂接是第二次独立写入，失败只记日志不回滚
	if parentID != nil {
		if err := s.commentDAO.PushReply(ctx, *parentID, comment.ID); err != nil {
			s.logger.Error(ctx, "Failed to link reply to parent",
				logger.F("commentID", comment.ID.Hex()),
				logger.F("parentID", parentID.Hex()),
				logger.F("error", err.Error()))
		}
	}

	span.SetAttributes(attribute.String("comment.id", comment.ID.Hex()))

	s.clearCommentCache(ctx, blogID)
	s.publishCommentEvent(ctx, model.EventCommentCreated, comment)

	s.logger.Info(ctx, "Comment created successfully",
		logger.F("commentID", comment.ID.Hex()),
		logger.F("blogID", blogID.Hex()),
		logger.F("status", comment.Status))

	return comment, nil
}

// cachedCommentList 评论列表缓存条目
type cachedCommentList struct {
	Comments []*CommentWithReplies `json:"comments"`
	Total    int64                 `json:"total"`
}

// ListBlogComments 获取博客的已通过顶级评论，回复就地填充且只含已通过的
func (s *CommentService) ListBlogComments(ctx context.Context, params *model.ListCommentsParams) ([]*CommentWithReplies, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.ListBlogComments")
	defer span.End()

	blogID, err := primitive.ObjectIDFromHex(params.BlogID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid blog id", model.ErrInvalidInput)
	}

	// 博客必须存在
	if _, err := s.blogDAO.GetBlogByID(ctx, blogID); err != nil {
		span.SetStatus(codes.Error, "blog not found")
		return nil, 0, err
	}

	page, limit := clampPage(params.Page, params.Limit, model.DefaultPageSize)

	span.SetAttributes(
		attribute.String("comment.blog_id", params.BlogID),
		attribute.Int64("comment.page", page),
		attribute.Int64("comment.limit", limit),
	)

	cacheKey := fmt.Sprintf("%s%s:%d:%d", model.CommentListCachePrefix, blogID.Hex(), page, limit)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached cachedCommentList
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return cached.Comments, cached.Total, nil
			}
		}
	}

	comments, total, err := s.commentDAO.ListTopLevelComments(ctx, blogID, (page-1)*limit, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list comments")
		return nil, 0, err
	}

	result := make([]*CommentWithReplies, 0, len(comments))
	for _, comment := range comments {
		replies, err := s.loadApprovedReplies(ctx, comment)
		if err != nil {
			span.RecordError(err)
			return nil, 0, err
		}
		result = append(result, &CommentWithReplies{Comment: comment, Replies: replies})
	}

	if s.cache != nil {
		if raw, err := json.Marshal(&cachedCommentList{Comments: result, Total: total}); err == nil {
			if err := s.cache.Set(ctx, cacheKey, raw, model.CacheExpireSeconds*time.Second); err != nil {
				s.logger.Warn(ctx, "Failed to cache comment list", logger.F("error", err.Error()))
			}
		}
	}

	span.SetAttributes(attribute.Int64("comment.total", total))
	return result, total, nil
}

// loadApprovedReplies 按父评论replies数组填充已通过的回复，保持数组顺序
func (s *CommentService) loadApprovedReplies(ctx context.Context, parent *model.Comment) ([]*model.Comment, error) {
	if len(parent.Replies) == 0 {
		return []*model.Comment{}, nil
	}

	replies, err := s.commentDAO.GetCommentsByIDs(ctx, parent.Replies, model.CommentStatusApproved)
	if err != nil {
		return nil, err
	}

	order := make(map[primitive.ObjectID]int, len(parent.Replies))
	for i, id := range parent.Replies {
		order[id] = i
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return order[replies[i].ID] < order[replies[j].ID]
	})
	return replies, nil
}

// LikeComment 点赞评论，无需鉴权，允许重复点赞
func (s *CommentService) LikeComment(ctx context.Context, commentID string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.LikeComment")
	defer span.End()

	span.SetAttributes(attribute.String("comment.id", commentID))

	id, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid comment id", model.ErrInvalidInput)
	}

	likes, err := s.commentDAO.IncrementLikes(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to like comment")
		return 0, err
	}

	span.SetAttributes(attribute.Int64("comment.likes", likes))
	return likes, nil
}

// ListAdminComments 管理端评论列表，任意状态，附带所属博客摘要
func (s *CommentService) ListAdminComments(ctx context.Context, params *model.AdminListCommentsParams) ([]*AdminComment, int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.ListAdminComments")
	defer span.End()

	if params.Status != "" && !model.ValidCommentStatus(params.Status) {
		return nil, 0, fmt.Errorf("%w: invalid status filter", model.ErrInvalidInput)
	}

	page, limit := clampPage(params.Page, params.Limit, model.AdminDefaultPageSize)
	params = &model.AdminListCommentsParams{Page: page, Limit: limit, Status: params.Status}

	comments, total, err := s.commentDAO.ListAdminComments(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list comments")
		return nil, 0, err
	}

	// 批量补齐所属博客，缺失的博客置nil
	blogCache := make(map[primitive.ObjectID]*model.Blog)
	result := make([]*AdminComment, 0, len(comments))
	for _, comment := range comments {
		blog, ok := blogCache[comment.BlogID]
		if !ok {
			blog, err = s.blogDAO.GetBlogByID(ctx, comment.BlogID)
			if err != nil {
				blog = nil
			}
			blogCache[comment.BlogID] = blog
		}
		result = append(result, &AdminComment{Comment: comment, Blog: blog})
	}

	span.SetAttributes(attribute.Int64("comment.total", total))
	return result, total, nil
}

// ModerateComment 更新评论审核状态
func (s *CommentService) ModerateComment(ctx context.Context, commentID, status string) (*model.Comment, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.ModerateComment")
	defer span.End()

	span.SetAttributes(
		attribute.String("comment.id", commentID),
		attribute.String("comment.status", status),
	)

	if !model.ValidCommentStatus(status) {
		return nil, fmt.Errorf("%w: invalid status value", model.ErrInvalidInput)
	}

	id, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid comment id", model.ErrInvalidInput)
	}

	comment, err := s.commentDAO.UpdateCommentStatus(ctx, id, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update comment status")
		return nil, err
	}

	s.clearCommentCache(ctx, comment.BlogID)
	s.publishCommentEvent(ctx, model.EventCommentStatus, comment)

	s.logger.Info(ctx, "Comment status updated",
		logger.F("commentID", comment.ID.Hex()),
		logger.F("status", status))

	return comment, nil
}

// DeleteComment 删除评论。回复会从父评论摘除，顶级评论的回复保留为孤儿
func (s *CommentService) DeleteComment(ctx context.Context, commentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.DeleteComment")
	defer span.End()

	span.SetAttributes(attribute.String("comment.id", commentID))

	id, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return fmt.Errorf("%w: invalid comment id", model.ErrInvalidInput)
	}

	comment, err := s.commentDAO.GetComment(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, "comment not found")
		return err
	}

	if comment.ParentComment != nil {
		if err := s.commentDAO.PullReply(ctx, *comment.ParentComment, id); err != nil {
			s.logger.Error(ctx, "Failed to unlink reply from parent",
				logger.F("commentID", id.Hex()),
				logger.F("parentID", comment.ParentComment.Hex()),
				logger.F("error", err.Error()))
		}
	}

	if err := s.commentDAO.DeleteComment(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete comment")
		return err
	}

	s.clearCommentCache(ctx, comment.BlogID)
	s.publishCommentEvent(ctx, model.EventCommentDeleted, comment)

	s.logger.Info(ctx, "Comment deleted",
		logger.F("commentID", id.Hex()),
		logger.F("blogID", comment.BlogID.Hex()))

	return nil
}

// validateCreateCommentParams 参数验证
func (s *CommentService) validateCreateCommentParams(params *model.CreateCommentParams) error {
	author := strings.TrimSpace(params.Author)
	if author == "" {
		return fmt.Errorf("%w: author name is required", model.ErrInvalidInput)
	}
	if len(author) > model.MaxAuthorLength {
		return fmt.Errorf("%w: author name cannot exceed %d characters", model.ErrInvalidInput, model.MaxAuthorLength)
	}

	email := strings.TrimSpace(params.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", model.ErrInvalidInput)
	}
	if len(email) > model.MaxEmailLength || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: please provide a valid email", model.ErrInvalidInput)
	}

	content := strings.TrimSpace(params.Content)
	if content == "" {
		return fmt.Errorf("%w: comment content is required", model.ErrInvalidInput)
	}
	if len(content) > model.MaxCommentLength {
		return fmt.Errorf("%w: comment cannot exceed %d characters", model.ErrInvalidInput, model.MaxCommentLength)
	}

	return nil
}

// clearCommentCache 清除评论列表缓存
func (s *CommentService) clearCommentCache(ctx context.Context, blogID primitive.ObjectID) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("%s%s:*", model.CommentListCachePrefix, blogID.Hex())
	keys, err := s.cache.Keys(ctx, pattern)
	if err == nil && len(keys) > 0 {
		s.cache.Del(ctx, keys...)
	}
}

// publishCommentEvent 发布评论事件
func (s *CommentService) publishCommentEvent(ctx context.Context, eventType string, comment *model.Comment) {
	if s.producer == nil {
		return
	}

	go func() {
		event := map[string]interface{}{
			"type":      eventType,
			"commentId": comment.ID.Hex(),
			"blogId":    comment.BlogID.Hex(),
			"status":    comment.Status,
			"timestamp": time.Now().Unix(),
		}

		if err := s.producer.SendJSON(s.topic, comment.BlogID.Hex(), event); err != nil {
			s.logger.Error(context.Background(), "Failed to publish comment event",
				logger.F("eventType", eventType),
				logger.F("commentID", comment.ID.Hex()),
				logger.F("error", err.Error()))
		}
	}()
}

// clampPage 规范化分页参数
func clampPage(page, limit, defaultLimit int64) (int64, int64) {
	if page <= 0 {
		page = model.DefaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > model.MaxPageSize {
		limit = model.MaxPageSize
	}
	return page, limit
}
