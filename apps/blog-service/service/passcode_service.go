package service

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"blog-platform/apps/blog-service/dao"
	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/logger"
	"blog-platform/pkg/telemetry"
)

// PasscodeService 管理口令服务
type PasscodeService struct {
	passcodeDAO dao.PasscodeDAO
	adminToken  string
	logger      logger.Logger
}

// NewPasscodeService 创建口令服务实例
func NewPasscodeService(passcodeDAO dao.PasscodeDAO, adminToken string, logger logger.Logger) *PasscodeService {
	return &PasscodeService{
		passcodeDAO: passcodeDAO,
		adminToken:  adminToken,
		logger:      logger,
	}
}

// VerifyPasscode 校验口令，成功返回管理令牌
func (s *PasscodeService) VerifyPasscode(ctx context.Context, passcode string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "blog.service.VerifyPasscode")
	defer span.End()

	passcode = strings.TrimSpace(passcode)
	if passcode == "" {
		return "", fmt.Errorf("%w: passcode is required", model.ErrInvalidInput)
	}

	ok, err := s.passcodeDAO.Exists(ctx, passcode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to verify passcode")
		return "", err
	}

	span.SetAttributes(attribute.Bool("passcode.valid", ok))

	if !ok {
		s.logger.Warn(ctx, "Passcode verification failed")
		return "", fmt.Errorf("%w: invalid passcode", model.ErrNotFound)
	}

	s.logger.Info(ctx, "Passcode verified successfully")
	return s.adminToken, nil
}
