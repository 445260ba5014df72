package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/chainsafe/presale-dashboard/pkg/auth"
)

const serviceName = "DashboardService"

const (
	logMessageMaxLen     = 50
	signatureDisplaySize = 16
)

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the dashboard Service.
// Reads are logged at debug level; admin operations at info.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// read logs a read-only call once it returns.
func (ls *logService) read(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		ls.logger.Warn(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Debug(method+" completed", fields...)
}

func (ls *logService) Chain(ctx context.Context) (resp *ChainInfo, err error) {
	defer func(start time.Time) { ls.read("Chain", start, err) }(time.Now())
	return ls.svc.Chain(ctx)
}

func (ls *logService) Snapshot(ctx context.Context) (resp *SnapshotView, err error) {
	defer func(start time.Time) { ls.read("Snapshot", start, err) }(time.Now())
	return ls.svc.Snapshot(ctx)
}

func (ls *logService) Participants(ctx context.Context, query string, offset, limit int) (resp *ParticipantsView, err error) {
	defer func(start time.Time) {
		ls.read("Participants", start, err,
			zap.String("query", truncateString(query, logMessageMaxLen)),
			zap.Int("offset", offset),
			zap.Int("limit", limit))
	}(time.Now())
	return ls.svc.Participants(ctx, query, offset, limit)
}

func (ls *logService) Position(ctx context.Context, address string) (resp *PositionView, err error) {
	defer func(start time.Time) {
		ls.read("Position", start, err, zap.String("address", truncateString(address, logMessageMaxLen)))
	}(time.Now())
	return ls.svc.Position(ctx, address)
}

func (ls *logService) Estimate(ctx context.Context, usdc string) (resp *EstimateView, err error) {
	defer func(start time.Time) {
		ls.read("Estimate", start, err, zap.String("usdc", truncateString(usdc, logMessageMaxLen)))
	}(time.Now())
	return ls.svc.Estimate(ctx, usdc)
}

func (ls *logService) Sacrifice(ctx context.Context) (resp *SacrificeView, err error) {
	defer func(start time.Time) { ls.read("Sacrifice", start, err) }(time.Now())
	return ls.svc.Sacrifice(ctx)
}

func (ls *logService) Schedule(ctx context.Context) (resp *ScheduleView, err error) {
	defer func(start time.Time) { ls.read("Schedule", start, err) }(time.Now())
	return ls.svc.Schedule(ctx)
}

// SetSchedule wraps the service method with logging
func (ls *logService) SetSchedule(ctx context.Context, req *ScheduleRequest, by common.Address) (resp *ScheduleView, err error) {
	start := time.Now()

	ls.logger.Info("SetSchedule started",
		zap.String("service", serviceName),
		zap.String("method", "SetSchedule"),
		zap.String("admin", by.Hex()),
		zap.Time("starts_at", req.StartsAt),
		zap.Time("ends_at", req.EndsAt),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("SetSchedule failed",
				zap.String("service", serviceName),
				zap.String("method", "SetSchedule"),
				zap.String("admin", by.Hex()),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}
		ls.logger.Info("SetSchedule completed",
			zap.String("service", serviceName),
			zap.String("method", "SetSchedule"),
			zap.String("admin", by.Hex()),
			zap.String("phase", resp.Phase),
			zap.Duration("duration", duration),
		)
	}()

	return ls.svc.SetSchedule(ctx, req, by)
}

// AdminLogin wraps the service method with logging
func (ls *logService) AdminLogin(ctx context.Context, req *LoginRequest) (resp *auth.Session, err error) {
	start := time.Now()

	ls.logger.Info("AdminLogin started",
		zap.String("service", serviceName),
		zap.String("method", "AdminLogin"),
		zap.String("message", truncateString(req.Message, logMessageMaxLen)),
		zap.String("signature", redactSignature(req.Signature)),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("AdminLogin failed",
				zap.String("service", serviceName),
				zap.String("method", "AdminLogin"),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
			return
		}
		ls.logger.Info("AdminLogin completed",
			zap.String("service", serviceName),
			zap.String("method", "AdminLogin"),
			zap.String("admin", resp.Address.Hex()),
			zap.Time("expires_at", resp.ExpiresAt),
			zap.Duration("duration", duration),
		)
	}()

	return ls.svc.AdminLogin(ctx, req)
}

func (ls *logService) AuthorizeAdmin(ctx context.Context, token string) (addr common.Address, err error) {
	defer func(start time.Time) {
		ls.read("AuthorizeAdmin", start, err, zap.String("token", redactSignature(token)))
	}(time.Now())
	return ls.svc.AuthorizeAdmin(ctx, token)
}

// truncateString limits string length for logging to prevent log spam
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// redactSignature shows only the edges and length of a signature or token
func redactSignature(sig string) string {
	if sig == "" {
		return "<empty>"
	}
	sigLen := len(sig)
	if sigLen > signatureDisplaySize {
		return fmt.Sprintf("%s...%s (%d bytes)", sig[:8], sig[sigLen-4:], sigLen)
	}
	return fmt.Sprintf("<%d bytes>", sigLen)
}
