// Package tracing provides AWS X-Ray tracing around the pipeline jobs.
package tracing

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration
type Config struct {
	Enabled      bool
	DaemonAddr   string
	SamplingRate float64
}

type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg)
	case xraylog.LogLevelInfo:
		l.logger.Info(msg)
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg)
	case xraylog.LogLevelError:
		l.logger.Error(msg)
	}
}

// Initialize configures the X-Ray SDK. A disabled config is a no-op so
// callers never need to branch.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr:   cfg.DaemonAddr,
		SamplingRate: cfg.SamplingRate,
	}); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"daemon_addr":   cfg.DaemonAddr,
		"sampling_rate": cfg.SamplingRate,
	}).Info("X-Ray tracing initialized")

	return nil
}

// TraceJob wraps one pipeline job in an X-Ray segment, recording its error
// if it fails. Used by the scheduler around replay, sync and prediction runs.
func TraceJob(ctx context.Context, name string, enabled bool, fn func(ctx context.Context) error) error {
	if !enabled {
		return fn(ctx)
	}

	segCtx, seg := xray.BeginSegment(ctx, name)
	err := fn(segCtx)
	if err != nil {
		_ = seg.AddError(err)
	}
	seg.Close(err)
	return err
}

// AddAnnotation attaches a searchable annotation to the current segment
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddMetadata attaches free-form metadata to the current segment
func AddMetadata(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddMetadata(key, value)
	}
}
