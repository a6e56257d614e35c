package gologger

import (
	"github.com/goliatone/go-connector/core"
	glog "github.com/goliatone/go-logger/glog"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// NamedLogger resolves the logger registered under name, never nil.
func NamedLogger(name string, provider glog.LoggerProvider, logger glog.Logger) glog.Logger {
	resolvedProvider, resolved := Resolve(name, provider, logger)
	if resolvedProvider != nil {
		if named := resolvedProvider.GetLogger(name); named != nil {
			return glog.Ensure(named)
		}
	}
	return glog.Ensure(resolved)
}

// NewObserver builds a connector observer that logs through the resolved
// logger and reports to metrics.
func NewObserver(name string, provider glog.LoggerProvider, logger glog.Logger, metrics core.MetricsRecorder) *core.Observer {
	return core.NewObserver(NamedLogger(name, provider, logger), metrics)
}

// ServiceOptions returns the core options that route service logging
// through provider and logger.
func ServiceOptions(provider glog.LoggerProvider, logger glog.Logger) []core.Option {
	options := make([]core.Option, 0, 2)
	if provider != nil {
		options = append(options, core.WithLoggerProvider(provider))
	}
	if logger != nil {
		options = append(options, core.WithLogger(logger))
	}
	return options
}
