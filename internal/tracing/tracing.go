package tracing

import (
	"io"

	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"max.ks1230/personal-ledger/internal/logger"
)

type config interface {
	ServiceName() string
	AgentHostPort() string
}

// Init installs a jaeger tracer as the opentracing global tracer. The
// returned closer flushes buffered spans.
func Init(cfg config) (io.Closer, error) {
	jcfg := jaegercfg.Configuration{
		ServiceName: cfg.ServiceName(),
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort: cfg.AgentHostPort(),
		},
	}

	closer, err := jcfg.InitGlobalTracer(cfg.ServiceName())
	if err != nil {
		return nil, errors.Wrap(err, "init jaeger tracer")
	}
	logger.Info("tracer initialized", zap.String("agent", cfg.AgentHostPort()))
	return closer, nil
}
