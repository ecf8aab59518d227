// Package tracing records workload and benchmark phases as OpenTelemetry
// spans. Until Init is called every span is a no-op, so instrumented code
// costs nothing when tracing is disabled.
package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "mlfqbench"

var (
	mut      sync.Mutex
	provider *sdktrace.TracerProvider
	output   io.Closer
)

// Init installs a tracer provider exporting to outputFile, or to stdout when
// outputFile is empty. Only the first successful call has an effect.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		w, closer = f, f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}

	if err = InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return err
	}

	mut.Lock()
	if output == nil {
		output = closer
	} else if closer != nil {
		_ = closer.Close()
	}
	mut.Unlock()
	return nil
}

// InitWithExporter installs a tracer provider backed by exporter.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	mut.Lock()
	defer mut.Unlock()

	if provider != nil || exporter == nil {
		return nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return err
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return nil
}

// Shutdown flushes pending spans and releases the exporter.
func Shutdown(ctx context.Context) error {
	mut.Lock()
	defer mut.Unlock()

	var result *multierror.Error
	if provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			result = multierror.Append(result, err)
		}
		provider = nil
	}
	if output != nil {
		if err := output.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		output = nil
	}
	return result.ErrorOrNil()
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// WithAttributes attaches all provided attributes to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	kv := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kv = append(kv, attribute.String(k, v))
	}
	s.span.SetAttributes(kv...)
	return s
}

// WithInt attaches an integer attribute to the span.
func (s *Span) WithInt(key string, value int64) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.Int64(key, value))
	return s
}

// StartSpan starts a child span of whatever span ctx carries.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, name)
	return ctx, &Span{span: span}
}

// EndSpan records err, or an OK status, and ends the span.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	if err != nil {
		sp.span.RecordError(err)
		sp.span.SetStatus(codes.Error, err.Error())
	} else {
		sp.span.SetStatus(codes.Ok, "")
	}
	sp.span.End()
}
