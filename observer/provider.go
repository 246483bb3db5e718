package observer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	passage "github.com/passage-rag/passage"
)

// ObservedProvider wraps a passage.Provider and records traces, metrics, and
// logs for each Generate call.
type ObservedProvider struct {
	provider passage.Provider
	model    string
	inst     *Instruments
}

// WrapProvider returns an instrumented provider. The model name is recorded
// on every span and metric since GenerateRequest does not carry it.
func WrapProvider(p passage.Provider, model string, inst *Instruments) *ObservedProvider {
	return &ObservedProvider{provider: p, model: model, inst: inst}
}

func (o *ObservedProvider) Name() string { return o.provider.Name() }

func (o *ObservedProvider) Generate(ctx context.Context, req passage.GenerateRequest) (passage.GenerateResponse, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "llm.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrLLMProvider.String(o.provider.Name()),
			AttrLLMModel.String(o.model),
			AttrPromptBytes.Int(len(req.Prompt)),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := o.provider.Generate(ctx, req)
	duration := time.Since(start)

	o.record(ctx, resp, err, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}

	span.SetAttributes(
		AttrTokensInput.Int(resp.Usage.InputTokens),
		AttrTokensOutput.Int(resp.Usage.OutputTokens),
	)
	return resp, nil
}

func (o *ObservedProvider) record(ctx context.Context, resp passage.GenerateResponse, genErr error, duration time.Duration) {
	status := "ok"
	if genErr != nil {
		status = "error"
	}

	base := []attribute.KeyValue{
		AttrLLMProvider.String(o.provider.Name()),
		AttrLLMModel.String(o.model),
	}

	o.inst.LLMRequests.Add(ctx, 1, metric.WithAttributes(
		append(base, attribute.String("status", status))...))
	o.inst.LLMDuration.Record(ctx, float64(duration.Milliseconds()),
		metric.WithAttributes(base...))

	if genErr == nil {
		o.inst.TokenUsage.Add(ctx, int64(resp.Usage.InputTokens), metric.WithAttributes(
			append(base, attribute.String("direction", "input"))...))
		o.inst.TokenUsage.Add(ctx, int64(resp.Usage.OutputTokens), metric.WithAttributes(
			append(base, attribute.String("direction", "output"))...))
	}

	var rec otellog.Record
	rec.SetTimestamp(time.Now())
	if genErr != nil {
		rec.SetSeverity(otellog.SeverityError)
		rec.SetBody(otellog.StringValue("llm generate failed"))
		rec.AddAttributes(otellog.String("error", genErr.Error()))
	} else {
		rec.SetSeverity(otellog.SeverityInfo)
		rec.SetBody(otellog.StringValue("llm generate"))
		rec.AddAttributes(
			otellog.Int("tokens.input", resp.Usage.InputTokens),
			otellog.Int("tokens.output", resp.Usage.OutputTokens),
		)
	}
	rec.AddAttributes(
		otellog.String("provider", o.provider.Name()),
		otellog.String("model", o.model),
		otellog.Int64("duration_ms", duration.Milliseconds()),
	)
	o.inst.Logger.Emit(ctx, rec)
}
