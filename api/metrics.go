package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName       = "sprint-lane/api"
	boardRoute       = "/api/boards/:id"
	boardSpanName    = "GET /api/boards/:id"
	boardEventName   = "board.fetched"
	boardEventDomain = "sprintlane"
)

// boardRequestMetrics collects per-stage timings for the board read path and
// emits them as one structured log entry plus one span on completion.
type boardRequestMetrics struct {
	logger *log.Logger
	span   trace.Span

	start           time.Time
	authDuration    time.Duration
	fetchDuration   time.Duration
	encodeDuration  time.Duration
	columnsReturned int
	cardsReturned   int
	errorStage      string
}

func newBoardRequestMetrics(ctx context.Context, logger *log.Logger) (*boardRequestMetrics, context.Context) {
	m := &boardRequestMetrics{logger: logger, start: time.Now()}
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, boardSpanName)
	m.span = span
	return m, spanCtx
}

func (m *boardRequestMetrics) ObserveAuth(duration time.Duration) {
	if duration > 0 {
		m.authDuration = duration
	}
}

func (m *boardRequestMetrics) ObserveFetch(duration time.Duration) {
	if duration > 0 {
		m.fetchDuration = duration
	}
}

func (m *boardRequestMetrics) ObserveEncode(duration time.Duration) {
	if duration > 0 {
		m.encodeDuration = duration
	}
}

func (m *boardRequestMetrics) SetColumnsReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.columnsReturned = count
}

func (m *boardRequestMetrics) SetCardsReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.cardsReturned = count
}

func (m *boardRequestMetrics) SetErrorStage(stage string) {
	if stage != "" {
		m.errorStage = stage
	}
}

// Log ends the span and writes the observability event. Safe on a nil
// receiver so error paths can bail early.
func (m *boardRequestMetrics) Log(status int, err error) {
	if m == nil || m.logger == nil {
		return
	}

	totalMs := durationToMillis(time.Since(m.start))

	attrs := map[string]any{
		"http.route":                        boardRoute,
		"http.status_code":                  status,
		"sprintlane.board.total_ms":         totalMs,
		"sprintlane.board.columns_returned": m.columnsReturned,
		"sprintlane.board.cards_returned":   m.cardsReturned,
	}
	if m.authDuration > 0 {
		attrs["sprintlane.board.auth_ms"] = durationToMillis(m.authDuration)
	}
	if m.fetchDuration > 0 {
		attrs["sprintlane.board.fetch_ms"] = durationToMillis(m.fetchDuration)
	}
	if m.encodeDuration > 0 {
		attrs["sprintlane.board.encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorStage != "" {
		attrs["sprintlane.board.error_stage"] = m.errorStage
	}
	if err != nil {
		attrs["error"] = err.Error()
	}

	severityText, severityNumber := severityForStatus(status, err)

	fields := log.Fields{
		"event.name":      boardEventName,
		"event.domain":    boardEventDomain,
		"attributes":      attrs,
		"severity_text":   severityText,
		"severity_number": severityNumber,
	}

	if m.span != nil {
		m.span.SetAttributes(
			attribute.String("http.route", boardRoute),
			attribute.Int64("http.status_code", int64(status)),
			attribute.Float64("sprintlane.board.total_ms", totalMs),
			attribute.Int("sprintlane.board.columns_returned", m.columnsReturned),
			attribute.Int("sprintlane.board.cards_returned", m.cardsReturned),
		)
		if m.errorStage != "" {
			m.span.SetAttributes(attribute.String("sprintlane.board.error_stage", m.errorStage))
		}
		if err != nil {
			m.span.RecordError(err)
			m.span.SetStatus(codes.Error, err.Error())
		} else if status >= http.StatusInternalServerError {
			m.span.SetStatus(codes.Error, http.StatusText(status))
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.AddEvent("observability.event")

		if sc := m.span.SpanContext(); sc.HasTraceID() {
			fields["trace_id"] = sc.TraceID().String()
		}
		if sc := m.span.SpanContext(); sc.HasSpanID() {
			fields["span_id"] = sc.SpanID().String()
		}
		m.span.End()
	}

	entry := m.logger.WithFields(fields)
	if err != nil || status >= http.StatusInternalServerError {
		entry.Error("observability.event")
		return
	}
	entry.Info("observability.event")
}

func severityForStatus(status int, err error) (string, int) {
	if err != nil || status >= http.StatusInternalServerError {
		return "ERROR", 17
	}
	return "INFO", 9
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
