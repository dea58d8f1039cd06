package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/SapirCardona/linkedinsights/internal/report"

// Generator turns a workbook into a Bundle. It holds no per-run state and
// is safe for concurrent use.
type Generator struct {
	schema *Schema
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewGenerator builds a generator for schema; a nil schema means DefaultSchema
func NewGenerator(schema *Schema, logger *slog.Logger) *Generator {
	if schema == nil {
		schema = DefaultSchema()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		schema: schema,
		logger: logger.With(slog.String("component", "report_generator")),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// Schema returns the layout the generator reads
func (g *Generator) Schema() *Schema {
	return g.schema
}

// Generate runs every step in page order and stops at the first error.
// name labels the bundle, usually the uploaded file name.
func (g *Generator) Generate(ctx context.Context, src Source, name string) (*Bundle, error) {
	ctx, span := g.tracer.Start(ctx, "report.generate",
		trace.WithAttributes(attribute.String("report.source", name)))
	defer span.End()

	b := &Bundle{
		ID:          uuid.New(),
		Source:      name,
		GeneratedAt: g.now().UTC(),
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"discovery", func() (err error) {
			b.Discovery, err = readDiscovery(src, g.schema.Discovery)
			return err
		}},
		{"followers", func() (err error) {
			b.Followers, err = aggregateFollowers(src, g.schema.Followers)
			return err
		}},
		{"posting_days", func() (err error) {
			b.PostingDays, err = countPostingDays(src, g.schema.TopPosts)
			return err
		}},
		{"engagement", func() (err error) {
			b.Engagement, err = summarizeEngagement(src, g.schema.Engagement)
			return err
		}},
		{"demographics", func() (err error) {
			b.Demographics, err = rankDemographics(src, g.schema.Demographics)
			return err
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.run(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, step.name)
			g.logger.WarnContext(ctx, "report step failed",
				slog.String("step", step.name),
				slog.String("source", name),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
		span.AddEvent("step.done", trace.WithAttributes(attribute.String("step", step.name)))
	}

	b.Metrics = metricCards(b.Discovery, b.Followers)
	b.Charts = buildCharts(b.Followers, b.PostingDays, b.Engagement)

	g.logger.InfoContext(ctx, "report generated",
		slog.String("report_id", b.ID.String()),
		slog.String("source", name),
		slog.Int("months", len(b.Followers.Monthly)),
		slog.Int("skipped_rows", b.Followers.SkippedRows+b.PostingDays.SkippedRows+b.Engagement.SkippedRows))
	return b, nil
}

func metricCards(d Discovery, f FollowerReport) []MetricCard {
	cards := []MetricCard{
		{Label: "Unique users reached", Value: d.MembersReached},
		{Label: "Total impressions", Value: d.TotalImpressions},
	}
	if f.TotalFollowers != nil {
		cards = append(cards, MetricCard{Label: "Total followers", Value: FormatNumber(*f.TotalFollowers)})
	}
	return cards
}
