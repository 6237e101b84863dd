package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
)

// DayResult pairs a day with its aggregation result.
type DayResult struct {
	Day    schedule.Day `json:"day"`
	Result Result       `json:"result"`
}

// Partitioner splits a table selection into day columns and stores the
// aggregated result of each column in a schedule model.
type Partitioner struct {
	Aggregator *Aggregator
	Model      *schedule.Model

	// Order maps columns left to right onto days. Nil means
	// schedule.DefaultColumnOrder.
	Order []schedule.Day

	Logger *zap.Logger

	// OnDay, when set, is called after each day is stored.
	OnDay func(day schedule.Day, res Result)
}

func (p *Partitioner) order() []schedule.Day {
	if len(p.Order) > 0 {
		return p.Order
	}
	return schedule.DefaultColumnOrder()
}

func (p *Partitioner) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Columns splits a region into n equal-width columns.
func Columns(region imaging.Region, n int) []imaging.Region {
	return region.Columns(n)
}

// ExtractWeek aggregates every column of the table region in turn and
// replaces each day's result in the model. A column without any recognized
// interval marks its day as failed.
//
// It returns schedule.ErrRunInProgress when another run holds the model.
func (p *Partitioner) ExtractWeek(ctx context.Context, region imaging.Region, maxW, maxH float64) ([]DayResult, error) {
	release, err := p.Model.BeginRun()
	if err != nil {
		return nil, err
	}
	defer release()

	order := p.order()
	cols := Columns(region, len(order))
	p.logger().Info("extracting week",
		zap.Stringer("region", region),
		zap.Int("columns", len(cols)))

	results := make([]DayResult, 0, len(cols))
	for i, col := range cols {
		day := order[i]
		res, err := p.store(ctx, day, col, maxW, maxH)
		if err != nil {
			return results, err
		}
		results = append(results, DayResult{Day: day, Result: res})
	}
	return results, nil
}

// ExtractDay re-runs aggregation on a region chosen for a single day and
// replaces only that day's result.
func (p *Partitioner) ExtractDay(ctx context.Context, day schedule.Day, region imaging.Region, maxW, maxH float64) (Result, error) {
	if _, ok := schedule.Offset(day); !ok {
		return Result{}, fmt.Errorf("%q: %w", day, schedule.ErrUnknownDay)
	}

	release, err := p.Model.BeginRun()
	if err != nil {
		return Result{}, err
	}
	defer release()

	p.logger().Info("re-extracting day",
		zap.String("day", string(day)),
		zap.Stringer("region", region))
	return p.store(ctx, day, region, maxW, maxH)
}

func (p *Partitioner) store(ctx context.Context, day schedule.Day, region imaging.Region, maxW, maxH float64) (Result, error) {
	res := p.Aggregator.Run(ctx, region, maxW, maxH)
	if _, err := p.Model.SetAggregated(day, res.Intervals); err != nil {
		return res, fmt.Errorf("failed to store %s: %w", day, err)
	}
	if res.Failed() {
		p.logger().Warn("no interval found", zap.String("day", string(day)))
	}
	if p.OnDay != nil {
		p.OnDay(day, res)
	}
	return res, nil
}
