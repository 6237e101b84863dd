package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
	"go.uber.org/zap"

	"github.com/ironsheep/schedule-ocr-mcp/internal/calendar"
	"github.com/ironsheep/schedule-ocr-mcp/internal/extract"
	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
	"github.com/ironsheep/schedule-ocr-mcp/internal/schedule"
	"github.com/ironsheep/schedule-ocr-mcp/internal/session"
)

var errBadRegion = errors.New("region must be x1,y1,x2,y2")

var (
	extractImage   string
	extractRegion  string
	extractAnchor  string
	extractICS     bool
	extractPublish bool
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the schedule of one image and print it",
		Example: `  schedule-ocr extract --image week.jpg --region 40,210,1180,640
  schedule-ocr extract --image week.jpg --region 40,210,1180,640 --anchor 2024-01-01 --ics`,
		Args: cobra.NoArgs,
		RunE: runExtract,
	}
	cmd.Flags().StringVar(&extractImage, "image", "", "path to the schedule image")
	cmd.Flags().StringVar(&extractRegion, "region", "", "table corners in pixels: x1,y1,x2,y2")
	cmd.Flags().StringVar(&extractAnchor, "anchor", "", "Monday of the week, YYYY-MM-DD (default: this week)")
	cmd.Flags().BoolVar(&extractICS, "ics", false, "write "+calendar.ICSFileName+" into calendar.ics_dir")
	cmd.Flags().BoolVar(&extractPublish, "publish", false, "write the events into the local calendar")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}

// parseRegion reads "x1,y1,x2,y2".
func parseRegion(s string) (imaging.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return imaging.Region{}, fmt.Errorf("%q: %w", s, errBadRegion)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return imaging.Region{}, fmt.Errorf("%q: %w", s, errBadRegion)
		}
		v[i] = f
	}
	r := imaging.FromPoints(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return imaging.Region{}, fmt.Errorf("%q: %w", s, errBadRegion)
	}
	return r, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// progressBars shows days and OCR attempts while a week is extracted.
type progressBars struct {
	p        *mpb.Progress
	days     *mpb.Bar
	attempts *mpb.Bar
}

func newProgressBars(out io.Writer, days, attempts int) *progressBars {
	p := mpb.New(mpb.WithOutput(out), mpb.WithWidth(48))
	style := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")

	bar := func(name string, total int) *mpb.Bar {
		return p.New(int64(total), style,
			mpb.PrependDecorators(
				decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight}),
				decor.CountersNoUnit("%d/%d", decor.WC{W: 6}),
			),
			mpb.AppendDecorators(
				decor.OnComplete(decor.Elapsed(decor.ET_STYLE_GO, decor.WC{W: 4}), "done"),
			),
		)
	}
	return &progressBars{
		p:        p,
		days:     bar("Days", days),
		attempts: bar("Attempts", days*attempts),
	}
}

func (b *progressBars) finish() {
	b.days.SetTotal(-1, true)
	b.attempts.SetTotal(-1, true)
	b.p.Wait()
}

func runExtract(cmd *cobra.Command, _ []string) error {
	region, err := parseRegion(extractRegion)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var bars *progressBars
	extra := session.Options{
		Observer: func(extract.Attempt) {
			if bars != nil {
				bars.attempts.Increment()
			}
		},
	}

	cfg, logger, rt, err := setup(ctx, extra)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer rt.Close()

	if _, err := rt.LoadImage(extractImage); err != nil {
		return err
	}
	anchor, err := rt.ParseAnchor(extractAnchor)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if isTerminal(stderr) {
		bars = newProgressBars(stderr, len(cfg.ColumnOrder()), cfg.Extract.Attempts)
	}
	_, err = rt.ExtractWeekProgress(ctx, &region, func(day schedule.Day, res extract.Result) {
		if bars != nil {
			bars.days.Increment()
		}
		logger.Debug("day extracted", zap.String("day", string(day)), zap.Strings("intervals", res.Intervals))
	})
	if bars != nil {
		bars.finish()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSchedule(out, rt.Model().View())

	events := rt.Events(anchor)
	fmt.Fprintf(out, "\n%d event(s) for the week of %s\n", len(events), anchor.Format(calendar.AnchorLayout))

	if extractICS {
		path, err := rt.SaveICS(ctx, anchor)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	if extractPublish {
		rep, err := rt.Publish(ctx, anchor)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "published %d event(s), %d failed\n", rep.Created, rep.Failed)
	}
	return nil
}

func printSchedule(w io.Writer, days []schedule.DayView) {
	for _, d := range days {
		fmt.Fprintf(w, "%-9s %s\n", d.Day, strings.ReplaceAll(d.Display, "\n", ", "))
	}
}
