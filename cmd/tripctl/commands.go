package main

import (
	"context"
	"eld-trip-planner/internal/app"
	"eld-trip-planner/internal/config"
	"eld-trip-planner/internal/domain"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var (
	planFrom    string
	planPickup  string
	planDropoff string
	planCycle   float64
	planDate    string
	planPDF     string
	planSave    bool

	batchWorkers int
	batchSave    bool

	renderOut string
)

func init() {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan one trip and print its daily logs",
		RunE:  runPlan,
	}
	planCmd.Flags().StringVar(&planFrom, "from", "", "current location")
	planCmd.Flags().StringVar(&planPickup, "pickup", "", "pickup location")
	planCmd.Flags().StringVar(&planDropoff, "dropoff", "", "dropoff location")
	planCmd.Flags().Float64Var(&planCycle, "cycle", 0, "cycle hours already used (0-70)")
	planCmd.Flags().StringVar(&planDate, "date", "", "first day of the trip, YYYY-MM-DD (default today)")
	planCmd.Flags().StringVar(&planPDF, "pdf", "", "write the log sheets to this PDF file")
	planCmd.Flags().BoolVar(&planSave, "save", false, "store the trip")
	_ = planCmd.MarkFlagRequired("from")
	_ = planCmd.MarkFlagRequired("pickup")
	_ = planCmd.MarkFlagRequired("dropoff")
	rootCmd.AddCommand(planCmd)

	batchCmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Plan every trip in a YAML file concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 4, "trips planned at once")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "store each trip")
	rootCmd.AddCommand(batchCmd)

	renderCmd := &cobra.Command{
		Use:   "render TRIP_ID",
		Short: "Write a stored trip's log sheets to a PDF file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output file (default trip-<id>-logs.pdf)")
	rootCmd.AddCommand(renderCmd)

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective HOS rule set as TOML",
		RunE:  runRules,
	}
	rootCmd.AddCommand(rulesCmd)
}

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if rulesPath != "" {
		cfg.HOSRulesPath = rulesPath
	}
	return app.Open(ctx, cfg)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	start, err := parseDate(planDate)
	if err != nil {
		return err
	}
	req, err := domain.NewTripRequest(planFrom, planPickup, planDropoff, planCycle)
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	trip := domain.Trip{Request: req, Status: domain.TripPlanned}
	var plan domain.TripScheduleResult
	if planSave {
		trip, plan, err = a.Planner.PlanAndSave(ctx, req, start)
	} else {
		plan, err = a.Planner.Plan(ctx, req, start)
		trip.TotalDistanceMiles = plan.Estimate.TotalDistanceMiles
		trip.EstimatedDurationHours = plan.Estimate.TotalDurationHours
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printPlan(out, trip, plan)

	if planPDF != "" {
		if err := writePDF(a, planPDF, trip, plan); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nWrote %s\n", planPDF)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	items, err := readBatchFile(args[0], time.Now().UTC())
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	started := time.Now()
	results, err := a.Planner.PlanBatch(ctx, items, batchWorkers, batchSave)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tROUTE\tMILES\tDRIVING\tDAYS\tRESTARTS\tCOMPLIANT\tID")
	for i, r := range results {
		rep := a.Rules.Report(r.Plan.Days)
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1fh\t%d\t%d\t%v\t%s\n",
			i+1, routeName(r.Trip.Request), miles(r.Plan.Estimate.TotalDistanceMiles),
			r.Plan.Estimate.TotalDurationHours, len(r.Plan.Days), rep.RestartDays, rep.Compliant, orDash(r.Trip.ID))
	}
	w.Flush()

	fmt.Fprintf(out, "\nPlanned %d trips in %s\n", len(results), time.Since(started).Round(time.Millisecond))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	trip, err := a.Repo.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	plan, err := a.Repo.GetPlan(ctx, id)
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = fmt.Sprintf("trip-%s-logs.pdf", id)
	}
	if err := writePDF(a, out, trip, plan); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d days)\n", out, len(plan.Days))
	return nil
}

func writePDF(a *app.App, path string, trip domain.Trip, plan domain.TripScheduleResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := a.Renderer.Render(f, trip, plan); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runRules(cmd *cobra.Command, args []string) error {
	path := rulesPath
	if path == "" {
		path = config.Get("HOS_RULES_PATH", "")
	}

	rules, err := config.LoadRules(path)
	if err != nil {
		return err
	}

	b, err := toml.Marshal(rules.Limits())
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func printPlan(out io.Writer, trip domain.Trip, plan domain.TripScheduleResult) {
	fmt.Fprintf(out, "%s\n", routeName(trip.Request))
	if trip.ID != "" {
		fmt.Fprintf(out, "Trip %s\n", trip.ID)
	}
	fmt.Fprintf(out, "Distance %s, driving %.1fh, starting cycle %.1fh\n\n",
		miles(plan.Estimate.TotalDistanceMiles), plan.Estimate.TotalDurationHours, trip.Request.CurrentCycleHours)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDRIVING\tON DUTY\tOFF DUTY\tCYCLE\tNOTE")
	for _, d := range plan.Days {
		note := d.Remarks
		if d.Restart {
			note = "restart"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			d.Date.Format("Mon 2006-01-02"), d.DrivingHours, d.OnDutyHours, d.OffDutyHours, d.CycleHoursUsed, note)
	}
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tSTOP\tLOCATION\tMINUTES")
	for _, st := range plan.Stops {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", st.SequenceOrder, st.StopType, st.Location, st.DurationMinutes)
	}
	w.Flush()
}

func routeName(r domain.TripRequest) string {
	return strings.Join([]string{r.CurrentLocation, r.PickupLocation, r.DropoffLocation}, " -> ")
}

func miles(m float64) string {
	return humanize.CommafWithDigits(m, 1) + " mi"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func parseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}
