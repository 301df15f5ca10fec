package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/internal/dto"
	"github.com/noah-isme/clinic-admin-api/internal/watch"
	"github.com/noah-isme/clinic-admin-api/pkg/apiclient"
)

func dashboardCommand(a *app) *cobra.Command {
	var (
		follow   bool
		interval time.Duration
		count    int
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the admin dashboard summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !follow {
				summary, err := a.api().Dashboard(cmd.Context(), a.clinicID)
				if err != nil {
					return a.failure("load dashboard", err)
				}
				printDashboard(a.out, summary, a.now())
				return nil
			}
			return a.followDashboard(cmd.Context(), interval, count)
		},
	}
	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "Reprint the summary on every refresh")
	cmd.Flags().DurationVar(&interval, "interval", a.cfg.Dashboard.RefreshInterval, "Refresh interval")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many refreshes")
	return cmd
}

// followDashboard refreshes on a fixed interval. Responses that arrive after a
// newer one was printed are dropped.
func (a *app) followDashboard(parent context.Context, interval time.Duration, count int) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		seq     apiclient.Sequencer
		mu      sync.Mutex
		printed int
		lastErr error
	)
	client := a.api()
	err := watch.Every(ctx, interval, func(ctx context.Context) {
		id := seq.Next()
		summary, err := client.Dashboard(ctx, a.clinicID)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			lastErr = err
			if apiclient.IsUnauthorized(err) {
				cancel()
				return
			}
			fmt.Fprintf(a.errOut, "refresh failed: %s\n", apiclient.UserMessage(err, "the server could not be reached"))
			return
		}
		if !seq.Apply(id) {
			return
		}
		lastErr = nil
		printDashboard(a.out, summary, a.now())
		printed++
		if count > 0 && printed >= count {
			cancel()
		}
	})

	mu.Lock()
	defer mu.Unlock()
	if lastErr != nil && apiclient.IsUnauthorized(lastErr) {
		return a.failure("watch dashboard", lastErr)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printDashboard(w io.Writer, d *dto.DashboardResponse, now time.Time) {
	fmt.Fprintf(w, "dashboard %s\n", now.Format("2006-01-02 15:04:05"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "section\ttotal\thighlights")
	sections := []struct {
		name  string
		stats dataview.Stats
		keys  []string
	}{
		{"clinics", d.Clinics, []string{"active"}},
		{"patients", d.Patients, []string{"active"}},
		{"doctors", d.Doctors, []string{"onLeave"}},
		{"nurses", d.Nurses, []string{"onLeave"}},
		{"appointments", d.Appointments, []string{"todayCount", "upcomingCount", "cancelled"}},
		{"referrals", d.Referrals, []string{"pending", "closed"}},
		{"invoices", d.Invoices, []string{"outstanding", "overdue"}},
	}
	for _, s := range sections {
		highlights := ""
		for i, key := range s.keys {
			if i > 0 {
				highlights += " "
			}
			highlights += fmt.Sprintf("%s=%d", key, s.stats.Counter(key))
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.name, s.stats.Total, highlights)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "revenue billed=%d collected=%d outstanding=%d (minor units)\n",
		d.Revenue.BilledCents, d.Revenue.CollectedCents, d.Revenue.OutstandingCents)
}
