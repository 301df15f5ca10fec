package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/clinic-admin-api/internal/models"
	"github.com/noah-isme/clinic-admin-api/internal/watch"
	"github.com/noah-isme/clinic-admin-api/pkg/apiclient"
)

// withWatch adds `watch` to the appointments command.
func withWatch(a *app, cmd *cobra.Command) *cobra.Command {
	var (
		interval time.Duration
		count    int
	)
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh appointment counters on an interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			resource := a.api().Appointments()
			w := watch.New(a.catalog.Appointments, func(ctx context.Context) ([]models.Appointment, error) {
				records, err := resource.All(ctx, apiclient.ListParams{ClinicID: a.clinicID})
				if apiclient.IsUnauthorized(err) {
					cancel()
				}
				return records, err
			}, watch.Options{Interval: interval, Sequenced: true, Logger: a.logger, Now: a.now})

			var printed int32
			w.OnUpdate(func(s watch.Snapshot[models.Appointment]) {
				st := s.Stats
				fmt.Fprintf(a.out, "%s  total=%d scheduled=%d confirmed=%d completed=%d cancelled=%d today=%d upcoming=%d\n",
					s.FetchedAt.Format("15:04:05"), st.Total,
					st.Counter("scheduled"), st.Counter("confirmed"), st.Counter("completed"), st.Counter("cancelled"),
					st.Counter("todayCount"), st.Counter("upcomingCount"))
				if n := atomic.AddInt32(&printed, 1); count > 0 && int(n) >= count {
					cancel()
				}
			})

			err := w.Run(ctx)
			if fetchErr := w.Err(); fetchErr != nil && apiclient.IsUnauthorized(fetchErr) {
				return a.failure("watch appointments", fetchErr)
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	watchCmd.Flags().DurationVar(&interval, "interval", a.cfg.Dashboard.RefreshInterval, "Refresh interval")
	watchCmd.Flags().IntVar(&count, "count", 0, "Stop after this many refreshes")
	cmd.AddCommand(watchCmd)
	return cmd
}
