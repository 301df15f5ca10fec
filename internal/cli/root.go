// Package cli implements the clinicctl commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/clinic-admin-api/internal/views"
	"github.com/noah-isme/clinic-admin-api/pkg/apiclient"
	"github.com/noah-isme/clinic-admin-api/pkg/config"
)

const loginHint = "session rejected: export a fresh CLINIC_API_TOKEN and retry"

// Options carries process-level collaborators into the command tree.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer
	Err    io.Writer
	Now    func() time.Time
}

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
	catalog *views.Catalog

	baseURL  string
	clinicID string
	client   *apiclient.Client
}

// NewRootCommand builds the clinicctl command tree.
func NewRootCommand(opts Options) *cobra.Command {
	a := &app{cfg: opts.Config, logger: opts.Logger, out: opts.Out, errOut: opts.Err, now: opts.Now}
	if a.cfg == nil {
		a.cfg = &config.Config{}
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if a.errOut == nil {
		a.errOut = os.Stderr
	}
	if a.now == nil {
		a.now = time.Now
	}
	a.out, a.errOut = &lockedWriter{w: a.out}, &lockedWriter{w: a.errOut}
	a.catalog = views.NewCatalog(a.cfg.View.Location(), views.ParseLocale(a.cfg.View.Locale))

	root := &cobra.Command{
		Use:           "clinicctl",
		Short:         "Clinic admin command line client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", a.cfg.Client.BaseURL, "API base URL including the prefix")
	root.PersistentFlags().StringVar(&a.clinicID, "clinic", "", "Narrow a super-admin session to one clinic")

	cat := a.catalog
	root.AddCommand(
		entityCommand(a, "clinics", cat.Clinics, (*apiclient.Client).Clinics),
		entityCommand(a, "patients", cat.Patients, (*apiclient.Client).Patients),
		entityCommand(a, "doctors", cat.Doctors, (*apiclient.Client).Doctors),
		entityCommand(a, "nurses", cat.Nurses, (*apiclient.Client).Nurses),
		withWatch(a, entityCommand(a, "appointments", cat.Appointments, (*apiclient.Client).Appointments)),
		entityCommand(a, "referrals", cat.Referrals, (*apiclient.Client).Referrals),
		entityCommand(a, "invoices", cat.Invoices, (*apiclient.Client).Invoices),
		dashboardCommand(a),
	)
	return root
}

// api returns the shared client, built on first use so flags are honoured.
func (a *app) api() *apiclient.Client {
	if a.client != nil {
		return a.client
	}
	store := apiclient.NewMemoryStore(a.cfg.Client.Token)
	a.client = apiclient.New(apiclient.Config{BaseURL: a.baseURL, Timeout: a.cfg.Client.Timeout}, store, func() {
		fmt.Fprintln(a.errOut, loginHint)
	})
	return a.client
}

// failure converts a request error into the message shown to the user.
func (a *app) failure(action string, err error) error {
	a.logger.Debug("request failed", zap.String("action", action), zap.Error(err))
	return fmt.Errorf("%s: %s", action, apiclient.UserMessage(err, "the server could not be reached"))
}

// lockedWriter serialises writes from refresh goroutines and client hooks.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
