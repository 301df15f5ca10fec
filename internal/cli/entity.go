package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/clinic-admin-api/internal/dataview"
	"github.com/noah-isme/clinic-admin-api/pkg/apiclient"
	"github.com/noah-isme/clinic-admin-api/pkg/export"
	"github.com/noah-isme/clinic-admin-api/pkg/storage"
)

type entity[R any] struct {
	app      *app
	name     string
	view     *dataview.View[R]
	resource func(*apiclient.Client) *apiclient.Resource[R]
}

func entityCommand[R any](a *app, name string, view *dataview.View[R], resource func(*apiclient.Client) *apiclient.Resource[R]) *cobra.Command {
	e := &entity[R]{app: a, name: name, view: view, resource: resource}
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Work with %s", name),
	}
	cmd.AddCommand(e.listCommand(), e.statsCommand(), e.exportCommand())
	return cmd
}

func (e *entity[R]) fetchAll(cmd *cobra.Command) ([]R, error) {
	records, err := e.resource(e.app.api()).All(cmd.Context(), apiclient.ListParams{ClinicID: e.app.clinicID})
	if err != nil {
		return nil, e.app.failure("load "+e.name, err)
	}
	return records, nil
}

func (e *entity[R]) listCommand() *cobra.Command {
	var (
		search  string
		sortBy  string
		filters []string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s with search, filters and sorting", e.name),
		Long: fmt.Sprintf("Fetches every %s record and filters and orders it locally.\nFilter keys: %s\nSort modes: %s",
			e.name, strings.Join(e.view.FilterKeys(), ", "), strings.Join(e.view.SortModes(), ", ")),
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := parseFilters(filters)
			if err != nil {
				return err
			}
			records, err := e.fetchAll(cmd)
			if err != nil {
				return err
			}
			result := e.view.Apply(records, dataview.Query{Filters: state, Search: search, Sort: sortBy}, e.app.now())
			items := result.Items
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			printTable(e.app.out, e.view.Dataset(items))
			fmt.Fprintf(e.app.out, "\n%d of %d %s\n", len(result.Items), result.Stats.Total, e.name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive search term")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort mode")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as key=value, repeatable")
	cmd.Flags().IntVar(&limit, "limit", 0, "Print at most this many rows")
	return cmd
}

func (e *entity[R]) statsCommand() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: fmt.Sprintf("Show %s counters", e.name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if local {
				records, err := e.fetchAll(cmd)
				if err != nil {
					return err
				}
				printStats(e.app.out, e.view.Aggregate(records, e.view.Clock(e.app.now())))
				return nil
			}
			stats, err := e.resource(e.app.api()).Stats(cmd.Context(), e.app.clinicID)
			if err != nil {
				return e.app.failure("load "+e.name+" stats", err)
			}
			printStats(e.app.out, stats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Compute counters from the fetched collection instead of the server")
	return cmd
}

func (e *entity[R]) exportCommand() *cobra.Command {
	var (
		formatRaw string
		out       string
		remote    bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: fmt.Sprintf("Export every %s record to CSV or PDF", e.name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := export.ParseFormat(formatRaw)
			if err != nil {
				return err
			}
			var body []byte
			if remote {
				var name string
				body, name, err = e.resource(e.app.api()).Download(cmd.Context(), string(format))
				if err != nil {
					return e.app.failure("export "+e.name, err)
				}
				if out == "" && name != "" {
					out = filepath.Base(name)
				}
			} else {
				records, err := e.fetchAll(cmd)
				if err != nil {
					return err
				}
				if body, err = render(format, e.name, e.view.Dataset(records)); err != nil {
					return err
				}
			}
			if out == "" {
				out = fmt.Sprintf("%s_%s.%s", e.name, e.app.now().Format("20060102_150405"), format.Extension())
			}
			path, err := storage.SaveFile(out, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.app.out, "wrote %s (%d bytes)\n", path, len(body))
			return nil
		},
	}
	cmd.Flags().StringVar(&formatRaw, "format", "csv", "csv or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	cmd.Flags().BoolVar(&remote, "remote", false, "Download the server-rendered file")
	return cmd
}

func render(format export.Format, name string, data export.Dataset) ([]byte, error) {
	switch format {
	case export.FormatPDF:
		return export.NewPDFExporter().Render(data, strings.ToUpper(name[:1])+name[1:])
	default:
		return export.NewCSVExporter().Render(data)
	}
}

func parseFilters(raw []string) (dataview.FilterState, error) {
	state := dataview.FilterState{}
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q, want key=value", pair)
		}
		state[key] = strings.TrimSpace(value)
	}
	return state, nil
}
