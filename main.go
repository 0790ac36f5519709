package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"shardexec/pkg/config"
	"shardexec/pkg/datasource"
	"shardexec/pkg/execution"
	"shardexec/pkg/logging"
	"shardexec/pkg/metrics"
	"shardexec/pkg/plan"
	"shardexec/pkg/planner"
	"shardexec/pkg/route"
	"shardexec/pkg/tuple"
	"shardexec/pkg/types"
)

type queryOptions struct {
	columns     string
	params      []string
	dataSources []string
	orderBy     string
	offset      int64
	fetch       int64
	mode        string
	explain     bool
	showMetrics bool
	timeout     time.Duration
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "shardexec",
		Short:        "Run SQL across sharded data sources and merge the results",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "shardexec.toml", "path to the TOML configuration")

	root.AddCommand(
		newQueryCommand(&configPath),
		newPingCommand(&configPath),
		newExporterCommand(&configPath),
	)
	return root
}

func newPingCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that every configured data source is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logging.Close()

			m, err := datasource.Open(cfg.DataSources)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.PingAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d data sources reachable\n", len(m.Names()))
			return nil
		},
	}
}

func newExporterCommand(configPath *string) *cobra.Command {
	var (
		listen   string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "exporter",
		Short: "Serve Prometheus metrics and probe the configured data sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logging.Close()

			m, err := datasource.Open(cfg.DataSources)
			if err != nil {
				return err
			}
			defer m.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return metrics.NewExporter(listen, m, interval).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", ":9100", "address to serve /metrics and /health on")
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "data source probe interval")
	return cmd
}

func newQueryCommand(configPath *string) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Scan every routed data source with SQL and print the merged rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, *configPath, args[0], opts)
		},
	}

	cmd.Example = `  shardexec query -c shardexec.toml --columns order_id:INT,status:STRING \
    --order-by 0:desc --fetch 10 --param 10 \
    "SELECT order_id, status FROM t_order WHERE user_id = ?"`

	f := cmd.Flags()
	f.StringVar(&opts.columns, "columns", "", "result shape as name:TYPE pairs separated by commas")
	f.StringArrayVar(&opts.params, "param", nil, "positional statement parameter, repeatable")
	f.StringSliceVar(&opts.dataSources, "data-source", nil, "data sources to route to (default all)")
	f.StringVar(&opts.orderBy, "order-by", "", "sort keys as column[:asc|:desc] separated by commas")
	f.Int64Var(&opts.offset, "offset", 0, "rows to skip after ordering")
	f.Int64Var(&opts.fetch, "fetch", -1, "rows to return after the offset, -1 for all")
	f.StringVar(&opts.mode, "mode", "auto", "connection mode: auto, memory or stream")
	f.BoolVar(&opts.explain, "explain", false, "print the plan instead of running it")
	f.BoolVar(&opts.showMetrics, "metrics", false, "print engine counters after the rows")
	f.DurationVar(&opts.timeout, "timeout", 0, "statement timeout, 0 for none")
	_ = cmd.MarkFlagRequired("columns")
	return cmd
}

func setup(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logging.Init(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runQuery(cmd *cobra.Command, configPath, sql string, opts *queryOptions) error {
	cfg, err := setup(configPath)
	if err != nil {
		return err
	}
	defer logging.Close()

	node, err := buildPlan(sql, opts)
	if err != nil {
		return err
	}
	if opts.explain {
		fmt.Fprintln(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()).explain(plan.Explain(node)))
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	m, err := datasource.Open(cfg.DataSources)
	if err != nil {
		return err
	}
	defer m.Close()

	names := opts.dataSources
	if len(names) == 0 {
		names = cfg.DataSourceNames()
	}
	if len(names) == 0 {
		return fmt.Errorf("no data sources configured")
	}
	first, err := m.Get(names[0])
	if err != nil {
		return err
	}

	engine, err := execution.NewExecutorEngine(cfg.Props.ExecutorSize)
	if err != nil {
		return err
	}
	defer engine.Release()

	params := make([]any, len(opts.params))
	for i, p := range opts.params {
		params[i] = parseParam(p)
	}

	execCtx := execution.NewContext(sql, params,
		execution.WithGoContext(ctx),
		execution.WithRoute(route.Broadcast(names...)),
		execution.WithDatabaseType(first.Type),
		execution.WithProps(cfg.Props),
		execution.WithConnections(m),
		execution.WithExecutorEngine(engine),
	)
	log := logging.WithQuery(execCtx.QueryID())
	log.Info("running query", zap.Strings("data_sources", names))

	rs, err := planner.NewBuilder(execCtx).Query(node)
	if err != nil {
		return err
	}
	defer rs.Close()

	if err := render(cmd, rs); err != nil {
		return err
	}
	if opts.showMetrics {
		return renderMetrics(cmd)
	}
	return nil
}

type rowSource interface {
	ColumnCount() int
	ColumnLabel(columnIndex int) (string, error)
	Next() (bool, error)
	GetField(columnIndex int) (types.Field, error)
}

func render(cmd *cobra.Command, rs rowSource) error {
	n := rs.ColumnCount()
	header := make([]string, n)
	for i := range header {
		label, err := rs.ColumnLabel(i + 1)
		if err != nil {
			return err
		}
		header[i] = label
	}

	st := newStyles(cmd.OutOrStdout())
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)

	count := 0
	for {
		ok, err := rs.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row := make([]string, n)
		for i := range row {
			f, err := rs.GetField(i + 1)
			if err != nil {
				return err
			}
			if f == nil {
				row[i] = st.null
			} else {
				row[i] = f.String()
			}
		}
		table.Append(row)
		count++
	}
	table.Render()
	fmt.Fprintln(cmd.OutOrStdout(), st.rowCount(count))
	return nil
}

func renderMetrics(cmd *cobra.Command) error {
	families, err := metrics.Registry().Gather()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"metric", "labels", "value"})
	table.SetAutoFormatHeaders(false)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			var value string
			switch {
			case m.GetCounter() != nil:
				value = strconv.FormatFloat(m.GetCounter().GetValue(), 'g', -1, 64)
			case m.GetHistogram() != nil:
				value = fmt.Sprintf("count=%d sum=%g", m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			default:
				continue
			}
			table.Append([]string{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	table.Render()
	return nil
}

func buildPlan(sql string, opts *queryOptions) (plan.PlanNode, error) {
	columns, err := parseColumns(opts.columns)
	if err != nil {
		return nil, err
	}
	mode, err := parseMode(opts.mode)
	if err != nil {
		return nil, err
	}
	var node plan.PlanNode = &plan.ScanNode{SQL: sql, Columns: columns, Mode: mode}

	offset := plan.LimitValue{}
	if opts.offset > 0 {
		offset = plan.LimitOf(opts.offset)
	}
	fetch := plan.LimitValue{}
	if opts.fetch >= 0 {
		fetch = plan.LimitOf(opts.fetch)
	}

	if opts.orderBy != "" {
		collation, err := parseCollation(opts.orderBy)
		if err != nil {
			return nil, err
		}
		return &plan.LimitSortNode{Input: node, Collation: collation, Offset: offset, Fetch: fetch}, nil
	}
	if offset.IsSet() || fetch.IsSet() {
		return &plan.LimitNode{Input: node, Offset: offset, Fetch: fetch}, nil
	}
	return node, nil
}

func parseColumns(s string) ([]tuple.Column, error) {
	var columns []tuple.Column
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typeName, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("column %q: want name:TYPE", part)
		}
		t, ok := types.ParseType(typeName)
		if !ok {
			return nil, fmt.Errorf("column %q: unknown type %q", name, typeName)
		}
		columns = append(columns, tuple.Column{Name: name, Type: t, Nullable: true})
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	return columns, nil
}

func parseCollation(s string) (plan.Collation, error) {
	var collation plan.Collation
	for _, part := range strings.Split(s, ",") {
		col, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		index, err := strconv.Atoi(col)
		if err != nil {
			return nil, fmt.Errorf("order-by %q: column must be an index", part)
		}
		switch strings.ToLower(dir) {
		case "", "asc":
			collation = append(collation, plan.Asc(index))
		case "desc":
			collation = append(collation, plan.Desc(index))
		default:
			return nil, fmt.Errorf("order-by %q: unknown direction %q", part, dir)
		}
	}
	return collation, nil
}

func parseMode(s string) (plan.ConnectionMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return plan.ModeAuto, nil
	case "memory":
		return plan.ModeMemory, nil
	case "stream":
		return plan.ModeStream, nil
	}
	return 0, fmt.Errorf("unknown connection mode %q", s)
}

// parseParam binds integers and floats as numbers and everything else as text.
func parseParam(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if strings.EqualFold(s, "null") {
		return nil
	}
	return s
}
