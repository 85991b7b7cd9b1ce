package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
)

// Execute runs the navplanner command tree
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "navplanner",
		Short:        "Derive a navigation graph from a BSP partition and route across it",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newRouteCmd())
	root.AddCommand(newGraphCmd())
	return root
}

type configKey struct{}

func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(configKey{}).(Config); ok {
		return cfg
	}
	return DefaultConfig()
}

// loadObstacles reads the configured no-fly zones, if any
func loadObstacles(cfg Config, logger *log.Logger) ([]orb.Polygon, error) {
	if cfg.Obstacles.Dir == "" {
		return nil, nil
	}
	return LoadNoFlyZones(cfg.Obstacles.Dir, logger)
}

// plannerFromContext builds a planner from the command's config
func plannerFromContext(ctx context.Context) (*Planner, error) {
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)

	obstacles, err := loadObstacles(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewPlanner(cfg.BSP, obstacles, logger)
}

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve build, route and graph endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)
			if addr != "" {
				cfg.Server.Addr = addr
			}

			obstacles, err := loadObstacles(cfg, logger)
			if err != nil {
				return err
			}

			srv := newServer(cfg, obstacles, logger)
			logger.Info("server starting",
				"addr", cfg.Server.Addr,
				"endpoints", []string{"POST /build", "POST /route", "POST /transform", "GET /graph", "GET /health"})
			return http.ListenAndServe(cfg.Server.Addr, srv.routes())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func newRouteCmd() *cobra.Command {
	var (
		from, to  string
		asGeoJSON bool
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Print the shortest route between the nodes nearest two points",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parsePoint(from)
			if err != nil {
				return err
			}
			end, err := parsePoint(to)
			if err != nil {
				return err
			}

			planner, err := plannerFromContext(cmd.Context())
			if err != nil {
				return err
			}

			route, err := planner.Route(start, end)
			if err != nil {
				return err
			}
			if !route.Found() {
				return fmt.Errorf("no route from %v to %v", start, end)
			}

			out := cmd.OutOrStdout()
			if asGeoJSON {
				cfg := configFromContext(cmd.Context())
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(planner.RouteFeature(route, cfg.Render.SimplifyTolerance))
			}

			for i, p := range route.Points(planner.Path) {
				fmt.Fprintf(out, "%d\t%d\t%.4f\t%.4f\n", i, route.Nodes[i], p[0], p[1])
			}
			fmt.Fprintf(out, "cost\t%.4f\n", route.Cost)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "start point as x,y")
	cmd.Flags().StringVar(&to, "to", "", "end point as x,y")
	cmd.Flags().BoolVar(&asGeoJSON, "geojson", false, "print the route as a GeoJSON feature, thinned by render.simplify_tolerance")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the navigation graph as GeoJSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, err := plannerFromContext(cmd.Context())
			if err != nil {
				return err
			}

			cfg := configFromContext(cmd.Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(planner.Render(cfg.Render.SimplifyTolerance).FeatureCollection())
		},
	}
}
