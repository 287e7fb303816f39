// SlabTile computes tiling layouts for rectangular rooms and exports
// reports, drawings and cut programs for them.
//
// Build:
//
//	go build -o slabtile ./cmd/slabtile
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlabTile/internal/logging"
	"github.com/piwi3910/SlabTile/internal/project"
	"github.com/piwi3910/SlabTile/internal/server"
)

type globalFlags struct {
	verbose    bool
	logFormat  string
	configPath string
}

// templatesPath and profilesPath live next to the config file.
func (g *globalFlags) templatesPath() string {
	return filepath.Join(filepath.Dir(g.configPath), "templates.json")
}

func (g *globalFlags) profilesPath() string {
	return filepath.Join(filepath.Dir(g.configPath), "profiles.json")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:   "slabtile",
		Short: "Tile layout calculator for rectangular rooms",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := logging.ParseLevel("warn")
			if g.verbose {
				level = logging.ParseLevel("debug")
			}
			logging.SetLogger(logging.New(cmd.ErrOrStderr(), level, g.logFormat))
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "Log format: text or json")
	root.PersistentFlags().StringVar(&g.configPath, "config", project.DefaultConfigPath(), "Path to the application config")

	root.AddCommand(layoutCmd(&g))
	root.AddCommand(compareCmd())
	root.AddCommand(optimizeCmd())
	root.AddCommand(exportCmd(&g))
	root.AddCommand(importCmd(&g))
	root.AddCommand(templateCmd(&g))
	root.AddCommand(profileCmd(&g))
	root.AddCommand(backupCmd(&g))
	root.AddCommand(restoreCmd(&g))
	root.AddCommand(serveCmd(&g))

	return root
}

func layoutCmd(g *globalFlags) *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout [spec.yaml]",
		Short: "Lay out every room of a spec and print the quantities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), cmd.OutOrStdout(), g.configPath, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.room, "room", "r", "", "Only lay out the room with this label or ID")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the layout results as JSON")
	cmd.Flags().StringVarP(&opts.save, "save", "s", "", "Save each room as a project file in this directory")
	return cmd
}

func compareCmd() *cobra.Command {
	var room string

	cmd := &cobra.Command{
		Use:   "compare [spec.yaml]",
		Short: "Compare laying patterns for each room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), cmd.OutOrStdout(), args[0], room)
		},
	}

	cmd.Flags().StringVarP(&room, "room", "r", "", "Only compare the room with this label or ID")
	return cmd
}

func optimizeCmd() *cobra.Command {
	var opts optimizeOptions

	cmd := &cobra.Command{
		Use:   "optimize [spec.yaml]",
		Short: "Search the grid start offset that leaves the fewest cut tiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	defaults := defaultOptimizeOptions()
	cmd.Flags().StringVarP(&opts.room, "room", "r", "", "Only optimize the room with this label or ID")
	cmd.Flags().IntVar(&opts.population, "population", defaults.population, "Population size")
	cmd.Flags().IntVar(&opts.generations, "generations", defaults.generations, "Number of generations")
	cmd.Flags().Int64Var(&opts.seed, "seed", defaults.seed, "Random seed")
	cmd.Flags().Float64Var(&opts.minCutFraction, "sliver", defaults.minCutFraction, "Tile share below which a cut tile is a sliver")
	return cmd
}

func exportCmd(g *globalFlags) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [spec.yaml]",
		Short: "Write reports, drawings and cut programs for every room",
		Long: "Write reports, drawings and cut programs for every room.\n" +
			"Without a format flag every format is written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd.OutOrStdout(), g, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "Output directory")
	cmd.Flags().StringVarP(&opts.room, "room", "r", "", "Only export the room with this label or ID")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "Write a PDF layout report")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "Write QR labels for the cut tiles")
	cmd.Flags().BoolVar(&opts.dxf, "dxf", false, "Write a DXF drawing")
	cmd.Flags().BoolVar(&opts.xlsx, "xlsx", false, "Write an XLSX tile schedule")
	cmd.Flags().BoolVar(&opts.png, "png", false, "Write a PNG preview")
	cmd.Flags().BoolVar(&opts.gcode, "gcode", false, "Write one GCode program per cut tile")
	cmd.Flags().BoolVar(&opts.cutPlan, "cut-plan", false, "Write the cut plan as JSON")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "GCode profile name (overrides the configured one)")
	return cmd
}

func importCmd(g *globalFlags) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import [rooms.csv|rooms.xlsx|plan.dxf|-]",
		Short: "Read rooms from a CSV, XLSX or DXF file, or CSV on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.InOrStdin(), cmd.OutOrStdout(), g.configPath, args[0], out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the rooms to a new YAML spec")
	return cmd
}

func serveCmd(g *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [spec.yaml]",
		Short: "Start the layout HTTP API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var spec *project.Spec
			if len(args) == 1 {
				s, err := project.LoadSpec(args[0])
				if err != nil {
					return err
				}
				spec = s
			}
			store, err := project.LoadTemplates(g.templatesPath())
			if err != nil {
				return err
			}
			return server.New(spec, store, port).Start(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
