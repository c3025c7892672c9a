package main

import (
	"fmt"
	"log"
	"os"

	"landmark-editor/internal/app"
	"landmark-editor/internal/config"
	"landmark-editor/internal/landmark"
	"landmark-editor/internal/project"
	"landmark-editor/internal/version"
	"landmark-editor/ui/mainwindow"
	"landmark-editor/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const appID = "io.github.landmark-editor"

// Terminal colors
var (
	brand  = color.New(color.FgHiRed, color.Bold)
	subtle = color.New(color.FgHiBlack)
	info   = color.New(color.FgCyan)
	good   = color.New(color.FgGreen)
)

type rootOptions struct {
	configPath string
	imagePath  string
	pointsPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:     "landmark-editor",
		Short:   "Place and drag labeled landmarks on an image",
		Version: version.String(),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(opts)
		},
		SilenceUsage: true,
	}
	root.SetVersionTemplate("landmark-editor {{ .Version }}\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/landmark-editor/config.toml)")
	root.Flags().StringVar(&opts.imagePath, "image", "", "backdrop image (TIFF, PNG, or JPEG)")
	root.Flags().StringVar(&opts.pointsPath, "points", "", "landmark file to open (.json, .yaml)")

	root.AddCommand(
		showCmd(opts),
		initConfigCmd(),
	)
	return root
}

// runGUI opens the main window and blocks until it is closed.
func runGUI(opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log.Printf("Starting Landmark Editor v%s", version.Version)

	style, err := cfg.Style()
	if err != nil {
		return err
	}

	// Points first: a landmark file replaces the backdrop, --image overrides it
	state := app.NewState(cfg)
	if opts.pointsPath != "" {
		if err := state.LoadProject(opts.pointsPath); err != nil {
			return err
		}
	}
	if opts.imagePath != "" {
		if err := state.LoadImage(opts.imagePath); err != nil {
			return err
		}
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(app.NewTheme(style))

	win, err := mainwindow.New(fyneApp, state, prefs.Load())
	if err != nil {
		return err
	}
	win.RestoreLastImage()
	win.ShowAndRun()
	return nil
}

func showCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the landmarks in a landmark file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			f, err := project.Load(args[0])
			if err != nil {
				return err
			}
			reg := landmark.NewRegistry(cfg.RegistryOptions())
			if err := f.Apply(reg); err != nil {
				return err
			}
			printLandmarks(cmd, args[0], f, reg)
			return nil
		},
	}
}

func printLandmarks(cmd *cobra.Command, path string, f *project.File, reg *landmark.Registry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", brand.Sprint(path), subtle.Sprintf("(version %d, %d points)", f.Version, reg.Len()))
	if f.ImagePath != "" {
		fmt.Fprintf(out, "  image: %s\n", f.ImagePath)
	}
	for _, label := range reg.Labels() {
		chain := reg.Chain(label)
		kind := fmt.Sprintf("%d points", len(chain))
		if reg.IsSingleton(label) {
			kind = "singleton"
		}
		fmt.Fprintf(out, "\n  %s %s\n", info.Sprint(label), subtle.Sprint(kind))
		for _, p := range chain {
			fmt.Fprintf(out, "    %-16s %8.1f %8.1f\n", p.Name(), p.X(), p.Y())
		}
	}
}

func initConfigCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			if len(args) == 1 {
				path = args[0]
			}
			if !force && fileExists(path) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", good.Sprint("ok"), path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
