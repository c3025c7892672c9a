// Command dragreplay replays a scripted drag session headlessly and writes
// the final frame and landmarks.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"landmark-editor/internal/config"
	bgimage "landmark-editor/internal/image"
	"landmark-editor/internal/project"
	"landmark-editor/internal/render"
	"landmark-editor/internal/replay"
)

func main() {
	scriptPath := flag.String("script", "", "Path to replay script (YAML or JSON)")
	configPath := flag.String("config", "", "Path to config file (default: user config)")
	imagePath := flag.String("image", "", "Optional backdrop image (TIFF, PNG, or JPEG)")
	outPNG := flag.String("png", "", "Write the final frame to this PNG file")
	outPoints := flag.String("points", "", "Write the final landmarks to this file (.json, .yaml)")
	zoom := flag.Float64("zoom", 1.0, "Pixels per data unit")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Println("Usage: dragreplay -script <path> [-config file] [-image file] [-png out.png] [-points out.json] [-zoom 1]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	style, err := cfg.Style()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid style: %v\n", err)
		os.Exit(1)
	}

	script, err := replay.Load(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load script: %v\n", err)
		os.Exit(1)
	}
	if script.MarkerSize == 0 {
		script.MarkerSize = cfg.Marker.Size
	}
	if script.Singletons == nil {
		script.Singletons = cfg.Labels.Singletons
	}

	opts := []render.Option{render.WithStyle(style), render.WithZoom(*zoom)}
	if *imagePath != "" {
		b, err := bgimage.Load(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded %s backdrop: %dx%d pixels\n", b.Format, b.Width(), b.Height())
		opts = append(opts, render.WithBackdrop(b.Image))
	}

	res, err := script.Run(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Replayed %d steps:\n", len(res.Steps))
	fmt.Printf("%-4s %-14s %8s %8s %-9s %-9s %s\n", "#", "Action", "X", "Y", "Accepted", "State", "Holder")
	for i, st := range res.Steps {
		fmt.Printf("%-4d %-14s %8.1f %8.1f %-9v %-9s %s\n",
			i, st.Step.Action, st.Step.X, st.Step.Y, st.Accepted, st.State, st.Holder)
	}

	stats := res.Renderer.Stats()
	fmt.Printf("\nRenderer: %d snapshots, %d restores, %d composites (%d px), %d full redraws\n",
		stats.Snapshots, stats.Restores, stats.Composites, stats.CompositedPixels, stats.FullRedraws)

	if *outPNG != "" {
		f, err := os.Create(*outPNG)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *outPNG, err)
			os.Exit(1)
		}
		err = png.Encode(f, res.Renderer.Visible())
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outPNG, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote frame to %s\n", *outPNG)
	}

	if *outPoints != "" {
		out := project.FromRegistry(res.Registry)
		if *imagePath != "" {
			out.SetImage(*outPoints, *imagePath)
		}
		if err := out.Save(*outPoints); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", *outPoints, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d landmarks to %s\n", len(out.Landmarks), *outPoints)
	}
}
