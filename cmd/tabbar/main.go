package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/stayliquid/tabbar"
	"github.com/stayliquid/tabbar/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┌┬┐┌─┐┌┐ ┌┐ ┌─┐┬─┐
 │ ├─┤├┴┐├┴┐├─┤├┬┘
 ┴ ┴ ┴└─┘└─┘┴ ┴┴└─

Tab bar icon resolution tool.
    Version: %s

`

// Version indicates the current build version.
var Version string

var (
	// Flags
	configPath = flag.String("config", "", "Tab bar configuration file (JSON)")
	outDir     = flag.String("out", ".", "Output directory for the composited icons")
	iconSize   = flag.Int("size", tabbar.DefaultIconSize, "Icon target box edge in pixels")
	timeout    = flag.Duration("timeout", 30*time.Second, "Resolution deadline")
	selectID   = flag.String("select", "", "Tab id to select before rendering")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *configPath == "" {
		log.Fatal(utils.DecorateText("Please provide a configuration file through the -config flag!", utils.ErrorMessage))
	}

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to read the configuration file: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	var cfg tabbar.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to parse the configuration file: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
	if *selectID != "" {
		cfg.InitialID = *selectID
	}

	// Count the tabs carrying an image icon so we know when every
	// resolution has settled.
	pending := 0
	for _, it := range cfg.Items {
		if it.ImageIcon != nil {
			pending++
		}
	}

	done := make(chan string, pending)
	bar := tabbar.New(
		tabbar.WithIconSize(*iconSize),
		tabbar.WithResolveHook(func(id string, _ tabbar.IconState) {
			done <- id
		}),
	)

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ TABBAR", utils.StatusMessage),
		utils.DecorateText("is resolving the icons...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, term.IsTerminal(int(os.Stderr.Fd())))
	spinner.Start()

	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := bar.Configure(ctx, cfg); err != nil {
		spinner.Stop()
		log.Fatalf(
			utils.DecorateText("Invalid tab bar configuration: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	settled := 0
	for settled < pending {
		select {
		case <-done:
			settled++
		case <-ctx.Done():
			settled = pending
		}
	}
	spinner.Stop()

	snap := bar.Snapshot()
	for _, id := range snap.IDs {
		display, _ := bar.DisplayIcon(id)

		switch {
		case display.Bitmap != nil:
			dest := filepath.Join(*outDir, id+".png")
			if err := writePNG(dest, display); err != nil {
				log.Fatalf(
					utils.DecorateText("Failed to write the icon file: %v", utils.ErrorMessage),
					utils.DecorateText(err.Error(), utils.DefaultMessage),
				)
			}
			fmt.Printf("%s %s → %s\n",
				utils.DecorateText("✔", utils.SuccessMessage), id, dest)
		case display.SystemIcon != "":
			fmt.Printf("%s %s → system icon %q (%s)\n",
				utils.DecorateText("●", utils.StatusMessage), id, display.SystemIcon, snap.States[id])
		case display.Asset != "":
			fmt.Printf("%s %s → bundled asset %q (%s)\n",
				utils.DecorateText("●", utils.StatusMessage), id, display.Asset, snap.States[id])
		default:
			fmt.Printf("%s %s → empty glyph (%s)\n",
				utils.DecorateText("○", utils.DefaultMessage), id, snap.States[id])
		}
	}

	fmt.Printf("\nResolved in: %s%s%s\n",
		utils.SuccessColor,
		utils.FormatTime(time.Since(now)),
		utils.DefaultColor,
	)
}

// writePNG encodes the composited bitmap into the destination file.
func writePNG(dest string, d tabbar.Display) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, d.Bitmap)
}
