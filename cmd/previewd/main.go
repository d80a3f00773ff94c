// previewd is a soak-test harness for the incremental lighting engine: it
// feeds a procedurally generated scene into an engine.Engine, lets it run
// for a fixed duration, prints per-light refinement stats, and optionally
// dumps the last composited frame to a PNG for visual inspection. It is not
// a renderer front-end; a real host supplies its own camera and G-buffers
// over engine.Engine's channels the way this harness does synthetically.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/achilleasa/lumenpreview/engine"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "previewd"
	app.Usage = "run the incremental lighting preview engine against a synthetic scene"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "v", Usage: "enable verbose logging"},
		cli.BoolFlag{Name: "vv", Usage: "enable even more verbose logging"},
	}
	app.Commands = []cli.Command{
		{
			Name:  "soak",
			Usage: "run the engine against a synthetic scene for a fixed duration",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "width", Value: 128, Usage: "G-buffer width"},
				cli.IntFlag{Name: "height", Value: 128, Usage: "G-buffer height"},
				cli.IntFlag{Name: "lights", Value: 8, Usage: "number of orbiting point lights"},
				cli.DurationFlag{Name: "duration", Value: 5 * time.Second, Usage: "how long to run the engine"},
				cli.DurationFlag{Name: "resend", Value: 10 * time.Second, Usage: "DisplayResult resend cadence"},
				cli.StringFlag{Name: "dump-png", Usage: "write the last composited frame to this PNG path"},
			},
			Action: runSoak,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runSoak(ctx *cli.Context) error {
	setupLogging(ctx)

	width := uint32(ctx.Int("width"))
	height := uint32(ctx.Int("height"))
	numLights := ctx.Int("lights")
	if numLights < 1 {
		numLights = 1
	}

	opts := engine.DefaultOptions()
	opts.ResendInterval = ctx.Duration("resend")

	e := engine.New(opts)
	sc := newSyntheticScene(width, height, numLights)
	sc.feed(e)

	runCtx, cancel := context.WithTimeout(context.Background(), ctx.Duration("duration"))
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case msg, ok := <-e.Outbound():
				if !ok {
					return
				}
				if dr, ok := msg.(engine.DisplayResultMessage); ok {
					logger.Debugf("received DisplayResult frame generation=%d", dr.Generation)
				}
			case <-runCtx.Done():
				return
			}
		}
	}()

	logger.Noticef("running engine against a %dx%d scene with %d lights for %s", width, height, numLights, ctx.Duration("duration"))
	e.Run(runCtx)
	<-done

	displayStats(e.Stats())

	if path := ctx.String("dump-png"); path != "" {
		if err := dumpPNG(e, path); err != nil {
			return err
		}
	}

	return nil
}

func displayStats(stats engine.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Light", "State", "Level", "Contribution"})
	for _, l := range stats.Lights {
		table.Append([]string{
			l.ObjectID,
			l.State,
			fmt.Sprintf("%d", l.Level),
			fmt.Sprintf("%.6f", l.TotalContribution),
		})
	}
	table.Render()
	logger.Noticef("scheduler ran %d iterations\n%s", stats.Iterations, buf.String())
}

func dumpPNG(e *engine.Engine, path string) error {
	bitmap := e.LastBitmap()
	if bitmap == nil {
		return fmt.Errorf("no composited frame available to dump")
	}

	img := image.NewRGBA(image.Rect(0, 0, int(bitmap.W), int(bitmap.H)))
	for y := 0; y < int(bitmap.H); y++ {
		for x := 0; x < int(bitmap.W); x++ {
			off := (y*int(bitmap.W) + x) * 4
			b, g, r := bitmap.Pix[off], bitmap.Pix[off+1], bitmap.Pix[off+2]
			img.Set(x, y, rgbaColor{r, g, b, 255})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", path)
	return nil
}

type rgbaColor struct {
	r, g, b, a byte
}

func (c rgbaColor) RGBA() (r, g, b, a uint32) {
	return uint32(c.r) * 0x101, uint32(c.g) * 0x101, uint32(c.b) * 0x101, uint32(c.a) * 0x101
}
