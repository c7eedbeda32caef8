// Package main is the entry point for the OBJ model viewer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/assets"
	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/engine/camera"
	"github.com/Faultbox/objmesh/internal/engine/gpu"
	"github.com/Faultbox/objmesh/internal/engine/input"
	"github.com/Faultbox/objmesh/internal/engine/scene"
	"github.com/Faultbox/objmesh/internal/engine/window"
	"github.com/Faultbox/objmesh/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()
	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objview [options] <model.obj>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg, flag.Arg(0)); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, path string) error {
	win, err := window.New(cfg.Viewer)
	if err != nil {
		return err
	}
	defer win.Close()

	if err := gpu.Init(); err != nil {
		return err
	}

	mgr, err := assets.NewManager(assets.OptionsFromConfig(cfg), &gpu.Textures{MaxAnisotropy: 8})
	if err != nil {
		return err
	}
	defer mgr.Close()

	model, err := mgr.LoadModel(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	sc, err := scene.New()
	if err != nil {
		return err
	}
	defer sc.Close()

	objects, err := sc.AddModel(model, mgl32.Ident4())
	if err != nil {
		return err
	}

	var drawn int32
	for _, obj := range sc.Objects() {
		drawn += obj.Mesh.IndexCount()
	}
	vertices, _ := model.Counts()
	logger.Info("model ready",
		zap.String("path", path),
		zap.Int("objects", objects),
		zap.Int("vertices", vertices),
		zap.Int32("triangles", drawn/3),
		zap.Int("warnings", len(model.Warnings)),
	)
	win.SetTitle(fmt.Sprintf("%s - %s", cfg.Viewer.Title, model.Name))

	cam := camera.NewOrbitCamera()
	bounds := model.Bounds()
	cam.FitBounds(bounds)

	in := input.New()
	for !in.Update() {
		for _, e := range in.Events() {
			switch e.Type {
			case input.EventDrag:
				cam.HandleDrag(e.DX, e.DY)
			case input.EventWheel:
				cam.HandleZoom(e.DY)
			}
		}
		if in.IsKeyPressed(sdl.SCANCODE_R) {
			cam.FitBounds(bounds)
		}

		width, height := win.Size()
		sc.Render(cam.ViewMatrix(), cam.ProjectionMatrix(win.Aspect()), width, height)
		win.SwapBuffers()
	}

	logger.Info("viewer closed normally")
	return nil
}
