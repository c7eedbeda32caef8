// objtool is a CLI utility for inspecting Wavefront OBJ models.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/pkg/profile"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objmesh/internal/assets"
	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/engine/mesh"
	"github.com/Faultbox/objmesh/internal/engine/texture"
	"github.com/Faultbox/objmesh/internal/logger"
	"github.com/Faultbox/objmesh/pkg/wavefront"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "dump":
		cmdDump(args)
	case "checker":
		cmdChecker(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ model utility

Usage:
  objtool <command> [options]

Commands:
  info <model.obj>          Show materials, buffer sizes and texture bindings
  dump <model.obj>          Print interleaved vertices and indices
  checker <out.png>         Write the default checkerboard texture
  config                    Print or save the effective configuration

Model options:
  -config <file>            Config file (defaults apply otherwise)
  -scale <s|x,y,z>          Position scale
  -mtl <file>               Materials file (overrides mtllib)
  -textures <dir>           Texture directory
  -cpuprofile <dir>         Write a CPU profile to dir
  -v                        Debug logging

Examples:
  objtool info cube.obj
  objtool dump -material Wood -n 10 cube.obj
  objtool checker -res 64 -div 4 checker.png
  objtool config -scale 0.01 -save`)
}

// modelFlags are the options shared by commands that load a model.
type modelFlags struct {
	config     *string
	scale      *string
	mtl        *string
	textures   *string
	cpuprofile *string
	verbose    *bool
}

func addModelFlags(fs *flag.FlagSet) *modelFlags {
	return &modelFlags{
		config:     fs.String("config", "", "Config file"),
		scale:      fs.String("scale", "", "Position scale: s or x,y,z"),
		mtl:        fs.String("mtl", "", "Materials file"),
		textures:   fs.String("textures", "", "Texture directory"),
		cpuprofile: fs.String("cpuprofile", "", "Write a CPU profile to this directory"),
		verbose:    fs.Bool("v", false, "Debug logging"),
	}
}

// resolve merges the config file with the flag overrides.
func (f *modelFlags) resolve() *config.Config {
	cfg, err := config.LoadFile(*f.config)
	if err != nil {
		fatalf("%v", err)
	}
	if *f.scale != "" {
		if cfg.Model.Scale, err = config.ParseScale(*f.scale); err != nil {
			fatalf("invalid -scale: %v", err)
		}
	}
	if *f.mtl != "" {
		cfg.Model.MaterialsFile = *f.mtl
	}
	if *f.textures != "" {
		cfg.Model.TexturesDir = *f.textures
	}
	return cfg
}

// load initializes logging and loads the model named by the first
// positional argument. The returned func releases the textures and stops
// profiling.
func (f *modelFlags) load(fs *flag.FlagSet, usage string) (*assets.Model, func()) {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg := f.resolve()

	level := "warn"
	if *f.verbose {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		fatalf("logger: %v", err)
	}

	stop := func() {}
	if *f.cpuprofile != "" {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath(*f.cpuprofile), profile.Quiet)
		stop = p.Stop
	}

	mgr, err := assets.NewManager(assets.OptionsFromConfig(cfg), texture.NewRegistry())
	if err != nil {
		fatalf("%v", err)
	}

	model, err := mgr.LoadModel(fs.Arg(0))
	if err != nil {
		stop()
		var missing *wavefront.MissingFileError
		if errors.As(err, &missing) {
			fatalf("model not found: %s", missing.Path)
		}
		fatalf("%v", err)
	}

	return model, func() {
		mgr.Close()
		stop()
		logger.Sync()
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	mf := addModelFlags(fs)
	fs.Parse(args)

	model, done := mf.load(fs, "Usage: objtool info [options] <model.obj>")
	defer done()

	vertices, indices := model.Counts()
	b := model.Bounds()

	fmt.Printf("Model:     %s\n", fs.Arg(0))
	fmt.Printf("Materials: %d\n", len(model.Groups))
	fmt.Printf("Vertices:  %d\n", vertices)
	fmt.Printf("Triangles: %d\n", indices/3)
	fmt.Printf("Bounds:    (%.3f, %.3f, %.3f) - (%.3f, %.3f, %.3f)\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	fmt.Println()

	fmt.Printf("  %-20s %10s %10s  %-17s %s\n", "MATERIAL", "VERTICES", "TRIANGLES", "KD", "TEXTURE")
	for _, g := range model.Groups {
		tex := g.TexturePath
		if g.DefaultTexture {
			tex = "(default)"
		}
		kd := fmt.Sprintf("%.3f %.3f %.3f", g.Diffuse[0], g.Diffuse[1], g.Diffuse[2])
		fmt.Printf("  %-20s %10d %10d  %-17s %s\n", g.Material, g.Mesh.VertexCount(), g.Mesh.TriangleCount(), kd, tex)
	}

	if len(model.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range model.Warnings {
			fmt.Printf("  %v\n", w)
		}
	}
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	mf := addModelFlags(fs)
	material := fs.String("material", "", "Only dump this material")
	limit := fs.Int("n", 0, "Limit output to N vertices per material (0 = all)")
	fs.Parse(args)

	model, done := mf.load(fs, "Usage: objtool dump [options] <model.obj>")
	defer done()

	found := false
	for _, g := range model.Groups {
		if *material != "" && g.Material != *material {
			continue
		}
		found = true
		dumpBuffer(g.Mesh, *limit)
	}

	if *material != "" && !found {
		logger.Warn("material not found", zap.String("material", *material))
	}
}

func dumpBuffer(buf *mesh.Buffer, limit int) {
	fmt.Printf("material %s: %d vertices, %d indices\n", buf.Material, buf.VertexCount(), len(buf.Indices))

	n := buf.VertexCount()
	if limit > 0 && limit < n {
		n = limit
	}
	for i := 0; i < n; i++ {
		v := buf.Vertex(i)
		fmt.Printf("  v%-6d pos(%g %g %g) nrm(%g %g %g) uv(%g %g)\n", i,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1])
	}
	if n < buf.VertexCount() {
		fmt.Printf("  ... %d more\n", buf.VertexCount()-n)
	}

	var sb strings.Builder
	for t := 0; t < len(buf.Indices); t += 3 {
		if limit > 0 && t/3 >= limit {
			fmt.Fprintf(&sb, "  ... %d more\n", (len(buf.Indices)-t)/3)
			break
		}
		fmt.Fprintf(&sb, "  f %d %d %d\n", buf.Indices[t], buf.Indices[t+1], buf.Indices[t+2])
	}
	fmt.Print(sb.String())
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	mf := addModelFlags(fs)
	save := fs.Bool("save", false, "Save to the user config directory")
	out := fs.String("o", "", "Save to this file")
	fs.Parse(args)

	cfg := mf.resolve()

	switch {
	case *out != "":
		if err := cfg.SaveTo(*out); err != nil {
			fatalf("saving config: %v", err)
		}
		fmt.Printf("Saved config to %s\n", *out)
	case *save:
		if err := cfg.Save(); err != nil {
			fatalf("saving config: %v", err)
		}
		fmt.Printf("Saved config to %s\n", config.UserConfigPath())
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Print(string(data))
	}
}

func cmdChecker(args []string) {
	fs := flag.NewFlagSet("checker", flag.ExitOnError)
	res := fs.Int("res", texture.DefaultResolution, "Pixels per cell")
	div := fs.Int("div", texture.DefaultDivisions, "Cells per side")
	random := fs.Bool("random", false, "Random cell colors")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool checker [-res N] [-div N] [-random] <out.png>")
		os.Exit(1)
	}

	opts := texture.CheckerOptions{
		Resolution: *res,
		Divisions:  *div,
		A:          texture.CheckerDark,
		B:          texture.CheckerLight,
	}
	if *random {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	img := texture.GenerateChecker(opts)

	if err := writePNG(fs.Arg(0), img); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Wrote %dx%d checker to %s\n", img.Bounds().Dx(), img.Bounds().Dy(), fs.Arg(0))
}

// writePNG encodes img to path. The file is closed before returning and
// its close error is reported.
func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
