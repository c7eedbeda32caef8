// Package assets loads Wavefront models into per-material render buffers
// with resolved texture bindings.
package assets

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/engine/mesh"
	"github.com/Faultbox/objmesh/internal/engine/texture"
	"github.com/Faultbox/objmesh/internal/logger"
	"github.com/Faultbox/objmesh/pkg/wavefront"
)

// TextureUploader turns decoded pixels into texture handles.
// *texture.Registry and the OpenGL uploader both satisfy it.
type TextureUploader interface {
	Upload(img *image.RGBA) (texture.Handle, error)
	Release(h texture.Handle)
}

// Decoder reads and decodes the image file at path.
type Decoder func(path string) (image.Image, error)

// Options configures a Manager.
type Options struct {
	Scale          mgl32.Vec3 // Applied as given, including zero axes
	MaterialsFile  string // Explicit MTL file; disables mtllib lookup
	TexturesDir    string // Base dir for map_Kd, the model's dir if empty
	UseMtllib      bool
	RemapExtension string // Applied to every map_Kd path when set
	MaxTextureSize int
	CacheSize      int

	Checker texture.CheckerOptions // Fallback texture
	Decode  Decoder                // texture.DecodeFile if nil
	Logger  *zap.Logger            // logger.Log if nil
}

// DefaultOptions returns options for unit scale, mtllib lookup and the
// green checkerboard fallback.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig maps configuration onto loader options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Scale:          mgl32.Vec3(cfg.Model.Scale),
		MaterialsFile:  cfg.Model.MaterialsFile,
		TexturesDir:    cfg.Model.TexturesDir,
		UseMtllib:      cfg.Model.UseMtllib,
		RemapExtension: cfg.Texture.RemapExtension,
		MaxTextureSize: cfg.Texture.MaxSize,
		CacheSize:      cfg.Texture.CacheSize,
		Checker: texture.CheckerOptions{
			Resolution: cfg.Texture.DefaultResolution,
			Divisions:  cfg.Texture.DefaultDivisions,
			A:          texture.CheckerDark,
			B:          texture.CheckerLight,
		},
	}
	if cfg.Texture.RandomColors {
		opts.Checker.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return opts
}

// MissingTextureWarning reports a material texture that could not be
// loaded. The material falls back to the default texture.
type MissingTextureWarning struct {
	Material string
	Path     string
	Err      error
}

func (w *MissingTextureWarning) Error() string {
	return fmt.Sprintf("material %s: texture %s: %v", w.Material, w.Path, w.Err)
}

func (w *MissingTextureWarning) Unwrap() error {
	return w.Err
}

// Group is the render-ready geometry of one material.
type Group struct {
	Material       string
	Mesh           *mesh.Buffer
	Diffuse        mgl32.Vec3 // Kd, white without a material
	Texture        texture.Handle
	TexturePath    string // Resolved map_Kd file, empty for the fallback
	DefaultTexture bool   // Texture is the synthesized fallback
}

// Model is a loaded model, one group per material in order of first use.
type Model struct {
	Name     string
	Groups   []Group
	Warnings []*MissingTextureWarning
}

// Bounds returns the union of all group bounds.
func (m *Model) Bounds() mesh.Bounds {
	var b mesh.Bounds
	first := true
	for _, g := range m.Groups {
		if g.Mesh.VertexCount() == 0 {
			continue
		}
		if first {
			b, first = g.Mesh.Bounds, false
			continue
		}
		b = b.Union(g.Mesh.Bounds)
	}
	return b
}

// Counts returns total unique vertices and indices over all groups.
func (m *Model) Counts() (vertices, indices int) {
	for _, g := range m.Groups {
		vertices += g.Mesh.VertexCount()
		indices += len(g.Mesh.Indices)
	}
	return vertices, indices
}

// Manager loads models and owns the textures uploaded for them. Every
// handle it returns stays valid until Close.
type Manager struct {
	opts     Options
	uploader TextureUploader
	log      *zap.Logger

	mu         sync.Mutex
	cache      *texture.Cache // Resolved path -> handle
	owned      []texture.Handle
	defaultTex texture.Handle
}

// NewManager creates a manager uploading through uploader.
func NewManager(opts Options, uploader TextureUploader) (*Manager, error) {
	if uploader == nil {
		return nil, errors.New("assets: nil texture uploader")
	}
	if opts.Decode == nil {
		opts.Decode = texture.DecodeFile
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = config.Default().Texture.CacheSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Log
	}

	// Eviction only drops the lookup; owned handles are released on Close.
	cache, err := texture.NewCache(opts.CacheSize, nil)
	if err != nil {
		return nil, fmt.Errorf("assets: texture cache: %w", err)
	}

	return &Manager{
		opts:     opts,
		uploader: uploader,
		log:      log.Named("assets"),
		cache:    cache,
	}, nil
}

// LoadModel loads the OBJ file at path along with its materials.
// Returns a *wavefront.MissingFileError if the model does not exist.
func (m *Manager) LoadModel(path string) (*Model, error) {
	obj, err := wavefront.ParseOBJFile(path, m.opts.Scale)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	mtl, err := m.loadMaterials(obj, dir)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m.build(name, obj, mtl, dir)
}

// LoadModelFrom loads a model from readers. mtl may be nil. dir is the
// base for texture paths when Options.TexturesDir is empty.
func (m *Manager) LoadModelFrom(obj io.Reader, mtl io.Reader, dir string) (*Model, error) {
	parsed, err := wavefront.ParseOBJ(obj, m.opts.Scale)
	if err != nil {
		return nil, err
	}

	materials := &wavefront.MTL{Materials: map[string]*wavefront.Material{}}
	if mtl != nil {
		if materials, err = wavefront.ParseMTL(mtl); err != nil {
			return nil, err
		}
	}
	return m.build("", parsed, materials, dir)
}

// loadMaterials reads the configured materials file, or the model's mtllib
// references. Absent files are logged and yield no materials.
func (m *Manager) loadMaterials(obj *wavefront.OBJ, dir string) (*wavefront.MTL, error) {
	merged := &wavefront.MTL{Materials: map[string]*wavefront.Material{}}

	var paths []string
	switch {
	case m.opts.MaterialsFile != "":
		paths = []string{m.opts.MaterialsFile}
	case m.opts.UseMtllib:
		for _, lib := range obj.MaterialLibs {
			paths = append(paths, filepath.Join(dir, filepath.FromSlash(lib)))
		}
	}

	for _, path := range paths {
		mtl, err := wavefront.ParseMTLFile(path)
		if errors.Is(err, wavefront.ErrMissingFile) {
			m.log.Warn("materials file not found", zap.String("path", path))
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, name := range mtl.Order {
			if _, ok := merged.Materials[name]; !ok {
				merged.Order = append(merged.Order, name)
			}
			merged.Materials[name] = mtl.Materials[name]
		}
	}
	return merged, nil
}

func (m *Manager) build(name string, obj *wavefront.OBJ, mtl *wavefront.MTL, dir string) (*Model, error) {
	texDir := m.opts.TexturesDir
	if texDir == "" {
		texDir = dir
	}

	model := &Model{Name: name, Groups: make([]Group, 0, len(obj.Materials))}
	for _, matName := range obj.Materials {
		buf, err := mesh.Build(matName, obj.Faces[matName], obj.Positions, obj.Normals, obj.UVs)
		if err != nil {
			return nil, err
		}

		g := Group{Material: matName, Mesh: buf, Diffuse: mgl32.Vec3{1, 1, 1}}
		if mat, ok := mtl.Material(matName); ok {
			g.Diffuse = mat.Diffuse
		}
		warning, err := m.bind(&g, mtl, texDir)
		if err != nil {
			return nil, err
		}
		if warning != nil {
			model.Warnings = append(model.Warnings, warning)
		}
		model.Groups = append(model.Groups, g)
	}

	vertices, indices := model.Counts()
	m.log.Debug("model loaded",
		zap.String("name", name),
		zap.Int("groups", len(model.Groups)),
		zap.Int("vertices", vertices),
		zap.Int("indices", indices),
		zap.Int("warnings", len(model.Warnings)),
	)
	return model, nil
}

// bind resolves the texture of g's material. Texture read and decode
// failures become warnings; only upload failures are errors.
func (m *Manager) bind(g *Group, mtl *wavefront.MTL, texDir string) (*MissingTextureWarning, error) {
	mat, ok := mtl.Material(g.Material)
	if !ok || mat.DiffuseMap == "" {
		return nil, m.bindDefault(g)
	}

	path := texture.RemapExtension(filepath.FromSlash(mat.DiffuseMap), m.opts.RemapExtension)
	if !filepath.IsAbs(path) {
		path = filepath.Join(texDir, path)
	}

	m.mu.Lock()
	h, cached := m.cache.Get(path)
	m.mu.Unlock()
	if cached {
		g.Texture, g.TexturePath = h, path
		return nil, nil
	}

	img, err := m.opts.Decode(path)
	if err != nil {
		m.log.Warn("texture unavailable, using default",
			zap.String("material", g.Material),
			zap.String("path", path),
			zap.Error(err),
		)
		warning := &MissingTextureWarning{Material: g.Material, Path: path, Err: err}
		return warning, m.bindDefault(g)
	}

	h, err = m.upload(texture.Fit(texture.ToRGBA(img), m.opts.MaxTextureSize))
	if err != nil {
		return nil, fmt.Errorf("material %s: uploading %s: %w", g.Material, path, err)
	}

	m.mu.Lock()
	m.cache.Add(path, h)
	m.mu.Unlock()

	g.Texture, g.TexturePath = h, path
	return nil, nil
}

func (m *Manager) bindDefault(g *Group) error {
	h, err := m.DefaultTexture()
	if err != nil {
		return err
	}
	g.Texture, g.DefaultTexture = h, true
	return nil
}

// DefaultTexture returns the checkerboard fallback, uploading it on first use.
func (m *Manager) DefaultTexture() (texture.Handle, error) {
	m.mu.Lock()
	h := m.defaultTex
	m.mu.Unlock()
	if h != 0 {
		return h, nil
	}

	h, err := m.upload(texture.GenerateChecker(m.opts.Checker))
	if err != nil {
		return 0, fmt.Errorf("uploading default texture: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.defaultTex != 0 {
		// Lost a race with another loader; keep the first.
		return m.defaultTex, nil
	}
	m.defaultTex = h
	return h, nil
}

func (m *Manager) upload(img *image.RGBA) (texture.Handle, error) {
	h, err := m.uploader.Upload(img)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	m.owned = append(m.owned, h)
	m.mu.Unlock()
	return h, nil
}

// Close releases every texture uploaded by the manager.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, h := range m.owned {
		m.uploader.Release(h)
	}
	m.owned = nil
	m.defaultTex = 0
	m.cache.Purge()
}
