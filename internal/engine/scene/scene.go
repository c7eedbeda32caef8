// Package scene renders loaded models as textured, lit objects.
package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/assets"
	"github.com/Faultbox/objmesh/internal/engine/gpu"
	"github.com/Faultbox/objmesh/internal/engine/scene/shaders"
	"github.com/Faultbox/objmesh/internal/engine/shader"
	"github.com/Faultbox/objmesh/internal/engine/texture"
	"github.com/Faultbox/objmesh/internal/logger"
)

// Object is one drawable: a GPU mesh, its texture and a model transform.
type Object struct {
	Material  string
	Mesh      *gpu.Mesh
	Texture   texture.Handle
	Transform mgl32.Mat4
}

// Scene holds the objects and lighting of one view.
type Scene struct {
	program *shader.Program
	objects []Object
	log     *zap.Logger

	// Lighting
	LightDir     mgl32.Vec3
	AmbientColor mgl32.Vec3
	DiffuseColor mgl32.Vec3

	Background mgl32.Vec3
}

// New compiles the object program. Requires a current GL context.
func New() (*Scene, error) {
	program, err := shader.New(shaders.ObjectVertexShader, shaders.ObjectFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("object shader: %w", err)
	}

	return &Scene{
		program:      program,
		log:          logger.Named("scene"),
		LightDir:     mgl32.Vec3{-0.4, -1, -0.6}.Normalize(),
		AmbientColor: mgl32.Vec3{0.35, 0.35, 0.35},
		DiffuseColor: mgl32.Vec3{0.75, 0.75, 0.75},
		Background:   mgl32.Vec3{0.12, 0.12, 0.14},
	}, nil
}

// AddModel uploads every group of model as an object with the given
// transform. Groups without triangles are skipped. Returns the number of
// objects added.
func (s *Scene) AddModel(model *assets.Model, transform mgl32.Mat4) (int, error) {
	added := 0
	for _, g := range model.Groups {
		m, err := gpu.NewMesh(g.Mesh)
		if errors.Is(err, gpu.ErrEmptyMesh) {
			s.log.Debug("skipping empty group", zap.String("material", g.Material))
			continue
		}
		if err != nil {
			return added, err
		}
		s.objects = append(s.objects, Object{
			Material:  g.Material,
			Mesh:      m,
			Texture:   g.Texture,
			Transform: transform,
		})
		added++
	}
	return added, nil
}

// Objects returns the scene's objects.
func (s *Scene) Objects() []Object {
	return s.objects
}

// Render clears the framebuffer and draws every object.
func (s *Scene) Render(view, projection mgl32.Mat4, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(s.Background[0], s.Background[1], s.Background[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	s.program.Use()
	s.program.SetMat4("uViewProj", projection.Mul4(view))
	s.program.SetVec3("uLightDir", s.LightDir)
	s.program.SetVec3("uAmbient", s.AmbientColor)
	s.program.SetVec3("uDiffuse", s.DiffuseColor)
	s.program.SetInt("uTexture", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	for _, obj := range s.objects {
		s.program.SetMat4("uModel", obj.Transform)
		s.program.SetMat3("uNormalMatrix", obj.Transform.Mat3().Inv().Transpose())
		gl.BindTexture(gl.TEXTURE_2D, uint32(obj.Texture))
		obj.Mesh.Draw()
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Close deletes the GPU meshes and the program. Textures belong to the
// assets.Manager that loaded them.
func (s *Scene) Close() {
	for _, obj := range s.objects {
		obj.Mesh.Delete()
	}
	s.objects = nil
	s.program.Delete()
}
