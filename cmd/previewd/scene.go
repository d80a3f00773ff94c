package main

import (
	"math"
	"strconv"

	"github.com/achilleasa/lumenpreview/engine"
	"github.com/achilleasa/lumenpreview/imaging"
	"github.com/achilleasa/lumenpreview/lighteval"
	"github.com/achilleasa/lumenpreview/raytrace"
	"github.com/achilleasa/lumenpreview/types"
)

// syntheticScene is a procedurally generated ground plane lit by numLights
// orbiting point lights plus one directional sun. It exists for the soak
// harness only: previewd has no camera, rasterizer, or scene file format of
// its own (those concerns live upstream of the engine per spec.md's
// boundary), so it fabricates a G-buffer directly instead of rendering one.
type syntheticScene struct {
	width, height uint32
	eye           types.Vec3
	triangles     []types.Vec3
	lights        []lighteval.Description
	albedo        *imaging.Matrix
	normal        *imaging.Matrix
	position      *imaging.Matrix
}

func newSyntheticScene(width, height uint32, numLights int) syntheticScene {
	const groundSize = 40.0
	eye := types.XYZ(0, 15, 20)

	ground := []raytrace.Triangle{
		raytrace.NewTriangle(
			types.XYZ(-groundSize, 0, -groundSize),
			types.XYZ(groundSize, 0, -groundSize),
			types.XYZ(groundSize, 0, groundSize),
		),
		raytrace.NewTriangle(
			types.XYZ(-groundSize, 0, -groundSize),
			types.XYZ(groundSize, 0, groundSize),
			types.XYZ(-groundSize, 0, groundSize),
		),
	}

	tris := make([]types.Vec3, 0, len(ground)*3)
	for _, t := range ground {
		tris = append(tris, t.V0, t.V1, t.V2)
	}

	lights := make([]lighteval.Description, 0, numLights+1)
	lights = append(lights, lighteval.Description{
		ObjectID:  "sun",
		Type:      lighteval.Directional,
		Direction: types.XYZ(-0.3, -1, -0.2).Normalize(),
		Color:     types.XYZ(0.6, 0.6, 0.55),
	})
	for i := 0; i < numLights; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numLights)
		radius := float32(12.0)
		pos := types.XYZ(radius*float32(math.Cos(angle)), 4, radius*float32(math.Sin(angle)))
		lights = append(lights, lighteval.Description{
			ObjectID: "point-" + strconv.Itoa(i),
			Type:     lighteval.Positional,
			Position: pos,
			Color:    hueColor(i, numLights),
		})
	}

	albedo := imaging.NewMatrix(width, height)
	normal := imaging.NewMatrix(width, height)
	position := imaging.NewMatrix(width, height)

	for y := uint32(0); y < height; y++ {
		for x := uint32(0); x < width; x++ {
			u := (float32(x)/float32(width) - 0.5) * 2 * groundSize
			v := (float32(y)/float32(height) - 0.5) * 2 * groundSize
			albedo.Set(x, y, types.XYZ(0.8, 0.8, 0.8))
			normal.Set(x, y, types.XYZ(0, 1, 0))
			position.Set(x, y, types.XYZ(u, 0, v))
		}
	}

	return syntheticScene{
		width:     width,
		height:    height,
		eye:       eye,
		triangles: tris,
		lights:    lights,
		albedo:    albedo,
		normal:    normal,
		position:  position,
	}
}

func (s syntheticScene) feed(e *engine.Engine) {
	e.Inbound() <- engine.LightListMessage{Lights: s.lights, Eye: s.eye}
	e.Inbound() <- engine.GeometryMessage{Triangles: s.triangles}
	e.Inbound() <- engine.GBuffersMessage{
		Albedo:     s.albedo,
		Normal:     s.normal,
		Position:   s.position,
		Eye:        s.eye,
		Generation: 1,
	}
}

func hueColor(i, n int) types.Vec3 {
	t := float64(i) / float64(n)
	return types.XYZ(
		float32(0.5+0.5*math.Cos(2*math.Pi*t)),
		float32(0.5+0.5*math.Cos(2*math.Pi*(t+1.0/3.0))),
		float32(0.5+0.5*math.Cos(2*math.Pi*(t+2.0/3.0))),
	)
}
