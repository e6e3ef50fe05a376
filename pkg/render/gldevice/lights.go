package gldevice

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/internal/openglhelper"
	"github.com/leterax/go-sandbox/pkg/render"
)

// frameLights is the light setup of one frame in shader terms
type frameLights struct {
	ambient      mgl32.Vec3
	directional  *render.Light
	shadowCaster *render.Light
	points       []*render.Light
	spots        []*render.Light
}

// collectLights sums ambient lights and keeps the first directional light.
// Point and spot lights beyond the shader limits are dropped.
func collectLights(lights []*render.Light) frameLights {
	var fl frameLights
	for _, l := range lights {
		switch l.Kind {
		case render.AmbientLight:
			fl.ambient = fl.ambient.Add(l.Color.Mul(l.Intensity))
		case render.DirectionalLight:
			if fl.directional == nil {
				fl.directional = l
			}
			if fl.shadowCaster == nil && l.CastShadow {
				fl.shadowCaster = l
			}
		case render.PointLight:
			if len(fl.points) < maxPointLights {
				fl.points = append(fl.points, l)
			}
		case render.SpotLight:
			if len(fl.spots) < maxSpotLights {
				fl.spots = append(fl.spots, l)
			}
		}
	}
	// Shadows follow the lit directional light
	if fl.shadowCaster != nil && fl.shadowCaster != fl.directional {
		fl.directional = fl.shadowCaster
	}
	return fl
}

func (fl frameLights) apply(s *openglhelper.Shader) {
	s.SetVec3("ambient", fl.ambient)

	s.SetBool("hasDirectional", fl.directional != nil)
	if fl.directional != nil {
		s.SetVec3("dirDirection", fl.directional.Direction())
		s.SetVec3("dirColor", fl.directional.Color.Mul(fl.directional.Intensity))
	}

	s.SetInt("pointCount", int32(len(fl.points)))
	for i, l := range fl.points {
		prefix := fmt.Sprintf("pointLights[%d].", i)
		s.SetVec3(prefix+"position", l.Position)
		s.SetVec3(prefix+"color", l.Color.Mul(l.Intensity))
		s.SetFloat(prefix+"distance", l.Distance)
		s.SetFloat(prefix+"decay", l.Decay)
	}

	s.SetInt("spotCount", int32(len(fl.spots)))
	for i, l := range fl.spots {
		prefix := fmt.Sprintf("spotLights[%d].", i)
		s.SetVec3(prefix+"position", l.Position)
		s.SetVec3(prefix+"direction", l.Direction())
		s.SetVec3(prefix+"color", l.Color.Mul(l.Intensity))
		s.SetFloat(prefix+"distance", l.Distance)
		s.SetFloat(prefix+"decay", l.Decay)
		s.SetFloat(prefix+"cosOuter", float32(math.Cos(float64(l.Angle))))
		s.SetFloat(prefix+"cosInner", float32(math.Cos(float64(l.Angle*(1-l.Penumbra)))))
	}
}
