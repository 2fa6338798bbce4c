package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/internal/log"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// gltfTicksPerSecond is the tick rate of glTF clips, whose keyframe times are in seconds.
const gltfTicksPerSecond = 1

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor defines the interface for extracting animation data from a parsed glTF document.
// Channels are grouped per target node and keyed by the same node names the skeleton extractor uses.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	// Morph target weight channels are skipped.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - model.ImportedClip: the extracted clip
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int) (model.ImportedClip, error)

	// ExtractAllAnimations extracts every animation from the document.
	//
	// Returns:
	//   - []model.ImportedClip: all extracted clips, in document order
	//   - error: error if extraction fails
	ExtractAllAnimations() ([]model.ImportedClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int) (model.ImportedClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return model.ImportedClip{}, errors.New("no gltf document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) || doc.Animations[animIndex] == nil {
		return model.ImportedClip{}, errors.Errorf("animation index %d out of range (%d animations)", animIndex, len(doc.Animations))
	}

	anim := doc.Animations[animIndex]
	clip := model.ImportedClip{
		Name:           anim.Name,
		TicksPerSecond: gltfTicksPerSecond,
		Channels:       make(map[string]*model.ImportedChannel),
	}
	if clip.Name == "" {
		clip.Name = fmt.Sprintf("animation_%d", animIndex)
	}

	for ci, ch := range anim.Channels {
		if ch == nil || ch.Target.Node == nil || ch.Sampler == nil {
			continue
		}
		if ch.Target.Path == gltf.TRSWeights {
			continue
		}
		if int(*ch.Sampler) >= len(anim.Samplers) || anim.Samplers[*ch.Sampler] == nil {
			return model.ImportedClip{}, errors.Errorf("animation %q channel %d: sampler %d out of range", clip.Name, ci, *ch.Sampler)
		}

		end, err := e.extractChannel(clip.Channels, ch, anim.Samplers[*ch.Sampler])
		if err != nil {
			return model.ImportedClip{}, errors.Wrapf(err, "animation %q channel %d", clip.Name, ci)
		}
		clip.Duration = max(clip.Duration, end)
	}

	return clip, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAllAnimations() ([]model.ImportedClip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no gltf document loaded")
	}

	clips := make([]model.ImportedClip, 0, len(doc.Animations))
	for i := range doc.Animations {
		clip, err := e.ExtractAnimation(i)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// extractChannel appends a channel's keyframes to the target bone and returns the last key time.
func (e *gltfAnimationExtractorImpl) extractChannel(channels map[string]*model.ImportedChannel, ch *gltf.Channel, sampler *gltf.AnimationSampler) (float32, error) {
	if sampler.Input == nil || sampler.Output == nil {
		return 0, errors.New("sampler is missing input or output")
	}

	times, err := e.parser.ReadScalarAccessor(*sampler.Input)
	if err != nil {
		return 0, errors.Wrap(err, "keyframe times")
	}

	// Cubic spline outputs store in-tangent, value and out-tangent per key; only the value is kept.
	stride, pick := 1, 0
	switch sampler.Interpolation {
	case gltf.InterpolationCubicSpline:
		stride, pick = 3, 1
	case gltf.InterpolationStep:
		log.Debug("step interpolation sampled linearly", "node", e.parser.NodeName(*ch.Target.Node))
	}

	bone := e.parser.NodeName(*ch.Target.Node)
	target, ok := channels[bone]
	if !ok {
		target = &model.ImportedChannel{}
		channels[bone] = target
	}

	switch ch.Target.Path {
	case gltf.TRSTranslation, gltf.TRSScale:
		values, err := e.parser.ReadVec3Accessor(*sampler.Output)
		if err != nil {
			return 0, errors.Wrap(err, "keyframe values")
		}
		if len(values) < len(times)*stride {
			return 0, errors.Errorf("%d values for %d keyframes", len(values), len(times))
		}

		keys := make([]model.VectorKeyframe, len(times))
		for i, t := range times {
			keys[i] = model.VectorKeyframe{Time: t, Value: values[i*stride+pick]}
		}
		if ch.Target.Path == gltf.TRSTranslation {
			target.PositionKeys = append(target.PositionKeys, keys...)
		} else {
			target.ScaleKeys = append(target.ScaleKeys, keys...)
		}

	case gltf.TRSRotation:
		values, err := e.parser.ReadQuatAccessor(*sampler.Output)
		if err != nil {
			return 0, errors.Wrap(err, "keyframe values")
		}
		if len(values) < len(times)*stride {
			return 0, errors.Errorf("%d values for %d keyframes", len(values), len(times))
		}

		keys := make([]model.QuaternionKeyframe, len(times))
		for i, t := range times {
			keys[i] = model.QuaternionKeyframe{Time: t, Value: values[i*stride+pick]}
		}
		target.RotationKeys = append(target.RotationKeys, keys...)

	default:
		return 0, nil
	}

	return lastTime(times), nil
}

// lastTime returns the largest finite keyframe time.
func lastTime(times []float32) float32 {
	var end float32
	for _, t := range times {
		if t > end && t < mgl32.InfPos {
			end = t
		}
	}
	return end
}
