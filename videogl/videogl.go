// This file is part of glvideo.
//
// glvideo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// glvideo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with glvideo.  If not, see <https://www.gnu.org/licenses/>.

package videogl

import (
	"image"

	"github.com/jetsetilly/glvideo/colourspace"
	"github.com/jetsetilly/glvideo/curated"
	"github.com/jetsetilly/glvideo/gpu"
	"github.com/jetsetilly/glvideo/logger"
	"github.com/jetsetilly/glvideo/videoframe"
)

// the tag used for all log entries made by the package
const logTag = "glvideo"

// Error patterns returned by VideoGL functions.
const (
	NotInitialised    = "glvideo: not initialised"
	InitError         = "glvideo: init: %v"
	ResourceError     = "glvideo: %s: %v"
	FilterError       = "glvideo: %s filter: %v"
	DeinterlacerError = "glvideo: deinterlacer (%s): %v"
	FrameError        = "glvideo: frame: %v"
)

// Letterbox is the colour used to clear the display surface outside the
// video.
type Letterbox int

// List of valid Letterbox values.
const (
	LetterboxBlack Letterbox = iota
	LetterboxGray25
)

func (l Letterbox) String() string {
	switch l {
	case LetterboxBlack:
		return "black"
	case LetterboxGray25:
		return "gray25"
	}
	return "unknown"
}

// Config is the configuration passed to Init().
type Config struct {
	// the dimensions of the decoded frames
	VideoDim image.Point

	// the area of the display surface that is visible
	DisplayVisibleRect image.Rectangle

	// the area of the display surface that the video is drawn to
	DisplayVideoRect image.Rectangle

	// the area of the video frame that is drawn. used to remove overscan
	VideoRect image.Rectangle

	// the instance may change the viewport of the display surface and is
	// responsible for clearing it
	ViewportControl bool

	// comma separated key=value options. see ParseOptions()
	Options string

	// frames are rendered into the input texture by a hardware decoder
	HardwareAccel bool

	Letterbox Letterbox

	// the picture attributes applied by the conversion stage. a new
	// ColourSpace is created if this is nil
	ColourSpace *colourspace.ColourSpace
}

// VideoGL draws video frames to the display surface of a gpu.Context through
// a chain of filter stages.
type VideoGL struct {
	ctx     gpu.Context
	pool    pool
	metrics *Metrics

	initialised bool

	// videoDim is the size of the video that is displayed. actualVideoDim is
	// the size of the decoded frame. they differ for 1088 line sources
	videoDim       image.Point
	actualVideoDim image.Point

	displayVisibleRect image.Rectangle
	displayVideoRect   image.Rectangle
	videoRect          image.Rectangle
	frameBufferRect    image.Rectangle

	viewportControl    bool
	viewportSize       image.Point
	masterViewportSize image.Point
	letterbox          Letterbox
	colourSpace        *colourspace.ColourSpace

	// the features permitted for this session
	features gpu.Feature

	usePBO         bool
	hardwareAccel  bool
	usingPackedYUV bool
	textureTarget  gpu.TextureTarget
	inputPurpose   gpu.TexturePurpose
	defaultUpsize  FilterType

	filters [numFilterTypes]*filter

	inputTextures     []gpu.Texture
	inputTextureSize  image.Point
	referenceTextures []gpu.Texture
	helperTexture     gpu.Texture

	// the number of frames that must be uploaded before the reference ring
	// holds useful data
	refsNeeded int

	hardwareDeinterlacer  string
	hardwareDeinterlacing bool
	softwareDeinterlacer  string

	inputUpdated    bool
	currentFrameNum int64
}

// NewVideoGL is the preferred method of initialisation for the VideoGL type.
// The metrics argument can be nil.
func NewVideoGL(metrics *Metrics) *VideoGL {
	return &VideoGL{
		pool:            newPool(metrics),
		metrics:         metrics,
		currentFrameNum: -1,
	}
}

// Init prepares the instance for drawing frames of the specified size. Any
// previous configuration is torn down first.
//
// The filter chain is built from the first of the following that succeeds:
// colour conversion in a fragment program; a packed YUV or hardware decoder
// texture drawn by a resize stage; software colour conversion drawn by a
// resize stage.
func (vid *VideoGL) Init(ctx gpu.Context, cfg Config) error {
	if ctx == nil {
		return curated.Errorf(InitError, "no context")
	}
	if cfg.VideoDim.X < 1 || cfg.VideoDim.Y < 1 {
		return curated.Errorf(InitError, curated.Errorf("invalid video dimensions (%v)", cfg.VideoDim))
	}

	if vid.ctx != nil {
		vid.Teardown()
	}

	vid.ctx = ctx
	vid.pool.ctx = ctx

	defer gpu.Lock(ctx)()

	vid.actualVideoDim = cfg.VideoDim
	vid.videoDim = cfg.VideoDim
	if vid.videoDim.Y == 1088 {
		vid.videoDim.Y = 1080
	}
	vid.displayVisibleRect = cfg.DisplayVisibleRect
	vid.displayVideoRect = cfg.DisplayVideoRect
	vid.videoRect = cfg.VideoRect
	vid.masterViewportSize = image.Pt(1920, 1080)
	vid.frameBufferRect = image.Rectangle{Max: vid.videoDim}
	vid.softwareDeinterlacer = ""
	vid.hardwareDeinterlacer = ""
	vid.hardwareDeinterlacing = false
	vid.viewportControl = cfg.ViewportControl
	vid.letterbox = cfg.Letterbox
	vid.inputTextureSize = image.Point{}
	vid.currentFrameNum = -1
	vid.inputUpdated = false

	vid.colourSpace = cfg.ColourSpace
	if vid.colourSpace == nil {
		vid.colourSpace = colourspace.NewColourSpace()
	}

	vid.features = ParseOptions(cfg.Options) & ctx.Features()

	if vid.viewportControl {
		ctx.SetFeatures(vid.features)
		ctx.SetFence()
	}

	vid.setViewPort(vid.displayVisibleRect.Size())

	vid.hardwareAccel = cfg.HardwareAccel
	vid.usePBO = !vid.hardwareAccel && vid.features.Has(gpu.FeaturePixelBufferObject)
	basic := vid.features.Has(gpu.FeatureFragmentProgram)
	full := basic && vid.features.Has(gpu.FeatureFrameBufferObject)
	vid.usingPackedYUV = !vid.hardwareAccel && !full && vid.features.Has(gpu.FeaturePackedYUV)
	if vid.usingPackedYUV {
		basic = false
	}

	requested, refused := bicubicPreference(cfg.Options)
	vid.defaultUpsize = FilterResize
	if full && !refused {
		vid.defaultUpsize = FilterBicubic
	} else if requested {
		logger.Log(logger.Allow, logTag, "no feature support for bicubic filter")
	}

	vid.textureTarget = gpu.Target2D
	if !vid.hardwareAccel && vid.defaultUpsize != FilterBicubic && vid.features.Has(gpu.FeatureRectTexture) {
		vid.textureTarget = gpu.TargetRect
	}

	var tex gpu.Texture
	var err error

	switch {
	case basic && !vid.hardwareAccel:
		vid.inputPurpose = gpu.TextureRGBA
		tex, err = vid.createVideoTexture()
		if err == nil {
			err = vid.addFilter(FilterYUV2RGB)
		}
		if err == nil {
			vid.colourSpace.SetSupportedAttributes(colourspace.AttrAll)
		}

	case vid.usingPackedYUV || vid.hardwareAccel:
		vid.inputPurpose = gpu.TexturePackedYUV
		if vid.hardwareAccel {
			vid.inputPurpose = gpu.TextureRGBALinear
		}
		tex, err = vid.createVideoTexture()
		if err == nil {
			err = vid.addFilter(FilterResize)
		}
		if err == nil {
			logger.Logf(logger.Allow, logTag, "using %s texture for colour conversion", vid.inputPurpose)
		} else {
			vid.usingPackedYUV = false
			vid.hardwareAccel = false
		}
		vid.colourSpace.SetSupportedAttributes(colourspace.AttrNone)
	}

	if err == nil && tex != 0 {
		vid.inputTextures = append(vid.inputTextures, tex)
	} else {
		if err != nil {
			logger.Log(logger.Allow, logTag, err)
		}
		vid.pool.deleteTexture(tex)
		vid.releaseResources()
	}

	if len(vid.chain()) == 0 {
		if !basic {
			logger.Log(logger.Allow, logTag, "no feature support for colour conversion")
		}
		logger.Log(logger.Allow, logTag, "falling back to software colour conversion")

		vid.usingPackedYUV = false
		vid.hardwareAccel = false
		vid.inputPurpose = gpu.TextureRGBA

		tex, err = vid.createVideoTexture()
		if err == nil {
			err = vid.addFilter(FilterResize)
		}
		if err != nil {
			vid.pool.deleteTexture(tex)
			vid.releaseResources()
			return curated.Errorf(InitError, err)
		}
		vid.inputTextures = append(vid.inputTextures, tex)
		vid.colourSpace.SetSupportedAttributes(colourspace.AttrNone)
	}

	vid.checkResize(false, true)
	vid.initialised = true

	pbo := "without"
	if vid.usePBO {
		pbo = "with"
	}
	logger.Logf(logger.Allow, logTag, "using %s textures %s PBOs (features: %s)", vid.textureTarget, pbo, vid.features)

	return nil
}

// createVideoTexture creates a texture for the decoded frame. the size of
// the texture is recorded in inputTextureSize
func (vid *VideoGL) createVideoTexture() (gpu.Texture, error) {
	tex, actual, err := vid.pool.createTexture(vid.actualVideoDim, vid.textureTarget, vid.inputPurpose, vid.usePBO)
	if err != nil {
		return 0, err
	}
	vid.inputTextureSize = actual
	return tex, nil
}

// Teardown releases every GPU resource held by the instance. It is safe to
// call at any time. Init() must be called before the instance can be used
// again.
func (vid *VideoGL) Teardown() {
	if vid.ctx == nil {
		return
	}
	defer gpu.Lock(vid.ctx)()
	vid.releaseResources()
	vid.initialised = false
}

// releaseResources deletes the filter chain and all textures.
func (vid *VideoGL) releaseResources() {
	vid.tearDownDeinterlacer()
	for t := range vid.filters {
		vid.discardFilter(FilterType(t))
	}
	vid.pool.deleteTextures(vid.inputTextures)
	vid.inputTextures = nil
	vid.pool.deleteTexture(vid.helperTexture)
	vid.helperTexture = 0

	// anything left over is a leak in the chain logic
	if n := vid.pool.live(); n > 0 {
		logger.Logf(logger.Allow, logTag, "releasing %d orphaned resources", n)
		vid.pool.releaseAll()
	}

	vid.metrics.setChainLength(0)
}

// CheckResize adds or removes the resize stages according to the size of the
// video and the display. No resizing is done if allow is false.
func (vid *VideoGL) CheckResize(deinterlacing bool, allow bool) {
	if !vid.initialised {
		return
	}
	defer gpu.Lock(vid.ctx)()
	vid.checkResize(deinterlacing, allow)
}

func (vid *VideoGL) checkResize(deinterlacing bool, allow bool) {
	// upscaling improves performance on slower hardware
	up := (vid.videoDim.Y < vid.displayVideoRect.Dy() || vid.videoDim.X < vid.displayVideoRect.Dx()) && allow

	// downscaling is required for deinterlacing to work correctly
	down := vid.videoDim.Y > vid.displayVideoRect.Dy() && deinterlacing && allow

	if up && vid.defaultUpsize == FilterBicubic {
		vid.logError(vid.removeFilter(FilterResize))
		err := vid.addFilter(FilterBicubic)
		if err == nil {
			return
		}
		logger.Log(logger.Allow, logTag, err)
		logger.Log(logger.Allow, logTag, "falling back to linear resize")
	}

	if up || down {
		vid.logError(vid.removeFilter(FilterBicubic))
		vid.logError(vid.addFilter(FilterResize))
		return
	}

	vid.logError(vid.removeFilter(FilterBicubic))

	// a resize stage is the only way of drawing software converted frames
	if len(vid.chain()) > 1 {
		vid.logError(vid.removeFilter(FilterResize))
	}

	if err := vid.optimiseFilters(); err != nil {
		logger.Log(logger.Allow, logTag, err)
	}
}

// OptimiseFilters makes sure that the last stage of the chain draws to the
// display surface and that every other stage has the framebuffers needed by
// the stage that follows it.
func (vid *VideoGL) OptimiseFilters() error {
	if !vid.initialised {
		return curated.Errorf(NotInitialised)
	}
	defer gpu.Lock(vid.ctx)()
	return vid.optimiseFilters()
}

func (vid *VideoGL) optimiseFilters() error {
	chain := vid.chain()

	buffersNeeded := 1
	for i := len(chain) - 1; i >= 0; i-- {
		f := vid.filters[chain[i]]

		if i == len(chain)-1 {
			f.output = OutputDefault
			vid.trimFrameBuffers(f, 0)
		} else {
			f.output = OutputFrameBuffer
			for len(f.frameBuffers) < buffersNeeded {
				if !vid.features.Has(gpu.FeatureFrameBufferObject) {
					return curated.Errorf(ResourceError, "framebuffer", "offscreen buffers not available")
				}
				fbo, tex, err := vid.pool.createFrameBuffer(vid.videoDim, vid.textureTarget)
				if err != nil {
					return err
				}
				f.frameBuffers = append(f.frameBuffers, fbo)
				f.frameBufferTextures = append(f.frameBufferTextures, tex)
			}
			vid.trimFrameBuffers(f, buffersNeeded)
		}

		buffersNeeded = f.numInputs
	}

	vid.setFiltering()

	return nil
}

// trimFrameBuffers deletes framebuffers from the end of the list until there
// are no more than n
func (vid *VideoGL) trimFrameBuffers(f *filter, n int) {
	for len(f.frameBuffers) > n {
		last := len(f.frameBuffers) - 1
		vid.pool.deleteFrameBuffer(f.frameBuffers[last])
		f.frameBuffers = f.frameBuffers[:last]
		f.frameBufferTextures = f.frameBufferTextures[:last]
	}
}

// SetFiltering sets the sampling mode of every texture in the chain.
func (vid *VideoGL) SetFiltering() {
	if !vid.initialised {
		return
	}
	defer gpu.Lock(vid.ctx)()
	vid.setFiltering()
}

func (vid *VideoGL) setFiltering() {
	chain := vid.chain()

	// reference textures rotate into the input slot and are sampled in the
	// same way
	inputs := func(linear bool) {
		for _, tex := range vid.inputTextures {
			vid.ctx.SetTextureFilters(tex, linear)
		}
		for _, tex := range vid.referenceTextures {
			vid.ctx.SetTextureFilters(tex, linear)
		}
	}

	if len(chain) <= 1 {
		inputs(true)
		return
	}

	inputs(false)

	for i, n := len(chain)-1, 0; i >= 0; i, n = i-1, n+1 {
		if n == 0 {
			continue
		}
		for _, tex := range vid.filters[chain[i]].frameBufferTextures {
			vid.ctx.SetTextureFilters(tex, n == 1)
		}
	}
}

// AddFilter adds a stage to the chain. Adding a stage that is already in the
// chain does nothing. The chain is unchanged if the stage cannot be added.
func (vid *VideoGL) AddFilter(t FilterType) error {
	if !vid.initialised {
		return curated.Errorf(NotInitialised)
	}
	defer gpu.Lock(vid.ctx)()
	return vid.addFilter(t)
}

func (vid *VideoGL) addFilter(t FilterType) error {
	if t <= FilterNone || t >= numFilterTypes {
		return curated.Errorf(FilterError, t, "invalid filter")
	}

	if vid.filters[t] != nil {
		return nil
	}

	if t == FilterResize && !vid.features.Has(gpu.FeatureFrameBufferObject) && len(vid.chain()) > 0 {
		return curated.Errorf(FilterError, t, "offscreen buffers not available")
	}

	if !vid.features.Has(filterTable[t].requires) {
		return curated.Errorf(FilterError, t, curated.Errorf("features not available (%s)", filterTable[t].requires&^vid.features))
	}

	logger.Logf(logger.Allow, logTag, "creating %s filter", t)

	f := &filter{
		numInputs: 1,
		output:    OutputDefault,
	}

	var err error

	if filterTable[t].helper {
		vid.pool.deleteTexture(vid.helperTexture)
		vid.helperTexture, err = vid.pool.createHelperTexture()
	}

	if err == nil && filterTable[t].program {
		var prog gpu.Program
		prog, err = vid.pool.createProgram(ProgramSource(t, "", videoframe.ScanProgressive, vid.programParams()))
		if err == nil {
			f.programs = append(f.programs, prog)
		}
	}

	vid.filters[t] = f

	if err == nil {
		err = vid.optimiseFilters()
	}

	if err != nil {
		vid.discardFilter(t)
		if err := vid.optimiseFilters(); err != nil {
			logger.Log(logger.Allow, logTag, err)
		}
		return curated.Errorf(FilterError, t, err)
	}

	vid.metrics.chainChanged(t, true, len(vid.chain()))

	return nil
}

// RemoveFilter removes a stage from the chain and deletes its resources.
// Removing a stage that is not in the chain does nothing and is not an error.
func (vid *VideoGL) RemoveFilter(t FilterType) error {
	if !vid.initialised {
		return curated.Errorf(NotInitialised)
	}
	defer gpu.Lock(vid.ctx)()
	if err := vid.removeFilter(t); err != nil {
		return curated.Errorf(FilterError, t, err)
	}
	return nil
}

// removeFilter returns any error from rebalancing the chain. The stage has
// been removed even if an error is returned.
func (vid *VideoGL) removeFilter(t FilterType) error {
	if t <= FilterNone || t >= numFilterTypes || vid.filters[t] == nil {
		return nil
	}

	logger.Logf(logger.Allow, logTag, "removing %s filter", t)

	// the deinterlacing programs belong to the conversion stage
	if t == FilterYUV2RGB {
		vid.tearDownDeinterlacer()
	}

	vid.discardFilter(t)
	vid.metrics.chainChanged(t, false, len(vid.chain()))

	return vid.optimiseFilters()
}

// chain changes made while reacting to other requests are not fatal
func (vid *VideoGL) logError(err error) {
	if err != nil {
		logger.Log(logger.Allow, logTag, err)
	}
}

// discardFilter deletes the stage and its resources without rebalancing the
// chain.
func (vid *VideoGL) discardFilter(t FilterType) {
	f := vid.filters[t]
	if f == nil {
		return
	}

	for _, prog := range f.programs {
		vid.pool.deleteProgram(prog)
	}
	for _, fbo := range f.frameBuffers {
		vid.pool.deleteFrameBuffer(fbo)
	}
	vid.filters[t] = nil

	if filterTable[t].helper {
		vid.pool.deleteTexture(vid.helperTexture)
		vid.helperTexture = 0
	}
}

// programParams returns the parameters used to generate fragment programs
// for the current textures.
func (vid *VideoGL) programParams() ProgramParams {
	p := ProgramParams{
		Target:      vid.textureTarget,
		LineHeight:  1.0,
		ColWidth:    1.0,
		FrameBuffer: textureSize(vid.videoDim, vid.textureTarget == gpu.TargetRect),
	}
	if vid.textureTarget != gpu.TargetRect && vid.inputTextureSize.X > 0 && vid.inputTextureSize.Y > 0 {
		p.LineHeight = 1.0 / float32(vid.inputTextureSize.Y)
		p.ColWidth = 1.0 / float32(vid.inputTextureSize.X)
	}
	return p
}

// NewProgramParams returns the parameters used for the programs of a video of
// the given size when the input textures have the target.
func NewProgramParams(video image.Point, target gpu.TextureTarget) ProgramParams {
	rect := target == gpu.TargetRect
	size := textureSize(video, rect)
	p := ProgramParams{
		Target:      target,
		LineHeight:  1.0,
		ColWidth:    1.0,
		FrameBuffer: size,
	}
	if !rect {
		p.LineHeight = 1.0 / float32(size.Y)
		p.ColWidth = 1.0 / float32(size.X)
	}
	return p
}

// SetViewPort sets the size of the viewport. The viewport is never smaller
// than the video. The viewport of the context is only changed if the
// instance was configured with ViewportControl.
func (vid *VideoGL) SetViewPort(size image.Point) {
	if !vid.initialised {
		return
	}
	defer gpu.Lock(vid.ctx)()
	vid.setViewPort(size)
}

func (vid *VideoGL) setViewPort(size image.Point) {
	vid.viewportSize = image.Point{
		X: max(size.X, vid.videoDim.X),
		Y: max(size.Y, vid.videoDim.Y),
	}
	if !vid.viewportControl {
		return
	}
	vid.ctx.SetViewPort(vid.viewportSize)
}
