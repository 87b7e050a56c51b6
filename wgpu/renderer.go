package wgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/overlay"
)

// GPU-side data layouts. The vertex layout matches overlay.Vertex: two
// float32 positions followed by the packed uv and color words.
const (
	vertexStride = 16
	indexStride  = 2

	// globalsSize is the byte size of the Globals uniform buffer.
	// Layout: target_size (vec2<f32>) + scale + opacity + y_flip (f32)
	// + 12 bytes padding = 32 bytes.
	globalsSize = 32

	// atlasRowAlign is the row alignment texture uploads require.
	atlasRowAlign = 256
)

// ErrClosed is returned by Prepare after the renderer has been closed.
var ErrClosed = errors.New("wgpu: renderer is closed")

// layerRange is one layer's slice of the concatenated index buffer.
type layerRange struct {
	first uint32
	count uint32
}

// Renderer draws overlay geometry into a caller-owned render pass.
//
// The renderer owns every GPU resource it creates: the pipeline, the
// glyph atlas texture, the uniform buffer, and a pair of vertex/index
// buffers that grow monotonically and are reused across frames. One
// renderer serves one render target configuration (see Options); the
// glyph atlas is uploaded once at construction.
//
// Renderer is safe for concurrent use, but Prepare and Record belong to
// the same frame: call Prepare outside the render pass, then Record
// inside it, and do not interleave frames from multiple goroutines.
type Renderer struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	opts   Options

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	atlasTex   hal.Texture
	atlasView  hal.TextureView
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	// Grow-only frame buffers, in bytes.
	vertexBuf hal.Buffer
	vertexCap int
	indexBuf  hal.Buffer
	indexCap  int

	// CPU staging for the current frame.
	vertexScratch []byte
	indexScratch  []byte
	layers        []layerRange

	// Cached uniform contents; rewritten only when they change.
	globals      [globalsSize]byte
	globalsValid bool
	opacity      float32

	stats  frameStats
	closed bool
}

// New creates a renderer for the given device and queue, compiles the
// overlay shader, and uploads the font's glyph atlas. The font must be
// the same one the overlay geometry is built with.
func New(device hal.Device, queue hal.Queue, font *overlay.Font, opts Options) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, errors.New("wgpu: device and queue are required")
	}
	if font == nil {
		return nil, errors.New("wgpu: font is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		device:  device,
		queue:   queue,
		opts:    opts.withDefaults(),
		opacity: 1,
	}
	if err := r.createPipeline(); err != nil {
		r.Close()
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	if err := r.uploadAtlas(font); err != nil {
		r.Close()
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	if err := r.createBindGroup(); err != nil {
		r.Close()
		return nil, fmt.Errorf("wgpu: %w", err)
	}
	return r, nil
}

// createPipeline compiles the shader and creates the bind group layout,
// pipeline layout, and render pipeline. The pipeline blends
// premultiplied alpha over the target and neither tests nor writes
// depth/stencil; when the target pass has a depth/stencil attachment the
// pipeline declares a matching pass-through state.
func (r *Renderer) createPipeline() error {
	shader, err := compileShader(r.device, "overlay_shader", overlayShaderSource)
	if err != nil {
		return fmt.Errorf("overlay shader: %w", err)
	}
	r.shader = shader

	// Bind group layout:
	//   Binding 0: Globals (uniform buffer, vertex+fragment)
	//   Binding 1: glyph atlas (texture_2d, fragment)
	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "overlay_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "overlay_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	desc := &hal.RenderPipelineDescriptor{
		Label:  "overlay_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    overlayVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.opts.TargetFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: r.opts.SampleCount,
			Mask:  0xFFFFFFFF,
		},
	}
	if r.opts.DepthStencilFormat != 0 {
		desc.DepthStencil = passThroughDepthStencil(r.opts.DepthStencilFormat)
	}

	pipeline, err := r.device.CreateRenderPipeline(desc)
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	r.pipeline = pipeline

	overlay.Logger().Info("wgpu: render pipeline created",
		"format", r.opts.TargetFormat,
		"samples", r.opts.SampleCount,
		"depth_stencil", r.opts.DepthStencilFormat != 0)
	return nil
}

// overlayVertexLayout returns the vertex buffer layout shared by all
// overlay draws: position at location 0, packed uv+color at location 1.
func overlayVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatUint32x2, Offset: 8, ShaderLocation: 1},  // uv, color
			},
		},
	}
}

// passThroughDepthStencil returns a depth/stencil state that matches an
// attachment the overlay does not touch: always pass, never write.
func passThroughDepthStencil(format gputypes.TextureFormat) *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// uploadAtlas creates the R8 atlas texture and uploads the font's
// coverage pixels, padding rows to the required upload alignment.
func (r *Renderer) uploadAtlas(font *overlay.Font) error {
	w := uint32(font.Width)  //nolint:gosec // atlas dimensions always fit uint32
	h := uint32(font.Height) //nolint:gosec // atlas dimensions always fit uint32

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "overlay_atlas",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create atlas texture: %w", err)
	}
	r.atlasTex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "overlay_atlas_view",
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create atlas view: %w", err)
	}
	r.atlasView = view

	data, bytesPerRow := padAtlasRows(font.Pixels, font.Width, font.Height)
	r.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: bytesPerRow, RowsPerImage: h},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	overlay.Logger().Debug("wgpu: atlas uploaded",
		"width", font.Width, "height", font.Height, "bytes", len(data))
	return nil
}

// padAtlasRows pads 1-byte-per-pixel rows out to atlasRowAlign. Returns
// the upload data and its bytes-per-row. Atlas widths that are already
// aligned upload in place.
func padAtlasRows(pixels []byte, width, height int) ([]byte, uint32) {
	padded := (width + atlasRowAlign - 1) &^ (atlasRowAlign - 1)
	if padded == width {
		return pixels, uint32(width) //nolint:gosec // atlas width always fits uint32
	}
	out := make([]byte, padded*height)
	for y := 0; y < height; y++ {
		copy(out[y*padded:], pixels[y*width:(y+1)*width])
	}
	return out, uint32(padded) //nolint:gosec // padded width always fits uint32
}

// createBindGroup allocates the Globals uniform buffer and binds it with
// the atlas view. The bind group is static for the renderer's lifetime.
func (r *Renderer) createBindGroup() error {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "overlay_globals",
		Size:  globalsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	r.uniformBuf = buf

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "overlay_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: globalsSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: gputypes.TextureViewHandle(r.atlasView.NativeHandle()),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup
	return nil
}

// Prepare serializes the frame's geometry and uploads it. width and
// height are the render target size in physical pixels. Call once per
// frame, outside the render pass, after the overlay's Finish.
func (r *Renderer) Prepare(width, height int, geo *overlay.Geometry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("wgpu: invalid target size %dx%d", width, height)
	}

	r.packFrame(geo)

	if err := r.ensureFrameBuffers(len(r.vertexScratch), len(r.indexScratch)); err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	uploaded := 0
	if len(r.vertexScratch) > 0 {
		r.queue.WriteBuffer(r.vertexBuf, 0, r.vertexScratch)
		uploaded += len(r.vertexScratch)
	}
	if len(r.indexScratch) > 0 {
		r.queue.WriteBuffer(r.indexBuf, 0, r.indexScratch)
		uploaded += len(r.indexScratch)
	}
	if r.writeGlobals(width, height) {
		uploaded += globalsSize
	}

	r.stats.prepared(geo, uploaded)
	return nil
}

// packFrame serializes vertices and concatenates the per-layer index
// lists into the scratch buffers, recording each layer's draw range.
func (r *Renderer) packFrame(geo *overlay.Geometry) {
	verts := geo.Vertices()
	need := len(verts) * vertexStride
	if cap(r.vertexScratch) < need {
		r.vertexScratch = make([]byte, need)
	}
	r.vertexScratch = r.vertexScratch[:need]
	off := 0
	for i := range verts {
		v := &verts[i]
		binary.LittleEndian.PutUint32(r.vertexScratch[off:], math.Float32bits(v.X))
		binary.LittleEndian.PutUint32(r.vertexScratch[off+4:], math.Float32bits(v.Y))
		binary.LittleEndian.PutUint32(r.vertexScratch[off+8:], v.UV)
		binary.LittleEndian.PutUint32(r.vertexScratch[off+12:], v.Color)
		off += vertexStride
	}

	total := 0
	for layer := 0; layer < geo.Layers(); layer++ {
		total += len(geo.Indices(layer))
	}
	need = total * indexStride
	if cap(r.indexScratch) < need {
		r.indexScratch = make([]byte, need)
	}
	r.indexScratch = r.indexScratch[:need]

	r.layers = r.layers[:0]
	off = 0
	first := uint32(0)
	for layer := 0; layer < geo.Layers(); layer++ {
		indices := geo.Indices(layer)
		for _, idx := range indices {
			binary.LittleEndian.PutUint16(r.indexScratch[off:], idx)
			off += indexStride
		}
		count := uint32(len(indices)) //nolint:gosec // index counts are bounded by uint16 vertex space
		r.layers = append(r.layers, layerRange{first: first, count: count})
		first += count
	}
}

// ensureFrameBuffers grows the vertex and index buffers to at least the
// given byte sizes. Buffers never shrink; steady-state frames reuse them
// without reallocation.
func (r *Renderer) ensureFrameBuffers(vertexBytes, indexBytes int) error {
	if r.vertexCap < vertexBytes {
		if r.vertexBuf != nil {
			r.device.DestroyBuffer(r.vertexBuf)
			r.vertexBuf = nil
			r.vertexCap = 0
		}
		buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "overlay_vertices",
			Size:  uint64(vertexBytes),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create vertex buffer: %w", err)
		}
		r.vertexBuf = buf
		r.vertexCap = vertexBytes
		overlay.Logger().Debug("wgpu: vertex buffer grown", "bytes", vertexBytes)
	}
	if r.indexCap < indexBytes {
		if r.indexBuf != nil {
			r.device.DestroyBuffer(r.indexBuf)
			r.indexBuf = nil
			r.indexCap = 0
		}
		buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "overlay_indices",
			Size:  uint64(indexBytes),
			Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create index buffer: %w", err)
		}
		r.indexBuf = buf
		r.indexCap = indexBytes
		overlay.Logger().Debug("wgpu: index buffer grown", "bytes", indexBytes)
	}
	return nil
}

// encodeGlobals serializes the Globals uniform: target size, scale,
// opacity, and y flip sign, padded out to globalsSize.
func encodeGlobals(width, height int, scale, opacity, yFlip float32) [globalsSize]byte {
	var g [globalsSize]byte
	binary.LittleEndian.PutUint32(g[0:], math.Float32bits(float32(width)))
	binary.LittleEndian.PutUint32(g[4:], math.Float32bits(float32(height)))
	binary.LittleEndian.PutUint32(g[8:], math.Float32bits(scale))
	binary.LittleEndian.PutUint32(g[12:], math.Float32bits(opacity))
	binary.LittleEndian.PutUint32(g[16:], math.Float32bits(yFlip))
	return g
}

// writeGlobals refreshes the uniform buffer if the target size, scale,
// opacity, or orientation changed since the last frame. Reports whether
// an upload happened.
func (r *Renderer) writeGlobals(width, height int) bool {
	yFlip := float32(1)
	if r.opts.YFlip {
		yFlip = -1
	}

	g := encodeGlobals(width, height, r.opts.ScaleFactor, r.opacity, yFlip)
	if r.globalsValid && g == r.globals {
		return false
	}
	r.globals = g
	r.globalsValid = true
	r.queue.WriteBuffer(r.uniformBuf, 0, g[:])
	return true
}

// Record records the prepared frame into rp: bind once, then one
// indexed draw per non-empty layer in ascending order. A renderer with
// no prepared geometry, or a closed one, records nothing.
func (r *Renderer) Record(rp hal.RenderPassEncoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.vertexBuf == nil || r.indexBuf == nil {
		return
	}
	draws := 0
	for _, lr := range r.layers {
		if lr.count > 0 {
			draws++
		}
	}
	if draws == 0 {
		return
	}

	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.vertexBuf, 0)
	rp.SetIndexBuffer(r.indexBuf, gputypes.IndexFormatUint16, 0)
	for _, lr := range r.layers {
		if lr.count == 0 {
			continue
		}
		rp.DrawIndexed(lr.count, 1, lr.first, 0, 0)
	}

	r.stats.recorded(draws)
}

// SetOpacity sets the global overlay alpha multiplier, clamped to
// [0, 1]. Takes effect on the next Prepare.
func (r *Renderer) SetOpacity(opacity float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opacity = min(max(opacity, 0), 1)
}

// Opacity returns the current overlay alpha multiplier.
func (r *Renderer) Opacity() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opacity
}

// Close releases all GPU resources. Close is idempotent; a closed
// renderer rejects Prepare and records nothing.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	if r.device == nil {
		return
	}

	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.indexBuf != nil {
		r.device.DestroyBuffer(r.indexBuf)
		r.indexBuf = nil
		r.indexCap = 0
	}
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
		r.vertexCap = 0
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.atlasView != nil {
		r.device.DestroyTextureView(r.atlasView)
		r.atlasView = nil
	}
	if r.atlasTex != nil {
		r.device.DestroyTexture(r.atlasTex)
		r.atlasTex = nil
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
