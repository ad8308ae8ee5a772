// Package vantage provides per-frame camera rendering for [Ebitengine]:
// pooled draw batching, a zoom/scale/rotation transform pipeline, target
// following with deadzones, and flash/fade/shake effects.
//
// # Cameras and frames
//
// A [Camera] owns an offscreen buffer and converts world-space draws into an
// ordered stack of batches, replayed once per frame. Cameras share a
// [BatchPool] so a frame allocates nothing after warmup:
//
//	pool := vantage.NewBatchPool()
//	cam := vantage.NewCamera(pool, vantage.NewBatchedBackend(), 0, 0, 640, 480, 1)
//
//	// per frame:
//	cam.Update(elapsed)
//	batch := cam.QuadBatch(vantage.BatchKey{Graphic: sprite})
//	batch.AddQuad(frame, matrix, vantage.IdentityColorTransform)
//	cam.Render(screen)
//
// Consecutive submissions sharing a [BatchKey] (graphic, blend mode,
// smoothing, shader, color flags) merge into one batch and one draw call.
//
// # Backends
//
// Rendering strategy is chosen at construction. [NewBatchedBackend] submits
// GPU draw calls through DrawTriangles32; [NewImmediateBackend] composites
// pixels on the CPU, for headless use and pixel-exact output. Both consume
// the same draw stack.
//
// # Following and effects
//
// [Camera.Follow] tracks any [Target] with one of six deadzone styles, with
// framerate-independent smoothing, scroll bounds, and lead. [Camera.Flash],
// [Camera.Fade], and [Camera.Shake] run timed effects with one-shot
// completion callbacks; [Camera.PanTo] animates scroll via [gween].
//
// All cameras sharing a pool must run on a single goroutine, one frame at a
// time.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package vantage
