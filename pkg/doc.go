// Package pkg provides the core libraries for roughcast diagram rendering.
//
// # Overview
//
// Roughcast turns diagram documents (a flat JSON list of shapes, lines, and
// text) into hand-drawn style SVG and PNG images. The pkg directory is
// organized into four main areas:
//
//  1. [model], [geom] - Document types and geometry primitives
//  2. [scene], [sketch] - Geometry synthesis and sketchy stroke generation
//  3. [render] - Output backends (SVG serializer, raster drawer, conversion)
//  4. [pipeline], [cache], [io] - Orchestration, caching, and file handling
//
// # Architecture
//
// The typical data flow through roughcast:
//
//	Diagram JSON
//	         |
//	    [io] package (decode + normalize)
//	         |
//	    [scene] package (elements -> primitives)
//	         |
//	    [sketch] package (seeded jitter passes + fills)
//	         |
//	    [render/sink] package (SVG or PNG bytes)
//
// Rendering is deterministic: the same document and seed always produce the
// same bytes, which is what makes artifact caching in [cache] sound.
package pkg
