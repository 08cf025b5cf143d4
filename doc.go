// Package isp provides pixel-value transforms for image signal processing
// pipelines that operate on Bayer raw or demosaiced RGB frames.
//
// The package covers robust black/white level estimation, bit-depth requantization
// and sRGB/Rec.709 gamma encoding and decoding. All transforms are pure functions
// over in-memory frames: no file formats, no demosaicing, no color correction.
package isp
