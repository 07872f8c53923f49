// Package codec provides the single-file PNG→WebP conversion collaborators
// injected into the batch engine: an in-process encoder, an external
// command runner for users who prefer cwebp/ffmpeg, and a system resource
// gate consulted before a run starts.
package codec

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/chai2010/webp"
)

// WebP is the in-process codec: decode PNG with the standard library,
// encode lossy WebP with libwebp bindings.
type WebP struct {
	maxInputSize int64
}

// NewWebP returns the built-in codec. maxInputSize caps the source file
// size in bytes; zero disables the check.
func NewWebP(maxInputSize int64) *WebP {
	return &WebP{maxInputSize: maxInputSize}
}

// Convert reads the PNG at src and writes a WebP at dst using the given
// quality (0-100). A partial output file is removed on failure so a failed
// item never leaves a truncated artifact behind.
func (c *WebP) Convert(ctx context.Context, src, dst string, quality int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	if c.maxInputSize > 0 {
		info, err := in.Stat()
		if err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
		if info.Size() > c.maxInputSize {
			return fmt.Errorf("input file size %d exceeds limit of %d bytes", info.Size(), c.maxInputSize)
		}
	}

	img, err := png.Decode(in)
	if err != nil {
		return fmt.Errorf("decode png: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	if err := webp.Encode(out, img, &webp.Options{Quality: float32(quality)}); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("encode webp: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
