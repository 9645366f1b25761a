// Command glprimer builds a mesh, optionally loads a texture, and uploads
// both to the GPU.
//
// Examples:
//
//	glprimer -shape sphere -segments 32
//	glprimer -obj bunny.obj -tga earth.tga -gpu -frames 600
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/primer"
	"github.com/gogpu/primer/fps"
	"github.com/gogpu/primer/mesh"
	"github.com/gogpu/primer/rotator"
	"github.com/gogpu/primer/texture"
)

// renderer receives the view transform of every frame.
type renderer interface {
	SetTransform(m mgl32.Mat4)
	Close()
}

type nopRenderer struct{}

func (nopRenderer) SetTransform(mgl32.Mat4) {}
func (nopRenderer) Close()                  {}

// spinKeys holds the right arrow key down.
type spinKeys struct{}

func (spinKeys) Pressed(k rotator.Key) bool { return k == rotator.KeyRight }

func main() {
	var (
		shape    = flag.String("shape", "sphere", "generated shape: triangle, box or sphere")
		size     = flag.Float64("size", 1, "box half-extent and sphere radius")
		segments = flag.Int("segments", 16, "sphere segments from pole to pole")
		objFile  = flag.String("obj", "", "OBJ model to load instead of a generated shape")
		tgaFile  = flag.String("tga", "", "uncompressed TGA texture to load")
		dump     = flag.Bool("dump", false, "print every vertex and triangle")
		useGPU   = flag.Bool("gpu", false, "upload mesh and texture to a Vulkan device")
		frames   = flag.Int("frames", 0, "number of frames to spin the view")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	primer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	m, err := buildMesh(*shape, float32(*size), *segments, *objFile)
	if err != nil {
		log.Fatalf("Failed to build mesh: %v", err)
	}
	if err := m.WriteInfo(os.Stdout); err != nil {
		log.Fatalf("Failed to write mesh info: %v", err)
	}
	if *dump {
		if err := m.WriteData(os.Stdout); err != nil {
			log.Fatalf("Failed to write mesh data: %v", err)
		}
	}

	var tex *texture.Texture
	if *tgaFile != "" {
		tex, err = texture.Load(*tgaFile)
		if err != nil {
			log.Fatalf("Failed to load texture: %v", err)
		}
		fmt.Printf("texture: %dx%d, %d channels, %d mip levels\n",
			tex.Width(), tex.Height(), tex.Channels(), tex.MipLevelCount())
	}

	r, err := newRenderer(*useGPU, m, tex)
	if err != nil {
		log.Fatalf("Failed to set up GPU: %v", err)
	}
	defer r.Close()

	spin(r, *frames)
}

func buildMesh(shape string, size float32, segments int, objFile string) (*mesh.Mesh, error) {
	m := mesh.New()
	if objFile != "" {
		if err := m.ReadOBJ(objFile); err != nil {
			return nil, err
		}
		return m, nil
	}
	switch shape {
	case "triangle":
		m.CreateTriangle()
	case "box":
		m.CreateBox(size, size, size)
	case "sphere":
		m.CreateSphere(size, segments)
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
	return m, nil
}

// spin turns the view about the Y axis for the given number of frames,
// reporting the frame rate once per second.
func spin(r renderer, frames int) {
	if frames <= 0 {
		return
	}
	start := time.Now()
	rot := rotator.NewKeyRotator(spinKeys{}, 0)
	counter := fps.New("glprimer")
	for range frames {
		now := time.Since(start).Seconds()
		rot.Poll(now)
		r.SetTransform(rot.Matrix())
		if _, title, changed := counter.Frame(now); changed {
			log.Print(title)
		}
	}
	log.Printf("Rendered %d frames, final rotation %.2f rad", frames, rot.Phi())
}
