// Package rotator turns keyboard and mouse input into view rotations.
//
// Both rotators track two angles: phi, the rotation about the Y axis, kept in
// [0, 2π), and theta, the rotation about the X axis, clamped to [-π/2, π/2].
// Call Poll once per frame and build the view rotation with Matrix.
package rotator

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Key identifies an arrow key.
type Key int

// Arrow keys read by KeyRotator.
const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
)

// Keys reports the state of the keyboard.
type Keys interface {
	Pressed(k Key) bool
}

// Pointer reports the state of the mouse and the window it moves in.
type Pointer interface {
	CursorPos() (x, y float64)
	LeftButton() bool
	RightButton() bool
	WindowSize() (w, h int)
}

// KeySpeed is the keyboard rotation speed in radians per second.
const KeySpeed = math.Pi / 2

// angles holds the rotation state shared by both rotators.
type angles struct {
	phi   float64
	theta float64
}

// Phi returns the rotation about the Y axis in radians, in [0, 2π).
func (a *angles) Phi() float64 { return a.phi }

// Theta returns the rotation about the X axis in radians, in [-π/2, π/2].
func (a *angles) Theta() float64 { return a.theta }

// Matrix returns the view rotation RotX(theta) * RotY(phi).
func (a *angles) Matrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(float32(a.theta)).Mul4(mgl32.HomogRotate3DY(float32(a.phi)))
}

func (a *angles) addPhi(d float64) {
	a.phi = math.Mod(a.phi+d, 2*math.Pi)
	if a.phi < 0 {
		a.phi += 2 * math.Pi
	}
}

func (a *angles) addTheta(d float64) {
	a.theta = min(max(a.theta+d, -math.Pi/2), math.Pi/2)
}

// KeyRotator rotates with the arrow keys at KeySpeed. Right and left turn
// phi, up and down tilt theta.
type KeyRotator struct {
	angles
	keys     Keys
	lastTime float64
}

// NewKeyRotator returns a rotator reading keys, with now as the time of
// the previous frame in seconds.
func NewKeyRotator(keys Keys, now float64) *KeyRotator {
	return &KeyRotator{keys: keys, lastTime: now}
}

// Poll applies the keys held since the previous call. now is the current
// time in seconds.
func (r *KeyRotator) Poll(now float64) {
	step := (now - r.lastTime) * KeySpeed
	r.lastTime = now

	if r.keys.Pressed(KeyRight) {
		r.addPhi(step)
	}
	if r.keys.Pressed(KeyLeft) {
		r.addPhi(-step)
	}
	if r.keys.Pressed(KeyUp) {
		r.addTheta(step)
	}
	if r.keys.Pressed(KeyDown) {
		r.addTheta(-step)
	}
}

// MouseRotator rotates while the left button is dragged. A drag across the
// full window width or height turns by π.
type MouseRotator struct {
	angles
	pointer      Pointer
	lastX, lastY float64
	leftPressed  bool
	rightPressed bool
}

// NewMouseRotator returns a rotator reading pointer.
func NewMouseRotator(pointer Pointer) *MouseRotator {
	r := &MouseRotator{pointer: pointer}
	r.lastX, r.lastY = pointer.CursorPos()
	return r
}

// Poll applies the pointer movement since the previous call.
func (r *MouseRotator) Poll() {
	x, y := r.pointer.CursorPos()
	left := r.pointer.LeftButton()
	right := r.pointer.RightButton()

	// Only a drag that was already in progress at the previous poll rotates.
	if left && r.leftPressed {
		w, h := r.pointer.WindowSize()
		if w > 0 && h > 0 {
			r.addPhi(math.Pi * (x - r.lastX) / float64(w))
			r.addTheta(math.Pi * (y - r.lastY) / float64(h))
		}
	}

	r.leftPressed = left
	r.rightPressed = right
	r.lastX, r.lastY = x, y
}

// RightPressed reports whether the right button was down at the last Poll.
func (r *MouseRotator) RightPressed() bool { return r.rightPressed }
