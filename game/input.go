package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	mouseSensitivity = 0.003
	walkSpeed        = 6.0
)

// HandleInput processes keyboard and mouse input.
func (g *Game) HandleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.SetStepsPerUpdate(g.stepsPerUpdate - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.SetStepsPerUpdate(g.stepsPerUpdate + 1)
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		g.team.Next()
	}

	g.handleCameraInput()
	g.handleThrowInput()
}

// handleCameraInput turns the view with the right mouse button held and
// walks with WASD.
func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Rotate(-float64(d.X)*mouseSensitivity, -float64(d.Y)*mouseSensitivity)
	}

	step := walkSpeed * float64(rl.GetFrameTime())
	var fwd, right float64
	if rl.IsKeyDown(rl.KeyW) {
		fwd += step
	}
	if rl.IsKeyDown(rl.KeyS) {
		fwd -= step
	}
	if rl.IsKeyDown(rl.KeyD) {
		right += step
	}
	if rl.IsKeyDown(rl.KeyA) {
		right -= step
	}
	if fwd != 0 || right != 0 {
		g.camera.Move(fwd, right)
		g.camera.Position.Y = g.ground.GroundHeight(g.camera.Position)
	}
}

// handleThrowInput maps Space to press-and-hold, H to a hand flick and R to
// recall.
func (g *Game) handleThrowInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.PressThrow()
	}
	if rl.IsKeyReleased(rl.KeySpace) {
		g.ReleaseThrow()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Recall()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		// a short underarm flick from beside the eye
		from := r3.Add(g.camera.Eye(), r3.Add(r3.Scale(0.3, g.camera.Right()), r3.Vec{Y: -0.3}))
		to := r3.Add(from, r3.Scale(0.6, g.camera.Forward()))
		g.HandThrow(from, to, handFlick)
	}
}
