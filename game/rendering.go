package game

import (
	"fmt"
	"math"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	handFlick   = 100 * time.Millisecond
	noteTTL     = 3 * time.Second
	fieldOfView = 70
)

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func (g *Game) camera3D() rl.Camera3D {
	eye := g.camera.Eye()
	return rl.Camera3D{
		Position:   vec3(eye),
		Target:     vec3(r3.Add(eye, g.camera.Forward())),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       fieldOfView,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the game.
func (g *Game) Draw() {
	g.perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.SkyBlue)

	rl.BeginMode3D(g.camera3D())
	g.drawTerrain()
	g.drawWild()
	g.drawCompanion()
	g.drawProjectiles()
	g.drawLights()
	rl.EndMode3D()

	g.drawHUD()
	rl.EndDrawing()
}

// drawTerrain draws the ground mesh shaded by height.
func (g *Game) drawTerrain() {
	for _, s := range g.scene.Surfaces() {
		for _, t := range s.Triangles {
			y := (t[0].Y + t[1].Y + t[2].Y) / 3
			shade := 0.45 + 0.15*math.Tanh(y)
			c := rl.ColorFromHSV(110, 0.55, float32(shade))
			// raylib culls clockwise faces; the grid winds the other way
			rl.DrawTriangle3D(vec3(t[0]), vec3(t[2]), vec3(t[1]), c)
		}
	}
}

func speciesColor(id int) rl.Color {
	return rl.ColorFromHSV(float32((id*47)%360), 0.6, 0.9)
}

func (g *Game) drawWild() {
	for _, w := range g.registry.Wild() {
		center := vec3(r3.Add(w.Center(), r3.Vec{Y: w.HopOffset}))
		c := speciesColor(w.SpeciesID)
		if w.InCombat {
			c = rl.Red
		}
		ex, ey, ez := float32(w.Extent.X), float32(w.Extent.Y), float32(w.Extent.Z)
		rl.DrawCube(center, ex, ey, ez, c)
		rl.DrawCubeWires(center, ex, ey, ez, rl.Black)
	}
}

func (g *Game) drawCompanion() {
	c := g.resolver.Companion()
	if c == nil {
		return
	}
	col := rl.SkyBlue
	if c.InCombat {
		col = rl.Orange
	}
	rl.DrawSphere(vec3(r3.Add(c.Position, r3.Vec{Y: 0.5})), 0.5, col)
}

func (g *Game) drawProjectiles() {
	for _, p := range g.projectiles.Views() {
		col := rl.White
		if p.Payload == nil {
			col = rl.Red
		}
		rl.DrawSphere(vec3(p.Position), float32(p.Radius), col)
	}
}

func (g *Game) drawLights() {
	for _, pos := range g.hud.Lights {
		rl.DrawSphere(vec3(r3.Add(pos, r3.Vec{Y: 0.5})), 0.3, rl.Fade(rl.Yellow, 0.6))
	}
}

// drawHUD renders text, the charge bar and the raygui controls.
func (g *Game) drawHUD() {
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())

	// Crosshair
	rl.DrawLine(w/2-8, h/2, w/2+8, h/2, rl.White)
	rl.DrawLine(w/2, h/2-8, w/2, h/2+8, rl.White)

	rl.DrawText(fmt.Sprintf("Time: %.1fs  Tick: %d", g.clock.Seconds(), g.tick), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Wild: %d  Projectiles: %d  Stored: %d",
		g.registry.Len(), g.projectiles.Count(), len(g.save.Storage())), 10, 35, 20, rl.White)
	if g.paused {
		rl.DrawText("PAUSED", 10, 60, 20, rl.Yellow)
	}

	// Team
	y := int32(90)
	for i, m := range g.team.Members() {
		marker := "  "
		if i == g.team.SelectedIndex() {
			marker = "> "
		}
		col := rl.White
		if m.Out {
			col = rl.Gray
		}
		rl.DrawText(fmt.Sprintf("%s%s Lv%d  %d/%d", marker, m.Name, m.Level, m.HP, m.MaxHP), 10, y, 16, col)
		y += 20
	}

	// Charge bar
	if g.hud.IndicatorVisible {
		const barW, barH = 240, 14
		n := g.charge.Normalized(g.clock)
		x := w/2 - barW/2
		by := h - 80
		rl.DrawRectangle(x, by, barW, barH, rl.Fade(rl.Black, 0.5))
		rl.DrawRectangle(x, by, int32(n*barW), barH, rl.ColorFromHSV(float32(g.hud.IndicatorHue*360), 0.9, 0.95))
		rl.DrawRectangleLines(x, by, barW, barH, rl.White)
	}

	if msg := g.hud.note(noteTTL); msg != "" {
		tw := rl.MeasureText(msg, 24)
		rl.DrawText(msg, w/2-tw/2, h/3, 24, rl.RayWhite)
	}

	// Controls
	panelX := float32(w - 220)
	rl.DrawText(fmt.Sprintf("Speed: %dx", g.stepsPerUpdate), int32(panelX), 10, 16, rl.White)
	speed := gui.SliderBar(rl.Rectangle{X: panelX, Y: 30, Width: 160, Height: 18}, "1", "10",
		float32(g.stepsPerUpdate), 1, 10)
	g.SetStepsPerUpdate(int(math.Round(float64(speed))))
	if gui.Button(rl.Rectangle{X: panelX, Y: 60, Width: 100, Height: 26}, "Recall [R]") {
		g.Recall()
	}

	rl.DrawText("[Space] throw  [H] flick  [Tab] select  [RMB] look  [WASD] walk", 10, h-24, 14, rl.LightGray)
}
