// Package fx holds the presentation side of a throw: indicator, lights,
// notifications and the deferred effects that play out over sim time.
package fx

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// LightID identifies a transient light.
type LightID int

// Color is an RGB color in [0,1].
type Color struct {
	R, G, B float64
}

var (
	ColorCapture = Color{R: 1, G: 0.2, B: 0.2}
	ColorRelease = Color{R: 1, G: 1, B: 1}
)

// Presenter receives presentation requests from the simulation.
// Implementations must not call back into the simulation.
type Presenter interface {
	ShowChargeIndicator(hue float64)
	HideChargeIndicator()
	DetachProjectile(id uuid.UUID)
	AddLight(pos r3.Vec, c Color) LightID
	RemoveLight(id LightID)
	Notify(msg string)
}

// Nop discards every request.
type Nop struct{}

func (Nop) ShowChargeIndicator(float64)    {}
func (Nop) HideChargeIndicator()           {}
func (Nop) DetachProjectile(uuid.UUID)     {}
func (Nop) AddLight(r3.Vec, Color) LightID { return 0 }
func (Nop) RemoveLight(LightID)            {}
func (Nop) Notify(string)                  {}

// Recorder keeps presentation state in memory. Headless runs and tests use it
// to observe what a renderer would show.
type Recorder struct {
	IndicatorVisible bool
	IndicatorHue     float64
	Detached         []uuid.UUID
	Lights           map[LightID]r3.Vec
	LightsAdded      int
	Notifications    []string

	nextLight LightID
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Lights: make(map[LightID]r3.Vec)}
}

func (r *Recorder) ShowChargeIndicator(hue float64) {
	r.IndicatorVisible = true
	r.IndicatorHue = hue
}

func (r *Recorder) HideChargeIndicator() {
	r.IndicatorVisible = false
}

func (r *Recorder) DetachProjectile(id uuid.UUID) {
	r.Detached = append(r.Detached, id)
}

func (r *Recorder) AddLight(pos r3.Vec, _ Color) LightID {
	r.nextLight++
	r.Lights[r.nextLight] = pos
	r.LightsAdded++
	return r.nextLight
}

func (r *Recorder) RemoveLight(id LightID) {
	delete(r.Lights, id)
}

func (r *Recorder) Notify(msg string) {
	r.Notifications = append(r.Notifications, msg)
}

// LastNotification returns the most recent message, or "".
func (r *Recorder) LastNotification() string {
	if len(r.Notifications) == 0 {
		return ""
	}
	return r.Notifications[len(r.Notifications)-1]
}

func (r *Recorder) String() string {
	return fmt.Sprintf("indicator=%v lights=%d detached=%d notes=%d",
		r.IndicatorVisible, len(r.Lights), len(r.Detached), len(r.Notifications))
}
