package tilebatch

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action   string    `json:"action"`
	Label    string    `json:"label,omitempty"`
	X        float64   `json:"x,omitempty"`
	Y        float64   `json:"y,omitempty"`
	TileX    int       `json:"tileX,omitempty"`
	TileY    int       `json:"tileY,omitempty"`
	TileSize float64   `json:"tileSize,omitempty"`
	Duration float32   `json:"duration,omitempty"`
	Ease     string    `json:"ease,omitempty"`
	Frames   int       `json:"frames,omitempty"`
	Batch    int       `json:"batch,omitempty"`
	Sprite   int       `json:"sprite,omitempty"`
	Tint     []float32 `json:"tint,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

var easeByName = map[string]ease.TweenFunc{
	"":           ease.Linear,
	"linear":     ease.Linear,
	"inOutQuad":  ease.InOutQuad,
	"inOutSine":  ease.InOutSine,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"outBounce":  ease.OutBounce,
}

// ScriptRunner sequences camera moves, tints and screenshots across frames
// for automated visual checks. Attach to a Game via SetScriptRunner.
//
// Supported actions: "scroll" (x, y, duration, ease), "scrollTile" (tileX,
// tileY, tileSize, duration, ease), "wait" (frames), "tint" (batch, sprite,
// tint [r,g,b,weight]), "screenshot" (label) and "quit".
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON script and validates every step.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "scroll", "scrollTile":
		if _, ok := easeByName[st.Ease]; !ok {
			return fmt.Errorf("unknown ease %q", st.Ease)
		}
		if st.Action == "scrollTile" && st.TileSize <= 0 {
			return fmt.Errorf("scrollTile needs a positive tileSize")
		}
	case "tint":
		if len(st.Tint) != 4 {
			return fmt.Errorf("tint needs 4 components, got %d", len(st.Tint))
		}
		if !(Tint{st.Tint[0], st.Tint[1], st.Tint[2], st.Tint[3]}).Valid() {
			return ErrInvalidTint
		}
	case "wait", "screenshot", "quit":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame. A running camera scroll holds the
// script until it settles.
func (r *ScriptRunner) step(g *Game) error {
	if r.done {
		return nil
	}
	if g.Camera.Scrolling() {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		g.Screenshot(st.Label)
	case "scroll":
		g.Camera.ScrollTo(st.X, st.Y, st.Duration, easeByName[st.Ease])
	case "scrollTile":
		g.Camera.ScrollToTile(st.TileX, st.TileY, st.TileSize, st.Duration, easeByName[st.Ease])
	case "tint":
		if st.Batch < 0 || st.Batch >= len(g.batches) {
			return fmt.Errorf("tilebatch: script tint: batch %d of %d: %w", st.Batch, len(g.batches), ErrIndexOutOfRange)
		}
		t := Tint{st.Tint[0], st.Tint[1], st.Tint[2], st.Tint[3]}
		if err := g.batches[st.Batch].SetTint(st.Sprite, t); err != nil {
			return fmt.Errorf("tilebatch: script tint: %w", err)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "quit":
		g.Quit()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}
