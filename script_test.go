package tilebatch

import "testing"

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "scroll", "x": 100, "y": 200, "duration": 1, "ease": "outCubic"},
			{"action": "wait", "frames": 3},
			{"action": "tint", "batch": 0, "sprite": 2, "tint": [1, 0, 0, 0.5]}
		]
	}`)

	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[1].Action != "scroll" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[3].Sprite != 2 || len(runner.steps[3].Tint) != 4 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadScriptRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "click"}]}`},
		{"unknown ease", `{"steps": [{"action": "scroll", "ease": "wobble"}]}`},
		{"short tint", `{"steps": [{"action": "tint", "tint": [1, 1]}]}`},
		{"tint out of range", `{"steps": [{"action": "tint", "tint": [2, 0, 0, 0]}]}`},
		{"tile without size", `{"steps": [{"action": "scrollTile", "tileX": 3}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScriptWaitCountsFrames(t *testing.T) {
	g := newTestGame(t)
	runner, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 3}, {"action": "screenshot", "label": "x"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.SetScriptRunner(runner)

	for frame := 1; frame <= 3; frame++ {
		if err := g.step(0.1); err != nil {
			t.Fatal(err)
		}
		if len(g.screenshotQueue) != 0 {
			t.Fatalf("screenshot queued at frame %d, want after wait", frame)
		}
	}
	if err := g.step(0.1); err != nil {
		t.Fatal(err)
	}
	if len(g.screenshotQueue) != 1 || g.screenshotQueue[0] != "x" {
		t.Errorf("queue = %v, want [x]", g.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestScriptScrollHoldsUntilSettled(t *testing.T) {
	g := newTestGame(t)
	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "scroll", "x": 40, "y": 0, "duration": 0.5},
		{"action": "screenshot", "label": "settled"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.SetScriptRunner(runner)

	_ = g.step(0.25) // starts the scroll and advances it halfway
	if !g.Camera.Scrolling() {
		t.Fatal("camera should be scrolling")
	}
	_ = g.step(0.25) // runner holds, camera finishes
	if len(g.screenshotQueue) != 0 {
		t.Fatal("screenshot should wait for the scroll")
	}
	_ = g.step(0.1)
	if len(g.screenshotQueue) != 1 {
		t.Errorf("queue = %v, want one screenshot", g.screenshotQueue)
	}
	if g.Camera.X != 40 {
		t.Errorf("Camera.X = %v, want 40", g.Camera.X)
	}
}

func TestScriptTintAndQuit(t *testing.T) {
	g := newTestGame(t)
	b, err := g.NewBatch(BatchOptions{Capacity: 2, AtlasWidth: 64, AtlasHeight: 64}, false)
	if err != nil {
		t.Fatal(err)
	}
	b.CreateSprite(Rect{0, 0, 8, 8}, Rect{0, 0, 8, 8}, NoTint)
	b.CreateSprite(Rect{8, 0, 8, 8}, Rect{0, 0, 8, 8}, NoTint)

	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "tint", "batch": 0, "sprite": 1, "tint": [1, 0, 0, 1]},
		{"action": "quit"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	g.SetScriptRunner(runner)

	if err := g.step(0.1); err != nil {
		t.Fatal(err)
	}
	s, _ := b.Sprite(1)
	if s.Tint != (Tint{1, 0, 0, 1}) {
		t.Errorf("Tint = %+v, want red", s.Tint)
	}
	_ = g.step(0.1) // queues quit
	if err := g.step(0.1); err != ErrQuit {
		t.Errorf("err = %v, want ErrQuit", err)
	}
}

func TestScriptTintBadBatch(t *testing.T) {
	g := newTestGame(t)
	runner, _ := LoadScript([]byte(`{"steps": [{"action": "tint", "batch": 3, "tint": [1, 1, 1, 0]}]}`))
	g.SetScriptRunner(runner)
	if err := g.step(0.1); err == nil {
		t.Error("expected error for missing batch")
	}
}
