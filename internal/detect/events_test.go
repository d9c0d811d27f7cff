package detect

import (
	"math"
	"testing"
)

func TestSaturate(t *testing.T) {
	tests := []struct {
		name       string
		magnitude  float64
		saturation float64
		want       float64
	}{
		{"at saturation", 25, 25, 1},
		{"above saturation", 40, 25, 1},
		{"half", 12.5, 25, 0.5},
		{"zero magnitude", 0, 25, 0},
		{"negative magnitude", -3, 25, 0},
		{"zero saturation passes through", 7, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := saturate(tt.magnitude, tt.saturation)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("saturate(%v, %v) = %v, want %v", tt.magnitude, tt.saturation, got, tt.want)
			}
		})
	}
}

func TestSceneEventsLocalMaxima(t *testing.T) {
	cfg := validConfig().normalized()
	samples := []Sample{
		{Timestamp: 10, Magnitude: 6},
		{Timestamp: 11, Magnitude: 20}, // local max
		{Timestamp: 12, Magnitude: 8},
		{Timestamp: 13, Magnitude: 2}, // below noise floor
		{Timestamp: 14, Magnitude: 30}, // local max, saturated
	}

	events := sceneEvents(samples, cfg)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].timestamp != 11 {
		t.Errorf("first event at %v, want 11", events[0].timestamp)
	}
	wantWeight := cfg.SceneWeight * 20 / cfg.SceneSaturation
	if math.Abs(events[0].weight-wantWeight) > 1e-9 {
		t.Errorf("first event weight = %v, want %v", events[0].weight, wantWeight)
	}
	if events[1].timestamp != 14 {
		t.Errorf("second event at %v, want 14", events[1].timestamp)
	}
	if events[1].weight != cfg.SceneWeight {
		t.Errorf("saturated event weight = %v, want full %v", events[1].weight, cfg.SceneWeight)
	}
}

func TestSceneEventsPlateauYieldsSingleEvent(t *testing.T) {
	cfg := validConfig().normalized()
	samples := []Sample{
		{Timestamp: 1, Magnitude: 10},
		{Timestamp: 2, Magnitude: 10},
		{Timestamp: 3, Magnitude: 10},
	}

	events := sceneEvents(samples, cfg)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].timestamp != 3 {
		t.Errorf("plateau event at %v, want 3", events[0].timestamp)
	}
}

func TestSceneEventsDisabledWeight(t *testing.T) {
	cfg := validConfig().normalized()
	cfg.SceneWeight = 0
	events := sceneEvents([]Sample{{Timestamp: 1, Magnitude: 50}}, cfg)
	if len(events) != 0 {
		t.Errorf("got %d events with zero weight, want 0", len(events))
	}
}

func TestBlackEventsCollapseRunToMidpoint(t *testing.T) {
	cfg := validConfig().normalized()
	samples := []Sample{
		{Timestamp: 9.5, Magnitude: 0},
		{Timestamp: 10.0, Magnitude: 1},
		{Timestamp: 11.0, Magnitude: 1},
		{Timestamp: 11.1, Magnitude: 0},
		{Timestamp: 42.0, Magnitude: 1},
		{Timestamp: 42.2, Magnitude: 1},
	}

	events := blackEvents(samples, cfg)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if math.Abs(events[0].timestamp-10.5) > 1e-9 {
		t.Errorf("first run midpoint = %v, want 10.5", events[0].timestamp)
	}
	// 1.0s run saturates at BlackSaturation.
	if events[0].weight != cfg.BlackWeight {
		t.Errorf("first run weight = %v, want full %v", events[0].weight, cfg.BlackWeight)
	}
	// 0.2s run earns a fifth of full weight.
	wantWeight := cfg.BlackWeight * 0.2 / cfg.BlackSaturation
	if math.Abs(events[1].weight-wantWeight) > 1e-9 {
		t.Errorf("short run weight = %v, want %v", events[1].weight, wantWeight)
	}
}

func TestBlackEventsSingleSampleSpan(t *testing.T) {
	cfg := validConfig().normalized()
	events := blackEvents([]Sample{{Timestamp: 5, Magnitude: 1}}, cfg)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].weight <= 0 || events[0].weight >= cfg.BlackWeight {
		t.Errorf("single-sample weight = %v, want between 0 and %v", events[0].weight, cfg.BlackWeight)
	}
}

func TestAudioEventsAbsoluteDelta(t *testing.T) {
	cfg := validConfig().normalized()
	samples := []Sample{
		{Timestamp: 1, Magnitude: 2},   // below floor
		{Timestamp: 2, Magnitude: -18}, // drop
		{Timestamp: 3, Magnitude: 30},  // rise, saturated
	}

	events := audioEvents(samples, cfg)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	wantWeight := cfg.AudioWeight * 18 / cfg.AudioSaturation
	if math.Abs(events[0].weight-wantWeight) > 1e-9 {
		t.Errorf("drop weight = %v, want %v", events[0].weight, wantWeight)
	}
	if events[1].weight != cfg.AudioWeight {
		t.Errorf("saturated rise weight = %v, want %v", events[1].weight, cfg.AudioWeight)
	}
}

func TestMergeEventsDeterministicOrder(t *testing.T) {
	a := []event{{timestamp: 2, weight: 5, kind: KindScene}}
	b := []event{{timestamp: 2, weight: 9, kind: KindBlack}, {timestamp: 1, weight: 1, kind: KindBlack}}

	merged := mergeEvents(a, b)
	if len(merged) != 3 {
		t.Fatalf("got %d events, want 3", len(merged))
	}
	if merged[0].timestamp != 1 {
		t.Errorf("first event at %v, want 1", merged[0].timestamp)
	}
	// Equal timestamps order by kind: audio < black < scene lexically.
	if merged[1].kind != KindBlack || merged[2].kind != KindScene {
		t.Errorf("tie-break order = %v, %v; want black, scene", merged[1].kind, merged[2].kind)
	}
}
