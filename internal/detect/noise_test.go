package detect

import "testing"

// burstSamples fabricates n scene detections per second across [start, end).
func burstSamples(start, end, perSecond int, magnitude float64) []Sample {
	var samples []Sample
	for s := start; s < end; s++ {
		for i := 0; i < perSecond; i++ {
			samples = append(samples, Sample{
				Timestamp: float64(s) + float64(i)/float64(perSecond),
				Magnitude: magnitude,
			})
		}
	}
	return samples
}

func TestNoiseZonesDetectSustainedDensity(t *testing.T) {
	cfg := validConfig().normalized()
	// 30 seconds of static at 4 detections/second, isolated real cut later.
	samples := append(burstSamples(100, 130, 4, 8), Sample{Timestamp: 300, Magnitude: 30})

	zones := noiseZones(samples, cfg)
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1: %+v", len(zones), zones)
	}
	zone := zones[0]
	if zone.Start > 101 || zone.End < 129 {
		t.Errorf("zone [%v, %v] does not cover the burst", zone.Start, zone.End)
	}
	if zone.Detections < 100 {
		t.Errorf("zone detections = %d, want >= 100", zone.Detections)
	}
	if zone.Contains(300, 0) {
		t.Error("isolated detection at 300 should be outside the zone")
	}
}

func TestNoiseZonesIgnoreSparseDetections(t *testing.T) {
	cfg := validConfig().normalized()
	samples := []Sample{
		{Timestamp: 10, Magnitude: 20},
		{Timestamp: 55, Magnitude: 25},
		{Timestamp: 120, Magnitude: 18},
	}
	if zones := noiseZones(samples, cfg); len(zones) != 0 {
		t.Errorf("got %d zones from sparse detections, want 0", len(zones))
	}
}

func TestNoiseZonesMergeNearbyZones(t *testing.T) {
	cfg := validConfig().normalized()
	// Two bursts separated by less than the merge gap.
	samples := append(burstSamples(100, 120, 4, 8), burstSamples(123, 143, 4, 8)...)

	zones := noiseZones(samples, cfg)
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1 merged: %+v", len(zones), zones)
	}
}

func TestSuppressNoiseKeepsBoundaryDetections(t *testing.T) {
	cfg := validConfig().normalized()
	zones := []NoiseZone{{Start: 100, End: 140}}
	samples := []Sample{
		{Timestamp: 102, Magnitude: 20}, // within boundary margin of start
		{Timestamp: 120, Magnitude: 20}, // deep inside: suppressed
		{Timestamp: 138, Magnitude: 20}, // within boundary margin of end
		{Timestamp: 200, Magnitude: 20}, // outside
	}

	kept := suppressNoise(samples, zones, cfg)
	if len(kept) != 3 {
		t.Fatalf("kept %d samples, want 3: %+v", len(kept), kept)
	}
	for _, sample := range kept {
		if sample.Timestamp == 120 {
			t.Error("sample deep inside noise zone survived suppression")
		}
	}
}

func TestSuppressNoiseNoZonesPassThrough(t *testing.T) {
	cfg := validConfig().normalized()
	samples := []Sample{{Timestamp: 1, Magnitude: 10}}
	kept := suppressNoise(samples, nil, cfg)
	if len(kept) != 1 {
		t.Errorf("kept %d samples, want 1", len(kept))
	}
}

func TestNearNoiseZone(t *testing.T) {
	zones := []NoiseZone{{Start: 50, End: 80}}
	tests := []struct {
		t      float64
		margin float64
		want   bool
	}{
		{65, 0, true},
		{45, 10, true},
		{85, 10, true},
		{30, 10, false},
		{100, 10, false},
	}
	for _, tt := range tests {
		if got := NearNoiseZone(tt.t, zones, tt.margin); got != tt.want {
			t.Errorf("NearNoiseZone(%v, margin %v) = %v, want %v", tt.t, tt.margin, got, tt.want)
		}
	}
}

// A capture that is mostly static should not explode into dozens of cuts: the
// zone swallows interior detections while the boundary ones survive scoring.
func TestScoreSuppressesNoiseZoneInterior(t *testing.T) {
	cfg := Config{
		MinConfidence: 20,
		MinGap:        10,
		SceneWeight:   30,
	}
	samples := burstSamples(100, 160, 4, 12)

	result, err := Score(Streams{Scene: samples}, cfg)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if len(result.NoiseZones) == 0 {
		t.Fatal("expected a noise zone from a 60s burst")
	}
	// Only boundary-adjacent clusters may survive.
	for _, c := range result.Candidates {
		zone := result.NoiseZones[0]
		interior := zone.Start+cfg.normalized().NoiseBoundaryMargin < c.Timestamp &&
			c.Timestamp < zone.End-cfg.normalized().NoiseBoundaryMargin
		if interior {
			t.Errorf("candidate at %v lies deep inside noise zone [%v, %v]", c.Timestamp, zone.Start, zone.End)
		}
	}
}
