package audio

import (
	"testing"
)

func TestFloat32ToPCM16ClampsOutOfRangeSamples(t *testing.T) {
	testCases := []struct {
		name     string
		sample   float32
		expected int16
	}{
		{name: "silence", sample: 0, expected: 0},
		{name: "full positive", sample: 1, expected: 0x7FFF},
		{name: "full negative", sample: -1, expected: -0x8000},
		{name: "clipped positive", sample: 2.5, expected: 0x7FFF},
		{name: "clipped negative", sample: -3, expected: -0x8000},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := Float32ToPCM16([]float32{testCase.sample})
			if got[0] != testCase.expected {
				t.Fatalf("expected sample %d, got %d", testCase.expected, got[0])
			}
		})
	}
}

func TestBase64PCM16RoundTripsLosslessly(t *testing.T) {
	pcm := []int16{0, 1, -1, 32767, -32768, 12345, -12345}

	decoded, err := DecodeBase64PCM16(EncodeBase64PCM16(pcm))
	if err != nil {
		t.Fatalf("expected round trip to succeed, got error: %v", err)
	}

	if len(decoded) != len(pcm) {
		t.Fatalf("expected %d samples, got %d", len(pcm), len(decoded))
	}
	for i := range pcm {
		if decoded[i] != pcm[i] {
			t.Fatalf("expected sample %d at index %d, got %d", pcm[i], i, decoded[i])
		}
	}
}

func TestDecodeBase64PCM16RejectsMalformedPayloads(t *testing.T) {
	if _, err := DecodeBase64PCM16("not base64!!!"); err == nil {
		t.Fatal("expected an error for malformed base64")
	}

	// "AAA=" decodes to a single byte, half a sample
	if _, err := DecodeBase64PCM16("AA=="); err == nil {
		t.Fatal("expected an error for an odd byte count")
	}
}

func TestMillisToSamplesTruncates(t *testing.T) {
	testCases := []struct {
		name     string
		millis   float64
		expected int
	}{
		{name: "zero", millis: 0, expected: 0},
		{name: "half second", millis: 500, expected: 12000},
		{name: "sub-sample remainder", millis: 0.04, expected: 0},
		{name: "one second", millis: 1000, expected: 24000},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := MillisToSamples(testCase.millis, DefaultSampleRate); got != testCase.expected {
				t.Fatalf("expected %d samples, got %d", testCase.expected, got)
			}
		})
	}
}
