// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestMediaResponse_Decode(t *testing.T) {
	t.Parallel()

	body := `{"media":[
		{"id":1,"capture_time":"2023-01-01T00:00:00Z","file_path":"a","lat":1.5,"lng":2,"image_url":"x.jpg","trust_score":0.9},
		null,
		42,
		["not","an","object"],
		{"id":"abc","lat":"12"}
	]}`

	var resp MediaResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(resp.Media) != 5 {
		t.Fatalf("len(Media) = %d, want 5", len(resp.Media))
	}

	first := resp.Media[0]
	if id, ok := first.ID.(float64); !ok || id != 1 {
		t.Errorf("ID = %#v, want float64(1)", first.ID)
	}
	if lat, ok := first.Lat.(float64); !ok || lat != 1.5 {
		t.Errorf("Lat = %#v", first.Lat)
	}
	if first.TrustScore != 0.9 {
		t.Errorf("TrustScore = %#v", first.TrustScore)
	}

	for i := 1; i <= 3; i++ {
		if resp.Media[i] != (RawMediaRecord{}) {
			t.Errorf("Media[%d] = %#v, want empty record", i, resp.Media[i])
		}
	}

	if lat, ok := resp.Media[4].Lat.(string); !ok || lat != "12" {
		t.Errorf("string lat should survive decoding as string, got %#v", resp.Media[4].Lat)
	}
}

func TestMediaResponse_MissingMedia(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"media":null}`, `{"other":true}`} {
		var resp MediaResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			t.Fatalf("Unmarshal(%s): %v", body, err)
		}
		if len(resp.Media) != 0 {
			t.Errorf("Unmarshal(%s): len(Media) = %d, want 0", body, len(resp.Media))
		}
	}
}

func TestErrorResponse_DetailMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"not found"}`, "not found"},
		{"missing detail", `{}`, ""},
		{"null detail", `{"detail":null}`, ""},
		{"empty string", `{"detail":""}`, ""},
		{"false", `{"detail":false}`, ""},
		{"zero", `{"detail":0}`, ""},
		{"number", `{"detail":422}`, "422"},
		{"structured", `{"detail":[{"loc":["query","lat"],"msg":"bad"}]}`, `[{"loc":["query","lat"],"msg":"bad"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var e ErrorResponse
			if err := json.Unmarshal([]byte(tt.body), &e); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got := e.DetailMessage(); got != tt.want {
				t.Errorf("DetailMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMediaItem_JSONFieldNames(t *testing.T) {
	t.Parallel()

	item := MediaItem{
		ID:                 "7",
		FileURL:            "y.mp4",
		ThumbnailURL:       "y.jpg",
		MediaType:          MediaTypeVideo,
		CreatedAtTimestamp: 1685577600000,
		Location:           Location{Lat: 3, Lng: 4},
		Coordinates:        [2]float64{3, 4},
	}
	b, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	out := string(b)
	for _, want := range []string{
		`"thumbnailUrl":"y.jpg"`,
		`"fileUrl":"y.mp4"`,
		`"mediaType":"video"`,
		`"createdAtTimestamp":1685577600000`,
		`"location":{"lat":3,"lng":4}`,
		`"coordinates":[3,4]`,
		`"trustScore":null`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s: %s", want, out)
		}
	}
}

func TestFetchState_Error(t *testing.T) {
	t.Parallel()

	var s FetchState
	if s.Failed() || s.ErrorMessage() != "" {
		t.Errorf("zero state should not be failed: %+v", s)
	}

	msg := "Failed to process media data."
	s.Error = &msg
	if !s.Failed() || s.ErrorMessage() != msg {
		t.Errorf("ErrorMessage() = %q", s.ErrorMessage())
	}

	b, err := json.Marshal(FetchState{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"error":null`) {
		t.Errorf("nil error should encode as null: %s", b)
	}
}
