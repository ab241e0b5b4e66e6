package device

import "testing"

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{in: "Home", want: KeyHome},
		{in: "home", want: KeyHome},
		{in: "VOLUMEUP", want: KeyVolumeUp},
		{in: "vol+", want: KeyVolumeUp},
		{in: "ok", want: KeySelect},
		{in: "rewind", want: KeyReverse},
		{in: "replay", want: KeyInstantReplay},
		{in: " back ", want: KeyBack},
		{in: "teleport", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeysReturnsCopy(t *testing.T) {
	keys := Keys()
	keys[0] = "Mutated"
	if Keys()[0] == "Mutated" {
		t.Error("Keys() should return a copy")
	}
}
