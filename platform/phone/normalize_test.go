package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "national number", input: "(212) 555-0175", want: "+12125550175"},
		{name: "already e164", input: "+12125550175", want: "+12125550175"},
		{name: "international", input: "+31 6 12345678", want: "+31612345678"},
		{name: "garbage", input: "not-a-number", wantErr: true},
		{name: "too short", input: "12", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeE164(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeE164(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeE164(%q) returned %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMessagingHandle(t *testing.T) {
	if got := MessagingHandle("+12125550175"); got != "12125550175" {
		t.Fatalf("expected handle 12125550175, got %q", got)
	}
	if got := MessagingHandle("bogus"); got != "" {
		t.Fatalf("expected empty handle for non-e164 input, got %q", got)
	}
}
