package utils

import "testing"

func TestComputeCallbackURL(t *testing.T) {
	tests := []struct {
		name           string
		host           string
		forwardedProto string
		want           string
	}{
		{
			name: "forwarded proto wins",
			host: "example.com", forwardedProto: "https",
			want: "https://example.com/api/auth/google",
		},
		{
			name: "forwarded http behind proxy",
			host: "example.com", forwardedProto: "http",
			want: "http://example.com/api/auth/google",
		},
		{
			name: "localhost defaults to http",
			host: "localhost:8080", forwardedProto: "",
			want: "http://localhost:8080/api/auth/google",
		},
		{
			name: "public host defaults to https",
			host: "rhythmicsouls.ai", forwardedProto: "",
			want: "https://rhythmicsouls.ai/api/auth/google",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCallbackURL(tt.host, tt.forwardedProto)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
