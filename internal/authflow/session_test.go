package authflow

import "testing"

func TestIsRemoteSession(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{
			name: "no indicators",
			env:  map[string]string{},
			want: false,
		},
		{
			name: "ssh tty set",
			env:  map[string]string{"SSH_TTY": "/dev/pts/3"},
			want: true,
		},
		{
			name: "ssh connection set",
			env:  map[string]string{"SSH_CONNECTION": "10.0.0.1 52000 10.0.0.2 22"},
			want: true,
		},
		{
			name: "both set",
			env:  map[string]string{"SSH_TTY": "/dev/pts/3", "SSH_CONNECTION": "10.0.0.1 52000 10.0.0.2 22"},
			want: true,
		},
		{
			name: "indicators empty",
			env:  map[string]string{"SSH_TTY": "", "SSH_CONNECTION": ""},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(name string) string { return tt.env[name] }
			if got := IsRemoteSession(getenv); got != tt.want {
				t.Errorf("IsRemoteSession() = %v, want %v", got, tt.want)
			}
		})
	}
}
