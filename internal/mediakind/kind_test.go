package mediakind

import "testing"

func TestFromExt(t *testing.T) {
	tests := []struct {
		ext  string
		want Kind
	}{
		{".jpg", KindImage},
		{".jpeg", KindImage},
		{".png", KindImage},
		{".webp", KindImage},
		{".JPG", KindImage},
		{".mp4", KindVideo},
		{".mov", KindVideo},
		{".m4v", KindVideo},
		{".webm", KindVideo},
		{".MP4", KindVideo},
		{".bin", KindUnknown},
		{".gif", KindUnknown},
		{".txt", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		if got := FromExt(tt.ext); got != tt.want {
			t.Errorf("FromExt(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}
