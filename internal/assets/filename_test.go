package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateType(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"photo.png", true},
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"photo.gif", true},
		{"photo.webp", true},
		{"PHOTO.JPG", true},
		{"Photo.WebP", true},
		{"archive.tar.png", true},
		{"photo.png.exe", false},
		{"photo.txt", false},
		{"photo.svg", false},
		{"photo.bmp", false},
		{"photo", false},
		{"png", false},
		{"photo.", false},
		{".png", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateType(tt.name))
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd.png", "etc_passwd.png"},
		{`..\..\windows\sys.gif`, "windows_sys.gif"},
		{"wedding (1).jpeg", "wedding_1.jpeg"},
		{"café.png", "caf.png"},
		{"...hidden.png", "hidden.png"},
		{"a/b/c.webp", "a_b_c.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := sanitize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, `\`)
		})
	}
}

func TestStoredName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.JPG", "my_photo.JPG"},
		{"../../etc/passwd.png", "etc_passwd.png"},
		{"archive.tar.png", "archive.tar.png"},
		{"$%^.jpg", "upload.jpg"},
		{"фото.jpg", "upload.jpg"},
		{"写真.png", "upload.png"},
		{"café.png", "caf.png"},
		{".png", "upload.png"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := storedName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, ValidateType(got))
		})
	}
}
