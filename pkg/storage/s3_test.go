package storage

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLogoContentType(t *testing.T) {
	cases := []struct {
		contentType, filename, want string
		ok                          bool
	}{
		{"image/png", "logo.png", "image/png", true},
		{"image/jpg", "logo.jpg", "image/jpeg", true},
		{"IMAGE/WEBP; charset=binary", "x", "image/webp", true},
		{"", "logo.JPEG", "image/jpeg", true},
		{"application/octet-stream", "logo.webp", "image/webp", true},
		{"image/gif", "logo.gif", "", false},
		{"application/pdf", "logo.png", "", false},
		{"", "logo.svg", "", false},
	}
	for _, tc := range cases {
		got, ok := LogoContentType(tc.contentType, tc.filename)
		assert.Equal(t, tc.ok, ok, tc.contentType+" "+tc.filename)
		assert.Equal(t, tc.want, got, tc.contentType+" "+tc.filename)
	}
}

func TestClubLogoKey(t *testing.T) {
	club := uuid.New()
	a := ClubLogoKey(club, "image/png")
	b := ClubLogoKey(club, "image/png")

	assert.True(t, strings.HasPrefix(a, "clubs/logos/"+club.String()+"/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
}

func TestPublicObjectURL(t *testing.T) {
	s := &S3{cfg: S3Config{Region: "eu-central-1", LogosBucket: "logos"}}
	assert.Equal(t, "https://logos.s3.eu-central-1.amazonaws.com/k.png", s.PublicObjectURL("k.png"))

	s.cfg.Endpoint = "http://localhost:9000/"
	assert.Equal(t, "http://localhost:9000/logos/k.png", s.PublicObjectURL("k.png"))
}
