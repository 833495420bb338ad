package ocr

import (
	"image"
	"image/color"
	"testing"
	"time"
)

func TestParseDatestamp(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"apostrophe year first", "'98 7 14", "1998-07-14", true},
		{"apostrophe year first padded", " ' 03  12  25 \n", "2003-12-25", true},
		{"apostrophe year last", "7 14 '98", "1998-07-14", true},
		{"curly apostrophe", "’01 1 2", "2001-01-02", true},
		{"iso slashes", "2004/07/14", "2004-07-14", true},
		{"iso dots", "2011.3.9", "2011-03-09", true},
		{"iso dashes", "2019-11-30", "2019-11-30", true},
		{"us numeric", "07/14/98", "1998-07-14", true},
		{"day first numeric", "14.07.2004", "2004-07-14", true},
		{"year boundary 69", "'69 1 1", "2069-01-01", true},
		{"year boundary 70", "'70 1 1", "1970-01-01", true},
		{"noise around", "x '98 7 14 :", "1998-07-14", true},
		{"invalid day", "'99 2 30", "", false},
		{"invalid month", "2004/13/01", "", false},
		{"no date", "12:45", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDatestamp(tt.text)
			if ok != tt.ok {
				t.Fatalf("parseDatestamp(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("parseDatestamp(%q) = %s, want %s", tt.text, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestMakeDate_RejectsNormalization(t *testing.T) {
	if _, ok := makeDate(2021, 2, 29); ok {
		t.Error("2021-02-29 should be rejected")
	}
	if d, ok := makeDate(2020, 2, 29); !ok || d.Month() != time.February {
		t.Error("2020-02-29 is a leap day")
	}
}

func TestIsStampInk(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want bool
	}{
		{"led orange", color.NRGBA{255, 140, 40, 255}, true},
		{"led red-orange", color.NRGBA{230, 90, 30, 255}, true},
		{"white overlay", color.NRGBA{240, 240, 240, 255}, true},
		{"sky blue", color.NRGBA{120, 170, 230, 255}, false},
		{"dark ground", color.NRGBA{40, 35, 30, 255}, false},
		{"pure red", color.NRGBA{255, 0, 0, 255}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStampInk(tt.c); got != tt.want {
				t.Errorf("isStampInk(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestIsolateStamp(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 80))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 30, 30, 30, 255
	}
	// One orange pixel inside the stamp corner, one outside.
	img.SetNRGBA(90, 70, color.NRGBA{255, 140, 40, 255})
	img.SetNRGBA(10, 10, color.NRGBA{255, 140, 40, 255})

	mask := isolateStamp(img)

	// Region is x 50..100, y 60..80, scaled 3x.
	if mask.Rect.Dx() != 150 || mask.Rect.Dy() != 60 {
		t.Fatalf("mask size: got %dx%d, want 150x60", mask.Rect.Dx(), mask.Rect.Dy())
	}
	ink := mask.NRGBAAt((90-50)*3+1, (70-60)*3+1)
	if ink.R != 0 {
		t.Errorf("stamp pixel should be black ink, got %v", ink)
	}
	paper := mask.NRGBAAt(0, 0)
	if paper.R != 255 {
		t.Errorf("background should be white, got %v", paper)
	}
}
