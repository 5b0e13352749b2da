// Copyright 2026 The ocmf-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qr

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

const testQRContent = `OCMF|{"GS":"17619300","PG":"T1","IS":false,"RD":[]}|{"SD":"00"}`

// writeQRFile renders content as a QR code PNG and returns its path.
func writeQRFile(t *testing.T, content string) string {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	if err != nil {
		t.Fatalf("encoding QR: %v", err)
	}
	path := filepath.Join(t.TempDir(), "record.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, matrix); err != nil {
		t.Fatalf("writing PNG: %v", err)
	}
	return path
}

func TestScanFile_ValidQR(t *testing.T) {
	path := writeQRFile(t, testQRContent)
	got, err := ScanFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != testQRContent {
		t.Errorf("got %q, want %q", got, testQRContent)
	}
}

func TestScanFile_InvalidPath(t *testing.T) {
	_, err := ScanFile(filepath.Join(t.TempDir(), "nonexistent.png"))
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "opening image file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeQR_BlankImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	_, err := decodeQR(img)
	if err == nil {
		t.Fatal("expected error for blank image")
	}
	if !strings.Contains(err.Error(), "no QR code found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestScanFile_InvalidImage(t *testing.T) {
	// A file that exists but isn't a valid image
	_, err := ScanFile("scan.go")
	if err == nil {
		t.Fatal("expected error for non-image file")
	}
}
