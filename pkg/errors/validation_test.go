package errors

import (
	"testing"
)

func TestValidateDiagramName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "clock", false},
		{"valid with dash", "spi-transfer", false},
		{"valid with underscore", "axi_read", false},
		{"valid with dot", "bus.read", false},
		{"valid with digits", "timer2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"path separator", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"path traversal", "foo..bar", true},
		{"hidden file", ".hidden", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiagramName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDiagramName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateDiagramName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateImageDir(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "_images", false},
		{"valid nested", "build/html/_images", false},
		{"valid current dir", ".", false},
		{"valid with dots", "v1.2/images", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/var/www/images", true},
		{"path traversal", "../../../etc", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageDir(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageDir(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateImageDir(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateSkin(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means none", "", false},
		{"default", "default", false},
		{"narrow", "narrow", false},
		{"with dash", "dark-mode", false},
		{"with underscore", "my_skin", false},
		{"with digits", "skin2", false},

		{"starts with digit", "2skin", true},
		{"starts with dash", "-skin", true},
		{"with dot", "my.skin", true},
		{"with slash", "skins/dark", true},
		{"spaces", "my skin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSkin(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSkin(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("ValidateSkin(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidWaveJSON,
		ErrCodeInvalidConfig,
		ErrCodeInvalidWidth,
		ErrCodeInvalidName,
		ErrCodeInvalidSurface,
		ErrCodeInvalidPath,
		ErrCodeRenderFailed,
		ErrCodeConvertFailed,
		ErrCodeRestyleFailed,
		ErrCodeNotFound,
		ErrCodeRendererNotFound,
		ErrCodeArtifactNotFound,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
