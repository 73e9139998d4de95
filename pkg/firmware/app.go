// Package firmware inspects built firmware images: on-disk size, the
// sdkconfig baked into a build, and the SoftAP size-regression check.
package firmware

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// Sdkconfig is the key/value build configuration of one firmware image,
// parsed from the sdkconfig file the build system leaves next to the binary.
type Sdkconfig struct {
	section *ini.Section
}

// LoadSdkconfig parses an sdkconfig file. Lines like
// "# CONFIG_FOO is not set" are comments, so absent keys read as false.
func LoadSdkconfig(path string) (*Sdkconfig, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sdkconfig %s: %w", path, err)
	}
	return &Sdkconfig{section: f.Section("")}, nil
}

// canonicalKey normalizes a config key to its full CONFIG_ form, so callers
// can use either "ESP_WIFI_SOFTAP_SUPPORT" or "CONFIG_ESP_WIFI_SOFTAP_SUPPORT".
func canonicalKey(key string) string {
	if strings.HasPrefix(key, "CONFIG_") {
		return key
	}
	return "CONFIG_" + key
}

// Bool reports whether the given config option is enabled. ESP-IDF writes
// enabled booleans as "y".
func (s *Sdkconfig) Bool(key string) bool {
	k := s.section.Key(canonicalKey(key))
	switch strings.ToLower(k.String()) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

// String returns the raw value for a config option, unquoted, or "" when
// the option is absent.
func (s *Sdkconfig) String(key string) string {
	return strings.Trim(s.section.Key(canonicalKey(key)).String(), `"`)
}

// AppImage is one built firmware image: the binary plus its build config.
type AppImage struct {
	BinPath   string
	Sdkconfig *Sdkconfig // nil when no sdkconfig was provided
}

// LoadAppImage opens an image. sdkconfigPath may be empty when only the
// binary size matters.
func LoadAppImage(binPath, sdkconfigPath string) (*AppImage, error) {
	if _, err := os.Stat(binPath); err != nil {
		return nil, fmt.Errorf("firmware image not accessible: %w", err)
	}

	img := &AppImage{BinPath: binPath}
	if sdkconfigPath != "" {
		cfg, err := LoadSdkconfig(sdkconfigPath)
		if err != nil {
			return nil, err
		}
		img.Sdkconfig = cfg
	}
	return img, nil
}

// Size returns the image size in bytes.
func (a *AppImage) Size() (int64, error) {
	info, err := os.Stat(a.BinPath)
	if err != nil {
		return 0, fmt.Errorf("failed to stat firmware image %s: %w", a.BinPath, err)
	}
	return info.Size(), nil
}
