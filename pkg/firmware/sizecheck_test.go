package firmware_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/srg/hilt/pkg/firmware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeBin creates a firmware image file of exactly size bytes.
func writeBin(t *testing.T, name string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xe9}, int(size)), 0o644))
	return path
}

func writeSdkconfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sdkconfig")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadImage(t *testing.T, bin, sdkconfig string) *firmware.AppImage {
	t.Helper()
	img, err := firmware.LoadAppImage(bin, sdkconfig)
	require.NoError(t, err)
	return img
}

func TestThresholdFallsBackToDefault(t *testing.T) {
	tests := []struct {
		target string
		want   int64
	}{
		{"esp32s2", 40000},
		{"esp32s3", 40000},
		{"esp32", 45000},
		{"esp32c2", 45000},
		{"esp32c61", 45000},
		{"some-future-chip", 45000},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, firmware.DefaultSizeDeltaThresholds.For(tt.target))
		})
	}
}

func TestCheckSoftAPSizeSavingPassesAboveThreshold(t *testing.T) {
	with := loadImage(t, writeBin(t, "with.bin", 146001), "")
	without := loadImage(t, writeBin(t, "without.bin", 100000), "")

	delta, err := firmware.CheckSoftAPSizeSaving(with, without, "esp32", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(46001), delta)
}

func TestCheckSoftAPSizeSavingIsStrictInequality(t *testing.T) {
	// Delta exactly equal to the threshold must fail.
	with := loadImage(t, writeBin(t, "with.bin", 145000), "")
	without := loadImage(t, writeBin(t, "without.bin", 100000), "")

	delta, err := firmware.CheckSoftAPSizeSaving(with, without, "esp32", nil)

	require.Error(t, err)
	assert.Equal(t, int64(45000), delta)
	assert.Contains(t, err.Error(), "45000 bytes")
}

func TestCheckSoftAPSizeSavingUsesTargetThreshold(t *testing.T) {
	// 42000 saved: above the esp32s2 threshold, below the default one.
	with := loadImage(t, writeBin(t, "with.bin", 142000), "")
	without := loadImage(t, writeBin(t, "without.bin", 100000), "")

	_, err := firmware.CheckSoftAPSizeSaving(with, without, "esp32s2", nil)
	assert.NoError(t, err)

	_, err = firmware.CheckSoftAPSizeSaving(with, without, "esp32", nil)
	assert.Error(t, err)
}

func TestCheckSoftAPSizeSavingVerifiesBuildVariants(t *testing.T) {
	withCfg := writeSdkconfig(t, "CONFIG_ESP_WIFI_SOFTAP_SUPPORT=y\n")
	withoutCfg := writeSdkconfig(t, "# CONFIG_ESP_WIFI_SOFTAP_SUPPORT is not set\n")

	with := loadImage(t, writeBin(t, "with.bin", 150000), withCfg)
	without := loadImage(t, writeBin(t, "without.bin", 100000), withoutCfg)

	t.Run("correct variants pass", func(t *testing.T) {
		_, err := firmware.CheckSoftAPSizeSaving(with, without, "esp32", nil)
		assert.NoError(t, err)
	})

	t.Run("swapped variants are rejected", func(t *testing.T) {
		_, err := firmware.CheckSoftAPSizeSaving(without, with, "esp32", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ESP_WIFI_SOFTAP_SUPPORT")
	})
}

func TestCheckSoftAPSizeSavingCustomThresholds(t *testing.T) {
	with := loadImage(t, writeBin(t, "with.bin", 1001), "")
	without := loadImage(t, writeBin(t, "without.bin", 0), "")

	thresholds := firmware.SizeDeltaThresholds{"default": 1000}
	delta, err := firmware.CheckSoftAPSizeSaving(with, without, "whatever", thresholds)

	require.NoError(t, err)
	assert.Equal(t, int64(1001), delta)
}
