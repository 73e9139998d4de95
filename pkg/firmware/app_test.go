package firmware_test

import (
	"testing"

	"github.com/srg/hilt/pkg/firmware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSdkconfig = `#
# Automatically generated file. DO NOT EDIT.
#
CONFIG_IDF_TARGET="esp32c3"
CONFIG_ESP_WIFI_SOFTAP_SUPPORT=y
CONFIG_ESP_WIFI_SSID="testnet"
CONFIG_HTTPD_MAX_REQ_HDR_LEN=512
# CONFIG_BLE_ENABLED is not set
`

func TestLoadSdkconfig(t *testing.T) {
	path := writeSdkconfig(t, sampleSdkconfig)
	cfg, err := firmware.LoadSdkconfig(path)
	require.NoError(t, err)

	t.Run("enabled bool reads true", func(t *testing.T) {
		assert.True(t, cfg.Bool("ESP_WIFI_SOFTAP_SUPPORT"))
		assert.True(t, cfg.Bool("CONFIG_ESP_WIFI_SOFTAP_SUPPORT"), "full key form works too")
	})

	t.Run("'is not set' comment reads false", func(t *testing.T) {
		assert.False(t, cfg.Bool("BLE_ENABLED"))
	})

	t.Run("absent key reads false", func(t *testing.T) {
		assert.False(t, cfg.Bool("NO_SUCH_OPTION"))
	})

	t.Run("string values are unquoted", func(t *testing.T) {
		assert.Equal(t, "esp32c3", cfg.String("IDF_TARGET"))
		assert.Equal(t, "testnet", cfg.String("ESP_WIFI_SSID"))
	})
}

func TestLoadSdkconfigMissingFile(t *testing.T) {
	_, err := firmware.LoadSdkconfig("/nonexistent/sdkconfig")
	assert.Error(t, err)
}

func TestLoadAppImage(t *testing.T) {
	t.Run("missing binary is an error", func(t *testing.T) {
		_, err := firmware.LoadAppImage("/nonexistent/app.bin", "")
		assert.Error(t, err)
	})

	t.Run("size reports the on-disk byte count", func(t *testing.T) {
		img, err := firmware.LoadAppImage(writeBin(t, "app.bin", 12345), "")
		require.NoError(t, err)

		size, err := img.Size()
		require.NoError(t, err)
		assert.Equal(t, int64(12345), size)
		assert.Nil(t, img.Sdkconfig)
	})

	t.Run("sdkconfig is attached when provided", func(t *testing.T) {
		img, err := firmware.LoadAppImage(writeBin(t, "app.bin", 10), writeSdkconfig(t, sampleSdkconfig))
		require.NoError(t, err)
		require.NotNil(t, img.Sdkconfig)
		assert.True(t, img.Sdkconfig.Bool("ESP_WIFI_SOFTAP_SUPPORT"))
	})
}
