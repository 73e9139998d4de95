package firmware

import (
	"fmt"
)

// SoftAPSupportKey is the sdkconfig option whose presence the size check is
// measuring.
const SoftAPSupportKey = "ESP_WIFI_SOFTAP_SUPPORT"

// SoftAPSizeMetric is the performance metric name consumed by external
// reporting.
const SoftAPSizeMetric = "wifi_disable_softap_save_bin_size"

// SizeDeltaThresholds maps a target chip to the minimum byte saving expected
// from compiling SoftAP support out. The "default" entry is the fallback for
// targets not listed.
type SizeDeltaThresholds map[string]int64

// DefaultSizeDeltaThresholds holds the observed savings floor per target:
// roughly 45K saved on esp32s2/s3, 50K elsewhere.
var DefaultSizeDeltaThresholds = SizeDeltaThresholds{
	"esp32s2": 40 * 1000,
	"esp32s3": 40 * 1000,
	"default": 45 * 1000,
}

// For returns the threshold for a target, falling back to "default".
func (t SizeDeltaThresholds) For(target string) int64 {
	if v, ok := t[target]; ok {
		return v
	}
	return t["default"]
}

// CheckSoftAPSizeSaving verifies that disabling SoftAP support shrinks the
// firmware by more than the target's threshold (strict inequality). When
// both images carry an sdkconfig, it first confirms the builds are the
// variants they claim to be. The measured delta is returned even on failure
// so callers can record it as a metric.
func CheckSoftAPSizeSaving(withSoftAP, withoutSoftAP *AppImage, target string, thresholds SizeDeltaThresholds) (int64, error) {
	if thresholds == nil {
		thresholds = DefaultSizeDeltaThresholds
	}

	if withSoftAP.Sdkconfig != nil && !withSoftAP.Sdkconfig.Bool(SoftAPSupportKey) {
		return 0, fmt.Errorf("image %s was built without %s, expected the SoftAP variant", withSoftAP.BinPath, SoftAPSupportKey)
	}
	if withoutSoftAP.Sdkconfig != nil && withoutSoftAP.Sdkconfig.Bool(SoftAPSupportKey) {
		return 0, fmt.Errorf("image %s was built with %s, expected the no-SoftAP variant", withoutSoftAP.BinPath, SoftAPSupportKey)
	}

	withSize, err := withSoftAP.Size()
	if err != nil {
		return 0, err
	}
	withoutSize, err := withoutSoftAP.Size()
	if err != nil {
		return 0, err
	}

	delta := withSize - withoutSize
	threshold := thresholds.For(target)
	if delta <= threshold {
		return delta, fmt.Errorf("disabling SoftAP saved only %d bytes on %s, expected more than %d", delta, target, threshold)
	}
	return delta, nil
}
