package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SizeDiffTestSuite struct {
	suite.Suite

	originalFlags struct {
		with, without       string
		withCfg, withoutCfg string
		target, metrics     string
	}
}

func (suite *SizeDiffTestSuite) SetupSuite() {
	suite.originalFlags.with = sizeDiffWith
	suite.originalFlags.without = sizeDiffWithout
	suite.originalFlags.withCfg = sizeDiffWithSdkconfig
	suite.originalFlags.withoutCfg = sizeDiffWithoutSdkconfig
	suite.originalFlags.target = sizeDiffTarget
	suite.originalFlags.metrics = sizeDiffMetricsOut
}

func (suite *SizeDiffTestSuite) TearDownSuite() {
	sizeDiffWith = suite.originalFlags.with
	sizeDiffWithout = suite.originalFlags.without
	sizeDiffWithSdkconfig = suite.originalFlags.withCfg
	sizeDiffWithoutSdkconfig = suite.originalFlags.withoutCfg
	sizeDiffTarget = suite.originalFlags.target
	sizeDiffMetricsOut = suite.originalFlags.metrics
}

func (suite *SizeDiffTestSuite) SetupTest() {
	sizeDiffWith = ""
	sizeDiffWithout = ""
	sizeDiffWithSdkconfig = ""
	sizeDiffWithoutSdkconfig = ""
	sizeDiffTarget = ""
	sizeDiffMetricsOut = ""
}

// writeBin creates a firmware image file of exactly size bytes.
func (suite *SizeDiffTestSuite) writeBin(name string, size int) string {
	path := filepath.Join(suite.T().TempDir(), name)
	suite.Require().NoError(os.WriteFile(path, bytes.Repeat([]byte{0xe9}, size), 0o644))
	return path
}

func (suite *SizeDiffTestSuite) TestPassingDeltaEmitsMetric() {
	sizeDiffWith = suite.writeBin("with.bin", 150000)
	sizeDiffWithout = suite.writeBin("without.bin", 100000)
	sizeDiffTarget = "esp32"
	sizeDiffMetricsOut = filepath.Join(suite.T().TempDir(), "metrics.txt")

	err := runSizeDiff(sizeDiffCmd, nil)

	suite.Require().NoError(err)
	data, readErr := os.ReadFile(sizeDiffMetricsOut)
	suite.Require().NoError(readErr)
	suite.Contains(string(data), "wifi_disable_softap_save_bin_size=50000 bytes")
}

func (suite *SizeDiffTestSuite) TestFailingDeltaStillEmitsMetric() {
	// 10000 bytes saved is below every threshold.
	sizeDiffWith = suite.writeBin("with.bin", 110000)
	sizeDiffWithout = suite.writeBin("without.bin", 100000)
	sizeDiffTarget = "esp32s3"
	sizeDiffMetricsOut = filepath.Join(suite.T().TempDir(), "metrics.txt")

	err := runSizeDiff(sizeDiffCmd, nil)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "10000 bytes")

	data, readErr := os.ReadFile(sizeDiffMetricsOut)
	suite.Require().NoError(readErr)
	suite.Contains(string(data), "wifi_disable_softap_save_bin_size=10000 bytes")
}

func (suite *SizeDiffTestSuite) TestMissingImage() {
	sizeDiffWith = "/nonexistent/with.bin"
	sizeDiffWithout = suite.writeBin("without.bin", 100)
	sizeDiffTarget = "esp32"

	err := runSizeDiff(sizeDiffCmd, nil)

	suite.Error(err)
}

func TestSizeDiffTestSuite(t *testing.T) {
	suite.Run(t, new(SizeDiffTestSuite))
}
