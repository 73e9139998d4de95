package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/srg/hilt/pkg/firmware"
	"github.com/srg/hilt/pkg/metrics"
)

// sizeDiffCmd represents the size-diff command
var sizeDiffCmd = &cobra.Command{
	Use:   "size-diff",
	Short: "Verify the SoftAP binary-size regression between two builds",
	Long: `Compare two firmware builds of the same app - one with SoftAP
support compiled in, one without - and verify that disabling SoftAP saves
more than the per-target threshold.

When sdkconfig paths are given, the command first confirms each image really
is the variant it claims to be. The measured delta is always emitted as the
` + firmware.SoftAPSizeMetric + ` performance metric.`,
	RunE: runSizeDiff,
}

var (
	sizeDiffWith             string
	sizeDiffWithout          string
	sizeDiffWithSdkconfig    string
	sizeDiffWithoutSdkconfig string
	sizeDiffTarget           string
	sizeDiffMetricsOut       string
)

func init() {
	sizeDiffCmd.Flags().StringVar(&sizeDiffWith, "with", "", "Firmware image built with SoftAP support")
	sizeDiffCmd.Flags().StringVar(&sizeDiffWithout, "without", "", "Firmware image built without SoftAP support")
	sizeDiffCmd.Flags().StringVar(&sizeDiffWithSdkconfig, "with-sdkconfig", "", "sdkconfig of the SoftAP build (optional variant verification)")
	sizeDiffCmd.Flags().StringVar(&sizeDiffWithoutSdkconfig, "without-sdkconfig", "", "sdkconfig of the no-SoftAP build (optional variant verification)")
	sizeDiffCmd.Flags().StringVarP(&sizeDiffTarget, "target", "t", "", "Target chip identifier (threshold lookup)")
	sizeDiffCmd.Flags().StringVar(&sizeDiffMetricsOut, "metrics-out", "", "File to append performance metrics to (default stdout)")
	sizeDiffCmd.MarkFlagRequired("with")
	sizeDiffCmd.MarkFlagRequired("without")
	sizeDiffCmd.MarkFlagRequired("target")
}

func runSizeDiff(cmd *cobra.Command, args []string) error {
	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true

	withImg, err := firmware.LoadAppImage(sizeDiffWith, sizeDiffWithSdkconfig)
	if err != nil {
		return err
	}
	withoutImg, err := firmware.LoadAppImage(sizeDiffWithout, sizeDiffWithoutSdkconfig)
	if err != nil {
		return err
	}

	recorder := metrics.NewRecorder(logger)
	delta, checkErr := firmware.CheckSoftAPSizeSaving(withImg, withoutImg, sizeDiffTarget, nil)
	if delta != 0 || checkErr == nil {
		recorder.RecordBytes(firmware.SoftAPSizeMetric, delta)
	}

	if err := flushMetrics(recorder); err != nil {
		return err
	}
	if checkErr != nil {
		return checkErr
	}

	fmt.Printf("OK: disabling SoftAP saves %d bytes on %s\n", delta, sizeDiffTarget)
	return nil
}

func flushMetrics(recorder *metrics.Recorder) error {
	if sizeDiffMetricsOut == "" {
		return recorder.Flush(os.Stdout)
	}

	f, err := os.OpenFile(sizeDiffMetricsOut, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open metrics file: %w", err)
	}
	defer f.Close()
	return recorder.Flush(f)
}
