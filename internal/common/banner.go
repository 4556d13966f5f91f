package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner.
func PrintBanner(config Config, logger arbor.ILogger) {
	version := GetVersion()
	build := GetBuild()

	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Printf("\n")
	b.PrintTopLine()
	b.PrintCenteredText("BATCHPDF")
	b.PrintCenteredText("PDF Batch Processing Engine")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 15)
	b.PrintKeyValue("Build", build, 15)
	b.PrintKeyValue("Workers", fmt.Sprintf("%d", config.Engine.WorkerCount), 15)
	b.PrintKeyValue("Temp Dir", config.Engine.TempDir, 15)
	b.PrintBottomLine()
	fmt.Printf("\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Int("worker_count", config.Engine.WorkerCount).
		Str("temp_dir", config.Engine.TempDir).
		Msg("batch engine started")

	printCapabilities(config, logger)
	fmt.Printf("\n")
}

// printCapabilities displays and logs the engine configuration.
func printCapabilities(config Config, logger arbor.ILogger) {
	fmt.Printf("Configuration:\n")
	fmt.Printf("   - worker pool size: %d\n", config.Engine.WorkerCount)
	fmt.Printf("   - job retention: %s\n", config.Engine.CleanupMaxAge)
	fmt.Printf("   - stop on first file error: %v\n", config.Engine.StopOnError)

	logger.Info().
		Int("worker_count", config.Engine.WorkerCount).
		Dur("cleanup_max_age", config.Engine.CleanupMaxAge).
		Bool("stop_on_error", config.Engine.StopOnError).
		Msg("engine configuration loaded")
}

// PrintShutdownBanner displays the application shutdown banner.
func PrintShutdownBanner(logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(42)

	b.PrintTopLine()
	b.PrintCenteredText("SHUTTING DOWN")
	b.PrintCenteredText("BATCHPDF")
	b.PrintBottomLine()
	fmt.Println()

	logger.Info().Msg("batch engine shutting down")
}

// PrintColorizedMessage prints a message with specified color. It does not
// log; the logger argument is unused and callers log separately.
func PrintColorizedMessage(color, message string, logger arbor.ILogger) {
	fmt.Printf("%s%s%s\n", color, message, banner.ColorReset)
}

// PrintSuccess prints a success message in green and logs it.
func PrintSuccess(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorGreen, fmt.Sprintf("[ok] %s", message), logger)
	logger.Info().Str("type", "success").Msg(message)
}

// PrintError prints an error message in red and logs it.
func PrintError(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorRed, fmt.Sprintf("[error] %s", message), logger)
	logger.Error().Str("type", "error").Msg(message)
}

// PrintWarning prints a warning message in yellow and logs it.
func PrintWarning(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorYellow, fmt.Sprintf("[warn] %s", message), logger)
	logger.Warn().Str("type", "warning").Msg(message)
}
