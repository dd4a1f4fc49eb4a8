package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// PrintBanner displays the ASCII art startup banner.
func PrintBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	hiCyan := color.New(color.FgHiCyan)
	magenta := color.New(color.FgMagenta, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	fmt.Println()
	cyan.Println("╔════════════════════════════════════════════════════════════════╗")

	cyan.Print("║  ")
	hiCyan.Print("██╗  ██╗███████╗██╗   ██╗")
	magenta.Print("███████╗██╗     ███████╗███████╗████████╗")
	cyan.Println("║")

	cyan.Print("║  ")
	hiCyan.Print("██║ ██╔╝██╔════╝╚██╗ ██╔╝")
	magenta.Print("██╔════╝██║     ██╔════╝██╔════╝╚══██╔══╝")
	cyan.Println("║")

	cyan.Print("║  ")
	hiCyan.Print("█████╔╝ █████╗   ╚████╔╝ ")
	magenta.Print("█████╗  ██║     █████╗  █████╗     ██║   ")
	cyan.Println("║")

	cyan.Print("║  ")
	hiCyan.Print("██╔═██╗ ██╔══╝    ╚██╔╝  ")
	magenta.Print("██╔══╝  ██║     ██╔══╝  ██╔══╝     ██║   ")
	cyan.Println("║")

	cyan.Print("║  ")
	hiCyan.Print("██║  ██╗███████╗   ██║   ")
	magenta.Print("██║     ███████╗███████╗███████╗   ██║   ")
	cyan.Println("║")

	cyan.Print("║  ")
	hiCyan.Print("╚═╝  ╚═╝╚══════╝   ╚═╝   ")
	magenta.Print("╚═╝     ╚══════╝╚══════╝╚══════╝   ╚═╝   ")
	cyan.Println("║")

	cyan.Println("╠════════════════════════════════════════════════════════════════╣")

	cyan.Print("║  ")
	white.Print("CREDENTIAL POOL + FALLBACK GATEWAY")
	dim.Print("  │  ")
	white.Print("v1.0.0")
	dim.Print("                  ")
	cyan.Println("║")

	cyan.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// PrintMiniBanner displays a compact banner for narrow terminals.
func PrintMiniBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)

	fmt.Println()
	cyan.Println("╔══════════════════════════════╗")
	cyan.Print("║  ")
	magenta.Print("KEYFLEET")
	cyan.Print("  fallback gateway  ")
	cyan.Println("║")
	cyan.Println("╚══════════════════════════════╝")
	fmt.Println()
}
