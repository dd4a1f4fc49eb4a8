// Package ui provides styled console output for the keyfleet gateway:
// colorized status badges, pool summaries, and the startup banner.
package ui

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
)

var (
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	errorBadge   = color.New(color.BgRed, color.FgWhite, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)

	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	infoText    = color.New(color.FgCyan)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)
	neonBlue    = color.New(color.FgHiCyan, color.Bold)
)

// PrintGatewayInfo logs general gateway information.
// Format: [FLEET] message
func PrintGatewayInfo(msg string) {
	infoBadge.Print("[FLEET]")
	fmt.Print(" ")
	infoText.Println(msg)
}

// PrintFallback logs a hop along a fallback chain.
// Format: ⚠️ [FALLBACK] fromModel → toModel
func PrintFallback(fromModel, toModel string) {
	fmt.Print("⚠️  ")
	warningBadge.Print("[FALLBACK]")
	fmt.Print(" ")
	mutedText.Print(fromModel)
	warningText.Print(" → ")
	accentText.Println(toModel)
}

// PrintRetiredKey logs a credential being pulled from circulation.
// Format: 💀 [RETIRED] provider/xxxx...xxxx (reason)
func PrintRetiredKey(provider, key, reason string) {
	fmt.Print("💀 ")
	errorBadge.Print(" RETIRED ")
	fmt.Print(" ")
	errorText.Printf("%s/%s", provider, maskKeyShort(key))
	mutedText.Printf(" (%s)\n", reason)
}

// PrintCacheHit logs a cache hit.
// Format: ⚡ CACHE HIT | key:xxxx...xxxx | 0ms
func PrintCacheHit(cacheKey string, latency time.Duration) {
	neonBlue.Print("⚡ CACHE HIT ")
	fmt.Print("| key:")
	mutedText.Print(maskKeyShort(cacheKey))
	fmt.Print(" | ")
	successText.Printf("%dms\n", latency.Milliseconds())
}

// PrintSuccess logs a completed generation.
func PrintSuccess(model string, latency time.Duration) {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Print(model)
	fmt.Print(" ")
	mutedText.Printf("%dms\n", latency.Milliseconds())
}

// PrintStartupInfo prints server address and per-provider pool sizes.
func PrintStartupInfo(host string, port int, keysByProvider map[string]int) {
	fmt.Println()
	infoBadge.Print("[FLEET]")
	fmt.Print(" Server starting on ")
	neonBlue.Printf("http://%s:%d\n", host, port)

	providers := make([]string, 0, len(keysByProvider))
	for p := range keysByProvider {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	infoBadge.Print("[FLEET]")
	fmt.Print(" Credential pools: ")
	if len(providers) == 0 {
		errorText.Println("none configured")
	} else {
		for i, p := range providers {
			if i > 0 {
				mutedText.Print(" | ")
			}
			accentText.Print(p)
			fmt.Print(":")
			n := keysByProvider[p]
			if n > 0 {
				successText.Printf("%d", n)
			} else {
				errorText.Printf("%d", n)
			}
		}
		fmt.Println()
	}

	fmt.Println()
	printEndpoints()
}

func printEndpoints() {
	mutedText.Println("  POST /v1/generate   route a prompt through a fallback group")
	mutedText.Println("  GET  /v1/models     list known models")
	mutedText.Println("  GET  /v1/groups     list fallback groups")
	mutedText.Println("  GET  /health        pool statistics")
	fmt.Println()
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[FLEET]")
	fmt.Print(" ")
	warningText.Println("Shutting down, draining in-flight requests...")
}

// PrintGoodbye prints a farewell message after a clean shutdown.
func PrintGoodbye() {
	infoBadge.Print("[FLEET]")
	fmt.Print(" ")
	infoText.Println("Goodbye.")
	fmt.Println()
}

// maskKeyShort returns a short masked version of a key or hash.
// Format: xxxx...xxxx
func maskKeyShort(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
